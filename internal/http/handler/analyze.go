package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rishabhsai/linkscope/internal/analyzer"
	"github.com/rishabhsai/linkscope/internal/logger"
)

// AnalyzeHandler is the same-origin proxy in front of the chat-completion
// endpoint. It holds the credential server-side and relays the raw upstream
// JSON body; extracting choices[0].message.content stays with the caller.
type AnalyzeHandler struct {
	AI  *analyzer.Client
	Log logger.Logger
}

func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if !h.AI.Configured() {
		writeError(w, http.StatusInternalServerError, "OpenAI API key not configured")
		return
	}

	var req analyzer.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "Missing url")
		return
	}

	status, raw, err := h.AI.Complete(r.Context(), req)
	if err != nil {
		h.Log.Error("analyze proxy failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to call OpenAI API")
		return
	}
	if status < 200 || status > 299 {
		h.Log.Error("upstream rejected analyze request",
			logger.Int("status", status))
		writeError(w, status, "OpenAI API error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
