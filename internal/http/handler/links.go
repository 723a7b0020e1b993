package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rishabhsai/linkscope/internal/analyzer"
	mw "github.com/rishabhsai/linkscope/internal/http/middleware"
	"github.com/rishabhsai/linkscope/internal/link"
	"github.com/rishabhsai/linkscope/internal/logger"
	"github.com/rishabhsai/linkscope/internal/workers"
)

type LinksHandler struct {
	Svc     *link.Service
	AI      *analyzer.Client
	Tracker *workers.AccessTracker
	Log     logger.Logger
}

type createLinkReq struct {
	URL     string      `json:"url"`
	Title   *string     `json:"title"`
	Summary string      `json:"summary"`
	Tags    []string    `json:"tags"`
	Context *string     `json:"context"`
	Status  link.Status `json:"status"`
	Order   *int        `json:"order"`

	// Analyze selects the AI path: summary and tags come from the adapter
	// instead of the request body.
	Analyze bool `json:"analyze"`
}

func (h *LinksHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := mw.UsernameFromContext(r.Context())

	var req createLinkReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	in := link.CreateInput{
		URL:           req.URL,
		Title:         req.Title,
		Summary:       req.Summary,
		Tags:          req.Tags,
		Context:       req.Context,
		Status:        req.Status,
		Position:      req.Order,
		ManuallyAdded: !req.Analyze,
	}

	if req.Analyze {
		ai := h.AI
		if key := strings.TrimSpace(r.Header.Get("X-OpenAI-Key")); key != "" {
			ai = ai.WithKey(key)
		}
		if !ai.Configured() {
			writeError(w, http.StatusInternalServerError, "OpenAI API key not configured")
			return
		}

		normalized := link.NormalizeURL(req.URL)
		typ, platform := link.Classify(normalized)

		analysis, err := ai.Analyze(r.Context(), analyzer.Request{
			URL:      normalized,
			Context:  derefOrEmpty(req.Context),
			Type:     string(typ),
			Platform: string(platform),
		})
		if err != nil {
			h.Log.Error("link analysis failed", logger.Error(err))
			writeError(w, http.StatusBadGateway, "failed to analyze link")
			return
		}
		in.Summary = analysis.Summary
		in.Tags = analysis.Tags
	}

	rec, err := h.Svc.Create(r.Context(), user, in)
	if err != nil {
		if errors.Is(err, link.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error("create link failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

type updateLinkReq struct {
	Title       *string      `json:"title"`
	Summary     *string      `json:"summary"`
	Tags        *[]string    `json:"tags"`
	Context     *string      `json:"context"`
	Status      *link.Status `json:"status"`
	Order       *int         `json:"order"`
	Thumbnail   *string      `json:"thumbnail"`
	Description *string      `json:"description"`
	DueDate     *time.Time   `json:"dueDate"`
	Priority    *string      `json:"priority"`
}

func (h *LinksHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := mw.UsernameFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req updateLinkReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	rec, err := h.Svc.Update(r.Context(), id, user, link.UpdateInput{
		Title:       req.Title,
		Summary:     req.Summary,
		Tags:        req.Tags,
		Context:     req.Context,
		Status:      req.Status,
		Position:    req.Order,
		Thumbnail:   req.Thumbnail,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
	})
	if err != nil {
		switch {
		case errors.Is(err, link.ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, link.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.Log.Error("update link failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *LinksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := mw.UsernameFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.Svc.Delete(r.Context(), id, user); err != nil {
		if errors.Is(err, link.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		h.Log.Error("delete link failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Access registers that the record's URL was opened. Always accepted:
// tracking failures are logged by the worker, never surfaced here.
func (h *LinksHandler) Access(w http.ResponseWriter, r *http.Request) {
	h.Tracker.Track(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusAccepted)
}

func (h *LinksHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	user, _ := mw.UsernameFromContext(r.Context())

	var updates []link.ReorderUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	// Each pair is applied independently: a failure here does not roll
	// back the pairs that already landed.
	if err := h.Svc.Reorder(r.Context(), user, updates); err != nil {
		h.Log.Error("reorder batch partially failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "reorder failed for some records")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
