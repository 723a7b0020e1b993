package handler

import (
	"net/http"
	"strings"

	mw "github.com/rishabhsai/linkscope/internal/http/middleware"
	"github.com/rishabhsai/linkscope/internal/link"
	"github.com/rishabhsai/linkscope/internal/logger"
)

// List returns the caller's view of the collection: shared active/archived
// records plus their own todos, run through the tab/search/tag filters.
func (h *LinksHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := mw.UsernameFromContext(r.Context())

	tab := link.Tab(strings.TrimSpace(r.URL.Query().Get("tab")))
	if tab != link.TabTodos {
		tab = link.TabLinks
	}
	q := r.URL.Query().Get("q")
	tag := r.URL.Query().Get("tag")

	records, err := h.Svc.List(r.Context(), user)
	if err != nil {
		h.Log.Error("list links failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusOK, link.VisibleSet(records, tab, q, tag))
}

// Search runs the match in the database instead of the view pipeline:
// ILIKE over url/summary/title plus exact tag containment. An empty query
// degrades to the plain visible list.
func (h *LinksHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, _ := mw.UsernameFromContext(r.Context())

	records, err := h.Svc.Search(r.Context(), user, r.URL.Query().Get("q"))
	if err != nil {
		h.Log.Error("search links failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// Export serializes the caller's full visible collection as CSV or JSON.
func (h *LinksHandler) Export(w http.ResponseWriter, r *http.Request) {
	user, _ := mw.UsernameFromContext(r.Context())

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "csv"
	}

	records, err := h.Svc.List(r.Context(), user)
	if err != nil {
		h.Log.Error("export links failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="links.csv"`)
		if err := link.ExportCSV(w, records); err != nil {
			h.Log.Error("csv export failed", logger.Error(err))
		}
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="links.json"`)
		if err := link.ExportJSON(w, records); err != nil {
			h.Log.Error("json export failed", logger.Error(err))
		}
	default:
		writeError(w, http.StatusBadRequest, "unknown export format")
	}
}
