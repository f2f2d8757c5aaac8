package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/relnote/pkg/domain/interfaces"
	"github.com/m-mizutani/relnote/pkg/domain/model"
	"github.com/m-mizutani/relnote/pkg/domain/types"
)

// ReleaseHandler serves release notes and force refresh requests
type ReleaseHandler struct {
	releaseUC interfaces.ReleaseNotesUseCase
}

// NewReleaseHandler creates a new ReleaseHandler
func NewReleaseHandler(releaseUC interfaces.ReleaseNotesUseCase) *ReleaseHandler {
	return &ReleaseHandler{
		releaseUC: releaseUC,
	}
}

// GetReleaseNotes returns the reduced release notes record as JSON. Any
// upstream failure surfaces as not-found; the distinction between a missing
// tag and a transport error is not exposed.
func (h *ReleaseHandler) GetReleaseNotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	org := chi.URLParam(r, "org")
	repo := chi.URLParam(r, "repo")
	sel := model.ParseSelector(r.URL.Query().Get("tag"))

	notes, err := h.releaseUC.GetReleaseNotes(ctx, org, repo, sel)
	if err != nil {
		writeError(w, goerr.New("release not found"), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(notes); err != nil {
		ctxlog.From(ctx).Error("Failed to encode release notes response", "error", err)
	}
}

// ForceRefresh re-fetches the selected release regardless of cache state.
// The response body is empty; the status code alone communicates the
// outcome.
func (h *ReleaseHandler) ForceRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	org := chi.URLParam(r, "org")
	repo := chi.URLParam(r, "repo")
	sel := model.ParseSelector(r.URL.Query().Get("tag"))

	if err := h.releaseUC.ForceRefresh(ctx, org, repo, sel); err != nil {
		if goerr.HasTag(err, types.TagNotFound) {
			w.WriteHeader(http.StatusNotFound)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}
