package handlers

import (
	"encoding/json"
	"net/http"

	"chatpdf/internal/contextutil"
	"chatpdf/internal/service"
)

// IndexHandler reports the process index and lets API clients trigger the
// one-time build without asking a question.
type IndexHandler struct {
	controller service.Controller
}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler(controller service.Controller) *IndexHandler {
	return &IndexHandler{controller: controller}
}

// IndexResponse represents the response from the index endpoints.
type IndexResponse struct {
	State string              `json:"state"`
	Index service.IndexStatus `json:"index"`
}

// Status handles GET /api/v1/index.
func (h *IndexHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if _, err := h.controller.Session(id); err != nil {
		writeError(w, http.StatusUnauthorized, "Login required")
		return
	}
	h.writeStatus(w, r, http.StatusOK, h.controller.State(id))
}

// Prepare handles POST /api/v1/index. The build runs synchronously; a built
// index is never rebuilt.
func (h *IndexHandler) Prepare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id := sessionID(r)
	state, err := h.controller.Prepare(ctx, id)
	if err != nil {
		logger.WarnContext(ctx, "index build request failed", "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	h.writeStatus(w, r, http.StatusOK, state)
}

func (h *IndexHandler) writeStatus(w http.ResponseWriter, r *http.Request, code int, state service.State) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(IndexResponse{
		State: state.String(),
		Index: h.controller.Status(r.Context()),
	})
}
