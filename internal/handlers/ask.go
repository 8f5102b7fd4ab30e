package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"chatpdf/internal/contextutil"
	"chatpdf/internal/service"
)

// AskHandler handles JSON question requests for logged-in sessions.
type AskHandler struct {
	controller service.Controller
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(controller service.Controller) *AskHandler {
	return &AskHandler{controller: controller}
}

// AskRequest represents the HTTP request payload for questions.
//
// swagger:model AskRequest
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse represents the HTTP response payload for questions.
//
// swagger:model AskResponse
type AskResponse struct {
	// The generated answer
	Answer string `json:"answer"`

	// Segments given to the model, best match first
	Sources []SourceResponse `json:"sources"`

	// Index contains build statistics when debug mode is enabled.
	Index *service.IndexStatus `json:"index,omitempty"`
}

// SourceResponse represents one retrieved segment in the HTTP response.
//
// swagger:model SourceResponse
type SourceResponse struct {
	SegmentID  string  `json:"segment_id"`
	Source     string  `json:"source"`
	Page       int     `json:"page"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float32 `json:"score"`
}

// ServeHTTP handles HTTP requests for questions.
//
// swagger:route POST /api/v1/ask askQuestion
//
// # Ask a question about the documents
//
// Requires the session cookie set by POST /login. The first call builds the
// index if no request has built it yet. Use the `debug=true` query parameter
// to include index build statistics.
//
// responses:
//
//	'200': AskResponse
//	'400': ErrorResponse
//	'401': ErrorResponse
//	'409': ErrorResponse
//	'500': ErrorResponse
//	'502': ErrorResponse
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id := sessionID(r)
	if _, err := h.controller.Session(id); err != nil {
		writeError(w, http.StatusUnauthorized, "Login required")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		logger.WarnContext(ctx, "empty question in request")
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}

	if _, err := h.controller.Prepare(ctx, id); err != nil {
		logger.WarnContext(ctx, "index not ready", "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	resp, err := h.controller.Ask(ctx, id, req.Question)
	if err != nil {
		logger.ErrorContext(ctx, "question failed", "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	out := AskResponse{
		Answer:  resp.Answer,
		Sources: make([]SourceResponse, len(resp.Sources)),
	}
	for i, s := range resp.Sources {
		out.Sources[i] = SourceResponse{
			SegmentID:  s.SegmentID,
			Source:     s.Source,
			Page:       s.Page,
			ChunkIndex: s.ChunkIndex,
			Text:       s.Text,
			Score:      s.Score,
		}
	}
	if debug := r.URL.Query().Get("debug"); strings.EqualFold(debug, "true") || debug == "1" {
		status := h.controller.Status(ctx)
		out.Index = &status
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
