package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"chatpdf/internal/service"
	"chatpdf/internal/service/mocks"
	vectorstore_mocks "chatpdf/internal/vectorstore/mocks"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name        string
		built       bool
		exists      bool
		existsErr   error
		wantStatus  int
		wantOverall string
		wantVector  string
	}{
		{"built and reachable", true, true, nil, http.StatusOK, "healthy", "ok"},
		{"not built yet", false, false, nil, http.StatusOK, "healthy", "pending"},
		{"built but collection gone", true, false, nil, http.StatusServiceUnavailable, "unhealthy", "error"},
		{"built but store down", true, false, errors.New("connection refused"), http.StatusServiceUnavailable, "unhealthy", "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockController := mocks.NewMockController(ctrl)
			vectors := vectorstore_mocks.NewMockVectorStore(ctrl)
			mockController.EXPECT().Status(gomock.Any()).Return(service.IndexStatus{Built: tt.built})
			vectors.EXPECT().CollectionExists(gomock.Any(), "segments").Return(tt.exists, tt.existsErr)

			w := httptest.NewRecorder()
			NewHealthHandler(vectors, mockController, "segments").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantOverall || resp.Checks["vector_store"] != tt.wantVector {
				t.Errorf("response = %+v", resp)
			}
			if resp.Timestamp == "" {
				t.Error("missing timestamp")
			}
		})
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewHealthHandler(vectorstore_mocks.NewMockVectorStore(ctrl), mocks.NewMockController(ctrl), "segments")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
