package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"chatpdf/internal/service"
	"chatpdf/internal/service/mocks"
)

func TestIndexHandler_Status(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockController := mocks.NewMockController(ctrl)
	mockController.EXPECT().Session("s1").Return(&service.Session{ID: "s1"}, nil)
	mockController.EXPECT().State("s1").Return(service.StateUnindexed)
	mockController.EXPECT().Status(gomock.Any()).Return(service.IndexStatus{LastError: "no documents found"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/index", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "s1"})
	w := httptest.NewRecorder()
	NewIndexHandler(mockController).Status(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp IndexResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.State != "unindexed" || resp.Index.LastError != "no documents found" {
		t.Errorf("response = %+v", resp)
	}
}

func TestIndexHandler_StatusRequiresLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockController := mocks.NewMockController(ctrl)
	mockController.EXPECT().Session("").Return(nil, service.ErrUnauthenticated)

	w := httptest.NewRecorder()
	NewIndexHandler(mockController).Status(w, httptest.NewRequest(http.MethodGet, "/api/v1/index", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestIndexHandler_Prepare(t *testing.T) {
	tests := []struct {
		name       string
		state      service.State
		err        error
		wantStatus int
	}{
		{"built", service.StateIndexed, nil, http.StatusOK},
		{"not logged in", service.StateLoggedOut, service.ErrUnauthenticated, http.StatusUnauthorized},
		{"no documents", service.StateUnindexed, service.ErrNoDocuments, http.StatusConflict},
		{"parse failure", service.StateUnindexed, service.ErrDocumentParse, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockController := mocks.NewMockController(ctrl)
			mockController.EXPECT().Prepare(gomock.Any(), "s1").Return(tt.state, tt.err)
			if tt.err == nil {
				mockController.EXPECT().Status(gomock.Any()).Return(service.IndexStatus{Built: true, Segments: 2})
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/index", nil)
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "s1"})
			w := httptest.NewRecorder()
			NewIndexHandler(mockController).Prepare(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.err == nil {
				var resp IndexResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if resp.State != "indexed" || !resp.Index.Built {
					t.Errorf("response = %+v", resp)
				}
			}
		})
	}
}
