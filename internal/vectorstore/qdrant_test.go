package vectorstore

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

func TestGRPCAddress(t *testing.T) {
	tests := []struct {
		name     string
		urlStr   string
		wantErr  bool
		wantHost string
		wantPort int
	}{
		{
			name:     "valid URL",
			urlStr:   "http://localhost:6333",
			wantHost: "localhost",
			wantPort: 6334,
		},
		{
			name:     "URL with custom port",
			urlStr:   "http://qdrant:9000",
			wantHost: "qdrant",
			wantPort: 9001,
		},
		{
			name:    "invalid URL",
			urlStr:  "://invalid",
			wantErr: true,
		},
		{
			name:     "URL without port",
			urlStr:   "http://localhost",
			wantHost: "localhost",
			wantPort: 6334,
		},
		{
			name:     "URL without hostname",
			urlStr:   "http://:6333",
			wantHost: "localhost",
			wantPort: 6334,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, err := grpcAddress(tt.urlStr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("grpcAddress() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if host != tt.wantHost {
				t.Errorf("grpcAddress() host = %v, want %v", host, tt.wantHost)
			}
			if port != tt.wantPort {
				t.Errorf("grpcAddress() port = %v, want %v", port, tt.wantPort)
			}
		})
	}
}

func TestConvertPayloadToMap(t *testing.T) {
	payload := qdrant.NewValueMap(map[string]any{
		"source": "contract.pdf",
		"page":   2,
		"seq":    7,
	})

	got := convertPayloadToMap(payload)

	if got["source"] != "contract.pdf" {
		t.Errorf("source = %v, want contract.pdf", got["source"])
	}
	if got["page"] != int64(2) {
		t.Errorf("page = %v (%T), want int64(2)", got["page"], got["page"])
	}
	if got["seq"] != int64(7) {
		t.Errorf("seq = %v (%T), want int64(7)", got["seq"], got["seq"])
	}
}
