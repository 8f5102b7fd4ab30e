package handlers

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		contains  []string
		forbidden []string
	}{
		{
			name:     "paragraph",
			src:      "Termination requires 60 days notice.",
			contains: []string{"<p>Termination requires 60 days notice.</p>"},
		},
		{
			name:     "emphasis and list",
			src:      "**Prazo:**\n\n- 30 dias\n- 60 dias",
			contains: []string{"<strong>Prazo:</strong>", "<li>30 dias</li>", "<li>60 dias</li>"},
		},
		{
			name:      "raw html dropped",
			src:       "Answer <script>alert(1)</script> here",
			forbidden: []string{"<script>"},
		},
		{
			name:      "javascript link dropped",
			src:       "[click](javascript:alert(1))",
			forbidden: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderMarkdown(tt.src)
			if err != nil {
				t.Fatalf("renderMarkdown() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(string(got), want) {
					t.Errorf("renderMarkdown() = %q, want to contain %q", got, want)
				}
			}
			for _, bad := range tt.forbidden {
				if strings.Contains(string(got), bad) {
					t.Errorf("renderMarkdown() = %q, must not contain %q", got, bad)
				}
			}
		})
	}
}
