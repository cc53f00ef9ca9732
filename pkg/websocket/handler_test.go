package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{"listed origin", "https://app.cleanwave.org", []string{"https://app.cleanwave.org"}, true},
		{"listed origin, case differs", "https://APP.cleanwave.org", []string{"https://app.cleanwave.org"}, true},
		{"unlisted origin", "https://evil.example.com", []string{"https://app.cleanwave.org"}, false},
		{"wildcard", "https://anywhere.example.com", []string{"*"}, true},
		{"no origin header", "", []string{"https://app.cleanwave.org"}, true},
		{"empty allowlist", "https://app.cleanwave.org", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, originAllowed(tt.origin, tt.allowed))
		})
	}
}
