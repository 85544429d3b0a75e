package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Trouble Breathing", "trouble breathing"},
		{"strips punctuation", "itchy, watery eyes!", "itchy watery eyes"},
		{"keeps hyphens", "light-headed", "light-headed"},
		{"collapses whitespace", "  tight   chest  ", "tight chest"},
		{"punctuation becomes separator", "fever/chills", "fever chills"},
		{"empty input", "", ""},
		{"only punctuation", "?!.,", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}
