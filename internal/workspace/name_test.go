package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "payment outage", "payment outage"},
		{"surrounding space", "  payment outage \n", "payment outage"},
		{"interior runs", "payment\t\toutage   review", "payment outage review"},
		// e + combining acute composes to the single precomposed rune.
		{"decomposed accents", "Résumé", "Résumé"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}
