package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Song Title - Remastered 2004", "song title"},
		{"Song Title - Radio Edit", "song title"},
		{"The Long Way Home", "long way home"},
		{"Harbor Lights [Live]", "harbor lights"},
		{"Harbor Lights (1999)", "harbor lights"},
		{"Harbor Lights - 1999", "harbor lights"},
		{"Nightfall, Pt. 2", "nightfall"},
		{"What's Left?!", "what s left"},
		{"  Spaced   Out  ", "spaced out"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeTitle(tt.in), "input %q", tt.in)
	}
}

func TestAreTitlesSimilar(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Song Title", "Song Title (Remastered 2004)", true},
		{"The Long Way Home", "Long Way Home", true},
		{"Song Title", "Song Title Extended Sessions", true},
		{"Red", "Blue", false},
		// Below the four-character minimum the prefix rule never applies.
		{"Red", "Redemption", false},
		{"", "", true},
		{"X", "", false},
		{"", "X", false},
		{"(2004)", "(2004)", true},
		{"(2004)", "Song", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AreTitlesSimilar(tt.a, tt.b), "titles %q / %q", tt.a, tt.b)
		assert.Equal(t, tt.want, AreTitlesSimilar(tt.b, tt.a), "titles %q / %q reversed", tt.b, tt.a)
	}
}
