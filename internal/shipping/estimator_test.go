package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateDays(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		dest   string
		want   int
	}{
		{"same city", "Tunis", "Tunis", 1},
		{"same group", "Tunis", "Ariana", 2},
		{"same group reversed", "Ariana", "Tunis", 2},
		{"different groups", "Tunis", "Sfax", 3},
		{"unknown origin", "Atlantis", "Tunis", 3},
		{"unknown destination", "Tunis", "Atlantis", 3},
		{"both unknown but equal", "Atlantis", "Atlantis", 1},
		{"empty origin", "", "Tunis", 3},
		{"empty destination", "Tunis", "", 3},
		{"both empty", "", "", 3},
		{"whitespace trimmed", "  Tunis ", "Tunis\t", 1},
		{"sahel pair", "Sousse", "Monastir", 2},
		{"south to north", "Medenine", "Bizerte", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateDays(tt.origin, tt.dest))
		})
	}
}
