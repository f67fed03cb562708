package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupOf(t *testing.T) {
	g, ok := GroupOf("Tunis")
	assert.True(t, ok)
	assert.Equal(t, TunisMetro, g)

	g, ok = GroupOf("Ariana")
	assert.True(t, ok)
	assert.Equal(t, TunisMetro, g)

	g, ok = GroupOf("Sfax")
	assert.True(t, ok)
	assert.Equal(t, SfaxRegion, g)

	_, ok = GroupOf("Atlantis")
	assert.False(t, ok)

	_, ok = GroupOf("")
	assert.False(t, ok)
}

func TestGroupOf_DualListedCitiesResolveDeterministically(t *testing.T) {
	// Gafsa and Kebili appear in two groups in the source table; the first
	// declared group wins.
	g, ok := GroupOf("Gafsa")
	assert.True(t, ok)
	assert.Equal(t, CentralWest, g)

	g, ok = GroupOf("Kebili")
	assert.True(t, ok)
	assert.Equal(t, SouthEast, g)
}

func TestGroupOf_CaseSensitive(t *testing.T) {
	_, ok := GroupOf("tunis")
	assert.False(t, ok)
}
