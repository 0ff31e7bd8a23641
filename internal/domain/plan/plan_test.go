package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want ID
	}{
		{"free", Free},
		{" Basic ", Basic},
		{"PRO", Pro},
		{"studio", Studio},
		{"starter", Basic},
		{"premium", Pro},
		{"enterprise", Studio},
		{"trial", Free},
		{"", Free},
		{"platinum-ultra", Free},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestParse(t *testing.T) {
	id, ok := Parse(" Premium ")
	assert.True(t, ok)
	assert.Equal(t, Pro, id)

	id, ok = Parse("studio")
	assert.True(t, ok)
	assert.Equal(t, Studio, id)

	for _, raw := range []string{"", "bogus", "platinum-ultra"} {
		id, ok = Parse(raw)
		assert.False(t, ok, raw)
		assert.Equal(t, Free, id, raw)
	}
}

func TestDefaultsFor(t *testing.T) {
	free := DefaultsFor(Free)
	require.NotNil(t, free.PhotoCap)
	assert.Equal(t, 25, *free.PhotoCap)
	assert.Equal(t, 0, free.AICredits)
	assert.True(t, free.WatermarkEnabled)
	assert.False(t, free.CanAddCollaborators)

	basic := DefaultsFor(Basic)
	require.NotNil(t, basic.PhotoCap)
	assert.Equal(t, 50, *basic.PhotoCap)
	assert.Equal(t, 0, basic.AICredits)
	assert.False(t, basic.CanAddCollaborators)

	pro := DefaultsFor(Pro)
	require.NotNil(t, pro.PhotoCap)
	assert.Equal(t, 500, *pro.PhotoCap)
	assert.Equal(t, 100, pro.AICredits)
	assert.True(t, pro.CanAddCollaborators)
	assert.True(t, pro.AllowAIBackgrounds)

	studio := DefaultsFor(Studio)
	assert.Nil(t, studio.PhotoCap)
	assert.Equal(t, 1000, studio.AICredits)
}

func TestDefaultsForUnknownFallsBackToFree(t *testing.T) {
	assert.Equal(t, DefaultsFor(Free), DefaultsFor(ID("gold")))
}

func TestDefaultsForReturnsFreshCap(t *testing.T) {
	a := DefaultsFor(Basic)
	*a.PhotoCap = 1
	b := DefaultsFor(Basic)
	assert.Equal(t, 50, *b.PhotoCap)
}
