package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanAssetPath(t *testing.T) {
	cases := map[string]string{
		"":                          "",
		"walk_1.wav":                "sfx/walk_1.wav",
		"sfx/walk_1.wav":            "sfx/walk_1.wav",
		"assets/sfx/walk_1.wav":     "sfx/walk_1.wav",
		"/home/me/assets/sfx/a.wav": "sfx/a.wav",
		"/tmp/b.wav":                "sfx/b.wav",
	}
	for in, want := range cases {
		assert.Equal(t, want, cleanAssetPath(in), in)
	}
}

func TestLoadFile(t *testing.T) {
	b, err := LoadFile("walk_2.wav")
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(b[:4]))

	assert.True(t, Exists("assets/sfx/run_1.wav"))
	assert.False(t, Exists("run_9.wav"))

	_, err = LoadFile("missing.wav")
	assert.Error(t, err)
}

func TestClampPitch(t *testing.T) {
	assert.Equal(t, 1.0, ClampPitch(0))
	assert.Equal(t, 1.0, ClampPitch(-2))
	assert.Equal(t, minPitch, ClampPitch(0.01))
	assert.Equal(t, maxPitch, ClampPitch(10))
	assert.Equal(t, 1.1, ClampPitch(1.1))
}
