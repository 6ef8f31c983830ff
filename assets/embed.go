package assets

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/milk9111/footsteps/common"
)

//go:embed sfx/*.wav
var assetsFS embed.FS

const (
	SampleRate = 44100

	minPitch = 0.25
	maxPitch = 4.0
)

var audioContext = sync.OnceValue(func() *audio.Context {
	if ctx := audio.CurrentContext(); ctx != nil {
		return ctx
	}
	return audio.NewContext(SampleRate)
})

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	clean := cleanAssetPath(path)
	return assetsFS.ReadFile(clean)
}

// Exists reports whether path names an embedded asset.
func Exists(path string) bool {
	_, err := fs.Stat(assetsFS, cleanAssetPath(path))
	return err == nil
}

// LoadSFXPlayer decodes an embedded clip and returns a player that sounds at
// pitch times its recorded pitch. The clip is resampled to SampleRate/pitch
// and played back at SampleRate, which speeds it up by the same factor.
func LoadSFXPlayer(path string, pitch float64) (*audio.Player, error) {
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	ctx := audioContext()
	clean := strings.ToLower(cleanAssetPath(path))
	if !strings.HasSuffix(clean, ".wav") {
		// Fallback for already-decoded PCM assets in Ebiten's native format.
		return ctx.NewPlayerFromBytes(b), nil
	}

	rate := int(float64(ctx.SampleRate()) / ClampPitch(pitch))
	stream, err := wav.DecodeWithSampleRate(rate, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode wav %q: %w", path, err)
	}
	return ctx.NewPlayer(stream)
}

// ClampPitch keeps a pitch factor inside what resampling can reasonably do.
// Non-positive values mean "unchanged".
func ClampPitch(pitch float64) float64 {
	if pitch <= 0 {
		return 1
	}
	return common.Clamp(pitch, minPitch, maxPitch)
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return "sfx/" + filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	s = strings.TrimPrefix(s, "assets/")
	if !strings.Contains(s, "/") {
		s = "sfx/" + s
	}
	return s
}
