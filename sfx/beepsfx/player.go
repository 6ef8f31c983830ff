// Package beepsfx plays footstep clips through gopxl/beep, for hosts that do
// not run an ebiten game loop.
package beepsfx

import (
	"bytes"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"github.com/milk9111/footsteps/common"
	"github.com/milk9111/footsteps/footstep"
	"go.uber.org/zap"
)

const (
	DefaultSampleRate = beep.SampleRate(44100)
	resampleQuality   = 4
)

// Loader returns the encoded bytes of a clip.
type Loader func(clip string) ([]byte, error)

// Player decodes clips once into memory and mixes one-shot voices. Until
// Start is called nothing reaches the speaker, but voices still queue on the
// mixer.
type Player struct {
	rate beep.SampleRate
	load Loader
	log  *zap.Logger

	cacheMu sync.Mutex
	buffers map[footstep.Clip]*beep.Buffer

	mixMu   sync.Mutex
	mixer   *beep.Mixer
	started atomic.Bool
}

func New(rate beep.SampleRate, load Loader, log *zap.Logger) *Player {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{
		rate:    rate,
		load:    load,
		log:     log.Named("beepsfx"),
		buffers: make(map[footstep.Clip]*beep.Buffer),
		mixer:   &beep.Mixer{},
	}
}

// Start opens the speaker and begins streaming the mixer.
func (p *Player) Start() error {
	if p.started.Load() {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("beepsfx: speaker init: %w", err)
	}
	speaker.Play(p.mixer)
	p.started.Store(true)
	return nil
}

// Close silences all voices and releases the speaker if it was started.
func (p *Player) Close() {
	p.withMixer(func(m *beep.Mixer) { m.Clear() })
	if p.started.CompareAndSwap(true, false) {
		speaker.Close()
	}
}

// Voices reports how many clips are still mixing.
func (p *Player) Voices() int {
	n := 0
	p.withMixer(func(m *beep.Mixer) { n = m.Len() })
	return n
}

// PlaySFX queues clip at the given pitch and linear volume. Position is not
// used; this backend is not spatial.
func (p *Player) PlaySFX(clip footstep.Clip, _ footstep.Vec3, pitch, volume float64) {
	buf, err := p.buffer(clip)
	if err != nil {
		p.log.Warn("sfx load failed", zap.String("clip", string(clip)), zap.Error(err))
		return
	}

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	ratio := float64(buf.Format().SampleRate) / float64(p.rate) * clampPitch(pitch)
	if ratio != 1 {
		s = beep.ResampleRatio(resampleQuality, ratio, s)
	}
	s = gain(s, volume)

	p.withMixer(func(m *beep.Mixer) { m.Add(s) })
}

// Stream pulls mixed samples directly, for hosts that drive output themselves.
func (p *Player) Stream(samples [][2]float64) int {
	n := 0
	p.withMixer(func(m *beep.Mixer) { n, _ = m.Stream(samples) })
	return n
}

func (p *Player) withMixer(fn func(*beep.Mixer)) {
	if p.started.Load() {
		speaker.Lock()
		defer speaker.Unlock()
	} else {
		p.mixMu.Lock()
		defer p.mixMu.Unlock()
	}
	fn(p.mixer)
}

func (p *Player) buffer(clip footstep.Clip) (*beep.Buffer, error) {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()

	if buf, ok := p.buffers[clip]; ok {
		return buf, nil
	}
	if p.load == nil {
		return nil, fmt.Errorf("beepsfx: no loader for %q", clip)
	}
	data, err := p.load(string(clip))
	if err != nil {
		return nil, err
	}
	stream, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("beepsfx: decode %q: %w", clip, err)
	}
	defer stream.Close()

	buf := beep.NewBuffer(format)
	buf.Append(stream)
	p.buffers[clip] = buf
	return buf, nil
}

func gain(s beep.Streamer, volume float64) beep.Streamer {
	if volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(volume), Silent: false}
}

func clampPitch(pitch float64) float64 {
	if pitch <= 0 {
		return 1
	}
	return common.Clamp(pitch, 0.25, 4)
}
