package audio

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/galaxy/config"
)

// Settings configures the hit sound.
type Settings struct {
	SampleRate beep.SampleRate
	Frequency  float64
	Duration   time.Duration
	Volume     float64 // master volume in [0, 1]
	MaxImpact  float32 // impact speed played at full volume
}

// SettingsFromConfig converts the audio config section.
func SettingsFromConfig(c config.AudioConfig) Settings {
	return Settings{
		SampleRate: beep.SampleRate(c.SampleRate),
		Frequency:  c.Frequency,
		Duration:   time.Duration(c.DurationMS) * time.Millisecond,
		Volume:     c.Volume,
		MaxImpact:  float32(c.MaxImpact),
	}
}

// Player mixes hit sounds into the speaker. It is safe to call Impact from
// the frame loop while the speaker goroutine drains the mixer.
type Player struct {
	mu          sync.Mutex
	settings    Settings
	mixer       *beep.Mixer
	initialized bool
	played      int
}

// NewPlayer creates a player. Nothing is audible until Init succeeds.
func NewPlayer(s Settings) *Player {
	if s.SampleRate <= 0 {
		s.SampleRate = 44100
	}
	if s.Duration <= 0 {
		s.Duration = 120 * time.Millisecond
	}
	if s.MaxImpact <= 0 {
		s.MaxImpact = 10
	}
	return &Player{settings: s, mixer: &beep.Mixer{}}
}

// Init opens the audio device.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	sr := p.settings.SampleRate
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	slog.Info("audio initialized", "sample_rate", int(sr))
	return nil
}

// Impact plays one hit scaled by strength. Without a device it is a no-op.
func (p *Player) Impact(strength float32) {
	vol := p.volumeFor(strength)

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized || vol <= 0 {
		return
	}
	s := p.settings
	speaker.Lock()
	p.mixer.Add(NewHitSound(s.SampleRate, s.Frequency, s.Duration, vol))
	speaker.Unlock()
	p.played++
}

// volumeFor maps an impact speed to a linear volume.
func (p *Player) volumeFor(strength float32) float64 {
	if !(strength > 0) {
		return 0
	}
	frac := float64(min(strength/p.settings.MaxImpact, 1))
	return p.settings.Volume * frac
}

// Played returns the number of hits sent to the mixer.
func (p *Player) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}

// Close silences everything still playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}
