package audio

import (
	"fmt"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/parley/pkg/ports"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// SampleRate is the rate every blip is generated at.
const SampleRate = beep.SampleRate(48000)

// Player plays a finite streamer without blocking.
type Player interface {
	Play(s beep.Streamer)
}

// Blip decorates a Presenter with a short tone for every revealed character.
// Whitespace is silent. Optional presenter capabilities of the wrapped presenter
// (continue arrow, text clearing) are forwarded.
type Blip struct {
	ports.Presenter

	player   Player
	freq     float64
	duration time.Duration
	every    int

	mu      sync.Mutex
	counter int
}

// BlipOption configures a Blip.
type BlipOption func(*Blip)

// WithFrequency sets the pitch in Hz (default 660).
func WithFrequency(hz float64) BlipOption {
	return func(b *Blip) {
		if hz > 0 {
			b.freq = hz
		}
	}
}

// WithDuration sets the length of each blip (default 30ms).
func WithDuration(d time.Duration) BlipOption {
	return func(b *Blip) {
		if d > 0 {
			b.duration = d
		}
	}
}

// WithEvery plays only every nth audible character (default 1).
func WithEvery(n int) BlipOption {
	return func(b *Blip) {
		if n > 0 {
			b.every = n
		}
	}
}

// NewBlip wraps inner. A nil player makes the decorator silent.
func NewBlip(inner ports.Presenter, player Player, opts ...BlipOption) *Blip {
	b := &Blip{
		Presenter: inner,
		player:    player,
		freq:      660,
		duration:  30 * time.Millisecond,
		every:     1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RevealCharacter forwards the text and plays a blip for the newest character.
func (b *Blip) RevealCharacter(textSoFar string) {
	b.Presenter.RevealCharacter(textSoFar)

	r, _ := utf8.DecodeLastRuneInString(textSoFar)
	if r == utf8.RuneError || unicode.IsSpace(r) || b.player == nil {
		return
	}

	b.mu.Lock()
	b.counter++
	play := (b.counter-1)%b.every == 0
	b.mu.Unlock()
	if !play {
		return
	}

	tone, err := b.tone()
	if err != nil {
		return
	}
	b.player.Play(tone)
}

// SetContinueIndicatorVisible forwards to the wrapped presenter when it supports the arrow.
func (b *Blip) SetContinueIndicatorVisible(visible bool) {
	if indicator, ok := b.Presenter.(ports.ContinueIndicator); ok {
		indicator.SetContinueIndicatorVisible(visible)
	}
}

// ClearText forwards to the wrapped presenter and restarts the blip counter.
func (b *Blip) ClearText() {
	b.mu.Lock()
	b.counter = 0
	b.mu.Unlock()
	if clearer, ok := b.Presenter.(ports.TextClearer); ok {
		clearer.ClearText()
	}
}

func (b *Blip) tone() (beep.Streamer, error) {
	sine, err := generators.SineTone(SampleRate, b.freq)
	if err != nil {
		return nil, fmt.Errorf("failed to generate blip: %w", err)
	}
	return beep.Take(SampleRate.N(b.duration), sine), nil
}

// Speaker plays through the system audio device.
type Speaker struct {
	mu          sync.Mutex
	initialized bool
}

// Init opens the audio device. It is safe to call more than once.
func (s *Speaker) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}
	s.initialized = true
	return nil
}

// Play queues s on the device; it is dropped when the device is not initialized.
func (s *Speaker) Play(st beep.Streamer) {
	s.mu.Lock()
	ready := s.initialized
	s.mu.Unlock()
	if ready {
		speaker.Play(st)
	}
}

// Close stops playback.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		speaker.Clear()
		s.initialized = false
	}
}
