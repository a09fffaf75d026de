package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)
)

// Chime plays a short bell tone through the system speaker
type Chime struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	frequency   float64
	duration    time.Duration
	initialized bool
}

// NewChime creates a chime, Initialize must succeed before it makes sound
func NewChime(frequency float64, duration time.Duration) *Chime {
	return &Chime{
		mixer:     &beep.Mixer{},
		frequency: frequency,
		duration:  duration,
	}
}

// Initialize opens the speaker
func (c *Chime) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100))
	if err != nil {
		return err
	}

	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Cleanup silences pending tones
func (c *Chime) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

// Play queues one tone, no-op when the speaker is unavailable
func (c *Chime) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}

	streamer := beep.Take(sampleRate.N(c.duration), NewBellGenerator(sampleRate, c.frequency, c.duration))
	speaker.Lock()
	c.mixer.Add(streamer)
	speaker.Unlock()
}

// BellGenerator is a sine with its octave overtone under an exponential decay
type BellGenerator struct {
	sr    beep.SampleRate
	freq  float64
	decay float64
	pos   int
}

// NewBellGenerator creates a bell decaying to ~1% over duration
func NewBellGenerator(sr beep.SampleRate, freq float64, duration time.Duration) *BellGenerator {
	return &BellGenerator{
		sr:    sr,
		freq:  freq,
		decay: math.Log(100) / duration.Seconds(),
	}
}

func (g *BellGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		env := 0.2 * math.Exp(-g.decay*t)

		v := math.Sin(2*math.Pi*g.freq*t) + 0.3*math.Sin(4*math.Pi*g.freq*t)
		v *= env

		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *BellGenerator) Err() error {
	return nil
}
