package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/vt-boids/physics"
	"github.com/lixenwraith/vt-boids/render"
)

// Canvas is the presentation surface driven once per frame
type Canvas interface {
	render.Surface
	Resize()
	SwapBuffers()
	SetStatus(s string)
	XDots() int
}

// Chimer is notified once per completed circle
type Chimer interface {
	Play()
}

// Options configures the frame loop
type Options struct {
	Model    physics.TurnModel
	Step     float64       // simulation seconds per frame
	Interval time.Duration // sleep after each frame
	Status   bool
}

// Driver owns the boid and the canvas and runs the fixed step loop
type Driver struct {
	canvas   Canvas
	boid     *physics.Boid
	renderer *render.BoidRenderer
	chime    Chimer
	log      *zap.Logger

	opts  Options
	frame uint64
	laps  int

	// sleep is swapped out by tests
	sleep func(time.Duration)
}

// NewDriver creates a driver for boid on c, chime may be nil
func NewDriver(c Canvas, boid *physics.Boid, renderer *render.BoidRenderer, chime Chimer, opts Options, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{
		canvas:   c,
		boid:     boid,
		renderer: renderer,
		chime:    chime,
		log:      log,
		opts:     opts,
		laps:     boid.Laps(),
		sleep:    time.Sleep,
	}
}

// Boid returns the simulated agent
func (d *Driver) Boid() *physics.Boid { return d.boid }

// Frame returns the number of completed frames
func (d *Driver) Frame() uint64 { return d.frame }

// Step runs one frame: resize, advance by the fixed step, draw, present
func (d *Driver) Step() {
	d.canvas.Resize()

	d.boid.Advance(d.opts.Model, d.opts.Step)
	if laps := d.boid.Laps(); laps != d.laps {
		d.laps = laps
		d.log.Debug("circle completed", zap.Int("laps", laps), zap.Uint64("frame", d.frame))
		if d.chime != nil {
			d.chime.Play()
		}
	}

	d.renderer.Render(d.canvas, d.boid)
	if d.opts.Status {
		d.canvas.SetStatus(d.statusLine())
	}
	d.canvas.SwapBuffers()
	d.frame++
}

func (d *Driver) statusLine() string {
	b := d.boid
	return fmt.Sprintf(" psi %7.3f rad  laps %d  pos %6.1f,%6.1f  r %.1f ",
		b.Psi, d.laps, b.Pos.X, b.Pos.Y, d.opts.Model.Radius())
}

// Run loops Step until ctx is done, sleeping the nominal interval after every frame
// Elapsed time is never measured, a slow frame just stretches the period
func (d *Driver) Run(ctx context.Context) error {
	d.log.Info("frame loop started",
		zap.Float64("step_s", d.opts.Step),
		zap.Duration("interval", d.opts.Interval),
		zap.Float64("turn_rate", d.opts.Model.TurnRate()),
		zap.Float64("radius", d.opts.Model.Radius()))

	for {
		select {
		case <-ctx.Done():
			d.log.Info("frame loop stopped", zap.Uint64("frames", d.frame))
			return ctx.Err()
		default:
		}

		d.Step()
		d.sleep(d.opts.Interval)
	}
}
