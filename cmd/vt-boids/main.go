package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/lixenwraith/vt-boids/audio"
	"github.com/lixenwraith/vt-boids/canvas"
	"github.com/lixenwraith/vt-boids/config"
	"github.com/lixenwraith/vt-boids/engine"
	"github.com/lixenwraith/vt-boids/physics"
	"github.com/lixenwraith/vt-boids/render"
	"github.com/lixenwraith/vt-boids/vmath"
)

var (
	configFlag  = flag.String("config", "", "YAML config file merged over the defaults")
	dumpFlag    = flag.String("dump-config", "", "Write the effective config to this file and exit")
	fpsFlag     = flag.Int("fps", 0, "Frame rate, also fixes the simulation step")
	debugFlag   = flag.Bool("debug", false, "Write a debug log under the log directory")
	overlayFlag = flag.Bool("overlay", true, "Draw velocity, normal and target debug strokes")
	tintFlag    = flag.Bool("tint", false, "Color the boid by heading")
	statusFlag  = flag.Bool("status", false, "Show heading readout on the bottom row")
	soundFlag   = flag.Bool("sound", false, "Chime on every completed circle")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vt-boids: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "vt-boids: %v\n", err)
		os.Exit(1)
	}

	if *dumpFlag != "" {
		if err := cfg.WriteYAML(*dumpFlag); err != nil {
			fmt.Fprintf(os.Stderr, "vt-boids: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger, logFile := setupLogging(cfg.Log.Dir, cfg.Log.Debug)
	if logFile != nil {
		defer logFile.Close()
	}
	defer logger.Sync()

	cv, err := canvas.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vt-boids: %v\n", err)
		os.Exit(1)
	}
	// Normal exit terminal cleanup
	defer cv.Close()

	// Panic Recovery: restore the terminal before printing the trace
	defer func() {
		if r := recover(); r != nil {
			cv.Close()
			logger.Error("crashed", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			_ = logger.Sync()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mVT-BOIDS CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	watcher, err := attach(cv, logger)
	if err != nil {
		cv.Close()
		fmt.Fprintf(os.Stderr, "vt-boids: %v\n", err)
		code := 1
		var ie *canvas.InitError
		if errors.As(err, &ie) {
			code = ie.Code
		}
		os.Exit(code)
	}
	defer watcher.Stop()
	go cv.PumpEvents(watcher.Interrupt)

	boid := physics.NewBoid(
		vmath.Vec2F{X: float32(cfg.Boid.StartX), Y: float32(cfg.Boid.StartY)},
		vmath.Vec2F{X: float32(cv.XDots() / 3), Y: float32(cfg.Boid.TargetY)},
	)
	renderer := render.NewBoidRenderer(
		render.Shape{
			Width:       float32(cfg.Shape.Width),
			Length:      float32(cfg.Shape.Length),
			DebugExtend: float32(cfg.Shape.DebugExtend),
		},
		render.Style{Overlay: cfg.Render.Overlay, Tint: cfg.Render.Tint},
	)

	var chime engine.Chimer
	if cfg.Audio.Chime {
		c := audio.NewChime(cfg.Audio.Frequency, cfg.ChimeDuration())
		if err := c.Initialize(); err != nil {
			// Non-fatal, the loop runs silent
			logger.Warn("audio initialization failed", zap.Error(err))
		} else {
			defer c.Cleanup()
			chime = c
		}
	}

	driver := engine.NewDriver(cv, boid, renderer, chime, engine.Options{
		Model: physics.TurnModel{
			Speed:   cfg.Boid.Speed,
			BankDeg: cfg.Boid.BankDeg,
			Gravity: cfg.Boid.Gravity,
		},
		Step:     cfg.StepSeconds(),
		Interval: cfg.FrameInterval(),
		Status:   cfg.Render.Status,
	}, logger)

	logger.Info("started",
		zap.Int("xdots", cv.XDots()),
		zap.Int("ydots", cv.YDots()),
		zap.Int("fps", cfg.Render.FPS))

	// Only a terminating signal ends the loop
	_ = driver.Run(context.Background())
}

// applyFlags overrides config values with flags given on the command line
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "fps":
			cfg.Render.FPS = *fpsFlag
		case "debug":
			cfg.Log.Debug = *debugFlag
		case "overlay":
			cfg.Render.Overlay = *overlayFlag
		case "tint":
			cfg.Render.Tint = *tintFlag
		case "status":
			cfg.Render.Status = *statusFlag
		case "sound":
			cfg.Audio.Chime = *soundFlag
		}
	})
}

// attach initializes the terminal, then starts signal handling on it
// No signal can tear the canvas down before Reset has returned
func attach(cv *canvas.Canvas, logger *zap.Logger) (*engine.SignalWatcher, error) {
	if err := cv.Reset(); err != nil {
		return nil, err
	}
	watcher := engine.NewSignalWatcher(cv, logger)
	watcher.Start()
	return watcher, nil
}
