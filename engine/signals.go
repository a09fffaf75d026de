package engine

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Teardown is the part of the canvas a signal may touch
type Teardown interface {
	SetResizePending()
	Close()
}

// SignalWatcher turns asynchronous signals into canvas actions
// SIGWINCH only sets the pending resize flag for the next frame
// SIGINT and SIGTERM close the canvas, restore the default disposition and re-deliver the signal
type SignalWatcher struct {
	target Teardown
	log    *zap.Logger

	sigCh chan os.Signal
	stop  chan struct{}
	once  sync.Once

	// raise re-delivers sig with default disposition, replaced by tests
	raise func(sig syscall.Signal)
}

// NewSignalWatcher creates an inactive watcher for target
func NewSignalWatcher(target Teardown, log *zap.Logger) *SignalWatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &SignalWatcher{
		target: target,
		log:    log,
		sigCh:  make(chan os.Signal, 4),
		stop:   make(chan struct{}),
		raise:  reraise,
	}
}

// Start subscribes to the signals and handles them on a dedicated goroutine
func (w *SignalWatcher) Start() {
	signal.Notify(w.sigCh, syscall.SIGWINCH, syscall.SIGINT, syscall.SIGTERM)
	go w.loop()
}

// Stop unsubscribes, safe to call more than once
func (w *SignalWatcher) Stop() {
	w.once.Do(func() {
		signal.Stop(w.sigCh)
		close(w.stop)
	})
}

// Interrupt runs the SIGINT path without a delivered signal
func (w *SignalWatcher) Interrupt() {
	w.handle(syscall.SIGINT)
}

func (w *SignalWatcher) loop() {
	for {
		select {
		case <-w.stop:
			return
		case sig := <-w.sigCh:
			if s, ok := sig.(syscall.Signal); ok {
				w.handle(s)
			}
		}
	}
}

func (w *SignalWatcher) handle(sig syscall.Signal) {
	if sig == syscall.SIGWINCH {
		w.target.SetResizePending()
		return
	}

	w.log.Info("terminating on signal", zap.String("signal", sig.String()))
	_ = w.log.Sync()
	w.target.Close()
	w.raise(sig)
}

// reraise restores the default handler so the exit status reflects sig
func reraise(sig syscall.Signal) {
	signal.Reset(sig)
	_ = unix.Kill(unix.Getpid(), sig)
}
