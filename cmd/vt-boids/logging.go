package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logFileName = "vt-boids.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging returns a file backed logger when debug is set, a no-op logger otherwise
// The terminal belongs to the canvas, so nothing is ever logged to stdout or stderr
// An existing log over maxLogSize is rotated to a timestamped name first
func setupLogging(dir string, debug bool) (*zap.Logger, *os.File) {
	if !debug {
		log.SetOutput(io.Discard)
		return zap.NewNop(), nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.SetOutput(io.Discard)
		return zap.NewNop(), nil
	}

	path := filepath.Join(dir, logFileName)
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(dir, fmt.Sprintf("vt-boids-%s.log", time.Now().Format("20060102-150405")))
		_ = os.Rename(path, rotated)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return zap.NewNop(), nil
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(f), zap.DebugLevel)
	logger := zap.New(core, zap.AddCaller())

	// Stray stdlib log calls land in the same file
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	return logger, f
}
