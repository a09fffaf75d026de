package canvas

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/gdamore/tcell/v2"
)

// Dots per terminal cell
const (
	CellDotsX = 2
	CellDotsY = 4
)

var (
	// ErrNoScreen is returned when a canvas is created without a screen
	ErrNoScreen = errors.New("canvas: nil screen")
	// ErrClosed is wrapped by a Reset issued after Close
	ErrClosed = errors.New("canvas: closed")
)

// InitError reports a failed Reset, Code is the process exit status to use
type InitError struct {
	Code int
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("canvas: reset failed (code %d): %v", e.Code, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// Vertex is an integer dot coordinate
// Components are drawn as int16, so wrapped negative projections clip
type Vertex struct {
	X, Y uint16
}

// cell is one braille glyph: dot bitmask plus the color of the last primitive touching it
type cell struct {
	mask  uint8
	color tcell.Color
}

// Canvas draws into a back buffer and presents it on SwapBuffers
type Canvas struct {
	screen tcell.Screen

	cols, rows int
	front      []cell
	back       []cell
	full       bool // next swap rewrites every cell

	color  tcell.Color
	status []rune

	resizePending atomic.Bool

	// mu orders Reset against Close, either may run on the signal goroutine
	mu          sync.Mutex
	initialized bool
	closed      bool

	// Polygon scanline scratch
	xs []float64
}

// New binds a canvas to screen, Reset must be called before drawing
func New(screen tcell.Screen) (*Canvas, error) {
	if screen == nil {
		return nil, ErrNoScreen
	}
	return &Canvas{
		screen: screen,
		color:  tcell.ColorDefault,
		xs:     make([]float64, 0, 8),
	}, nil
}

// NewTerminal creates a canvas on the process terminal
func NewTerminal() (*Canvas, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("canvas: open terminal: %w", err)
	}
	return New(screen)
}

// Reset initializes the screen on first use, then clears and sizes both buffers
// A closed canvas is never reinitialized
func (c *Canvas) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return &InitError{Code: 1, Err: ErrClosed}
	}
	if !c.initialized {
		if err := c.screen.Init(); err != nil {
			return &InitError{Code: exitCode(err), Err: err}
		}
		c.initialized = true
	}

	c.screen.HideCursor()
	c.screen.SetStyle(tcell.StyleDefault)
	c.screen.Clear()

	w, h := c.screen.Size()
	if w <= 0 || h <= 0 {
		return &InitError{Code: 1, Err: fmt.Errorf("invalid terminal size %dx%d", w, h)}
	}
	c.allocate(w, h)
	return nil
}

// exitCode maps an init failure to an exit status, errno values pass through
func exitCode(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 && int(errno) < 256 {
		return int(errno)
	}
	return 1
}

func (c *Canvas) allocate(cols, rows int) {
	c.cols, c.rows = cols, rows
	n := cols * rows
	if cap(c.back) >= n && cap(c.front) >= n {
		c.back = c.back[:n]
		c.front = c.front[:n]
		clear(c.back)
		clear(c.front)
	} else {
		c.back = make([]cell, n)
		c.front = make([]cell, n)
	}
	c.full = true
}

// XDots returns the canvas width in dots
func (c *Canvas) XDots() int { return c.cols * CellDotsX }

// YDots returns the canvas height in dots
func (c *Canvas) YDots() int { return c.rows * CellDotsY }

// SetResizePending marks the canvas for resize on the next Resize call
// Safe to call from any goroutine
func (c *Canvas) SetResizePending() {
	c.resizePending.Store(true)
}

// Resize applies a pending resize, no-op otherwise
func (c *Canvas) Resize() {
	if !c.resizePending.CompareAndSwap(true, false) {
		return
	}
	w, h := c.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}
	c.screen.Clear()
	c.allocate(w, h)
	c.screen.Sync()
}

// SetColor sets the foreground color for subsequent primitives
func (c *Canvas) SetColor(color tcell.Color) {
	c.color = color
}

// SetStatus sets a text line drawn over the bottom row, empty disables it
func (c *Canvas) SetStatus(s string) {
	prev := len(c.status)
	c.status = append(c.status[:0], []rune(s)...)
	if len(c.status) < prev {
		// Uncovered status cells fall back to the diff, repaint them once
		c.full = true
	}
}

// SwapBuffers presents the back buffer and starts a fresh one
func (c *Canvas) SwapBuffers() {
	statusRow := -1
	if len(c.status) > 0 {
		statusRow = c.rows - 1
	}

	for y := 0; y < c.rows; y++ {
		row := y * c.cols
		for x := 0; x < c.cols; x++ {
			i := row + x
			if y == statusRow && x < len(c.status) {
				c.screen.SetContent(x, y, c.status[x], nil, tcell.StyleDefault.Reverse(true))
				continue
			}
			b := c.back[i]
			if !c.full && y != statusRow && b == c.front[i] {
				continue
			}
			c.screen.SetContent(x, y, glyph(b.mask), nil, tcell.StyleDefault.Foreground(b.color))
		}
	}
	c.screen.Show()

	c.front, c.back = c.back, c.front
	clear(c.back)
	c.full = false
}

// Close restores the terminal, only the first call has effect
func (c *Canvas) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	if c.initialized {
		c.screen.Fini()
	}
}

// Dot returns whether the dot at (x, y) is set in the back buffer
func (c *Canvas) Dot(x, y int) bool {
	if x < 0 || y < 0 || x >= c.XDots() || y >= c.YDots() {
		return false
	}
	b := c.back[(y/CellDotsY)*c.cols+x/CellDotsX]
	return b.mask&brailleBits[y%CellDotsY][x%CellDotsX] != 0
}
