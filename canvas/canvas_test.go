package canvas

import (
	"errors"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"
)

func newTestCanvas(t *testing.T, w, h int) (*Canvas, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	c, err := New(screen)
	require.NoError(t, err)
	require.NoError(t, c.Reset())
	screen.SetSize(w, h)
	c.SetResizePending()
	c.Resize()
	t.Cleanup(c.Close)
	return c, screen
}

func cellRune(s tcell.SimulationScreen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y)
	return r
}

func TestNew_NilScreen(t *testing.T) {
	c, err := New(nil)
	require.Nil(t, c)
	require.ErrorIs(t, err, ErrNoScreen)
}

func TestDimensions(t *testing.T) {
	c, _ := newTestCanvas(t, 40, 12)

	require.Equal(t, 80, c.XDots())
	require.Equal(t, 48, c.YDots())
}

func TestRenderDot_BrailleBits(t *testing.T) {
	c, screen := newTestCanvas(t, 4, 2)

	// Every dot of cell (0,0) sets its own bit
	want := rune(brailleBase)
	for y := 0; y < CellDotsY; y++ {
		for x := 0; x < CellDotsX; x++ {
			c.RenderDot(uint16(x), uint16(y))
			want |= rune(brailleBits[y][x])
			require.True(t, c.Dot(x, y))
		}
	}
	c.SwapBuffers()

	require.Equal(t, rune(0x28FF), want)
	require.Equal(t, want, cellRune(screen, 0, 0))
	require.Equal(t, ' ', cellRune(screen, 1, 0))
}

func TestRenderDot_OutOfRangeClipped(t *testing.T) {
	c, _ := newTestCanvas(t, 4, 2)

	require.NotPanics(t, func() {
		c.RenderDot(8, 0)
		c.RenderDot(0, 8)
		c.RenderDot(65535, 65535)
	})
	for y := 0; y < c.YDots(); y++ {
		for x := 0; x < c.XDots(); x++ {
			require.False(t, c.Dot(x, y))
		}
	}
}

func TestScanLine(t *testing.T) {
	c, _ := newTestCanvas(t, 20, 10)

	c.ScanLine(2, 3, 12, 3)
	for x := 2; x <= 12; x++ {
		require.True(t, c.Dot(x, 3), "x=%d", x)
	}
	require.False(t, c.Dot(1, 3))
	require.False(t, c.Dot(13, 3))

	c.ScanLine(5, 5, 0, 0)
	for i := 0; i <= 5; i++ {
		require.True(t, c.Dot(i, i), "diagonal %d", i)
	}
}

func TestScanLine_ClipsOffscreenEnd(t *testing.T) {
	c, _ := newTestCanvas(t, 10, 5)

	require.NotPanics(t, func() { c.ScanLine(0, 0, 500, 0) })
	require.True(t, c.Dot(c.XDots()-1, 0))
}

func TestTracePoly_FillsTriangle(t *testing.T) {
	c, _ := newTestCanvas(t, 30, 10)

	c.TracePoly([]Vertex{{10, 5}, {10, 25}, {40, 15}})

	// Interior
	require.True(t, c.Dot(20, 15))
	require.True(t, c.Dot(15, 10))
	require.True(t, c.Dot(30, 15))
	// Vertices
	require.True(t, c.Dot(10, 5))
	require.True(t, c.Dot(10, 25))
	require.True(t, c.Dot(40, 15))
	// Outside
	require.False(t, c.Dot(9, 15))
	require.False(t, c.Dot(41, 15))
	require.False(t, c.Dot(35, 8))
}

func TestScanLine_WrappedNegativeStart(t *testing.T) {
	c, _ := newTestCanvas(t, 20, 10)

	// 65530 is -6 after wrap, only the visible tail is drawn
	c.ScanLine(65530, 3, 4, 3)
	for x := 0; x <= 4; x++ {
		require.True(t, c.Dot(x, 3), "x=%d", x)
	}
	for x := 5; x < c.XDots(); x++ {
		require.False(t, c.Dot(x, 3), "x=%d", x)
	}
}

func TestTracePoly_WrappedNegativeVertex(t *testing.T) {
	c, _ := newTestCanvas(t, 30, 10)

	// Apex at x=-5, the triangle spans x in [-5, 10]
	c.TracePoly([]Vertex{{10, 5}, {10, 25}, {65531, 15}})

	for y := 0; y < c.YDots(); y++ {
		for x := 11; x < c.XDots(); x++ {
			require.False(t, c.Dot(x, y), "dot past right edge at (%d,%d)", x, y)
		}
	}
	for x := 0; x <= 10; x++ {
		require.True(t, c.Dot(x, 15), "x=%d", x)
	}
	require.True(t, c.Dot(10, 5))
	require.True(t, c.Dot(10, 25))
	require.False(t, c.Dot(0, 5))
}

func TestTracePoly_WrappedNegativeRows(t *testing.T) {
	c, _ := newTestCanvas(t, 20, 10)

	// Top vertex at y=-4
	c.TracePoly([]Vertex{{5, 65532}, {15, 65532}, {10, 6}})

	for x := 0; x < c.XDots(); x++ {
		for y := 7; y < c.YDots(); y++ {
			require.False(t, c.Dot(x, y), "dot below apex at (%d,%d)", x, y)
		}
	}
	require.True(t, c.Dot(10, 0))
	require.True(t, c.Dot(10, 6))
}

func TestTracePoly_Degenerate(t *testing.T) {
	c, _ := newTestCanvas(t, 10, 5)

	c.TracePoly(nil)
	c.TracePoly([]Vertex{{3, 3}})
	require.True(t, c.Dot(3, 3))

	c.TracePoly([]Vertex{{0, 10}, {6, 10}})
	for x := 0; x <= 6; x++ {
		require.True(t, c.Dot(x, 10))
	}
}

func TestSwapBuffers_ClearsBackBuffer(t *testing.T) {
	c, screen := newTestCanvas(t, 4, 2)

	c.RenderDot(0, 0)
	c.SwapBuffers()
	require.False(t, c.Dot(0, 0))
	require.Equal(t, rune(brailleBase|0x01), cellRune(screen, 0, 0))

	// Nothing drawn next frame blanks the cell
	c.SwapBuffers()
	require.Equal(t, ' ', cellRune(screen, 0, 0))
}

func TestSetColor(t *testing.T) {
	c, screen := newTestCanvas(t, 4, 2)

	c.SetColor(tcell.ColorRed)
	c.RenderDot(0, 0)
	c.SwapBuffers()

	_, _, style, _ := screen.GetContent(0, 0)
	fg, _, _ := style.Decompose()
	require.Equal(t, tcell.ColorRed, fg)
}

func TestSetStatus(t *testing.T) {
	c, screen := newTestCanvas(t, 10, 3)

	c.SetStatus("hi")
	c.RenderDot(0, 8)
	c.SwapBuffers()
	require.Equal(t, 'h', cellRune(screen, 0, 2))
	require.Equal(t, 'i', cellRune(screen, 1, 2))

	c.SetStatus("")
	c.SwapBuffers()
	require.Equal(t, ' ', cellRune(screen, 0, 2))
	require.Equal(t, ' ', cellRune(screen, 1, 2))
}

func TestResize_OnlyWhenPending(t *testing.T) {
	c, screen := newTestCanvas(t, 10, 5)

	screen.SetSize(20, 8)
	c.Resize()
	require.Equal(t, 20, c.XDots(), "resize applied without pending flag")

	c.SetResizePending()
	c.Resize()
	require.Equal(t, 40, c.XDots())
	require.Equal(t, 32, c.YDots())

	c.RenderDot(39, 31)
	require.True(t, c.Dot(39, 31))
}

func TestClose_Idempotent(t *testing.T) {
	c, _ := newTestCanvas(t, 10, 5)

	require.NotPanics(t, func() {
		c.Close()
		c.Close()
	})
}

func TestPumpEvents(t *testing.T) {
	c, screen := newTestCanvas(t, 10, 5)

	interrupted := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.PumpEvents(func() { interrupted <- struct{}{} })
	}()

	require.NoError(t, screen.PostEvent(tcell.NewEventResize(12, 6)))
	screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)

	select {
	case <-interrupted:
	case <-time.After(2 * time.Second):
		t.Fatal("interrupt not delivered")
	}
	require.True(t, c.resizePending.Load())

	c.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pump did not stop after close")
	}
}

func TestPumpEvents_EscapeIgnored(t *testing.T) {
	c, screen := newTestCanvas(t, 10, 5)

	var count atomic.Int32
	interrupted := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.PumpEvents(func() {
			count.Add(1)
			interrupted <- struct{}{}
		})
	}()

	// Events are handled in order, Escape is consumed before Ctrl-C arrives
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	require.NoError(t, screen.PostEvent(tcell.NewEventResize(12, 6)))
	screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)

	select {
	case <-interrupted:
	case <-time.After(2 * time.Second):
		t.Fatal("interrupt not delivered")
	}
	require.Equal(t, int32(1), count.Load())
	require.True(t, c.resizePending.Load())

	c.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pump did not stop after close")
	}
	require.Equal(t, int32(1), count.Load())
}

// lifecycleScreen counts Init and Fini calls on a simulation screen
type lifecycleScreen struct {
	tcell.SimulationScreen
	inits, finis atomic.Int32
}

func (s *lifecycleScreen) Init() error {
	s.inits.Add(1)
	return s.SimulationScreen.Init()
}

func (s *lifecycleScreen) Fini() {
	s.finis.Add(1)
	s.SimulationScreen.Fini()
}

func TestReset_AfterClose(t *testing.T) {
	screen := &lifecycleScreen{SimulationScreen: tcell.NewSimulationScreen("UTF-8")}
	c, err := New(screen)
	require.NoError(t, err)

	c.Close()
	err = c.Reset()
	require.ErrorIs(t, err, ErrClosed)
	var ie *InitError
	require.ErrorAs(t, err, &ie)
	require.Equal(t, 1, ie.Code)

	require.Zero(t, screen.inits.Load(), "closed canvas initialized the terminal")
	require.Zero(t, screen.finis.Load())
}

func TestClose_ConcurrentWithReset(t *testing.T) {
	for i := 0; i < 50; i++ {
		screen := &lifecycleScreen{SimulationScreen: tcell.NewSimulationScreen("UTF-8")}
		c, err := New(screen)
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = c.Reset()
		}()
		go func() {
			defer wg.Done()
			c.Close()
		}()
		wg.Wait()

		// Either Close won and nothing was initialized, or it finalized what Reset set up
		require.Equal(t, screen.inits.Load(), screen.finis.Load(), "iteration %d", i)
		require.LessOrEqual(t, screen.finis.Load(), int32(1))
	}
}

func TestExitCode(t *testing.T) {
	require.Equal(t, 1, exitCode(errors.New("boom")))
	require.Equal(t, int(syscall.ENOTTY), exitCode(syscall.ENOTTY))

	err := error(&InitError{Code: exitCode(syscall.ENXIO), Err: syscall.ENXIO})
	var ie *InitError
	require.ErrorAs(t, err, &ie)
	require.Equal(t, int(syscall.ENXIO), ie.Code)
	require.ErrorIs(t, err, syscall.ENXIO)
}
