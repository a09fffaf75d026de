package canvas

import (
	"github.com/gdamore/tcell/v2"
)

// PumpEvents blocks reading screen events until the screen is finalized
// Resize events set the pending flag, Ctrl-C calls onInterrupt
// Raw mode suppresses terminal generated SIGINT, the key is the only interrupt source
func (c *Canvas) PumpEvents(onInterrupt func()) {
	for {
		ev := c.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			c.SetResizePending()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyCtrlC:
				if onInterrupt != nil {
					onInterrupt()
				}
			}
		}
	}
}
