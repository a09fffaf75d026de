// Package canvas provides a double-buffered braille dot canvas on a tcell screen.
//
// Each terminal cell holds a 2x4 block of dots rendered as a Unicode braille
// pattern, so a 80x24 terminal exposes a 160x96 dot surface.
//
// Features:
//   - Line, dot and filled polygon primitives in dot space
//   - Back buffer composition with cell-level diffing on swap
//   - Deferred resize: a pending flag is set from any goroutine, applied by Resize
//   - Idempotent Close, safe from termination paths
package canvas
