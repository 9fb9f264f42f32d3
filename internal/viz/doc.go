// Package viz draws phase portraits in the terminal.
//
// The package implements a slider explorer using the Bubble Tea framework:
//
//   - [App]: four parameter sliders beside the live phase portrait
//   - [Canvas]: Braille-based pixel canvas with glyph layers for arrows
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	J/K   - Select slider
//	H/L   - Adjust by one step (shift for five)
//	R     - Reset to the starting parameters
//	N     - Toggle nullclines
//	Tab   - Cycle the b(t), i(t) chart between trajectories
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
