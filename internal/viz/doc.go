// Package viz renders a running simulation in the terminal.
//
// The view is a Bubble Tea program:
//
//   - [Model]: steps a simulation per tick and draws it on a [Canvas]
//   - [Canvas]: braille sub-pixel canvas, 2x4 dots per character cell
//   - [NewInteractiveApp]: preset picker with editable tunables
//
// Bodies are drawn as 2x2 dot blocks, the simulation origin as a large
// cross and the drift point as a small one. The side panel shows an
// asciigraph of the RMS spread about the drift point.
//
// # Key Bindings
//
//	Space   - Pause/Resume simulation
//	P       - Toggle frame pacing
//	R       - Reset to initial state
//	T       - Cycle color themes
//	G       - Toggle GIF recording
//	+/-     - Zoom
//	Q, Esc  - Quit
//
// # Recording
//
// G starts and stops capturing the canvas; the frames are written as a GIF
// animation when recording stops or the view quits.
package viz
