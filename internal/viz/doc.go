// Package viz renders the bench in the terminal.
//
// The three views of a [bench.Snapshot] each have a renderer:
//
//   - [RayDiagram]: Braille drawing of the laser, lens, slit, screen and rays
//   - [Pattern]: the screen pattern as red bands, brightness following intensity
//   - [Curve]: the intensity curve with a marker under the probe position
//
// [Model] combines them into an interactive Bubble Tea program.
//
// # Key Bindings
//
//	Tab    - Select next parameter
//	Up/K   - Increase selected parameter by one step
//	Down/J - Decrease selected parameter by one step
//	R      - Reset to initial parameters
//	P      - Open preset menu
//	T      - Cycle color themes
//	?      - Show help overlay
//	Q      - Quit
package viz
