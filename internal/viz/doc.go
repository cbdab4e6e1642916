// Package viz renders orbits in the terminal.
//
// [Canvas] is a braille surface with 2x4 dots per cell that the frame
// loop draws into like any other surface. [Model] is the live bubbletea
// view around it: the canvas, a stats panel with an energy drift chart
// and the body list. [Picker] is a preset menu in front of the live view.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Rebuild from the config
//	T     - Toggle trails
//	+/-   - Double/halve ticks per frame
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	Q/Esc - Quit
//
// When the view is started with a [ConfigWatcher], saving the config file
// rebuilds the simulation in place.
package viz
