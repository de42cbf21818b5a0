// Package progress renders sync progress on the terminal.
//
// On an interactive terminal a single line is redrawn with a bar, a counter
// and the issue being processed. Otherwise one plain line is written per
// issue so that logs stay readable.
package progress
