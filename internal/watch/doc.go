// Package watch re-runs the split whenever the input CSV changes. It watches
// the file's directory so that save-by-rename editors are picked up, collapses
// bursts of events, and prints a status line after each run.
package watch
