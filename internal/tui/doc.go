// Package tui renders terminal progress for long-running release steps.
//
// The build step is the only part of a release that can take minutes, so it
// is the only step wrapped in a spinner. Callers decide whether the session
// is interactive (see ui.DetectMode); this package assumes it is.
package tui
