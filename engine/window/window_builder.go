package window

import "time"

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial window size.
//
// Parameters:
//   - width: initial width in pixels
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
		w.height = height
	}
}

// WithPollInterval sets how long each message loop iteration waits for events.
//
// Parameters:
//   - d: the wait timeout
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithPollInterval(d time.Duration) WindowBuilderOption {
	return func(w *engineWindow) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}
