// Package window opens the drop target window. Files dropped on it are reported through a
// callback; the window draws nothing.
package window

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"
)

// Window provides platform windowing and input event handling.
// Wraps the GLFW window with a small callback interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetDropCallback sets the function called when files are dropped on the window.
	//
	// Parameters:
	//   - callback: function receiving the dropped file paths
	SetDropCallback(callback func(paths []string))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyDownCallback(callback func(keyCode int))

	// SetResizeCallback sets the function called when the window is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetTitle replaces the title bar text. It may be called from any goroutine; the title is
	// applied on the next message loop iteration.
	//
	// Parameters:
	//   - title: the new title
	SetTitle(title string)

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop. It may be called from any goroutine.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop on the calling goroutine, which must be
	// the one that created the window. Blocks until the window is closed.
	ProcessMessages()

	// Width returns the current window client area width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current window client area height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// pendingTitle holds a title set off the main thread until the loop applies it.
	pendingTitle atomic.Pointer[string]

	// width and height are the current window client area size in pixels.
	width  int
	height int

	// pollInterval is how long the message loop waits for events per iteration.
	pollInterval time.Duration

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// closeRequested is set by RequestClose.
	closeRequested atomic.Bool

	// open is true between creation and Close.
	open atomic.Bool

	onUpdate  func()
	onDrop    func(paths []string)
	onKeyDown func(keyCode int)
	onResize  func(width, height int)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Must be called from the main goroutine.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
//   - error: error if GLFW cannot create the window
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:        "oxy-vrma",
		width:        480,
		height:       320,
		pollInterval: 10 * time.Millisecond,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	w.open.Store(true)
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetDropCallback(callback func(paths []string)) {
	w.onDrop = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode int)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetTitle(title string) {
	w.pendingTitle.Store(&title)
}

func (w *engineWindow) IsRunning() bool {
	return !w.closeRequested.Load() && platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	w.closeRequested.Store(true)
	if w.open.Load() {
		platformWake()
	}
}

func (w *engineWindow) Close() error {
	w.open.Store(false)
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if t := w.pendingTitle.Swap(nil); t != nil {
			w.title = *t
			platformSetTitle(w, *t)
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
