package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var errNotInitialized = errors.New("window is not initialized")

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent *engineWindow
	window *glfw.Window
}

// newPlatformWindow creates the GLFW window with input callbacks and stores it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// Nothing is drawn, so no client API context is needed.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}

	gw := &glfwWindow{parent: w, window: win}
	w.internalWindow = gw

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetDropCallback
	win.SetDropCallback(func(_ *glfw.Window, names []string) {
		if w.onDrop != nil && len(names) > 0 {
			w.onDrop(names)
		}
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetKeyCallback
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		if key == glfw.KeyEscape {
			win.SetShouldClose(true)
			return
		}
		if w.onKeyDown != nil {
			w.onKeyDown(int(key))
		}
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetFramebufferSizeCallback
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	w.width, w.height = win.GetFramebufferSize()
	return nil
}

// platformIsRunningCheck returns whether the GLFW window is still open.
func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return !gw.window.ShouldClose()
}

// platformCloseWindow destroys the GLFW window and terminates the GLFW library.
func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return errNotInitialized
	}
	gw := w.internalWindow.(*glfwWindow)
	w.internalWindow = nil
	gw.window.Destroy()
	glfw.Terminate()
	return nil
}

// platformProcessMessages waits up to the poll interval for events and dispatches them.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#WaitEventsTimeout
func platformProcessMessages(w *engineWindow) bool {
	glfw.WaitEventsTimeout(w.pollInterval.Seconds())
	return platformIsRunningCheck(w)
}

// platformSetTitle updates the title bar. Must run on the main thread.
func platformSetTitle(w *engineWindow, title string) {
	if w.internalWindow == nil {
		return
	}
	w.internalWindow.(*glfwWindow).window.SetTitle(title)
}

// platformWake unblocks a pending WaitEventsTimeout. Safe from any goroutine.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PostEmptyEvent
func platformWake() {
	glfw.PostEmptyEvent()
}
