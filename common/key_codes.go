package common

// Virtual key codes for the viewer's key bindings.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace = 32  // Spacebar (ASCII): toggle playback
	KeyP     = 80  // P key (ASCII): toggle the profiler
	KeyR     = 82  // R key (ASCII): reimport the selected clip
	KeyS     = 83  // S key (ASCII): save settings
	KeyEsc   = 256 // Escape key (GLFW): close the window
)
