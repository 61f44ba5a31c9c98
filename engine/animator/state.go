package animator

// State is the load state of an Animator.
type State int

const (
	// StateEmpty means no clip has been requested yet.
	StateEmpty State = iota

	// StateLoading means a clip was requested and its document or import is outstanding,
	// or the last attempt failed.
	StateLoading

	// StateReady means the requested clip is imported and playing.
	StateReady
)

// String returns a lower-case name for s.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}
