package asset

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-vrma/engine/loader"
)

// HandleState is the decode progress of a Handle.
type HandleState int

const (
	// HandleStatePending means the document is still decoding.
	HandleStatePending HandleState = iota

	// HandleStateReady means the document decoded successfully.
	HandleStateReady

	// HandleStateFailed means decoding failed; Err reports why.
	HandleStateFailed
)

// String returns a lower-case name for s.
func (s HandleState) String() string {
	switch s {
	case HandleStatePending:
		return "pending"
	case HandleStateReady:
		return "ready"
	case HandleStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// handle is the implementation of the Handle interface.
type handle struct {
	mu sync.Mutex

	path        string
	state       HandleState
	doc         *loader.Document
	err         error
	subscribers []func(Handle)
}

// Handle is a reference to a document that may still be decoding.
// Load shares a handle between callers of the same path while Reload always returns a new
// one, so comparing handles tells a consumer whether a completion belongs to its latest request.
type Handle interface {
	// Path returns the document path the handle was requested for.
	//
	// Returns:
	//   - string: the document path
	Path() string

	// State returns the current decode progress.
	//
	// Returns:
	//   - HandleState: pending, ready, or failed
	State() HandleState

	// Document returns the decoded document once the handle is ready, nil otherwise.
	//
	// Returns:
	//   - *loader.Document: the decoded document or nil
	Document() *loader.Document

	// Err returns the decode failure once the handle has failed, nil otherwise.
	//
	// Returns:
	//   - error: the decode error or nil
	Err() error

	// Subscribe registers fn to run once when the handle completes.
	// If the handle has already completed fn runs immediately on the calling goroutine;
	// otherwise it runs on the decoding goroutine.
	//
	// Parameters:
	//   - fn: the completion callback
	Subscribe(fn func(Handle))
}

var _ Handle = &handle{}

// newHandle creates a pending handle for path.
func newHandle(path string) *handle {
	return &handle{path: path, state: HandleStatePending}
}

// NewReadyHandle wraps an already decoded document in a completed handle.
//
// Parameters:
//   - path: the document path
//   - doc: the decoded document
//
// Returns:
//   - Handle: a handle in the ready state
func NewReadyHandle(path string, doc *loader.Document) Handle {
	return &handle{path: path, state: HandleStateReady, doc: doc}
}

// NewFailedHandle wraps a decode failure in a completed handle.
//
// Parameters:
//   - path: the document path
//   - err: the failure
//
// Returns:
//   - Handle: a handle in the failed state
func NewFailedHandle(path string, err error) Handle {
	return &handle{path: path, state: HandleStateFailed, err: err}
}

func (h *handle) Path() string {
	return h.path
}

func (h *handle) State() HandleState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *handle) Document() *loader.Document {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.doc
}

func (h *handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *handle) Subscribe(fn func(Handle)) {
	h.mu.Lock()
	if h.state == HandleStatePending {
		h.subscribers = append(h.subscribers, fn)
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()
	fn(h)
}

// complete records the decode result and notifies subscribers outside the lock.
func (h *handle) complete(doc *loader.Document, err error) {
	h.mu.Lock()
	if h.state != HandleStatePending {
		h.mu.Unlock()
		return
	}
	if err != nil {
		h.state = HandleStateFailed
		h.err = err
	} else {
		h.state = HandleStateReady
		h.doc = doc
	}
	subs := h.subscribers
	h.subscribers = nil
	h.mu.Unlock()

	for _, fn := range subs {
		fn(h)
	}
}
