// Package asset decodes documents in the background and hands out references that
// complete when the decode finishes.
package asset

import (
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-vrma/engine/loader"
)

// server is the implementation of the Server interface.
type server struct {
	mu sync.Mutex

	loader  loader.Loader
	handles map[string]*handle

	pool      worker.DynamicWorkerPool
	workers   int
	queueSize int
	taskID    int
	closed    bool
}

// Server defines the asset pipeline: documents are decoded on a worker pool and
// handed out as Handles.
type Server interface {
	// Load returns the handle for path, starting a background decode the first time
	// the path is requested or when the previous decode failed.
	//
	// Parameters:
	//   - path: the document path
	//
	// Returns:
	//   - Handle: the (possibly still pending) handle
	Load(path string) Handle

	// Reload drops any cached decode of path and starts a fresh one.
	// Handles returned earlier for the path keep their old result.
	//
	// Parameters:
	//   - path: the document path
	//
	// Returns:
	//   - Handle: a new pending handle
	Reload(path string) Handle

	// Get returns the current handle for path without starting a decode.
	//
	// Parameters:
	//   - path: the document path
	//
	// Returns:
	//   - Handle: the handle, or nil if path was never requested
	Get(path string) Handle

	// Close stops the worker pool. Loads after Close fail immediately.
	Close()
}

var _ Server = &server{}

// NewServer creates a new asset server with the provided options.
//
// Parameters:
//   - options: a variadic list of ServerBuilderOption functions
//
// Returns:
//   - Server: the asset server
func NewServer(options ...ServerBuilderOption) Server {
	s := &server{
		handles:   make(map[string]*handle),
		workers:   max(2, runtime.NumCPU()/2),
		queueSize: 64,
	}

	for _, option := range options {
		option(s)
	}

	if s.loader == nil {
		s.loader = loader.NewLoader(loader.BackendTypeGLTF)
	}
	s.pool = worker.NewDynamicWorkerPool(s.workers, s.queueSize, time.Second)
	return s
}

func (s *server) Load(path string) Handle {
	s.mu.Lock()
	// Failed decodes are retried so a file fixed on disk can be picked up again.
	if h, ok := s.handles[path]; ok && h.State() != HandleStateFailed {
		s.mu.Unlock()
		return h
	}
	h := s.startLocked(path)
	s.mu.Unlock()
	return h
}

func (s *server) Reload(path string) Handle {
	s.loader.Invalidate(path)

	s.mu.Lock()
	h := s.startLocked(path)
	s.mu.Unlock()
	return h
}

func (s *server) Get(path string) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.handles[path]; ok {
		return h
	}
	return nil
}

func (s *server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.pool.Stop()
}

// startLocked registers a new pending handle for path and queues its decode.
// s.mu must be held.
func (s *server) startLocked(path string) *handle {
	h := newHandle(path)
	s.handles[path] = h

	if s.closed {
		h.complete(nil, errServerClosed)
		return h
	}

	s.taskID++
	s.pool.SubmitTask(worker.Task{
		ID:      s.taskID,
		Payload: path,
		Do: func() (any, error) {
			doc, err := s.loader.Decode(path)
			if err != nil {
				log.Printf("[Asset] failed to decode %s: %v", path, err)
			} else {
				log.Printf("[Asset] decoded %s (%d nodes, %d animations)", path, doc.NodeCount(), doc.AnimationCount())
			}
			h.complete(doc, err)
			return doc, err
		},
	})
	return h
}
