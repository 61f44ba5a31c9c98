package asset

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-vrma/engine/loader"
)

var errServerClosed = errors.New("asset server closed")

// ServerBuilderOption is a functional option for configuring a Server via NewServer.
type ServerBuilderOption func(*server)

// WithLoader is an option builder that sets the Loader used to decode documents.
//
// Parameters:
//   - l: the loader instance
//
// Returns:
//   - ServerBuilderOption: a function that applies the loader option to a server
func WithLoader(l loader.Loader) ServerBuilderOption {
	return func(s *server) {
		s.loader = l
	}
}

// WithWorkers is an option builder that sets the number of decode workers.
//
// Parameters:
//   - n: the worker count, values below 1 are raised to 1
//
// Returns:
//   - ServerBuilderOption: a function that applies the worker count option to a server
func WithWorkers(n int) ServerBuilderOption {
	return func(s *server) {
		s.workers = max(1, n)
	}
}

// WithQueueSize is an option builder that sets the decode queue capacity.
//
// Parameters:
//   - n: the queue capacity
//
// Returns:
//   - ServerBuilderOption: a function that applies the queue size option to a server
func WithQueueSize(n int) ServerBuilderOption {
	return func(s *server) {
		s.queueSize = max(1, n)
	}
}
