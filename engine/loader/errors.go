package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAnimation is returned when a document defines no animations.
	ErrNoAnimation = errors.New("document defines no animations")

	// ErrMissingKeyframeInputs is returned when a channel's keyframe times are absent or unusable.
	ErrMissingKeyframeInputs = errors.New("missing keyframe inputs")

	// ErrMalformedChannel is returned when a channel's keyframe values cannot be paired with its times.
	ErrMalformedChannel = errors.New("malformed animation channel")

	// ErrUnsupportedFormat is returned for file extensions no backend handles.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// ImportError describes the channel that aborted a clip import.
type ImportError struct {
	// Animation is the source animation name.
	Animation string

	// Channel is the channel index within the animation.
	Channel int

	// Node is the name of the node the channel targets.
	Node string

	// Err is the underlying cause, wrapping ErrMissingKeyframeInputs or ErrMalformedChannel.
	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("animation %q channel %d (node %q): %v", e.Animation, e.Channel, e.Node, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
