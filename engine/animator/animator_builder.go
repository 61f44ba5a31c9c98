package animator

import (
	"github.com/go-gl/mathgl/mgl32"
)

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithCorrection is an option builder that sets the rotation fix-up applied to every sampled
// rotation. The default is a half turn about +Y; pass mgl32.QuatIdent() to disable it.
//
// Parameters:
//   - q: the correction quaternion
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the correction option to an animator
func WithCorrection(q mgl32.Quat) AnimatorBuilderOption {
	return func(a *animator) {
		a.correction = q
	}
}

// WithImporter is an option builder that replaces the clip importer.
//
// Parameters:
//   - fn: the importer turning a decoded document into a clip
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the importer option to an animator
func WithImporter(fn Importer) AnimatorBuilderOption {
	return func(a *animator) {
		a.importer = fn
	}
}

// WithName is an option builder that sets the name used in log lines.
//
// Parameters:
//   - name: the animator name, usually the character name
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the name option to an animator
func WithName(name string) AnimatorBuilderOption {
	return func(a *animator) {
		a.name = name
	}
}
