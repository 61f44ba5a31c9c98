package scene

import (
	"github.com/Carmen-Shannon/oxy-vrma/engine/animator"
)

// StageBuilderOption is a functional option for configuring a Stage.
// Use the With* functions to create options.
type StageBuilderOption func(s *stage)

// WithActive sets whether the stage ticks its characters.
//
// Parameters:
//   - active: whether the stage is active
//
// Returns:
//   - StageBuilderOption: option function to apply
func WithActive(active bool) StageBuilderOption {
	return func(s *stage) {
		s.active = active
	}
}

// WithCharacters puts initial characters on stage. Characters whose name is already
// taken are skipped.
//
// Parameters:
//   - characters: the characters to add
//
// Returns:
//   - StageBuilderOption: option function to apply
func WithCharacters(characters ...Character) StageBuilderOption {
	return func(s *stage) {
		for _, c := range characters {
			if _, ok := s.characters[c.Name()]; ok {
				continue
			}
			s.characters[c.Name()] = c
			s.order = append(s.order, c.Name())
		}
	}
}

// WithTickWorkers sets the number of worker goroutines that tick characters.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of tick workers (minimum 1)
//
// Returns:
//   - StageBuilderOption: option function to apply
func WithTickWorkers(n int) StageBuilderOption {
	return func(s *stage) {
		if n < 1 {
			n = 1
		}
		s.tickWorkers = n
	}
}

// CharacterBuilderOption is a functional option for configuring a Character.
type CharacterBuilderOption func(c *character)

// WithRigExtractor replaces the function that builds a rig from an avatar document.
//
// Parameters:
//   - fn: the rig extractor
//
// Returns:
//   - CharacterBuilderOption: option function to apply
func WithRigExtractor(fn RigExtractor) CharacterBuilderOption {
	return func(c *character) {
		c.extract = fn
	}
}

// WithAnimatorOptions passes options through to the character's animator.
//
// Parameters:
//   - options: the animator options
//
// Returns:
//   - CharacterBuilderOption: option function to apply
func WithAnimatorOptions(options ...animator.AnimatorBuilderOption) CharacterBuilderOption {
	return func(c *character) {
		c.animOpts = append(c.animOpts, options...)
	}
}
