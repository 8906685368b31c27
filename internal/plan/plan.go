package plan

import (
	"errors"
	"fmt"
)

// SecondsPerExercise is how long each exercise runs in a workout
const SecondsPerExercise = 30

// Intensity labels a plan's effort level
type Intensity string

const (
	IntensityLow    Intensity = "Low"
	IntensityMedium Intensity = "Medium"
	IntensityHigh   Intensity = "High"
)

// Valid reports whether i is one of the known intensity labels
func (i Intensity) Valid() bool {
	switch i {
	case IntensityLow, IntensityMedium, IntensityHigh:
		return true
	}
	return false
}

// Exercise is a single movement with instructions
type Exercise struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Plan is a named workout definition.
// When Exercises is empty, Actions selects that many default exercises.
type Plan struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Actions   int        `json:"actions" yaml:"actions"`
	Intensity Intensity  `json:"intensity" yaml:"intensity"`
	Exercises []Exercise `json:"exercises,omitempty" yaml:"exercises,omitempty"`
}

// ErrInvalidPlan is returned by Validate for malformed plans
var ErrInvalidPlan = errors.New("invalid plan")

// Validate checks the plan invariants
func (p Plan) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidPlan)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: plan %s: missing name", ErrInvalidPlan, p.ID)
	}
	if !p.Intensity.Valid() {
		return fmt.Errorf("%w: plan %s: unknown intensity %q", ErrInvalidPlan, p.ID, p.Intensity)
	}
	if len(p.Exercises) > 0 && p.Actions != len(p.Exercises) {
		return fmt.Errorf("%w: plan %s: actions %d does not match %d exercises", ErrInvalidPlan, p.ID, p.Actions, len(p.Exercises))
	}
	if len(p.Exercises) == 0 && p.Actions < 1 {
		return fmt.Errorf("%w: plan %s: actions must be positive", ErrInvalidPlan, p.ID)
	}
	return nil
}

// Workout returns the exercises to perform, drawing from defaults when
// the plan has no explicit list. Actions beyond the defaults are capped.
func (p Plan) Workout(defaults []Exercise) []Exercise {
	if len(p.Exercises) > 0 {
		out := make([]Exercise, len(p.Exercises))
		copy(out, p.Exercises)
		return out
	}

	n := p.Actions
	if n > len(defaults) {
		n = len(defaults)
	}
	if n < 0 {
		n = 0
	}
	out := make([]Exercise, n)
	copy(out, defaults[:n])
	return out
}

// ActionCount is the number of exercises the plan runs
func (p Plan) ActionCount() int {
	if len(p.Exercises) > 0 {
		return len(p.Exercises)
	}
	return p.Actions
}

// TotalSeconds is the planned workout duration
func (p Plan) TotalSeconds() int {
	return p.ActionCount() * SecondsPerExercise
}

// BodyArea is a selectable problem area
type BodyArea struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}
