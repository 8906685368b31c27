package plan

// Runner steps through a workout, SecondsPerExercise per exercise,
// advancing automatically when an exercise's time runs out.
type Runner struct {
	plan      Plan
	exercises []Exercise
	index     int
	left      int
	complete  bool
}

// NewRunner starts p at its first exercise
func NewRunner(p Plan, defaults []Exercise) *Runner {
	r := &Runner{
		plan:      p,
		exercises: p.Workout(defaults),
		left:      SecondsPerExercise,
	}
	if len(r.exercises) == 0 {
		r.complete = true
		r.left = 0
	}
	return r
}

// Tick counts down one second and reports whether the workout just completed
func (r *Runner) Tick() bool {
	if r.complete {
		return false
	}
	if r.left > 1 {
		r.left--
		return false
	}
	return r.advance()
}

// Skip jumps to the next exercise
func (r *Runner) Skip() bool {
	if r.complete {
		return false
	}
	return r.advance()
}

func (r *Runner) advance() bool {
	if r.index+1 >= len(r.exercises) {
		r.complete = true
		r.left = 0
		return true
	}
	r.index++
	r.left = SecondsPerExercise
	return false
}

// Plan is the plan being run
func (r *Runner) Plan() Plan { return r.plan }

// Current returns the exercise in progress, false once complete
func (r *Runner) Current() (Exercise, bool) {
	if r.complete {
		return Exercise{}, false
	}
	return r.exercises[r.index], true
}

// Position is the 1-based exercise number, capped at Total
func (r *Runner) Position() int { return min(r.index+1, len(r.exercises)) }

// Total is the number of exercises
func (r *Runner) Total() int { return len(r.exercises) }

// SecondsLeft is the time left on the current exercise
func (r *Runner) SecondsLeft() int { return r.left }

// Complete reports whether every exercise has run
func (r *Runner) Complete() bool { return r.complete }

// ExerciseProgress is how far through the current exercise we are, 0 to 1
func (r *Runner) ExerciseProgress() float64 {
	if r.complete {
		return 1
	}
	return float64(SecondsPerExercise-r.left) / SecondsPerExercise
}

// WorkoutProgress is the fraction of exercises finished
func (r *Runner) WorkoutProgress() float64 {
	if len(r.exercises) == 0 || r.complete {
		return 1
	}
	return float64(r.index) / float64(len(r.exercises))
}
