package scheduler

// Reminder is the derived sitting state shown to the user.
// It is never persisted.
type Reminder struct {
	elapsed   int
	interval  int
	inWorkout bool
}

// NewReminder starts a reminder with the given interval and no sitting time
func NewReminder(interval int) *Reminder {
	return &Reminder{interval: max(interval, 1)}
}

// Tick advances the sitting counter by one second and reports whether
// the reminder became due on this tick.
func (r *Reminder) Tick() bool {
	wasDue := r.Due()
	r.elapsed++
	return !wasDue && r.Due()
}

// Due is true exactly when the user has sat for the whole interval and is
// not currently working out.
func (r *Reminder) Due() bool {
	return !r.inWorkout && r.elapsed >= r.interval
}

// Elapsed is the number of seconds sat since the last workout
func (r *Reminder) Elapsed() int {
	return r.elapsed
}

// Interval is the current reminder interval in seconds
func (r *Reminder) Interval() int {
	return r.interval
}

// Remaining is the number of seconds until the reminder is due, never negative
func (r *Reminder) Remaining() int {
	return max(r.interval-r.elapsed, 0)
}

// InWorkout reports whether a workout is in progress
func (r *Reminder) InWorkout() bool {
	return r.inWorkout
}

// SetInterval replaces the interval without touching the sitting counter
func (r *Reminder) SetInterval(seconds int) {
	r.interval = max(seconds, 1)
}

// StartWorkout suppresses the due flag until the workout ends
func (r *Reminder) StartWorkout() {
	r.inWorkout = true
}

// EndWorkout ends any workout and resets the sitting counter
func (r *Reminder) EndWorkout() {
	r.inWorkout = false
	r.elapsed = 0
}
