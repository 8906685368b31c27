// Package ledger keeps the append-only record of completed exercise sessions
// and mirrors it to the key-value store after every change.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rehab/internal/plan"
	"rehab/internal/store"
)

// SessionsKey is the store key holding the serialized session list
const SessionsKey = "rehab_sessions"

// ErrStorageWrite wraps a failure to persist the session list
var ErrStorageWrite = errors.New("storage write failed")

// Backend is the persistent key-value store the ledger mirrors to
type Backend interface {
	GetValue(key string) (string, error)
	SetValue(key, value string) error
}

// Session is one completed or early-terminated workout
type Session struct {
	ID     string    `json:"id"`
	Plan   plan.Plan `json:"plan"`
	Date   time.Time `json:"date"`
	UserID string    `json:"userId"`
}

// LoadReport summarizes what Load found in the store
type LoadReport struct {
	Loaded  int
	Skipped int
	Errors  []error
}

// Ledger owns the session sequence, most recent first
type Ledger struct {
	backend  Backend
	sessions []Session
	owner    string
	now      func() time.Time
	loc      *time.Location
	log      *slog.Logger
}

// Option configures a Ledger
type Option func(*Ledger)

// WithClock sets the time source used to stamp new sessions
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLocation sets the zone used for calendar-day comparisons
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) { l.loc = loc }
}

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

// Load builds a ledger from whatever the backend holds for SessionsKey.
// Records that fail to decode are skipped; a missing or unreadable list
// yields an empty ledger.
func Load(backend Backend, owner string, opts ...Option) (*Ledger, LoadReport) {
	l := &Ledger{
		backend: backend,
		owner:   owner,
		now:     time.Now,
		loc:     time.Local,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}

	var report LoadReport

	raw, err := backend.GetValue(SessionsKey)
	if err != nil {
		// Absent key is the normal first run; anything else is logged
		if !errors.Is(err, store.ErrKeyNotFound) {
			report.Errors = append(report.Errors, fmt.Errorf("reading sessions: %w", err))
			l.log.Warn("could not read sessions", "error", err)
		}
		return l, report
	}

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		report.Errors = append(report.Errors, fmt.Errorf("parsing sessions list: %w", err))
		l.log.Warn("session list is malformed, starting empty", "error", err)
		return l, report
	}

	for i, rec := range records {
		s, err := decodeSession(rec)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Errorf("session %d: %w", i, err))
			l.log.Warn("skipping malformed session", "index", i, "error", err)
			continue
		}
		l.sessions = append(l.sessions, s)
	}
	report.Loaded = len(l.sessions)

	return l, report
}

// decodeSession parses one stored record
func decodeSession(rec json.RawMessage) (Session, error) {
	var s Session
	if err := json.Unmarshal(rec, &s); err != nil {
		return Session{}, err
	}
	if s.ID == "" {
		return Session{}, errors.New("missing id")
	}
	if s.Date.IsZero() {
		return Session{}, errors.New("missing date")
	}
	return s, nil
}

// Append records a session at the front of the ledger and persists the
// whole list before returning. An empty ID gets a fresh uuid, a zero Date
// gets the current time and an empty UserID gets the ledger owner.
// On a write failure the ledger is left unchanged.
func (l *Ledger) Append(s Session) (Session, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Date.IsZero() {
		s.Date = l.now()
	}
	if s.UserID == "" {
		s.UserID = l.owner
	}

	next := make([]Session, 0, len(l.sessions)+1)
	next = append(next, s)
	next = append(next, l.sessions...)

	if err := l.persist(next); err != nil {
		return Session{}, err
	}
	l.sessions = next

	l.log.Info("session recorded", "id", s.ID, "plan", s.Plan.Name)
	return s, nil
}

// ClearAll discards every session and persists the empty list
func (l *Ledger) ClearAll() error {
	if err := l.persist([]Session{}); err != nil {
		return err
	}
	l.sessions = nil

	l.log.Info("session history cleared")
	return nil
}

func (l *Ledger) persist(sessions []Session) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encoding sessions: %w", err)
	}
	if err := l.backend.SetValue(SessionsKey, string(data)); err != nil {
		l.log.Error("persisting sessions failed", "error", err)
		return fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}
	return nil
}

// CountOnDay returns how many sessions fall on date's calendar day in the
// ledger's location.
func (l *Ledger) CountOnDay(date time.Time) int {
	y, m, d := date.In(l.loc).Date()
	count := 0
	for _, s := range l.sessions {
		sy, sm, sd := s.Date.In(l.loc).Date()
		if sy == y && sm == m && sd == d {
			count++
		}
	}
	return count
}

// All returns a copy of the sessions, most recent first
func (l *Ledger) All() []Session {
	out := make([]Session, len(l.sessions))
	copy(out, l.sessions)
	return out
}

// Len is the number of recorded sessions
func (l *Ledger) Len() int {
	return len(l.sessions)
}
