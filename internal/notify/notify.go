// Package notify sends the "time to move" reminder to the desktop.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	appName       = "rehab"
	appIcon       = "appointment-soon"
	expireTimeout = int32(15000)

	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = "/org/freedesktop/Notifications"
	notificationsMethod = "org.freedesktop.Notifications.Notify"
)

// ErrUnavailable is returned when no notification service can be reached
var ErrUnavailable = errors.New("desktop notifications unavailable")

// Notifier delivers a reminder outside the terminal
type Notifier interface {
	Notify(ctx context.Context, summary, body string) error
}

// New returns a Desktop notifier when enabled, otherwise Noop
func New(enabled bool, log *slog.Logger) Notifier {
	if !enabled {
		return Noop{}
	}
	return NewDesktop(log)
}

// Noop discards notifications
type Noop struct{}

// Notify does nothing
func (Noop) Notify(context.Context, string, string) error { return nil }

// Desktop posts notifications to org.freedesktop.Notifications on the
// session bus. Each reminder replaces the previous one.
type Desktop struct {
	log *slog.Logger

	mu     sync.Mutex
	lastID uint32
}

// NewDesktop creates a D-Bus desktop notifier
func NewDesktop(log *slog.Logger) *Desktop {
	if log == nil {
		log = slog.Default()
	}
	return &Desktop{log: log}
}

// Notify sends one notification. The bus connection is opened per call.
func (d *Desktop) Notify(ctx context.Context, summary, body string) error {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: connecting to session bus: %w", ErrUnavailable, err)
	}
	defer conn.Close()

	d.mu.Lock()
	defer d.mu.Unlock()

	obj := conn.Object(notificationsDest, dbus.ObjectPath(notificationsPath))
	call := obj.CallWithContext(ctx, notificationsMethod, 0,
		appName,
		d.lastID,
		appIcon,
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{
			"urgency": dbus.MakeVariant(byte(1)),
		},
		expireTimeout,
	)
	if call.Err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		d.log.Warn("notification id not returned", "error", err)
		return nil
	}
	d.lastID = id

	d.log.Debug("desktop notification sent", "id", id, "summary", summary)
	return nil
}

// ReminderBody is the notification text for a due reminder
func ReminderBody(planName string, completedToday, goal int) string {
	remaining := max(goal-completedToday, 0)
	switch remaining {
	case 0:
		return fmt.Sprintf("Daily goal reached. A quick %s keeps it going.", planName)
	case 1:
		return fmt.Sprintf("Try %s. 1 more session to reach today's goal.", planName)
	default:
		return fmt.Sprintf("Try %s. %d more sessions to reach today's goal.", planName, remaining)
	}
}
