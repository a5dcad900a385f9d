package engine

import "slices"

func (e *Engine) emitLocked(msg string) {
	e.notifications = slices.Insert(e.notifications, 0, msg)
}

// Notifications returns the notification log, most recent first.
func (e *Engine) Notifications() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.notifications)
}

// ClearNotifications empties the notification log.
func (e *Engine) ClearNotifications() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifications = e.notifications[:0]
}
