package workspace

import (
	"fmt"

	"github.com/gonote/gonote/internal/models"
)

// ErrEventNotFound is returned for unknown event ids.
var ErrEventNotFound = fmt.Errorf("event not found")

// LoadEvents replaces the event list after a bulk fetch.
func (s *Store) LoadEvents(events []models.CalendarEvent) {
	s.mu.Lock()
	s.events = append([]models.CalendarEvent{}, events...)
	s.mu.Unlock()
}

// Events returns a copy of every event.
func (s *Store) Events() []models.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CalendarEvent, len(s.events))
	for i, e := range s.events {
		e.NotifyUsers = append([]string{}, e.NotifyUsers...)
		out[i] = e
	}
	return out
}

// AddEvent appends an event and announces it.
func (s *Store) AddEvent(e models.CalendarEvent) {
	if e.Recurrence == "" {
		e.Recurrence = models.RecurrenceNone
	}
	if e.Type == "" {
		e.Type = models.CalendarSolar
	}
	if e.NotifyUsers == nil {
		e.NotifyUsers = []string{}
	}
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
	s.emit(Change{Kind: EventCreated, Event: &e})
}

// ReplaceEvent swaps the event with oldID for e, used when the server
// assigns its own id on create.
func (s *Store) ReplaceEvent(oldID string, e models.CalendarEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == oldID {
			s.events[i] = e
			return
		}
	}
}

// RemoveEvent deletes an event by id.
func (s *Store) RemoveEvent(id string) error {
	s.mu.Lock()
	for i, e := range s.events {
		if e.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			s.mu.Unlock()
			s.emit(Change{Kind: EventDeleted, Event: &e})
			return nil
		}
	}
	s.mu.Unlock()
	return fmt.Errorf("%w: %s", ErrEventNotFound, id)
}

// Notify appends an in-app notification. A notification whose id is
// already present is dropped and reports false.
func (s *Store) Notify(n models.AppNotification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.notifications {
		if existing.ID == n.ID {
			return false
		}
	}
	s.notifications = append(s.notifications, n)
	return true
}

// Notifications returns the notifications addressed to userID.
func (s *Store) Notifications(userID string) []models.AppNotification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.AppNotification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}
