package application

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/saransh1220/sifline/internal/modules/notification/domain"
)

// ChangeOp names the kind of store mutation a change event reports.
type ChangeOp string

const (
	ChangeAdded   ChangeOp = "added"
	ChangeUpdated ChangeOp = "updated"
	ChangeRemoved ChangeOp = "removed"
)

// ChangeEvent is emitted after every successful store mutation. Consumers
// use it to invalidate derived caches.
type ChangeEvent struct {
	Op       ChangeOp
	ID       uuid.UUID
	Revision uint64
}

// Store is the single owner of the active user's in-memory notifications
// and the exclusive writer of their state. All mutations serialize through
// one mutex; reads observe consistent snapshots and never a partial update.
type Store struct {
	mu       sync.RWMutex
	items    map[uuid.UUID]*domain.Notification
	revision uint64
	subs     []chan ChangeEvent
}

func NewStore() *Store {
	return &Store{items: make(map[uuid.UUID]*domain.Notification)}
}

// Add inserts a notification. It fails with ErrDuplicateID when the id is
// already present.
func (s *Store) Add(n domain.Notification) error {
	s.mu.Lock()
	if _, exists := s.items[n.ID]; exists {
		s.mu.Unlock()
		return domain.ErrDuplicateID
	}
	owned := n.Clone()
	s.items[n.ID] = &owned
	s.revision++
	event := ChangeEvent{Op: ChangeAdded, ID: n.ID, Revision: s.revision}
	s.mu.Unlock()

	s.publish(event)
	return nil
}

// Merge inserts a page of notifications, skipping ids already present.
// Returns the number actually added. Used when paginated remote loads land
// on top of live pushes.
func (s *Store) Merge(page []domain.Notification) int {
	s.mu.Lock()
	var events []ChangeEvent
	for i := range page {
		n := &page[i]
		if _, exists := s.items[n.ID]; exists {
			continue
		}
		owned := n.Clone()
		s.items[n.ID] = &owned
		s.revision++
		events = append(events, ChangeEvent{Op: ChangeAdded, ID: n.ID, Revision: s.revision})
	}
	s.mu.Unlock()

	for _, e := range events {
		s.publish(e)
	}
	return len(events)
}

// Get returns a copy of the notification or ErrNotFound.
func (s *Store) Get(id uuid.UUID) (domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.items[id]
	if !ok {
		return domain.Notification{}, domain.ErrNotFound
	}
	return n.Clone(), nil
}

// Update applies a state-machine-legal mutation to the stored notification.
// The mutation runs against a copy: if it returns an error nothing changes
// and the error is surfaced unchanged.
func (s *Store) Update(id uuid.UUID, mutate func(*domain.Notification) error) (domain.Notification, error) {
	s.mu.Lock()
	stored, ok := s.items[id]
	if !ok {
		s.mu.Unlock()
		return domain.Notification{}, domain.ErrNotFound
	}
	candidate := stored.Clone()
	if err := mutate(&candidate); err != nil {
		s.mu.Unlock()
		return domain.Notification{}, err
	}
	// Identity and creation time are immutable for the entity's life.
	candidate.ID = stored.ID
	candidate.CreatedAt = stored.CreatedAt
	s.items[id] = &candidate
	s.revision++
	event := ChangeEvent{Op: ChangeUpdated, ID: id, Revision: s.revision}
	result := candidate.Clone()
	s.mu.Unlock()

	s.publish(event)
	return result, nil
}

// Remove deletes a notification. Removing an absent id is not an error.
func (s *Store) Remove(id uuid.UUID) {
	s.mu.Lock()
	if _, ok := s.items[id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.items, id)
	s.revision++
	event := ChangeEvent{Op: ChangeRemoved, ID: id, Revision: s.revision}
	s.mu.Unlock()

	s.publish(event)
}

// All returns a snapshot of every notification, newest first by CreatedAt
// with the id as a deterministic tie break.
func (s *Store) All() []domain.Notification {
	s.mu.RLock()
	out := make([]domain.Notification, 0, len(s.items))
	for _, n := range s.items {
		out = append(out, n.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// UnreadCount counts notifications in any state before read, excluding
// archived.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.items {
		if n.CountsAsUnread() {
			count++
		}
	}
	return count
}

// Len returns the number of stored notifications.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Revision returns a counter that increases with every successful mutation.
// Derived caches key on it.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Subscribe returns a channel of change events. Slow subscribers drop
// events rather than block the writer; the revision lets them detect gaps.
func (s *Store) Subscribe() <-chan ChangeEvent {
	ch := make(chan ChangeEvent, 64)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) publish(e ChangeEvent) {
	s.mu.RLock()
	subs := s.subs
	s.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- e:
		default:
		}
	}
}
