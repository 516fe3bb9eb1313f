package domain

import (
	"fmt"
	"time"
)

// State is the lifecycle state of a notification.
//
// pending -> sent -> delivered -> read; any state except read/archived may
// fail; pending/sent may be cancelled while still scheduled in the future;
// everything may be archived. Archived records leave the system only through
// deletion.
type State string

const (
	StatePending   State = "pending"
	StateSent      State = "sent"
	StateDelivered State = "delivered"
	StateRead      State = "read"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
	StateArchived  State = "archived"
)

var stateEdges = map[State][]State{
	StatePending:   {StateSent, StateFailed, StateCancelled, StateArchived},
	StateSent:      {StateDelivered, StateRead, StateFailed, StateCancelled, StateArchived},
	StateDelivered: {StateRead, StateFailed, StateArchived},
	StateRead:      {StateArchived},
	StateFailed:    {StateArchived},
	StateCancelled: {StateArchived},
	StateArchived:  {},
}

// CanTransitionTo reports whether the edge s -> target exists.
func (s State) CanTransitionTo(target State) bool {
	for _, t := range stateEdges[s] {
		if t == target {
			return true
		}
	}
	return false
}

func invalidTransition(from, to State) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// MarkSent moves a pending notification to sent.
func (n *Notification) MarkSent() error {
	if n.State != StatePending {
		return invalidTransition(n.State, StateSent)
	}
	n.State = StateSent
	return nil
}

// MarkDelivered moves a sent notification to delivered. A scheduled
// notification is not eligible until its delivery time has passed.
func (n *Notification) MarkDelivered(now time.Time) error {
	if n.State != StateSent {
		return invalidTransition(n.State, StateDelivered)
	}
	if n.IsScheduled(now) {
		return fmt.Errorf("%w: delivery time not reached", ErrInvalidTransition)
	}
	n.State = StateDelivered
	return nil
}

// MarkRead moves a sent or delivered notification to read. Reading an
// already-read notification is a no-op.
func (n *Notification) MarkRead() error {
	if n.State == StateRead {
		return nil
	}
	if n.State != StateSent && n.State != StateDelivered {
		return invalidTransition(n.State, StateRead)
	}
	n.State = StateRead
	return nil
}

// Archive moves the notification to archived from any state. Idempotent.
func (n *Notification) Archive() error {
	n.State = StateArchived
	return nil
}

// Cancel aborts a scheduled notification. Legal only while the delivery time
// is still in the future and the notification is pending or sent.
func (n *Notification) Cancel(now time.Time) error {
	if n.State != StatePending && n.State != StateSent {
		return invalidTransition(n.State, StateCancelled)
	}
	if !n.IsScheduled(now) {
		return fmt.Errorf("%w: not scheduled in the future", ErrInvalidTransition)
	}
	n.State = StateCancelled
	return nil
}

// MarkFailed records a delivery failure. Legal from any state except read
// and archived; the record is retained, not destroyed.
func (n *Notification) MarkFailed(reason string) error {
	if n.State == StateRead || n.State == StateArchived || n.State == StateFailed {
		return invalidTransition(n.State, StateFailed)
	}
	n.State = StateFailed
	n.FailReason = reason
	return nil
}
