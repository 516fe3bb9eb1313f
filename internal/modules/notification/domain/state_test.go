package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotification(state State) *Notification {
	return &Notification{
		ID:          uuid.New(),
		RecipientID: uuid.New(),
		Kind:        KindSifReceived,
		Title:       "Title",
		Body:        "Body",
		Priority:    PriorityNormal,
		State:       state,
		CreatedAt:   time.Now(),
	}
}

func TestNotification_MarkRead(t *testing.T) {
	t.Run("from sent", func(t *testing.T) {
		n := newTestNotification(StateSent)
		require.NoError(t, n.MarkRead())
		assert.Equal(t, StateRead, n.State)
		assert.True(t, n.IsRead())
	})

	t.Run("from delivered", func(t *testing.T) {
		n := newTestNotification(StateDelivered)
		require.NoError(t, n.MarkRead())
		assert.Equal(t, StateRead, n.State)
	})

	t.Run("already read is a no-op", func(t *testing.T) {
		n := newTestNotification(StateRead)
		require.NoError(t, n.MarkRead())
		assert.Equal(t, StateRead, n.State)
	})

	t.Run("illegal origins leave state unchanged", func(t *testing.T) {
		for _, state := range []State{StatePending, StateFailed, StateCancelled, StateArchived} {
			n := newTestNotification(state)
			err := n.MarkRead()
			require.ErrorIs(t, err, ErrInvalidTransition, "from %s", state)
			assert.Equal(t, state, n.State)
		}
	})
}

func TestNotification_Archive(t *testing.T) {
	for _, state := range []State{StatePending, StateSent, StateDelivered, StateRead, StateFailed, StateCancelled} {
		n := newTestNotification(state)
		require.NoError(t, n.Archive())
		assert.Equal(t, StateArchived, n.State)
	}

	t.Run("idempotent", func(t *testing.T) {
		n := newTestNotification(StateArchived)
		require.NoError(t, n.Archive())
		assert.Equal(t, StateArchived, n.State)
	})
}

func TestNotification_Cancel(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	t.Run("pending scheduled in the future", func(t *testing.T) {
		n := newTestNotification(StatePending)
		n.ScheduledAt = &future
		require.NoError(t, n.Cancel(now))
		assert.Equal(t, StateCancelled, n.State)
	})

	t.Run("sent scheduled in the future", func(t *testing.T) {
		n := newTestNotification(StateSent)
		n.ScheduledAt = &future
		require.NoError(t, n.Cancel(now))
		assert.Equal(t, StateCancelled, n.State)
	})

	t.Run("delivery time already passed", func(t *testing.T) {
		n := newTestNotification(StatePending)
		n.ScheduledAt = &past
		require.ErrorIs(t, n.Cancel(now), ErrInvalidTransition)
		assert.Equal(t, StatePending, n.State)
	})

	t.Run("not scheduled at all", func(t *testing.T) {
		n := newTestNotification(StatePending)
		require.ErrorIs(t, n.Cancel(now), ErrInvalidTransition)
	})

	t.Run("delivered cannot be cancelled", func(t *testing.T) {
		n := newTestNotification(StateDelivered)
		n.ScheduledAt = &future
		require.ErrorIs(t, n.Cancel(now), ErrInvalidTransition)
		assert.Equal(t, StateDelivered, n.State)
	})
}

func TestNotification_MarkFailed(t *testing.T) {
	t.Run("records reason without destroying the record", func(t *testing.T) {
		n := newTestNotification(StateSent)
		require.NoError(t, n.MarkFailed("APNS timeout"))
		assert.Equal(t, StateFailed, n.State)
		assert.Equal(t, "APNS timeout", n.FailReason)
	})

	t.Run("illegal from read and archived", func(t *testing.T) {
		for _, state := range []State{StateRead, StateArchived} {
			n := newTestNotification(state)
			require.ErrorIs(t, n.MarkFailed("x"), ErrInvalidTransition)
			assert.Equal(t, state, n.State)
			assert.Empty(t, n.FailReason)
		}
	})
}

func TestNotification_MarkDelivered(t *testing.T) {
	now := time.Now()

	t.Run("from sent", func(t *testing.T) {
		n := newTestNotification(StateSent)
		require.NoError(t, n.MarkDelivered(now))
		assert.Equal(t, StateDelivered, n.State)
	})

	t.Run("not before the scheduled time", func(t *testing.T) {
		future := now.Add(time.Hour)
		n := newTestNotification(StateSent)
		n.ScheduledAt = &future
		require.ErrorIs(t, n.MarkDelivered(now), ErrInvalidTransition)
		assert.Equal(t, StateSent, n.State)
	})

	t.Run("after the scheduled time", func(t *testing.T) {
		past := now.Add(-time.Minute)
		n := newTestNotification(StateSent)
		n.ScheduledAt = &past
		require.NoError(t, n.MarkDelivered(now))
		assert.Equal(t, StateDelivered, n.State)
	})
}

func TestState_CanTransitionTo(t *testing.T) {
	assert.True(t, StatePending.CanTransitionTo(StateSent))
	assert.True(t, StateSent.CanTransitionTo(StateDelivered))
	assert.True(t, StateDelivered.CanTransitionTo(StateRead))
	assert.True(t, StateFailed.CanTransitionTo(StateArchived))
	assert.False(t, StateArchived.CanTransitionTo(StateRead))
	assert.False(t, StateRead.CanTransitionTo(StateDelivered))
	assert.False(t, StateCancelled.CanTransitionTo(StateSent))
}

func TestNotification_Clone(t *testing.T) {
	sched := time.Now().Add(time.Hour)
	n := newTestNotification(StateDelivered)
	n.Payload = &Payload{ChatID: "chat-1", Metadata: map[string]string{"k": "v"}}
	n.Actions = []NotificationAction{{ID: "reply", Title: "Reply", Style: ActionStylePrimary}}
	n.ScheduledAt = &sched

	c := n.Clone()
	c.Payload.Metadata["k"] = "changed"
	c.Actions[0].Title = "changed"
	*c.ScheduledAt = sched.Add(time.Hour)

	assert.Equal(t, "v", n.Payload.Metadata["k"])
	assert.Equal(t, "Reply", n.Actions[0].Title)
	assert.True(t, n.ScheduledAt.Equal(sched))
}
