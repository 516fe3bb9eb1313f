package application

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saransh1220/sifline/internal/modules/notification/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddAndGet(t *testing.T) {
	store := NewStore()
	n := storedNotification(domain.StateDelivered)

	require.NoError(t, store.Add(n))

	got, err := store.Get(n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.ID, got.ID)
	assert.Equal(t, n.Title, got.Title)

	t.Run("duplicate id", func(t *testing.T) {
		err := store.Add(n)
		require.ErrorIs(t, err, domain.ErrDuplicateID)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := store.Get(uuid.New())
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestStore_Update(t *testing.T) {
	store := NewStore()
	n := storedNotification(domain.StateDelivered)
	require.NoError(t, store.Add(n))

	t.Run("legal mutation", func(t *testing.T) {
		updated, err := store.Update(n.ID, func(n *domain.Notification) error {
			return n.MarkRead()
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StateRead, updated.State)

		got, err := store.Get(n.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StateRead, got.State)
	})

	t.Run("illegal mutation leaves the record unchanged", func(t *testing.T) {
		_, err := store.Update(n.ID, func(n *domain.Notification) error {
			return n.MarkFailed("too late")
		})
		require.ErrorIs(t, err, domain.ErrInvalidTransition)

		got, err := store.Get(n.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StateRead, got.State)
		assert.Empty(t, got.FailReason)
	})

	t.Run("identity is immutable", func(t *testing.T) {
		rogue := uuid.New()
		updated, err := store.Update(n.ID, func(n *domain.Notification) error {
			n.ID = rogue
			n.CreatedAt = n.CreatedAt.Add(time.Hour)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, n.ID, updated.ID)
		assert.True(t, updated.CreatedAt.Equal(n.CreatedAt))
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := store.Update(uuid.New(), func(n *domain.Notification) error { return nil })
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestStore_Remove(t *testing.T) {
	store := NewStore()
	n := storedNotification(domain.StateDelivered)
	require.NoError(t, store.Add(n))

	store.Remove(n.ID)
	_, err := store.Get(n.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Removing twice is not an error and does not bump the revision.
	rev := store.Revision()
	store.Remove(n.ID)
	assert.Equal(t, rev, store.Revision())
}

func TestStore_AllNewestFirst(t *testing.T) {
	store := NewStore()
	base := time.Now()

	oldest := storedNotification(domain.StateDelivered)
	oldest.CreatedAt = base.Add(-2 * time.Hour)
	newest := storedNotification(domain.StateDelivered)
	newest.CreatedAt = base
	middle := storedNotification(domain.StateDelivered)
	middle.CreatedAt = base.Add(-time.Hour)

	require.NoError(t, store.Add(oldest))
	require.NoError(t, store.Add(newest))
	require.NoError(t, store.Add(middle))

	all := store.All()
	require.Len(t, all, 3)
	assert.Equal(t, newest.ID, all[0].ID)
	assert.Equal(t, middle.ID, all[1].ID)
	assert.Equal(t, oldest.ID, all[2].ID)
}

func TestStore_UnreadCount(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Add(storedNotification(domain.StateDelivered)))
	require.NoError(t, store.Add(storedNotification(domain.StatePending)))
	require.NoError(t, store.Add(storedNotification(domain.StateFailed)))
	require.NoError(t, store.Add(storedNotification(domain.StateRead)))
	require.NoError(t, store.Add(storedNotification(domain.StateArchived)))

	assert.Equal(t, 3, store.UnreadCount())
}

func TestStore_Merge(t *testing.T) {
	store := NewStore()
	existing := storedNotification(domain.StateDelivered)
	require.NoError(t, store.Add(existing))

	incoming := []domain.Notification{
		existing, // already present, skipped
		storedNotification(domain.StateDelivered),
		storedNotification(domain.StateRead),
	}
	added := store.Merge(incoming)
	assert.Equal(t, 2, added)
	assert.Equal(t, 3, store.Len())
}

func TestStore_ChangeEvents(t *testing.T) {
	store := NewStore()
	events := store.Subscribe()

	n := storedNotification(domain.StateDelivered)
	require.NoError(t, store.Add(n))
	_, err := store.Update(n.ID, func(n *domain.Notification) error { return n.MarkRead() })
	require.NoError(t, err)
	store.Remove(n.ID)

	expect := []ChangeOp{ChangeAdded, ChangeUpdated, ChangeRemoved}
	for i, op := range expect {
		select {
		case e := <-events:
			assert.Equal(t, op, e.Op, "event %d", i)
			assert.Equal(t, n.ID, e.ID)
			assert.Equal(t, uint64(i+1), e.Revision)
		case <-time.After(time.Second):
			t.Fatalf("missing change event %d", i)
		}
	}
}

func TestStore_ConcurrentMutations(t *testing.T) {
	store := NewStore()
	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				n := storedNotification(domain.StateDelivered)
				require.NoError(t, store.Add(n))
				_, err := store.Update(n.ID, func(n *domain.Notification) error {
					return n.MarkRead()
				})
				require.NoError(t, err)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			for _, n := range store.All() {
				// A snapshot never exposes a half-applied update.
				assert.Contains(t, []domain.State{domain.StateDelivered, domain.StateRead}, n.State)
			}
		}
	}()

	wg.Wait()
	<-done
	assert.Equal(t, writers*perWriter, store.Len())
	assert.Equal(t, 0, store.UnreadCount())
}
