package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saransh1220/sifline/internal/modules/notification/domain"
	"go.uber.org/zap"
)

// ErrSuperseded reports that a paginated load finished after a newer query
// replaced it; its results were discarded.
var ErrSuperseded = errors.New("load superseded by a newer query")

const defaultPageSize = 20

// FeedService owns the display-side view of the store: the active filter
// and search term, the derived group list, and paginated remote loads.
//
// Changing the query cancels any in-flight load and starts counting from a
// fresh request token; a load that finishes late is discarded, never
// applied over newer results.
type FeedService struct {
	store  *Store
	repo   domain.NotificationRepository
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	filter    domain.Filter
	search    string
	cursor    string
	exhausted bool
	token     uint64
	cancel    context.CancelFunc

	cacheMu  sync.Mutex
	cacheKey feedCacheKey
	cacheHit bool
	cached   []domain.Group

	stop chan struct{}
}

type feedCacheKey struct {
	revision uint64
	filter   string
	search   string
	day      string
}

func NewFeedService(store *Store, repo domain.NotificationRepository, logger *zap.Logger) *FeedService {
	f := &FeedService{
		store:  store,
		repo:   repo,
		logger: logger,
		now:    time.Now,
		filter: domain.NewFilter(domain.FilterAll),
		stop:   make(chan struct{}),
	}
	go f.watch(store.Subscribe())
	return f
}

// Close stops the cache invalidation watcher.
func (f *FeedService) Close() {
	close(f.stop)
}

// watch drops the memoized group list whenever the store mutates.
func (f *FeedService) watch(events <-chan ChangeEvent) {
	for {
		select {
		case <-events:
			f.cacheMu.Lock()
			f.cacheHit = false
			f.cacheMu.Unlock()
		case <-f.stop:
			return
		}
	}
}

// SetQuery switches the active filter and search term. An in-flight load
// for the previous query is cancelled and its results will be discarded.
func (f *FeedService) SetQuery(filter domain.Filter, search string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.filter == filter && f.search == search {
		return
	}
	f.filter = filter
	f.search = search
	f.cursor = ""
	f.exhausted = false
	f.token++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// Query returns the active filter and search term.
func (f *FeedService) Query() (domain.Filter, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter, f.search
}

// Groups derives the display-ready group list for the active query. The
// derivation is memoized per store revision and invalidated by store change
// events.
func (f *FeedService) Groups() []domain.Group {
	filter, search := f.Query()
	now := f.now()
	key := feedCacheKey{
		revision: f.store.Revision(),
		filter:   filter.String(),
		search:   search,
		day:      now.Format("2006-01-02"),
	}

	f.cacheMu.Lock()
	if f.cacheHit && f.cacheKey == key {
		cached := f.cached
		f.cacheMu.Unlock()
		return cached
	}
	f.cacheMu.Unlock()

	groups := domain.FilterAndGroup(f.store.All(), filter, search, now)

	f.cacheMu.Lock()
	f.cacheKey = key
	f.cached = groups
	f.cacheHit = true
	f.cacheMu.Unlock()
	return groups
}

// LoadInitial fetches the newest page for a recipient and merges it into
// the store, resetting pagination.
func (f *FeedService) LoadInitial(ctx context.Context, recipientID uuid.UUID) error {
	f.mu.Lock()
	f.cursor = ""
	f.exhausted = false
	f.mu.Unlock()
	return f.loadPage(ctx, recipientID)
}

// LoadMore fetches the next page. It is a no-op once the end is reached.
func (f *FeedService) LoadMore(ctx context.Context, recipientID uuid.UUID) error {
	f.mu.Lock()
	exhausted := f.exhausted
	f.mu.Unlock()
	if exhausted {
		return nil
	}
	return f.loadPage(ctx, recipientID)
}

func (f *FeedService) loadPage(ctx context.Context, recipientID uuid.UUID) error {
	f.mu.Lock()
	token := f.token
	cursor := f.cursor
	loadCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.mu.Unlock()
	defer cancel()

	page, next, err := f.repo.LoadPage(loadCtx, recipientID, cursor, defaultPageSize)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return ErrSuperseded
		}
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.token != token {
		// A newer query took over while this page was in flight.
		return ErrSuperseded
	}
	added := f.store.Merge(page)
	f.cursor = next
	f.exhausted = next == ""
	f.logger.Debug("notification page merged",
		zap.Int("fetched", len(page)),
		zap.Int("added", added),
		zap.Bool("exhausted", f.exhausted))
	return nil
}
