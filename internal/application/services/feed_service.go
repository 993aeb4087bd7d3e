package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/newriverone/portal/configs"
	"github.com/newriverone/portal/internal/core/domain/bulletin"
	"github.com/newriverone/portal/internal/core/ports"
)

// FeedService maintains the bounded, ordered, live-updating view of the
// newest posts. One goroutine consumes the subscription, so no two merge
// operations ever overlap.
type FeedService struct {
	repo         ports.PostRepository
	bus          ports.PostEventBus
	visibleCount int
	logger       *logrus.Logger

	mu          sync.Mutex
	posts       []bulletin.Post
	watchers    map[int]chan bulletin.Post
	nextWatcher int
	stopped     bool

	sub      ports.PostSubscription
	done     chan struct{}
	finished chan struct{}
	stopOnce sync.Once
}

func NewFeedService(repo ports.PostRepository, bus ports.PostEventBus, cfg *configs.BulletinConfig, logger *logrus.Logger) *FeedService {
	return &FeedService{
		repo:         repo,
		bus:          bus,
		visibleCount: cfg.VisibleCount,
		logger:       logger,
		watchers:     make(map[int]chan bulletin.Post),
		done:         make(chan struct{}),
		finished:     make(chan struct{}),
	}
}

// Start performs the single-shot initial load, then opens the live
// subscription. A failed initial load degrades to an empty feed without
// retry; a failed subscription is an error because the feed would silently
// stop updating.
func (s *FeedService) Start(ctx context.Context) error {
	posts, err := s.repo.Recent(ctx, s.visibleCount)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Warn("feed: initial load failed, starting empty")
		}
	} else {
		s.mu.Lock()
		for _, p := range posts {
			s.posts = append(s.posts, *p)
		}
		s.mu.Unlock()
	}

	sub, err := s.bus.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to insert events: %w", err)
	}
	s.sub = sub

	go s.run()

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"loaded": len(posts)}).Info("feed: started")
	}
	return nil
}

func (s *FeedService) run() {
	defer close(s.finished)
	for {
		select {
		case post, ok := <-s.sub.Events():
			if !ok {
				return
			}
			s.merge(post)
		case <-s.done:
			return
		}
	}
}

// merge prepends a notified post, deduplicates by id and truncates to the
// visible bound. Notifications arrive in commit order per channel, so no
// reordering is done; deduplication covers the race where the initial query
// and the subscription both deliver the same post.
func (s *FeedService) merge(post bulletin.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	for _, existing := range s.posts {
		if existing.ID == post.ID {
			return
		}
	}

	s.posts = append([]bulletin.Post{post}, s.posts...)
	if len(s.posts) > s.visibleCount {
		s.posts = s.posts[:s.visibleCount]
	}

	for _, ch := range s.watchers {
		// Never block the merge loop on a slow watcher.
		select {
		case ch <- post:
		default:
		}
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"post_id": post.ID, "size": len(s.posts)}).Debug("feed: merged post")
	}
}

// Snapshot returns a copy of the current view, newest first.
func (s *FeedService) Snapshot() []bulletin.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bulletin.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Watch registers a watcher channel receiving each merged post. The cancel
// func unregisters it; cancel is safe to call after Stop.
func (s *FeedService) Watch() (<-chan bulletin.Post, func()) {
	ch := make(chan bulletin.Post, 8)
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Stop releases the subscription and all watchers. After Stop returns no
// watcher receives another event and the merge loop has exited.
func (s *FeedService) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.sub != nil {
			if err := s.sub.Close(); err != nil && s.logger != nil {
				s.logger.WithError(err).Warn("feed: failed to close subscription")
			}
			<-s.finished
		}

		s.mu.Lock()
		s.stopped = true
		for id, ch := range s.watchers {
			delete(s.watchers, id)
			close(ch)
		}
		s.mu.Unlock()

		if s.logger != nil {
			s.logger.Info("feed: stopped")
		}
	})
}

var _ ports.FeedService = (*FeedService)(nil)
