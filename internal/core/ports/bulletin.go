package ports

import (
	"context"

	"github.com/newriverone/portal/internal/core/domain/bulletin"
)

// PostRepository defines the interface for bulletin post data operations.
// Posts are append-only: there is no update or delete.
type PostRepository interface {
	// Recent returns the newest posts ordered by created_at descending.
	Recent(ctx context.Context, limit int) ([]*bulletin.Post, error)
	// Create inserts a post from normalized content. The store assigns
	// id and created_at.
	Create(ctx context.Context, content string) (*bulletin.Post, error)
}

// PostSubscription is a live handle on insert notifications. Close releases
// the underlying connection resource; Events is closed afterwards.
type PostSubscription interface {
	Events() <-chan bulletin.Post
	Close() error
}

// PostEventBus distributes insert notifications to every connected client,
// the submitter included.
type PostEventBus interface {
	Publish(ctx context.Context, post *bulletin.Post) error
	Subscribe(ctx context.Context) (PostSubscription, error)
}

// BulletinService defines the submission and read-page business logic.
type BulletinService interface {
	// Submit normalizes, validates, persists and announces a post.
	// Returns bulletin.ErrEmptyContent or bulletin.ErrContentTooLong on
	// validation failure.
	Submit(ctx context.Context, content string) (*bulletin.Post, error)
	// Recent returns the current page of newest posts as wire views.
	Recent(ctx context.Context) ([]bulletin.PostView, error)
}

// FeedService maintains the bounded live view of the newest posts.
type FeedService interface {
	// Start performs the single-shot initial load and opens the live
	// subscription. A failed initial load degrades to an empty feed.
	Start(ctx context.Context) error
	// Snapshot returns a copy of the current view, newest first.
	Snapshot() []bulletin.Post
	// Watch registers a watcher receiving each post merged into the view.
	// The returned cancel func unregisters it.
	Watch() (<-chan bulletin.Post, func())
	// Stop releases the subscription and all watchers. No watcher receives
	// an event after Stop returns.
	Stop()
}
