package repositories

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/newriverone/portal/internal/core/domain/bulletin"
	"github.com/newriverone/portal/internal/core/ports"
	"github.com/newriverone/portal/internal/infrastructure/db"
)

type postRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewPostRepository creates a new instance of PostRepository
func NewPostRepository(database *db.Database, logger *logrus.Logger) ports.PostRepository {
	return &postRepository{
		db:     database,
		logger: logger,
	}
}

// Recent returns the newest posts ordered by created_at descending.
// Ties on created_at are broken by insertion order (id is assigned
// sequentially enough for display purposes; the ORDER BY keeps delivery
// order stable within a query).
func (r *postRepository) Recent(ctx context.Context, limit int) ([]*bulletin.Post, error) {
	query := `
		SELECT id, content, created_at
		FROM bulletin
		ORDER BY created_at DESC
		LIMIT $1`

	var posts []*bulletin.Post
	if err := r.db.DB.SelectContext(ctx, &posts, query, limit); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"limit": limit}).WithError(err).Error("db: failed to list recent posts")
		}
		return nil, err
	}
	return posts, nil
}

// Create inserts a post. The database assigns id and created_at; the
// returned post carries both so callers can announce the committed row.
func (r *postRepository) Create(ctx context.Context, content string) (*bulletin.Post, error) {
	query := `
		INSERT INTO bulletin (content)
		VALUES ($1)
		RETURNING id, content, created_at`

	post := &bulletin.Post{}
	if err := r.db.DB.GetContext(ctx, post, query, content); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to insert post")
		}
		return nil, err
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"post_id": post.ID}).Debug("db: post inserted")
	}
	return post, nil
}
