package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/newriverone/portal/configs"
	"github.com/newriverone/portal/internal/core/domain/bulletin"
	"github.com/newriverone/portal/internal/core/ports"
)

// BulletinService handles post submission and the read page.
type BulletinService struct {
	repo         ports.PostRepository
	bus          ports.PostEventBus
	maxLen       int
	visibleCount int
	logger       *logrus.Logger
}

func NewBulletinService(repo ports.PostRepository, bus ports.PostEventBus, cfg *configs.BulletinConfig, logger *logrus.Logger) *BulletinService {
	return &BulletinService{
		repo:         repo,
		bus:          bus,
		maxLen:       cfg.MaxLen,
		visibleCount: cfg.VisibleCount,
		logger:       logger,
	}
}

// Submit normalizes and validates the content, persists it, and announces
// the created post on the event bus. Display happens through the
// subscription on the reader side, not through this call's result.
func (s *BulletinService) Submit(ctx context.Context, content string) (*bulletin.Post, error) {
	normalized, err := bulletin.NormalizeContent(content, s.maxLen)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.Create(ctx, normalized)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Error("failed to create bulletin post")
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	// The post is committed at this point; a lost notification degrades the
	// live feeds until the next reload but must not fail the submission.
	if err := s.bus.Publish(ctx, post); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"post_id": post.ID}).WithError(err).Error("failed to publish insert event")
		}
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"post_id": post.ID}).Info("bulletin post created")
	}
	return post, nil
}

// Recent returns the newest posts as wire views, newest first.
func (s *BulletinService) Recent(ctx context.Context) ([]bulletin.PostView, error) {
	posts, err := s.repo.Recent(ctx, s.visibleCount)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent posts: %w", err)
	}
	views := make([]bulletin.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, bulletin.NewPostView(*p))
	}
	return views, nil
}

var _ ports.BulletinService = (*BulletinService)(nil)
