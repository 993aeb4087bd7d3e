package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newriverone/portal/configs"
	impl "github.com/newriverone/portal/internal/application/services"
	"github.com/newriverone/portal/internal/core/domain/bulletin"
	"github.com/newriverone/portal/test/mocks"
)

func bulletinConfig() *configs.BulletinConfig {
	return &configs.BulletinConfig{MaxLen: 200, VisibleCount: 5, Channel: "realtime-bulletin"}
}

func TestSubmit_NormalizesBeforeStore(t *testing.T) {
	var stored string
	repo := &mocks.PostRepositoryMock{CreateFn: func(ctx context.Context, content string) (*bulletin.Post, error) {
		stored = content
		return &bulletin.Post{ID: uuid.New(), Content: content, CreatedAt: time.Now().UTC()}, nil
	}}
	var published *bulletin.Post
	bus := &mocks.PostEventBusMock{PublishFn: func(ctx context.Context, post *bulletin.Post) error {
		published = post
		return nil
	}}

	svc := impl.NewBulletinService(repo, bus, bulletinConfig(), nil)
	post, err := svc.Submit(context.Background(), "  在庫１２３確認  ")
	require.NoError(t, err)
	assert.Equal(t, "在庫123確認", stored)
	require.NotNil(t, published)
	assert.Equal(t, post.ID, published.ID)
}

func TestSubmit_EmptyIsRejectedWithoutStore(t *testing.T) {
	called := false
	repo := &mocks.PostRepositoryMock{CreateFn: func(ctx context.Context, content string) (*bulletin.Post, error) {
		called = true
		return nil, nil
	}}
	svc := impl.NewBulletinService(repo, &mocks.PostEventBusMock{}, bulletinConfig(), nil)

	_, err := svc.Submit(context.Background(), "   ")
	assert.ErrorIs(t, err, bulletin.ErrEmptyContent)
	assert.False(t, called, "repository must not be touched on validation failure")
}

func TestSubmit_OverLengthIsRejected(t *testing.T) {
	cfg := bulletinConfig()
	cfg.MaxLen = 5
	svc := impl.NewBulletinService(&mocks.PostRepositoryMock{}, &mocks.PostEventBusMock{}, cfg, nil)

	_, err := svc.Submit(context.Background(), "123456")
	assert.ErrorIs(t, err, bulletin.ErrContentTooLong)
}

func TestSubmit_PublishFailureDoesNotFailSubmission(t *testing.T) {
	repo := &mocks.PostRepositoryMock{CreateFn: func(ctx context.Context, content string) (*bulletin.Post, error) {
		return &bulletin.Post{ID: uuid.New(), Content: content}, nil
	}}
	bus := &mocks.PostEventBusMock{PublishFn: func(ctx context.Context, post *bulletin.Post) error {
		return errors.New("bus down")
	}}
	svc := impl.NewBulletinService(repo, bus, bulletinConfig(), nil)

	post, err := svc.Submit(context.Background(), "hello")
	require.NoError(t, err, "the post is committed; a lost notification must not fail the submit")
	assert.NotNil(t, post)
}

func TestRecent_BuildsViews(t *testing.T) {
	id := uuid.New()
	repo := &mocks.PostRepositoryMock{RecentFn: func(ctx context.Context, limit int) ([]*bulletin.Post, error) {
		assert.Equal(t, 5, limit)
		return []*bulletin.Post{{
			ID:        id,
			Content:   "see https://example.com now",
			CreatedAt: time.Date(2024, 1, 15, 5, 30, 0, 0, time.UTC),
		}}, nil
	}}
	svc := impl.NewBulletinService(repo, &mocks.PostEventBusMock{}, bulletinConfig(), nil)

	views, err := svc.Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, id, views[0].ID)
	assert.Equal(t, "01/15（月） 14:30", views[0].When)
	assert.Len(t, views[0].Segments, 3)
}
