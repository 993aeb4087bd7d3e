package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/newriverone/portal/internal/core/domain/bulletin"
	"github.com/newriverone/portal/internal/core/domain/portal"
	"github.com/newriverone/portal/internal/core/domain/shell"
	"github.com/newriverone/portal/internal/core/ports"
)

// PostRepositoryMock is a lightweight mock for PostRepository
type PostRepositoryMock struct {
	RecentFn func(ctx context.Context, limit int) ([]*bulletin.Post, error)
	CreateFn func(ctx context.Context, content string) (*bulletin.Post, error)
}

func (m *PostRepositoryMock) Recent(ctx context.Context, limit int) ([]*bulletin.Post, error) {
	if m.RecentFn != nil {
		return m.RecentFn(ctx, limit)
	}
	return nil, nil
}

func (m *PostRepositoryMock) Create(ctx context.Context, content string) (*bulletin.Post, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, content)
	}
	return nil, fmt.Errorf("not implemented")
}

// PostSubscriptionMock delivers events from a caller-controlled channel.
type PostSubscriptionMock struct {
	Ch      chan bulletin.Post
	CloseFn func() error
}

func NewPostSubscriptionMock() *PostSubscriptionMock {
	return &PostSubscriptionMock{Ch: make(chan bulletin.Post, 16)}
}

func (m *PostSubscriptionMock) Events() <-chan bulletin.Post { return m.Ch }

func (m *PostSubscriptionMock) Close() error {
	if m.CloseFn != nil {
		return m.CloseFn()
	}
	close(m.Ch)
	return nil
}

// PostEventBusMock is a lightweight mock for PostEventBus
type PostEventBusMock struct {
	PublishFn   func(ctx context.Context, post *bulletin.Post) error
	SubscribeFn func(ctx context.Context) (ports.PostSubscription, error)
}

func (m *PostEventBusMock) Publish(ctx context.Context, post *bulletin.Post) error {
	if m.PublishFn != nil {
		return m.PublishFn(ctx, post)
	}
	return nil
}

func (m *PostEventBusMock) Subscribe(ctx context.Context) (ports.PostSubscription, error) {
	if m.SubscribeFn != nil {
		return m.SubscribeFn(ctx)
	}
	return NewPostSubscriptionMock(), nil
}

// ShellStoreMock is a lightweight mock for ShellStore
type ShellStoreMock struct {
	AddAllFn      func(ctx context.Context, generation string, snaps []*shell.Snapshot) error
	MatchFn       func(ctx context.Context, generation, path string) (*shell.Snapshot, bool, error)
	PutFn         func(ctx context.Context, generation string, snap *shell.Snapshot) error
	GenerationsFn func(ctx context.Context) ([]string, error)
	DropFn        func(ctx context.Context, generation string) error
}

func (m *ShellStoreMock) AddAll(ctx context.Context, generation string, snaps []*shell.Snapshot) error {
	if m.AddAllFn != nil {
		return m.AddAllFn(ctx, generation, snaps)
	}
	return nil
}

func (m *ShellStoreMock) Match(ctx context.Context, generation, path string) (*shell.Snapshot, bool, error) {
	if m.MatchFn != nil {
		return m.MatchFn(ctx, generation, path)
	}
	return nil, false, nil
}

func (m *ShellStoreMock) Put(ctx context.Context, generation string, snap *shell.Snapshot) error {
	if m.PutFn != nil {
		return m.PutFn(ctx, generation, snap)
	}
	return nil
}

func (m *ShellStoreMock) Generations(ctx context.Context) ([]string, error) {
	if m.GenerationsFn != nil {
		return m.GenerationsFn(ctx)
	}
	return nil, nil
}

func (m *ShellStoreMock) Drop(ctx context.Context, generation string) error {
	if m.DropFn != nil {
		return m.DropFn(ctx, generation)
	}
	return nil
}

// ShellOriginMock is a lightweight mock for ShellOrigin
type ShellOriginMock struct {
	FetchFn func(ctx context.Context, path string) (*shell.Snapshot, bool, error)
}

func (m *ShellOriginMock) Fetch(ctx context.Context, path string) (*shell.Snapshot, bool, error) {
	if m.FetchFn != nil {
		return m.FetchFn(ctx, path)
	}
	return nil, false, fmt.Errorf("origin unreachable")
}

// CacheMock is an in-memory ports.Cache
type CacheMock struct {
	Entries map[string][]byte
}

func NewCacheMock() *CacheMock { return &CacheMock{Entries: make(map[string][]byte)} }

func (m *CacheMock) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := m.Entries[key]
	return v, ok, nil
}

func (m *CacheMock) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.Entries[key] = value
	return nil
}

func (m *CacheMock) Delete(ctx context.Context, key string) error {
	delete(m.Entries, key)
	return nil
}

// BulletinServiceMock is a lightweight mock for BulletinService
type BulletinServiceMock struct {
	SubmitFn func(ctx context.Context, content string) (*bulletin.Post, error)
	RecentFn func(ctx context.Context) ([]bulletin.PostView, error)
}

func (m *BulletinServiceMock) Submit(ctx context.Context, content string) (*bulletin.Post, error) {
	if m.SubmitFn != nil {
		return m.SubmitFn(ctx, content)
	}
	return &bulletin.Post{}, nil
}

func (m *BulletinServiceMock) Recent(ctx context.Context) ([]bulletin.PostView, error) {
	if m.RecentFn != nil {
		return m.RecentFn(ctx)
	}
	return nil, nil
}

// FeedServiceMock is a lightweight mock for FeedService
type FeedServiceMock struct {
	StartFn    func(ctx context.Context) error
	SnapshotFn func() []bulletin.Post
	WatchFn    func() (<-chan bulletin.Post, func())
	StopFn     func()
}

func (m *FeedServiceMock) Start(ctx context.Context) error {
	if m.StartFn != nil {
		return m.StartFn(ctx)
	}
	return nil
}

func (m *FeedServiceMock) Snapshot() []bulletin.Post {
	if m.SnapshotFn != nil {
		return m.SnapshotFn()
	}
	return nil
}

func (m *FeedServiceMock) Watch() (<-chan bulletin.Post, func()) {
	if m.WatchFn != nil {
		return m.WatchFn()
	}
	ch := make(chan bulletin.Post)
	return ch, func() {}
}

func (m *FeedServiceMock) Stop() {
	if m.StopFn != nil {
		m.StopFn()
	}
}

// ShellCacheServiceMock is a lightweight mock for ShellCacheService
type ShellCacheServiceMock struct {
	InstallFn         func(ctx context.Context) error
	ActivateFn        func(ctx context.Context) error
	ServeNavigationFn func(ctx context.Context, path string) (*shell.Snapshot, error)
	ServeAssetFn      func(ctx context.Context, path string) (*shell.Snapshot, error)
}

func (m *ShellCacheServiceMock) Install(ctx context.Context) error {
	if m.InstallFn != nil {
		return m.InstallFn(ctx)
	}
	return nil
}

func (m *ShellCacheServiceMock) Activate(ctx context.Context) error {
	if m.ActivateFn != nil {
		return m.ActivateFn(ctx)
	}
	return nil
}

func (m *ShellCacheServiceMock) ServeNavigation(ctx context.Context, path string) (*shell.Snapshot, error) {
	if m.ServeNavigationFn != nil {
		return m.ServeNavigationFn(ctx, path)
	}
	return nil, fmt.Errorf("not cached")
}

func (m *ShellCacheServiceMock) ServeAsset(ctx context.Context, path string) (*shell.Snapshot, error) {
	if m.ServeAssetFn != nil {
		return m.ServeAssetFn(ctx, path)
	}
	return nil, fmt.Errorf("not cached")
}

// PortalServiceMock is a lightweight mock for PortalService
type PortalServiceMock struct {
	LayoutFn func() portal.Layout
}

func (m *PortalServiceMock) Layout() portal.Layout {
	if m.LayoutFn != nil {
		return m.LayoutFn()
	}
	return portal.Layout{}
}

func (m *PortalServiceMock) Close() error { return nil }

// GateServiceMock is a lightweight mock for GateService
type GateServiceMock struct {
	UnlockFn func(password string) (string, error)
	VerifyFn func(token string) error
}

func (m *GateServiceMock) Unlock(password string) (string, error) {
	if m.UnlockFn != nil {
		return m.UnlockFn(password)
	}
	return "token", nil
}

func (m *GateServiceMock) Verify(token string) error {
	if m.VerifyFn != nil {
		return m.VerifyFn(token)
	}
	return nil
}
