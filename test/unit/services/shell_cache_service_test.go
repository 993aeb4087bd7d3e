package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newriverone/portal/configs"
	impl "github.com/newriverone/portal/internal/application/services"
	"github.com/newriverone/portal/internal/core/domain/shell"
	"github.com/newriverone/portal/test/mocks"
)

func shellConfig() *configs.ShellConfig {
	return &configs.ShellConfig{
		Generation:   "nr-one-v2",
		Assets:       []string{"/", "/index.html", "/manifest.webmanifest"},
		FetchTimeout: time.Second,
	}
}

func okSnapshot(path string) *shell.Snapshot {
	return &shell.Snapshot{
		Path:      path,
		Status:    http.StatusOK,
		Header:    http.Header{"Content-Type": []string{"text/html"}},
		Body:      []byte("<html>" + path + "</html>"),
		FetchedAt: time.Now().UTC(),
	}
}

func TestInstall_StoresAllAssets(t *testing.T) {
	origin := &mocks.ShellOriginMock{FetchFn: func(ctx context.Context, path string) (*shell.Snapshot, bool, error) {
		return okSnapshot(path), true, nil
	}}
	var gotGen string
	var gotPaths []string
	store := &mocks.ShellStoreMock{AddAllFn: func(ctx context.Context, generation string, snaps []*shell.Snapshot) error {
		gotGen = generation
		for _, s := range snaps {
			gotPaths = append(gotPaths, s.Path)
		}
		return nil
	}}

	svc := impl.NewShellCacheService(store, origin, shellConfig(), nil)
	require.NoError(t, svc.Install(context.Background()))
	assert.Equal(t, "nr-one-v2", gotGen)
	assert.Equal(t, []string{"/", "/index.html", "/manifest.webmanifest"}, gotPaths)
}

func TestInstall_OneFailedFetchWritesNothing(t *testing.T) {
	origin := &mocks.ShellOriginMock{FetchFn: func(ctx context.Context, path string) (*shell.Snapshot, bool, error) {
		if path == "/manifest.webmanifest" {
			return nil, false, errors.New("connection refused")
		}
		return okSnapshot(path), true, nil
	}}
	stored := false
	store := &mocks.ShellStoreMock{AddAllFn: func(ctx context.Context, generation string, snaps []*shell.Snapshot) error {
		stored = true
		return nil
	}}

	svc := impl.NewShellCacheService(store, origin, shellConfig(), nil)
	assert.Error(t, svc.Install(context.Background()))
	assert.False(t, stored, "a partial shell set must never be written")
}

func TestInstall_NonOKStatusAborts(t *testing.T) {
	origin := &mocks.ShellOriginMock{FetchFn: func(ctx context.Context, path string) (*shell.Snapshot, bool, error) {
		snap := okSnapshot(path)
		if path == "/index.html" {
			snap.Status = http.StatusInternalServerError
		}
		return snap, true, nil
	}}
	store := &mocks.ShellStoreMock{AddAllFn: func(ctx context.Context, generation string, snaps []*shell.Snapshot) error {
		t.Error("store must not be written when an asset fetch fails")
		return nil
	}}

	svc := impl.NewShellCacheService(store, origin, shellConfig(), nil)
	assert.Error(t, svc.Install(context.Background()))
}

func TestActivate_DropsOnlyStaleGenerations(t *testing.T) {
	var dropped []string
	store := &mocks.ShellStoreMock{
		GenerationsFn: func(ctx context.Context) ([]string, error) {
			return []string{"nr-one-v1", "nr-one-v2"}, nil
		},
		DropFn: func(ctx context.Context, generation string) error {
			dropped = append(dropped, generation)
			return nil
		},
	}

	svc := impl.NewShellCacheService(store, &mocks.ShellOriginMock{}, shellConfig(), nil)
	require.NoError(t, svc.Activate(context.Background()))
	assert.Equal(t, []string{"nr-one-v1"}, dropped)
}

func TestServeNavigation_LiveResponseRefreshesShellDocument(t *testing.T) {
	origin := &mocks.ShellOriginMock{FetchFn: func(ctx context.Context, path string) (*shell.Snapshot, bool, error) {
		return okSnapshot(path), true, nil
	}}
	puts := make(chan *shell.Snapshot, 1)
	store := &mocks.ShellStoreMock{PutFn: func(ctx context.Context, generation string, snap *shell.Snapshot) error {
		puts <- snap
		return nil
	}}

	svc := impl.NewShellCacheService(store, origin, shellConfig(), nil)
	snap, err := svc.ServeNavigation(context.Background(), "/app")
	require.NoError(t, err)
	assert.Equal(t, "/app", snap.Path)

	select {
	case put := <-puts:
		assert.Equal(t, "/index.html", put.Path, "live documents refresh the canonical shell entry")
	case <-time.After(time.Second):
		t.Fatal("live navigation response was never written back to the cache")
	}
}

func TestServeNavigation_OfflineFallsBackToShellDocument(t *testing.T) {
	origin := &mocks.ShellOriginMock{FetchFn: func(ctx context.Context, path string) (*shell.Snapshot, bool, error) {
		return nil, false, errors.New("network unreachable")
	}}
	cachedIndex := okSnapshot("/index.html")
	var looked []string
	store := &mocks.ShellStoreMock{MatchFn: func(ctx context.Context, generation, path string) (*shell.Snapshot, bool, error) {
		looked = append(looked, path)
		if path == "/index.html" {
			return cachedIndex, true, nil
		}
		return nil, false, nil
	}}

	svc := impl.NewShellCacheService(store, origin, shellConfig(), nil)
	snap, err := svc.ServeNavigation(context.Background(), "/app")
	require.NoError(t, err)
	assert.Same(t, cachedIndex, snap)
	assert.Equal(t, []string{"/app", "/index.html"}, looked, "exact path is tried before the shell document")
}

func TestServeNavigation_OfflineWithEmptyCacheFails(t *testing.T) {
	origin := &mocks.ShellOriginMock{FetchFn: func(ctx context.Context, path string) (*shell.Snapshot, bool, error) {
		return nil, false, errors.New("network unreachable")
	}}
	svc := impl.NewShellCacheService(&mocks.ShellStoreMock{}, origin, shellConfig(), nil)

	_, err := svc.ServeNavigation(context.Background(), "/app")
	assert.Error(t, err)
}

func TestServeAsset_CacheHitSkipsOrigin(t *testing.T) {
	cached := okSnapshot("/logo.png")
	store := &mocks.ShellStoreMock{MatchFn: func(ctx context.Context, generation, path string) (*shell.Snapshot, bool, error) {
		return cached, true, nil
	}}
	origin := &mocks.ShellOriginMock{FetchFn: func(ctx context.Context, path string) (*shell.Snapshot, bool, error) {
		t.Error("cache hit must not reach the origin")
		return nil, false, errors.New("unexpected")
	}}

	svc := impl.NewShellCacheService(store, origin, shellConfig(), nil)
	snap, err := svc.ServeAsset(context.Background(), "/logo.png")
	require.NoError(t, err)
	assert.Same(t, cached, snap)
}

func TestServeAsset_MissStoresSameOriginResponse(t *testing.T) {
	origin := &mocks.ShellOriginMock{FetchFn: func(ctx context.Context, path string) (*shell.Snapshot, bool, error) {
		return okSnapshot(path), true, nil
	}}
	puts := make(chan *shell.Snapshot, 1)
	store := &mocks.ShellStoreMock{PutFn: func(ctx context.Context, generation string, snap *shell.Snapshot) error {
		puts <- snap
		return nil
	}}

	svc := impl.NewShellCacheService(store, origin, shellConfig(), nil)
	_, err := svc.ServeAsset(context.Background(), "/logo.png")
	require.NoError(t, err)

	select {
	case put := <-puts:
		assert.Equal(t, "/logo.png", put.Path)
	case <-time.After(time.Second):
		t.Fatal("same-origin asset response was never cached")
	}
}

func TestServeAsset_CrossOriginResponseIsNotCached(t *testing.T) {
	origin := &mocks.ShellOriginMock{FetchFn: func(ctx context.Context, path string) (*shell.Snapshot, bool, error) {
		return okSnapshot(path), false, nil
	}}
	store := &mocks.ShellStoreMock{PutFn: func(ctx context.Context, generation string, snap *shell.Snapshot) error {
		t.Error("redirected cross-origin responses must not be cached")
		return nil
	}}

	svc := impl.NewShellCacheService(store, origin, shellConfig(), nil)
	snap, err := svc.ServeAsset(context.Background(), "/logo.png")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, snap.Status)
}

func TestServeAsset_NonOKResponseIsNotCached(t *testing.T) {
	origin := &mocks.ShellOriginMock{FetchFn: func(ctx context.Context, path string) (*shell.Snapshot, bool, error) {
		snap := okSnapshot(path)
		snap.Status = http.StatusNotFound
		return snap, true, nil
	}}
	store := &mocks.ShellStoreMock{PutFn: func(ctx context.Context, generation string, snap *shell.Snapshot) error {
		t.Error("error responses must not be cached")
		return nil
	}}

	svc := impl.NewShellCacheService(store, origin, shellConfig(), nil)
	snap, err := svc.ServeAsset(context.Background(), "/missing.png")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, snap.Status)
}
