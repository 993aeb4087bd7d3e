package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/newriverone/portal/configs"
	"github.com/newriverone/portal/internal/core/domain/shell"
	"github.com/newriverone/portal/internal/core/ports"
)

const shellIndexPath = "/index.html"
const shellRootPath = "/"

// ShellCacheService keeps the application shell servable without the
// origin: a fixed resource set installed all-or-nothing into a named cache
// generation, stale generations swept on activation, then navigation
// requests served network-first and other GETs cache-first.
type ShellCacheService struct {
	store      ports.ShellStore
	origin     ports.ShellOrigin
	generation string
	assets     []string
	putTimeout time.Duration
	logger     *logrus.Logger
}

func NewShellCacheService(store ports.ShellStore, origin ports.ShellOrigin, cfg *configs.ShellConfig, logger *logrus.Logger) *ShellCacheService {
	return &ShellCacheService{
		store:      store,
		origin:     origin,
		generation: cfg.Generation,
		assets:     cfg.Assets,
		putTimeout: cfg.FetchTimeout,
		logger:     logger,
	}
}

// Install fetches every shell asset and stores them under the current
// generation. Any failed fetch aborts the whole install; nothing is written
// until every asset is in hand.
func (s *ShellCacheService) Install(ctx context.Context) error {
	snaps := make([]*shell.Snapshot, 0, len(s.assets))
	for _, path := range s.assets {
		snap, _, err := s.origin.Fetch(ctx, path)
		if err != nil {
			return fmt.Errorf("shell install: failed to fetch %s: %w", path, err)
		}
		if !snap.OK() {
			return fmt.Errorf("shell install: origin returned %d for %s", snap.Status, path)
		}
		snaps = append(snaps, snap)
	}

	if err := s.store.AddAll(ctx, s.generation, snaps); err != nil {
		return fmt.Errorf("shell install: failed to store shell set: %w", err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"generation": s.generation, "assets": len(snaps)}).Info("shell: installed")
	}
	return nil
}

// Activate deletes every cache generation other than the current one.
func (s *ShellCacheService) Activate(ctx context.Context) error {
	generations, err := s.store.Generations(ctx)
	if err != nil {
		return fmt.Errorf("shell activate: failed to list generations: %w", err)
	}
	for _, gen := range generations {
		if gen == s.generation {
			continue
		}
		if err := s.store.Drop(ctx, gen); err != nil {
			return fmt.Errorf("shell activate: failed to drop generation %s: %w", gen, err)
		}
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"generation": gen}).Info("shell: dropped stale generation")
		}
	}
	return nil
}

// ServeNavigation serves a document request network-first. A live 200 is
// copied under the canonical shell document path before returning; when the
// origin is unreachable the fallback chain is exact path, shell document,
// root, in that order.
func (s *ShellCacheService) ServeNavigation(ctx context.Context, path string) (*shell.Snapshot, error) {
	snap, _, err := s.origin.Fetch(ctx, path)
	if err == nil {
		if snap.Status == http.StatusOK {
			cp := *snap
			cp.Path = shellIndexPath
			s.storeCopy(&cp)
		}
		return snap, nil
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"path": path}).WithError(err).Debug("shell: origin unreachable, trying cache")
	}
	for _, candidate := range []string{path, shellIndexPath, shellRootPath} {
		cached, ok, matchErr := s.store.Match(ctx, s.generation, candidate)
		if matchErr != nil {
			return nil, fmt.Errorf("shell: cache lookup failed for %s: %w", candidate, matchErr)
		}
		if ok {
			return cached, nil
		}
	}
	return nil, fmt.Errorf("shell: origin unreachable and no cached fallback for %s: %w", path, err)
}

// ServeAsset serves a non-document GET cache-first. Misses go to the
// origin; a same-origin 200 is stored under the request path in the
// background, anything else is returned uncached.
func (s *ShellCacheService) ServeAsset(ctx context.Context, path string) (*shell.Snapshot, error) {
	cached, ok, err := s.store.Match(ctx, s.generation, path)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"path": path}).WithError(err).Warn("shell: cache lookup failed, going to origin")
		}
	} else if ok {
		return cached, nil
	}

	snap, sameOrigin, err := s.origin.Fetch(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("shell: failed to fetch %s: %w", path, err)
	}
	if snap.Status == http.StatusOK && sameOrigin {
		s.storeCopy(snap)
	}
	return snap, nil
}

// storeCopy writes a snapshot in the background. Cache population is
// best-effort and never blocks or fails the response being returned.
func (s *ShellCacheService) storeCopy(snap *shell.Snapshot) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.putTimeout)
		defer cancel()
		if err := s.store.Put(ctx, s.generation, snap); err != nil && s.logger != nil {
			s.logger.WithFields(logrus.Fields{"path": snap.Path}).WithError(err).Debug("shell: cache write failed")
		}
	}()
}

var _ ports.ShellCacheService = (*ShellCacheService)(nil)
