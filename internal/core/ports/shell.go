package ports

import (
	"context"

	"github.com/newriverone/portal/internal/core/domain/shell"
)

// ShellStore persists response snapshots under named cache generations.
type ShellStore interface {
	// AddAll stores every snapshot under the generation in one shot.
	// Implementations must not leave a partial set behind on error.
	AddAll(ctx context.Context, generation string, snaps []*shell.Snapshot) error
	// Match looks up a snapshot by path. ok=false if not cached.
	Match(ctx context.Context, generation, path string) (*shell.Snapshot, bool, error)
	// Put stores one snapshot, replacing any previous entry for its path.
	Put(ctx context.Context, generation string, snap *shell.Snapshot) error
	// Generations lists every generation with stored entries.
	Generations(ctx context.Context) ([]string, error)
	// Drop deletes a whole generation. Absence is not an error.
	Drop(ctx context.Context, generation string) error
}

// ShellOrigin fetches shell resources from the upstream host.
// sameOrigin=false marks a response whose final URL left the origin host
// (the redirect-tainted case), which must not be cached.
type ShellOrigin interface {
	Fetch(ctx context.Context, path string) (snap *shell.Snapshot, sameOrigin bool, err error)
}

// ShellCacheService implements the offline shell cache lifecycle and its
// per-request serving policy.
type ShellCacheService interface {
	// Install pre-caches the fixed shell resource set, all-or-nothing.
	Install(ctx context.Context) error
	// Activate deletes every generation other than the current one.
	Activate(ctx context.Context) error
	// ServeNavigation serves a document request network-first with the
	// cached fallback chain: exact path, shell document, root.
	ServeNavigation(ctx context.Context, path string) (*shell.Snapshot, error)
	// ServeAsset serves a non-document GET cache-first with background fill.
	ServeAsset(ctx context.Context, path string) (*shell.Snapshot, error)
}
