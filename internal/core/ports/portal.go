package ports

import "github.com/newriverone/portal/internal/core/domain/portal"

// PortalService provides the current tile layout.
type PortalService interface {
	Layout() portal.Layout
	Close() error
}

// GateService implements the shared-secret access gate. It is a UI gate,
// not a security boundary.
type GateService interface {
	// Unlock compares the submitted password and issues a gate token.
	Unlock(password string) (string, error)
	// Verify checks a previously issued gate token.
	Verify(token string) error
}
