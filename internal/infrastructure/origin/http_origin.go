package origin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/newriverone/portal/configs"
	"github.com/newriverone/portal/internal/core/domain/shell"
	"github.com/newriverone/portal/internal/core/ports"
)

// HTTPOrigin fetches shell resources from the upstream static host.
type HTTPOrigin struct {
	base   *url.URL
	client *http.Client
	logger *logrus.Logger
}

func NewHTTPOrigin(cfg *configs.ShellConfig, logger *logrus.Logger) (*HTTPOrigin, error) {
	base, err := url.Parse(cfg.OriginURL)
	if err != nil {
		return nil, fmt.Errorf("invalid shell origin URL: %w", err)
	}
	return &HTTPOrigin{
		base:   base,
		client: &http.Client{Timeout: cfg.FetchTimeout},
		logger: logger,
	}, nil
}

// Fetch performs a live GET for the given path. sameOrigin=false flags a
// response whose final URL, after redirects, left the origin host; such
// responses must not be cached.
func (o *HTTPOrigin) Fetch(ctx context.Context, path string) (*shell.Snapshot, bool, error) {
	target := o.base.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build origin request: %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("origin fetch failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read origin response: %w", err)
	}

	sameOrigin := resp.Request.URL.Host == o.base.Host
	snap := &shell.Snapshot{
		Path:      path,
		Status:    resp.StatusCode,
		Header:    resp.Header.Clone(),
		Body:      body,
		FetchedAt: time.Now().UTC(),
	}
	if o.logger != nil {
		o.logger.WithFields(logrus.Fields{"path": path, "status": snap.Status}).Debug("origin: fetched")
	}
	return snap, sameOrigin, nil
}

var _ ports.ShellOrigin = (*HTTPOrigin)(nil)
