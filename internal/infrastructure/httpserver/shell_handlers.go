package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/newriverone/portal/internal/core/domain/shell"
)

// serveShell routes same-origin GET requests through the shell cache:
// documents network-first with cached fallback, everything else
// cache-first. Non-GET traffic never reaches this handler.
func (s *Server) serveShell(c echo.Context) error {
	path := c.Request().URL.Path

	var (
		snap *shell.Snapshot
		err  error
		kind = "asset"
	)
	if isNavigation(c.Request(), path) {
		kind = "navigation"
		snap, err = s.shellCache.ServeNavigation(c.Request().Context(), path)
	} else {
		snap, err = s.shellCache.ServeAsset(c.Request().Context(), path)
	}
	if err != nil {
		shellRequestsTotal.WithLabelValues(kind, "unavailable").Inc()
		if s.logger != nil {
			s.logger.WithError(err).Warn("shell: request not servable")
		}
		return echo.NewHTTPError(http.StatusServiceUnavailable, "shell unavailable")
	}

	shellRequestsTotal.WithLabelValues(kind, "served").Inc()
	return writeSnapshot(c, snap)
}

// isNavigation mirrors the document-request check: an explicit shell path
// or a client asking for an HTML document.
func isNavigation(req *http.Request, path string) bool {
	if path == "/" || path == "/index.html" {
		return true
	}
	return strings.Contains(req.Header.Get("Accept"), "text/html")
}

func writeSnapshot(c echo.Context, snap *shell.Snapshot) error {
	header := c.Response().Header()
	for key, values := range snap.Header {
		// Hop-by-hop headers do not survive a stored copy.
		if key == "Connection" || key == "Transfer-Encoding" || key == "Keep-Alive" {
			continue
		}
		for _, v := range values {
			header.Add(key, v)
		}
	}
	contentType := snap.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Blob(snap.Status, contentType, snap.Body)
}
