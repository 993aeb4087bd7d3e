package shell

import (
	"net/http"
	"time"
)

// Snapshot is a stored copy of an origin response, keyed by request path
// within one cache generation.
type Snapshot struct {
	Path      string      `json:"path"`
	Status    int         `json:"status"`
	Header    http.Header `json:"header"`
	Body      []byte      `json:"body"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// OK reports whether the snapshot captured a successful response.
func (s *Snapshot) OK() bool {
	return s != nil && s.Status == http.StatusOK
}
