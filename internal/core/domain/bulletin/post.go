package bulletin

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Post is one bulletin board entry. The store assigns ID and CreatedAt at
// insert time; posts are never edited or deleted.
type Post struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreatePostRequest carries the only client-supplied field of a post.
type CreatePostRequest struct {
	Content string `json:"content"`
}

// PostView is the wire shape of a post: the raw content plus the
// presentation fields the clients would otherwise recompute.
type PostView struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	When      string    `json:"when"`
	Segments  []Segment `json:"segments"`
}

// NewPostView derives the wire shape from a stored post.
func NewPostView(p Post) PostView {
	return PostView{
		ID:        p.ID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		When:      FormatWhen(p.CreatedAt),
		Segments:  SplitLinks(p.Content),
	}
}

var (
	// ErrEmptyContent rejects submissions that are empty after trimming.
	ErrEmptyContent = errors.New("bulletin: content is empty")
	// ErrContentTooLong rejects submissions exceeding the configured bound
	// after normalization.
	ErrContentTooLong = errors.New("bulletin: content exceeds maximum length")
)
