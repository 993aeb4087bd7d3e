package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/newriverone/portal/internal/core/domain/bulletin"
)

func (s *Server) listPosts(c echo.Context) error {
	views, err := s.bulletinSvc.Recent(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"posts": views})
}

func (s *Server) createPost(c echo.Context) error {
	var req bulletin.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	_, err := s.bulletinSvc.Submit(c.Request().Context(), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, bulletin.ErrEmptyContent):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "content is empty")
		case errors.Is(err, bulletin.ErrContentTooLong):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "content exceeds maximum length")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	bulletinPostsTotal.Inc()
	// The created post reaches the submitter through the live stream, not
	// through this response.
	return c.NoContent(http.StatusAccepted)
}

// streamPosts delivers each merged feed post as a server-sent event until
// the client disconnects. The watcher registration is released on return,
// including the disconnect-mid-delivery case.
func (s *Server) streamPosts(c echo.Context) error {
	events, cancel := s.feedSvc.Watch()
	defer cancel()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case post, ok := <-events:
			if !ok {
				return nil
			}
			data, err := json.Marshal(bulletin.NewPostView(post))
			if err != nil {
				if s.logger != nil {
					s.logger.WithFields(logrus.Fields{"post_id": post.ID}).WithError(err).Error("failed to encode stream event")
				}
				continue
			}
			if _, err := fmt.Fprintf(resp, "data: %s\n\n", data); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}
