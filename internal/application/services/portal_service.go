package services

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/newriverone/portal/configs"
	"github.com/newriverone/portal/internal/core/domain/portal"
	"github.com/newriverone/portal/internal/core/ports"
)

// PortalService serves the tile layout from a YAML file, reloading it when
// the file changes. A broken edit keeps the last good layout.
type PortalService struct {
	path   string
	logger *logrus.Logger

	mu     sync.RWMutex
	layout portal.Layout

	watcher *fsnotify.Watcher
	done    chan struct{}
	once    sync.Once
}

func NewPortalService(cfg *configs.PortalConfig, logger *logrus.Logger) (*PortalService, error) {
	tf, err := portal.LoadTilesFile(cfg.TilesFile)
	if err != nil {
		return nil, err
	}

	s := &PortalService{
		path:   cfg.TilesFile,
		logger: logger,
		layout: portal.BuildLayout(tf),
		done:   make(chan struct{}),
	}

	if cfg.Watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("failed to create tiles watcher: %w", err)
		}
		// Watch the directory: editors replace the file, which would drop
		// a watch registered on the file itself.
		if err := watcher.Add(filepath.Dir(cfg.TilesFile)); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch tiles directory: %w", err)
		}
		s.watcher = watcher
		go s.watch()
	}

	return s, nil
}

func (s *PortalService) watch() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			s.reload()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			if s.logger != nil {
				s.logger.WithError(err).Warn("portal: tiles watcher error")
			}
		case <-s.done:
			return
		}
	}
}

func (s *PortalService) reload() {
	tf, err := portal.LoadTilesFile(s.path)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Warn("portal: tiles reload failed, keeping previous layout")
		}
		return
	}
	layout := portal.BuildLayout(tf)

	s.mu.Lock()
	s.layout = layout
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"always": len(layout.Always),
			"folder": len(layout.Folder.Tiles),
			"other":  len(layout.Other),
		}).Info("portal: tiles reloaded")
	}
}

// Layout returns the current tile arrangement.
func (s *PortalService) Layout() portal.Layout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layout
}

// Close stops the file watcher.
func (s *PortalService) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}

var _ ports.PortalService = (*PortalService)(nil)
