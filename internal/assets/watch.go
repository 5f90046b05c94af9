package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/kag-mapper/internal/logger"
)

// Watch reloads cached sheets when their files change on disk, so edits
// made in an image editor show up without restarting. The root, the
// directories of loaded sheets and those of ids that exist on disk are
// watched; call it after Preload.
//
// Reloads happen on the watcher goroutine. A sheet that fails to decode
// (typically a half-written file) keeps its previous image.
func (m *Manager) Watch(ids ...string) error {
	if m.watcher != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	dirs := map[string]bool{m.root: true}
	for id := range m.cache.All() {
		dirs[m.dirOf(id)] = true
	}
	for _, id := range ids {
		if fi, err := os.Stat(m.dirOf(id)); err == nil && fi.IsDir() {
			dirs[m.dirOf(id)] = true
		}
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	m.watcher = w
	go m.watchLoop(w)
	logger.Info("watching sprite sheets", zap.Int("dirs", len(dirs)))
	return nil
}

// Changed returns a channel that receives the id of each sheet whose
// file was written. Cached sheets are reloaded before the send; others
// are left for the next Sheet call. Sends are dropped when the channel
// is full.
func (m *Manager) Changed() <-chan string {
	return m.changed
}

func (m *Manager) dirOf(id string) string {
	return filepath.Dir(filepath.Join(m.root, filepath.FromSlash(id)))
}

func (m *Manager) watchLoop(w *fsnotify.Watcher) {
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			m.handleEvent(ev)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("sprite watcher error", zap.Error(err))
		}
	}
}

// handleEvent reloads the sheet behind ev if it is cached and reports
// the id on Changed.
func (m *Manager) handleEvent(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	id, ok := m.idForPath(ev.Name)
	if !ok {
		return
	}

	if m.cache.Has(id) {
		if _, err := m.load(id, ev.Name); err != nil {
			logger.Warn("sprite sheet reload failed, keeping previous image",
				zap.String("id", id),
				zap.Error(err),
			)
			return
		}
		logger.Info("sprite sheet reloaded", zap.String("id", id))
	} else {
		logger.Debug("sprite sheet appeared", zap.String("id", id))
	}

	select {
	case m.changed <- id:
	default:
	}
}

// idForPath maps a file under the root back to its sheet id.
func (m *Manager) idForPath(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	known := false
	for _, e := range extensions {
		if e == ext {
			known = true
			break
		}
	}
	if !known {
		return "", false
	}

	rel, err := filepath.Rel(m.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel))), true
}
