// Package library is the serving-side storage for a single manga: a
// directory holding manga.json, cover.jpg, and numbered page images.
package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"mangaread/internal/errors"
	"mangaread/internal/log"
	"mangaread/pkg/types"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

const (
	metadataFile = "manga.json"
	coverFile    = "cover.jpg"
	imagesDir    = "images"
)

// imageGlob matches the page image files we are willing to serve.
var imageGlob = glob.MustCompile("*.{jpg,jpeg,png}")

// Library serves one manga out of an assets directory. Metadata is held
// in memory and can be hot-reloaded when manga.json changes on disk.
type Library struct {
	dir string

	// Guards manga across reloads
	mu    sync.RWMutex
	manga *types.Manga

	fsWatcher *fsnotify.Watcher
	stopChan  chan struct{}
	running   bool
}

// Open loads the metadata from dir and verifies the page images are
// there. The cover and pages stay on disk until requested.
func Open(dir string) (*Library, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("error accessing assets directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	l := &Library{dir: dir, stopChan: make(chan struct{})}
	if err := l.reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// reload reads manga.json and swaps the in-memory metadata.
func (l *Library) reload() error {
	data, err := os.ReadFile(filepath.Join(l.dir, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewFetchError("metadata not found", -1, errors.NotFound, err)
		}
		return errors.Wrap(err, "reading metadata")
	}

	var manga types.Manga
	if err := json.Unmarshal(data, &manga); err != nil {
		return errors.NewFetchError("malformed metadata", -1, errors.DecodeFailure, err)
	}

	if found := l.countPageImages(); found != manga.Pages {
		log.LogWithFields(log.F("metadata", manga.Pages), log.F("found", found)).
			Warn("page count in metadata disagrees with image files on disk")
	}

	l.mu.Lock()
	l.manga = &manga
	l.mu.Unlock()

	log.LogWithFields(log.F("title", manga.EnglishName), log.F("pages", manga.Pages)).
		Info("library metadata loaded")
	return nil
}

// countPageImages counts files under images/ that look like pages.
func (l *Library) countPageImages() int {
	entries, err := os.ReadDir(filepath.Join(l.dir, imagesDir))
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageGlob.Match(entry.Name()) {
			count++
		}
	}
	return count
}

// Info returns the metadata with the cover bytes attached.
func (l *Library) Info() (*types.Manga, error) {
	l.mu.RLock()
	manga := *l.manga
	l.mu.RUnlock()

	cover, err := os.ReadFile(filepath.Join(l.dir, coverFile))
	if err != nil {
		return nil, errors.NewFetchError("cover not found", -1, errors.NotFound, err)
	}
	manga.Cover = cover
	return &manga, nil
}

// Page returns the raw image bytes for the given zero-based page index.
func (l *Library) Page(index int) ([]byte, error) {
	l.mu.RLock()
	pages := l.manga.Pages
	l.mu.RUnlock()

	if index < 0 || index >= pages {
		return nil, errors.NewFetchError("page out of range", index, errors.NotFound, nil)
	}

	data, err := os.ReadFile(filepath.Join(l.dir, imagesDir, fmt.Sprintf("%d.jpg", index)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFetchError("page image missing", index, errors.NotFound, err)
		}
		return nil, errors.Wrapf(err, "reading page %d", index)
	}
	return data, nil
}

// Watch starts an fsnotify watcher on the assets directory and reloads
// the metadata whenever manga.json is rewritten.
func (l *Library) Watch() error {
	if l.running {
		return fmt.Errorf("library watcher already running")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(l.dir); err != nil {
		fsWatcher.Close()
		return fmt.Errorf("failed to watch %s: %w", l.dir, err)
	}

	l.fsWatcher = fsWatcher
	l.running = true

	go func() {
		for {
			select {
			case event, ok := <-fsWatcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != metadataFile {
					continue
				}
				if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
					if err := l.reload(); err != nil {
						log.LogWithFields(log.F("error", err)).Error("metadata reload failed")
					}
				}

			case err, ok := <-fsWatcher.Errors:
				if !ok {
					return
				}
				log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

			case <-l.stopChan:
				return
			}
		}
	}()

	log.LogWithFields(log.F("directory", l.dir)).Info("Watching assets directory")
	return nil
}

// Close stops the watcher, if one is running.
func (l *Library) Close() {
	if !l.running {
		return
	}
	close(l.stopChan)
	if err := l.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	l.running = false
}
