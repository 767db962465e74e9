// Package formats loads draft formats from a directory of YAML or JSON files.
package formats

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/ramonehamilton/cubedraft/internal/draft"
)

// StandardName is the built-in format available in every library.
const StandardName = "standard"

// Entry is a named format.
type Entry struct {
	Name   string       `json:"name"`
	Format draft.Format `json:"format"`
}

// Library holds the formats found in a directory, keyed by file stem.
type Library struct {
	dir      string
	standard draft.Format
	onReload func(names []string)

	mu      sync.RWMutex
	formats map[string]draft.Format
}

// Option configures a Library.
type Option func(*Library)

// WithStandard replaces the built-in standard format.
func WithStandard(f draft.Format) Option {
	return func(l *Library) { l.standard = f }
}

// WithReloadHook is called with the sorted format names after every reload
// triggered by Watch.
func WithReloadHook(fn func(names []string)) Option {
	return func(l *Library) { l.onReload = fn }
}

// Load reads every format file in dir. An empty dir yields only the built-in
// standard format. Malformed files are logged and skipped. A file named
// standard.yaml overrides the built-in.
func Load(dir string, opts ...Option) (*Library, error) {
	l := &Library{dir: dir, standard: draft.DefaultFormat(3, 15)}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Dir returns the watched directory.
func (l *Library) Dir() string {
	return l.dir
}

// Reload rereads the directory and swaps in the new set atomically.
func (l *Library) Reload() error {
	formats := map[string]draft.Format{
		StandardName: l.standard,
	}

	if l.dir != "" {
		entries, err := os.ReadDir(l.dir)
		if err != nil {
			return fmt.Errorf("failed to read formats directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !isFormatFile(entry.Name()) {
				continue
			}
			path := filepath.Join(l.dir, entry.Name())
			f, err := ParseFile(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("skipping format file")
				continue
			}
			formats[stem(entry.Name())] = f
		}
	}

	l.mu.Lock()
	l.formats = formats
	l.mu.Unlock()

	log.Debug().Str("dir", l.dir).Int("formats", len(formats)).Msg("format library loaded")
	return nil
}

// Get returns a copy of the named format.
func (l *Library) Get(name string) (draft.Format, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	f, ok := l.formats[name]
	return f.Clone(), ok
}

// Names returns every format name, sorted.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.formats))
	for name := range l.formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns a copy of every format, sorted by name.
func (l *Library) List() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, 0, len(l.formats))
	for name, f := range l.formats {
		out = append(out, Entry{Name: name, Format: f.Clone()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Watch reloads the library whenever a file in the directory changes.
// It blocks until ctx is cancelled.
func (l *Library) Watch(ctx context.Context) (err error) {
	if l.dir == "" {
		return fmt.Errorf("no formats directory configured")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(l.dir); err != nil {
		return fmt.Errorf("failed to watch formats directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isFormatFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := l.Reload(); err != nil {
				log.Warn().Err(err).Msg("format reload failed")
				continue
			}
			log.Info().Str("file", filepath.Base(event.Name)).Msg("format library reloaded")
			if l.onReload != nil {
				l.onReload(l.Names())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("format watcher error")
		}
	}
}

// ParseFile decodes one format file, choosing the codec by extension.
func ParseFile(path string) (draft.Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return draft.Format{}, fmt.Errorf("failed to read format: %w", err)
	}
	f, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return draft.Format{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if f.Title == "" {
		f.Title = stem(filepath.Base(path))
	}
	return f, nil
}

// Parse decodes format data. ext is ".json", ".yaml" or ".yml".
func Parse(data []byte, ext string) (draft.Format, error) {
	var f draft.Format
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return f, fmt.Errorf("failed to decode JSON format: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return f, fmt.Errorf("failed to decode YAML format: %w", err)
		}
	default:
		return f, fmt.Errorf("unsupported format extension %q", ext)
	}
	if len(f.Packs) == 0 {
		return f, draft.ErrNoPacks
	}
	return f, nil
}

func isFormatFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
