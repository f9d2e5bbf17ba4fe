package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	layoutFileName = "layout.sqlite"
	eventsDirName  = "events"
	eventsFileName = "diffs.jsonl"
)

// Store is a workspace directory holding the persisted board layout and the diff log.
type Store struct {
	Dir string
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store: missing dir")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) layoutPath() string {
	return filepath.Join(filepath.Clean(s.Dir), layoutFileName)
}

func (s Store) eventsDir() string {
	return filepath.Join(filepath.Clean(s.Dir), eventsDirName)
}

func (s Store) eventsPath() string {
	return filepath.Join(s.eventsDir(), eventsFileName)
}

// Reset deletes the persisted layout (including SQLite WAL side files) and the diff log.
func (s Store) Reset() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store: missing dir")
	}
	for _, p := range []string{s.layoutPath(), s.layoutPath() + "-wal", s.layoutPath() + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if err := os.RemoveAll(s.eventsDir()); err != nil {
		return err
	}
	return nil
}
