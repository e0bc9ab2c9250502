// Package ignore persists the set of permanently dismissed tmdb ids.
//
// The on-disk format is a text file of newline-separated decimal ids,
// append-only. Appends and loads are serialized by an internal mutex;
// readers always reload the full file, so a dismissal landing mid-pass is
// picked up no later than the next pass.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Store manages the ignore file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store for the given file path. The file is created
// lazily on first append.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the full file and returns the id set. A missing file is an
// empty set. Blank and non-numeric lines are skipped, so duplicate
// appends and hand edits cannot poison the set.
func (s *Store) Load() (map[int]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make(map[int]struct{})
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ids, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, err := strconv.Atoi(line)
		if err != nil {
			continue
		}
		ids[id] = struct{}{}
	}
	return ids, scanner.Err()
}

// Append writes one id as a new line. Appending an id that is already
// present is harmless; Load collapses duplicates.
func (s *Store) Append(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = fmt.Fprintf(f, "%d\n", id)
	return err
}
