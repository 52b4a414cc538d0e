package sink

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// LineSink appends unique lines to a file. It is safe for concurrent
// use: readers of the seen-set take a shared lock and writers
// re-validate under the exclusive lock before touching the file.
type LineSink struct {
	mu   sync.RWMutex
	seen map[string]struct{}
	file *os.File
	path string
}

// Open creates a LineSink backed by the given file. A missing file is
// created along with its parent directory; an existing file is read
// first so lines persisted by earlier runs are never appended again.
func Open(path string) (*LineSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("sink: create output directory: %w", err)
		}
	}

	seen, err := seedSeen(path)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("sink: open %s: %w", path, err)
	}

	return &LineSink{
		seen: seen,
		file: f,
		path: path,
	}, nil
}

// seedSeen loads the dedup set from an existing output file. A missing
// file yields an empty set.
func seedSeen(path string) (map[string]struct{}, error) {
	seen := make(map[string]struct{})

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return seen, nil
		}
		return nil, fmt.Errorf("sink: read existing %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			seen[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("sink: scan existing %s: %w", path, err)
	}
	return seen, nil
}

// Offer appends the line if it has not been seen before. It reports
// whether the line was written. The write is flushed to stable storage
// before Offer returns, so an interrupted run keeps every line it
// reported as written.
func (s *LineSink) Offer(line string) (bool, error) {
	if line == "" {
		return false, nil
	}

	s.mu.RLock()
	_, dup := s.seen[line]
	s.mu.RUnlock()
	if dup {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check: another goroutine may have written the line between
	// the read unlock and here.
	if _, dup := s.seen[line]; dup {
		return false, nil
	}

	if _, err := s.file.WriteString(line + "\n"); err != nil {
		return false, fmt.Errorf("sink: append to %s: %w", s.path, err)
	}
	if err := s.file.Sync(); err != nil {
		return false, fmt.Errorf("sink: sync %s: %w", s.path, err)
	}

	s.seen[line] = struct{}{}
	return true, nil
}

// Len returns the number of unique lines known to the sink, including
// those seeded from a pre-existing file.
func (s *LineSink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}

// Path returns the output file path the sink appends to.
func (s *LineSink) Path() string {
	return s.path
}

// Close releases the underlying file handle.
func (s *LineSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
