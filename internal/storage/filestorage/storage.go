package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"pgm_storefront/internal/storage"
)

const (
	DefaultFileName     = "state.json"
	DefaultPollInterval = 500 * time.Millisecond
)

// LocalFileStorage keeps client state in one JSON object on disk. Several
// processes pointing at the same file behave like tabs sharing storage.
type LocalFileStorage struct {
	path     string
	interval time.Duration

	mu    sync.Mutex
	known map[string]string
}

func NewLocalFileStorage(baseDir string, interval time.Duration) (*LocalFileStorage, error) {
	const op = "storage.filestorage.New"

	// Создаем директорию, если она не существует
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	s := &LocalFileStorage{
		path:     filepath.Join(baseDir, DefaultFileName),
		interval: interval,
	}

	known, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.known = known

	return s, nil
}

// Path returns the state file location.
func (s *LocalFileStorage) Path() string {
	return s.path
}

func (s *LocalFileStorage) Get(ctx context.Context, key string) (string, error) {
	const op = "storage.filestorage.Get"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	v, ok := data[key]
	if !ok {
		return "", storage.ErrorNoSuchKey
	}

	return v, nil
}

func (s *LocalFileStorage) Set(ctx context.Context, values map[string]string) error {
	const op = "storage.filestorage.Set"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for k := range values {
		if k == "" {
			return fmt.Errorf("%s: %w", op, storage.ErrEmptyKey)
		}
	}

	return s.update(op, func(data map[string]string) {
		for k, v := range values {
			data[k] = v
		}
	})
}

func (s *LocalFileStorage) Delete(ctx context.Context, keys ...string) error {
	const op = "storage.filestorage.Delete"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return s.update(op, func(data map[string]string) {
		for _, k := range keys {
			delete(data, k)
		}
	})
}

// Watch polls the file and reports keys that changed since this handle last
// read or wrote them.
func (s *LocalFileStorage) Watch(ctx context.Context) (<-chan storage.Change, error) {
	ch := make(chan storage.Change, 64)

	go func() {
		defer close(ch)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			for _, c := range s.poll() {
				select {
				case ch <- c:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func (s *LocalFileStorage) poll() []storage.Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return nil
	}

	changes := Diff(s.known, current)
	s.known = current

	return changes
}

func (s *LocalFileStorage) update(op string, apply func(map[string]string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// Changes made by other processes since the last poll must still be
	// reported, so only this write is folded into the known snapshot.
	before := copyMap(data)
	apply(data)

	if err := s.write(data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, c := range Diff(before, data) {
		if c.Deleted {
			delete(s.known, c.Key)
		} else {
			s.known[c.Key] = c.Value
		}
	}

	return nil
}

func (s *LocalFileStorage) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if len(raw) == 0 {
		return map[string]string{}, nil
	}

	data := map[string]string{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode state file: %w", err)
	}

	return data, nil
}

// write replaces the file through a rename so readers never see a partial
// object.
func (s *LocalFileStorage) write(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}

// Diff lists the changes turning before into after, ordered by key.
func Diff(before, after map[string]string) []storage.Change {
	var changes []storage.Change

	for k, v := range after {
		if old, ok := before[k]; !ok || old != v {
			changes = append(changes, storage.Change{Key: k, Value: v})
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			changes = append(changes, storage.Change{Key: k, Deleted: true})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Key < changes[j].Key })

	return changes
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
