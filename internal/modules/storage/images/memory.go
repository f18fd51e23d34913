package images

import (
	"context"
	"sync"
)

type blob struct {
	data        []byte
	contentType string
}

// MemoryStore keeps blobs in process.
type MemoryStore struct {
	mu      sync.RWMutex
	blobs   map[string]blob
	baseURL string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "/uploads"
	}
	return &MemoryStore{blobs: make(map[string]blob), baseURL: baseURL}
}

func (s *MemoryStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkName(name); err != nil {
		return "", err
	}
	cp := make([]byte, len(data))
	copy(cp, data)

	s.mu.Lock()
	s.blobs[name] = blob{data: cp, contentType: contentType}
	s.mu.Unlock()
	return s.URL(name), nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkName(name); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.blobs, name)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	_, ok := s.blobs[name]
	s.mu.RUnlock()
	return ok, nil
}

func (s *MemoryStore) URL(name string) string {
	return s.baseURL + "/" + name
}

// Names lists the stored blob names.
func (s *MemoryStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.blobs))
	for name := range s.blobs {
		out = append(out, name)
	}
	return out
}

// Data returns a stored blob and its content type.
func (s *MemoryStore) Data(name string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[name]
	return b.data, b.contentType, ok
}
