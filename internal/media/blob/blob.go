// Package blob stores uploaded media objects. Keys are object keys such as
// images/<uuid>.png.
package blob

import (
	"context"
	"strings"
	"sync"

	"drainadopt/pkg/platform/sentinel"
)

// Object is a stored blob and its content type.
type Object struct {
	Body        []byte
	ContentType string
}

// MemoryStore keeps objects in process. URLs are resolved against baseURL.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
	baseURL string
}

func NewMemory(baseURL string) *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]Object),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Put stores an object. Keys are create-only.
func (s *MemoryStore) Put(_ context.Context, key string, body []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; ok {
		return sentinel.ErrConflict
	}
	s.objects[key] = Object{Body: append([]byte(nil), body...), ContentType: contentType}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &obj, nil
}

func (s *MemoryStore) URL(_ context.Context, key string) (string, error) {
	return s.baseURL + "/" + key, nil
}
