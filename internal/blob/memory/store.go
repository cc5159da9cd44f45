// Package memory implements an in-memory blob Store for tests and ephemeral
// environments.
package memory

import (
	"btocore/internal/blob"
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

type entry struct {
	info blob.Info
	data []byte
}

// Store implements blob.Store backed by process memory.
type Store struct {
	mu   sync.RWMutex
	objs map[string]entry
}

var _ blob.Store = (*Store)(nil)

// New returns an in-memory blob store.
func New() *Store { return &Store{objs: make(map[string]entry)} }

// Driver returns the blob driver identifier.
func (s *Store) Driver() blob.Driver { return blob.DriverMemory }

// Put stores a new blob; errors if the key exists.
func (s *Store) Put(_ context.Context, key string, r io.Reader, opts blob.PutOptions) (blob.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objs[key]; exists {
		return blob.Info{}, blob.ErrExists
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return blob.Info{}, err
	}
	info := blob.Info{
		Key:         key,
		Size:        int64(len(b)),
		ContentType: opts.ContentType,
		Metadata:    cloneMetadata(opts.Metadata),
		CreatedAt:   time.Now().UTC(),
	}
	s.objs[key] = entry{info: info, data: b}
	return info, nil
}

// Get returns blob metadata and a read closer to its content.
func (s *Store) Get(_ context.Context, key string) (blob.Info, io.ReadCloser, error) {
	s.mu.RLock()
	obj, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return blob.Info{}, nil, blob.ErrNotFound
	}
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	info := obj.info
	info.Metadata = cloneMetadata(info.Metadata)
	return info, io.NopCloser(bytes.NewReader(data)), nil
}

// Head returns blob metadata only.
func (s *Store) Head(_ context.Context, key string) (blob.Info, error) {
	s.mu.RLock()
	obj, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return blob.Info{}, blob.ErrNotFound
	}
	info := obj.info
	info.Metadata = cloneMetadata(info.Metadata)
	return info, nil
}

// List returns all blobs matching prefix, sorted by key.
func (s *Store) List(_ context.Context, prefix string) ([]blob.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]blob.Info, 0, len(s.objs))
	for k, v := range s.objs {
		if prefix != "" && !strings.HasPrefix(k, prefix) {
			continue
		}
		info := v.info
		info.Metadata = cloneMetadata(info.Metadata)
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Delete removes the blob if it exists.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objs[key]; !ok {
		return blob.ErrNotFound
	}
	delete(s.objs, key)
	return nil
}

func cloneMetadata(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
