// Package fs implements a filesystem-backed blob Store. Keys map to relative
// file paths under the root; a sidecar file (filename + ".meta") carries
// content type and user metadata.
package fs

import (
	"btocore/internal/blob"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Store implements blob.Store using the local filesystem. It is intentionally
// simple and not concurrent-writer safe beyond per-file creation.
type Store struct {
	root string
}

var _ blob.Store = (*Store)(nil)

// New returns a filesystem-backed blob store rooted at path, creating it if needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = "./blobdata"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Driver returns the blob driver identifier.
func (s *Store) Driver() blob.Driver { return blob.DriverFilesystem }

// sanitizeKey forbids path traversal and absolute paths.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key contains '..'")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key")
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid key traversal")
	}
	return clean, nil
}

func (s *Store) pathFor(key string) (dataPath, metaPath string, err error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", "", err
	}
	dataPath = filepath.Join(s.root, k)
	metaPath = dataPath + ".meta"
	return dataPath, metaPath, nil
}

type metaFile struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Size        int64             `json:"size"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Put stores a new blob; errors if the key exists.
func (s *Store) Put(_ context.Context, key string, r io.Reader, opts blob.PutOptions) (blob.Info, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return blob.Info{}, err
	}
	if _, err := os.Stat(dataPath); err == nil {
		return blob.Info{}, blob.ErrExists
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return blob.Info{}, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dataPath), ".tmp-*")
	if err != nil {
		return blob.Info{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	size, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()
	if copyErr != nil {
		return blob.Info{}, copyErr
	}
	if closeErr != nil {
		return blob.Info{}, closeErr
	}
	if err := os.Rename(tmp.Name(), dataPath); err != nil {
		return blob.Info{}, err
	}
	meta := metaFile{
		ContentType: opts.ContentType,
		Metadata:    opts.Metadata,
		Size:        size,
		CreatedAt:   time.Now().UTC(),
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return blob.Info{}, err
	}
	if err := os.WriteFile(metaPath, raw, 0o644); err != nil {
		return blob.Info{}, err
	}
	return s.infoFor(key, meta), nil
}

// Get returns blob metadata and a read closer to its content.
func (s *Store) Get(ctx context.Context, key string) (blob.Info, io.ReadCloser, error) {
	info, err := s.Head(ctx, key)
	if err != nil {
		return blob.Info{}, nil, err
	}
	dataPath, _, err := s.pathFor(key)
	if err != nil {
		return blob.Info{}, nil, err
	}
	f, err := os.Open(dataPath)
	if err != nil {
		return blob.Info{}, nil, err
	}
	return info, f, nil
}

// Head returns blob metadata only.
func (s *Store) Head(_ context.Context, key string) (blob.Info, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return blob.Info{}, err
	}
	if _, err := os.Stat(dataPath); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return blob.Info{}, blob.ErrNotFound
		}
		return blob.Info{}, err
	}
	meta, err := s.readMeta(metaPath)
	if err != nil {
		return blob.Info{}, err
	}
	return s.infoFor(key, meta), nil
}

// List returns all blobs matching prefix, sorted by key.
func (s *Store) List(_ context.Context, prefix string) ([]blob.Info, error) {
	var out []blob.Info
	err := filepath.WalkDir(s.root, func(path string, d iofs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || strings.HasSuffix(path, ".meta") || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			return nil
		}
		meta, err := s.readMeta(path + ".meta")
		if err != nil {
			return err
		}
		out = append(out, s.infoFor(key, meta))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Delete removes the blob and its metadata sidecar.
func (s *Store) Delete(_ context.Context, key string) error {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dataPath); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return blob.ErrNotFound
		}
		return err
	}
	_ = os.Remove(metaPath)
	return nil
}

func (s *Store) readMeta(metaPath string) (metaFile, error) {
	raw, err := os.ReadFile(metaPath)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return metaFile{}, nil
		}
		return metaFile{}, err
	}
	var meta metaFile
	if err := json.Unmarshal(raw, &meta); err != nil {
		return metaFile{}, err
	}
	return meta, nil
}

func (s *Store) infoFor(key string, meta metaFile) blob.Info {
	return blob.Info{
		Key:         key,
		Size:        meta.Size,
		ContentType: meta.ContentType,
		Metadata:    meta.Metadata,
		CreatedAt:   meta.CreatedAt,
	}
}
