package fs_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"btocore/internal/blob"
	"btocore/internal/blob/fs"
)

func TestFilesystemStoreRoundTrip(t *testing.T) {
	store, err := fs.New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	if _, err := store.Put(ctx, "receipts/app-1.json", strings.NewReader(`{"ok":true}`), blob.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"application_id": "app-1"},
	}); err != nil {
		t.Fatalf("put: %v", err)
	}

	info, rc, err := store.Get(ctx, "receipts/app-1.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Fatalf("unexpected content: %q", data)
	}
	if info.ContentType != "application/json" || info.Metadata["application_id"] != "app-1" {
		t.Fatalf("sidecar metadata lost: %+v", info)
	}

	if _, err := store.Put(ctx, "receipts/app-1.json", strings.NewReader("again"), blob.PutOptions{}); !errors.Is(err, blob.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	infos, err := store.List(ctx, "receipts/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 1 || infos[0].Key != "receipts/app-1.json" {
		t.Fatalf("unexpected listing: %+v", infos)
	}

	if err := store.Delete(ctx, "receipts/app-1.json"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Head(ctx, "receipts/app-1.json"); !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFilesystemStoreRejectsTraversal(t *testing.T) {
	store, err := fs.New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"", "../escape", "/absolute"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), blob.PutOptions{}); err == nil {
			t.Fatalf("expected rejection for key %q", key)
		}
	}
}
