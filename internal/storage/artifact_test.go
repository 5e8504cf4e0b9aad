package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *FSStore {
	t.Helper()
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error: %v", err)
	}
	return store
}

func TestFSStorePutOpenRemove(t *testing.T) {
	store := newTestStore(t)
	key := "attempts/7.pdf"
	payload := []byte("first version")

	if err := store.Put(context.Background(), key, payload); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	rc, err := store.Open(key)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	got, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("artifact content = %q, want %q", got, payload)
	}

	if err := store.Remove(key); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, err := store.Open(key); !os.IsNotExist(err) {
		t.Fatalf("Open() after Remove: %v, want not-exist", err)
	}
}

func TestFSStorePutReplacesUnderSameKey(t *testing.T) {
	store := newTestStore(t)
	key := "attempts/7.pdf"

	if err := store.Put(context.Background(), key, []byte("old")); err != nil {
		t.Fatalf("first Put() error: %v", err)
	}
	if err := store.Put(context.Background(), key, []byte("new")); err != nil {
		t.Fatalf("second Put() error: %v", err)
	}

	rc, err := store.Open(key)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != "new" {
		t.Fatalf("artifact content = %q, want replacement", got)
	}

	// The rename-based write must not leave temp files behind.
	entries, err := os.ReadDir(filepath.Join(store.base, "attempts"))
	if err != nil {
		t.Fatalf("listing store dir: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("store dir holds %v, want only the artifact", names)
	}
}

func TestFSStorePutRejectsEmptyKey(t *testing.T) {
	store := newTestStore(t)
	if err := store.Put(context.Background(), "", []byte("x")); err == nil {
		t.Fatal("Put() with empty key succeeded")
	}
}

func TestFSStoreRemoveMissingIsNoop(t *testing.T) {
	store := newTestStore(t)
	if err := store.Remove("attempts/404.pdf"); err != nil {
		t.Fatalf("Remove() of missing artifact: %v", err)
	}
}

func TestFSStorePutHonorsCancelledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Put(ctx, "attempts/1.pdf", []byte("x")); err == nil {
		// The write may still win the race on a fast filesystem; only a
		// missing error alongside a missing artifact is a failure.
		if _, openErr := store.Open("attempts/1.pdf"); openErr != nil {
			t.Fatal("Put() reported success but artifact is unreadable")
		}
	}
}
