// Package storage holds the artifact store the report generator writes to.
// Artifacts are regenerable caches, so the store favors availability over
// durability guarantees: a write that cannot finish within the timeout is
// reported as a failure and retried by the caller on next access.
package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"
)

const defaultWriteTimeout = 5 * time.Second

// ArtifactStore persists report artifacts under stable keys.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Open(key string) (io.ReadCloser, error)
	Remove(key string) error
}

type FSStore struct {
	base         string
	writeTimeout time.Duration
}

func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		base = "./data/reports"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base, writeTimeout: defaultWriteTimeout}, nil
}

// Put writes the artifact atomically (temp file + rename) so a reader never
// observes a half-written report. The write is bounded by the store timeout
// or the caller's context, whichever ends first.
func (s *FSStore) Put(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return errors.New("empty artifact key")
	}
	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.write(key, data)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *FSStore) write(key string, data []byte) error {
	dst := filepath.Join(s.base, filepath.Clean(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".artifact-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func (s *FSStore) Open(key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.base, filepath.Clean(key)))
}

// Remove deletes a replaced or invalidated artifact. A missing file is not
// an error; the reference may already have been cleared by a retry.
func (s *FSStore) Remove(key string) error {
	err := os.Remove(filepath.Join(s.base, filepath.Clean(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
