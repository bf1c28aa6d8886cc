package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const (
	ProfileDir    = "profile"
	AttachmentDir = "attachment"
)

// Local stores blobs as flat files under a single directory.
// Keys are plain file names; anything that could escape the directory is rejected.
type Local struct {
	root string
}

func NewLocal(root string) *Local {
	return &Local{root: root}
}

// EnsureDirs creates the upload root together with the profile and
// attachment folders below it.
func EnsureDirs(uploadDir string) error {
	for _, dir := range []string{
		uploadDir,
		filepath.Join(uploadDir, ProfileDir),
		filepath.Join(uploadDir, AttachmentDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create upload directory %s: %w", dir, err)
		}
	}
	return nil
}

func (l *Local) Root() string { return l.root }

// Path returns the on-disk location of key.
func (l *Local) Path(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(l.root, key), nil
}

// Write stores r under key. The blob only becomes visible once fully written.
func (l *Local) Write(ctx context.Context, key string, r io.Reader) (int64, error) {
	path, err := l.Path(key)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(l.root, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil && n == 0 {
		err = ErrEmptyBlob
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return 0, fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, fmt.Errorf("failed to move file into place: %w", err)
	}
	return n, nil
}

// Exists reports whether key is present. It gives up when ctx is done.
func (l *Local) Exists(ctx context.Context, key string) (bool, error) {
	path, err := l.Path(key)
	if err != nil {
		return false, err
	}

	type result struct {
		ok  bool
		err error
	}
	ch := make(chan result, 1)
	go func() {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			ch <- result{ok: true}
		case errors.Is(err, fs.ErrNotExist):
			ch <- result{}
		default:
			ch <- result{err: err}
		}
	}()

	select {
	case res := <-ch:
		return res.ok, res.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Open returns a reader for key. The caller closes it.
func (l *Local) Open(key string) (*os.File, error) {
	path, err := l.Path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Delete removes key. A missing blob yields NotFound rather than an error so
// that repeated deletes are harmless. If ctx ends first the result is Pending
// and the removal may still complete in the background.
func (l *Local) Delete(ctx context.Context, key string) (DeleteResult, error) {
	path, err := l.Path(key)
	if err != nil {
		return Failed, err
	}

	ch := make(chan error, 1)
	go func() { ch <- os.Remove(path) }()

	select {
	case err := <-ch:
		switch {
		case err == nil:
			return Deleted, nil
		case errors.Is(err, fs.ErrNotExist):
			log.Printf("blob_delete key=%s result=not_found", key)
			return NotFound, nil
		default:
			return Failed, err
		}
	case <-ctx.Done():
		return Pending, ctx.Err()
	}
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
