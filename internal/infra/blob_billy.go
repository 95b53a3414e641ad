package infra

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/apperr"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
)

// BillyBlobStore keeps blobs as files on a billy filesystem: osfs on disk,
// memfs in tests. billy makes no concurrency promise, hence the lock.
type BillyBlobStore struct {
	mu sync.RWMutex
	fs billy.Filesystem
}

func NewBillyBlobStore(fs billy.Filesystem) *BillyBlobStore {
	return &BillyBlobStore{fs: fs}
}

func NewLocalBlobStore(dir string) (*BillyBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob dir %q: %w", dir, err)
	}
	return NewBillyBlobStore(osfs.New(dir)), nil
}

// Put writes to a sibling temp file and renames it over key.
func (b *BillyBlobStore) Put(_ context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.fs.MkdirAll(path.Dir(key), 0o755); err != nil {
		return fmt.Errorf("billy: mkdirall %q: %w", key, err)
	}
	tmp := key + ".tmp-" + uuid.NewString()
	if err := util.WriteFile(b.fs, tmp, data, 0o644); err != nil {
		_ = b.fs.Remove(tmp)
		return fmt.Errorf("billy: write %q: %w", tmp, err)
	}
	if err := b.fs.Rename(tmp, key); err != nil {
		_ = b.fs.Remove(tmp)
		return fmt.Errorf("billy: rename %q: %w", key, err)
	}
	return nil
}

func (b *BillyBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, err := util.ReadFile(b.fs, key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.Wrap(apperr.ErrMediaNotFound, err)
		}
		return nil, fmt.Errorf("billy: read %q: %w", key, err)
	}
	return data, nil
}

func (b *BillyBlobStore) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.fs.Remove(key); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("billy: remove %q: %w", key, err)
	}
	return nil
}

// Keys lists the stored blob keys in name order.
func (b *BillyBlobStore) Keys() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var keys []string
	err := util.Walk(b.fs, "/", func(name string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			keys = append(keys, strings.TrimPrefix(filepath.ToSlash(name), "/"))
		}
		return nil
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("billy: walk: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}
