package bundle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrArtifactNotFound is returned by stores when a named artifact is absent.
var ErrArtifactNotFound = errors.New("artifact not found")

// Store reads named artifacts.
type Store interface {
	Get(ctx context.Context, name string) ([]byte, error)
	// Describe names the store in logs and audit records.
	Describe() string
}

// SnapshotStore reads several artifacts from one consistent view of the
// store. Names absent from the result were not found.
type SnapshotStore interface {
	Store
	GetAll(ctx context.Context, names []string) (map[string][]byte, error)
}

// DirStore reads artifacts as files in a directory.
type DirStore struct {
	Dir string
}

func NewDirStore(dir string) *DirStore {
	return &DirStore{Dir: dir}
}

func (s *DirStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrArtifactNotFound)
	}
	return data, err
}

func (s *DirStore) Describe() string {
	return "dir:" + s.Dir
}
