// Package project supplies the filesystem collaborators the engine needs:
// existence probes for structural-placement checks, file reads, and recursive
// source enumeration. Everything goes through viant/afs so tests can swap the
// local scheme for mem://.
package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
)

// FileSystem is the filesystem surface injected into the engine. Exists is
// deliberately error-free: probe failures (permissions, transient storage
// errors) degrade to "does not exist" instead of aborting a run.
type FileSystem interface {
	Exists(path string) bool
	ReadFile(path string) ([]byte, error)
	List(dir string) ([]Entry, error)
}

// Entry is one directory member.
type Entry struct {
	Name string
	Dir  bool
}

// Service is the afs-backed FileSystem.
type Service struct {
	fs afs.Service
}

// New creates a FileSystem over the afs service, which resolves local paths
// as well as mem:// and other schemes.
func New() *Service {
	return &Service{fs: afs.New()}
}

// Exists probes for a file or directory.
func (s *Service) Exists(path string) bool {
	ok, err := s.fs.Exists(context.Background(), path)
	if err != nil {
		return false
	}
	return ok
}

// ReadFile returns the content at path.
func (s *Service) ReadFile(path string) ([]byte, error) {
	data, err := s.fs.DownloadWithURL(context.Background(), path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// List returns the direct members of dir.
func (s *Service) List(dir string) ([]Entry, error) {
	objects, err := s.fs.List(context.Background(), dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	trimmed := strings.TrimRight(dir, "/")
	var out []Entry
	for _, object := range objects {
		// afs includes the listed location itself; its URL may be the
		// absolute form of a relative dir, so match on the suffix.
		if object.IsDir() && strings.HasSuffix(strings.TrimRight(object.URL(), "/"), trimmed) {
			continue
		}
		out = append(out, Entry{Name: object.Name(), Dir: object.IsDir()})
	}
	return out, nil
}
