package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// DefaultExtensions lists the image file extensions DirSource accepts.
var DefaultExtensions = []string{".bmp", ".gif", ".jpeg", ".jpg", ".png", ".tif", ".tiff", ".webp"}

// Lister enumerates the sample identifiers available in a sample root.
type Lister interface {
	Root() string
	ListIdentifiers(ctx context.Context) ([]string, error)
}

// Locator resolves an identifier to the file holding its sample.
type Locator interface {
	Root() string
	Path(ctx context.Context, id string) (string, error)
}

// DirSource lists image files in a single directory (non-recursive). A
// file's identifier is its base name without extension.
//
// When several files share an identifier (a.jpg, a.png) the lexically
// first file name is used and the rest are counted in Duplicates.
// DirSource is safe for concurrent use.
type DirSource struct {
	root       string
	extensions map[string]struct{}

	mu         sync.RWMutex
	files      map[string]string // id -> file name
	duplicates int
}

// NewDirSource creates a source over root. A nil extensions slice selects
// DefaultExtensions; matching is case-insensitive.
func NewDirSource(root string, extensions []string) *DirSource {
	if extensions == nil {
		extensions = DefaultExtensions
	}
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = struct{}{}
	}
	return &DirSource{root: root, extensions: exts}
}

// Root returns the sample root directory.
func (s *DirSource) Root() string {
	return s.root
}

// ListIdentifiers scans the root and returns the sorted identifiers found.
// A missing or unreadable root fails with ErrDatasetUnavailable.
func (s *DirSource) ListIdentifiers(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &SourceError{Kind: ErrDatasetUnavailable, Op: "list", Path: s.root, Err: err}
	}

	// os.ReadDir returns entries sorted by file name, so the first file
	// seen for an identifier is the lexically first one.
	files := make(map[string]string, len(entries))
	duplicates := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		ext := filepath.Ext(name)
		if _, ok := s.extensions[strings.ToLower(ext)]; !ok {
			continue
		}
		id := strings.TrimSuffix(name, ext)
		if id == "" {
			continue
		}
		if _, seen := files[id]; seen {
			duplicates++
			continue
		}
		files[id] = name
	}

	s.mu.Lock()
	s.files = files
	s.duplicates = duplicates
	s.mu.Unlock()

	ids := make([]string, 0, len(files))
	for id := range files {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Path returns the file path of id, listing the root on first use.
func (s *DirSource) Path(ctx context.Context, id string) (string, error) {
	s.mu.RLock()
	files := s.files
	s.mu.RUnlock()

	if files == nil {
		if _, err := s.ListIdentifiers(ctx); err != nil {
			return "", err
		}
		s.mu.RLock()
		files = s.files
		s.mu.RUnlock()
	}

	name, ok := files[id]
	if !ok {
		return "", fmt.Errorf("%w: %q under %s", ErrSampleNotFound, id, s.root)
	}
	return filepath.Join(s.root, name), nil
}

// Duplicates returns how many files were ignored by the last listing
// because another file already claimed their identifier.
func (s *DirSource) Duplicates() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.duplicates
}
