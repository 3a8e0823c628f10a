package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// notFound wraps fs.ErrNotExist so callers can tell a missing document
// from an unreadable one.
func notFound(p string) error {
	return fmt.Errorf("%s: %w", p, fs.ErrNotExist)
}

// regularFiles joins the names of the non-directory entries onto dir, sorted.
func regularFiles(dir string, entries []fs.DirEntry, join func(...string) string) []string {
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files
}

type mount struct {
	prefix string
	fs     FileSystem
}

// CompositeFS routes a path to the file system mounted at its longest
// matching prefix, or to the fallback. The built-in catalog is mounted at
// BuiltinPrefix with the local disk as fallback.
type CompositeFS struct {
	mu       sync.RWMutex
	mounts   []mount // longest prefix first
	fallback FileSystem
}

func NewCompositeFS() *CompositeFS {
	return &CompositeFS{}
}

func (c *CompositeFS) SetFallback(fsys FileSystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallback = fsys
}

// Mount routes every path starting with prefix to fsys. The prefix is
// stripped before the path reaches fsys. Mounting a prefix again replaces it.
func (c *CompositeFS) Mount(prefix string, fsys FileSystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.mounts {
		if c.mounts[i].prefix == prefix {
			c.mounts[i].fs = fsys
			return
		}
	}
	c.mounts = append(c.mounts, mount{prefix, fsys})
	sort.SliceStable(c.mounts, func(i, j int) bool {
		return len(c.mounts[i].prefix) > len(c.mounts[j].prefix)
	})
}

// route returns the file system serving p, the prefix it is mounted at
// and the path relative to it.
func (c *CompositeFS) route(p string) (FileSystem, string, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.mounts {
		if rest, ok := strings.CutPrefix(p, m.prefix); ok {
			return m.fs, m.prefix, rest
		}
	}
	return c.fallback, "", p
}

func (c *CompositeFS) ReadFile(p string) ([]byte, error) {
	fsys, _, rel := c.route(p)
	if fsys == nil {
		return nil, fmt.Errorf("no file system serves %s", p)
	}
	return fsys.ReadFile(rel)
}

// ListFiles keeps the mount prefix on every listed path so the result can
// be passed straight back to ReadFile.
func (c *CompositeFS) ListFiles(dir string) ([]string, error) {
	fsys, prefix, rel := c.route(dir)
	if fsys == nil {
		return nil, fmt.Errorf("no file system serves %s", dir)
	}
	files, err := fsys.ListFiles(rel)
	if err != nil {
		return nil, err
	}
	for i := range files {
		files[i] = prefix + files[i]
	}
	return files, nil
}

func (c *CompositeFS) Exists(p string) bool {
	fsys, _, rel := c.route(p)
	return fsys != nil && fsys.Exists(rel)
}

// LocalFS reads documents from disk. Relative paths are taken from root;
// absolute ones are used as given.
type LocalFS struct {
	root string
}

func NewLocalFS(root string) *LocalFS {
	return &LocalFS{root: root}
}

func (l *LocalFS) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.root, p)
}

func (l *LocalFS) ReadFile(p string) ([]byte, error) {
	return os.ReadFile(l.abs(p))
}

func (l *LocalFS) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(l.abs(dir))
	if err != nil {
		return nil, err
	}
	return regularFiles(dir, entries, filepath.Join), nil
}

func (l *LocalFS) Exists(p string) bool {
	info, err := os.Stat(l.abs(p))
	return err == nil && !info.IsDir()
}

// EmbedFS serves documents from a read-only fs.FS such as the embedded
// catalog. Paths are slash separated and relative to root.
type EmbedFS struct {
	fsys fs.FS
	root string
}

func NewEmbedFS(fsys fs.FS, root string) *EmbedFS {
	return &EmbedFS{fsys: fsys, root: root}
}

func (e *EmbedFS) full(p string) string {
	return path.Join(e.root, strings.TrimPrefix(p, "/"))
}

func (e *EmbedFS) ReadFile(p string) ([]byte, error) {
	return fs.ReadFile(e.fsys, e.full(p))
}

func (e *EmbedFS) ListFiles(dir string) ([]string, error) {
	entries, err := fs.ReadDir(e.fsys, e.full(dir))
	if err != nil {
		return nil, err
	}
	return regularFiles(dir, entries, path.Join), nil
}

func (e *EmbedFS) Exists(p string) bool {
	info, err := fs.Stat(e.fsys, e.full(p))
	return err == nil && !info.IsDir()
}
