package loader

// FileSystem abstracts where diagram documents and palettes are read
// from. Paths use the conventions of the implementation: slash separated
// for the embedded catalog and memory, OS paths for the local disk.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	// ListFiles returns the regular files directly inside dir, sorted.
	ListFiles(dir string) ([]string, error)
	// Exists reports whether path names a readable regular file.
	Exists(path string) bool
}
