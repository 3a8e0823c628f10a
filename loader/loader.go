package loader

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/panyam/socdiag/viz"
	"gopkg.in/yaml.v3"
)

// LoadResult holds the outcome of a loading operation.
type LoadResult struct {
	Figures []*viz.Figure     // In file order, then document order.
	Sources map[string]string // Figure name to the path it came from.
	Errors  []error           // Every file that failed, not only the first.
}

// Loader reads diagram documents and the palette files they import.
type Loader struct {
	fs       FileSystem
	maxDepth int
	logger   *slog.Logger

	// Internal state during a load operation
	mutex    sync.Mutex
	palettes map[string]map[string]string // resolved palettes keyed by path
	pending  map[string]bool              // imports on the current recursion stack
}

// NewLoader creates a loader over fs. maxDepth bounds palette import
// chains (0 means no limit).
func NewLoader(fs FileSystem, maxDepth int) *Loader {
	return &Loader{
		fs:       fs,
		maxDepth: maxDepth,
		logger:   slog.Default(),
		palettes: make(map[string]map[string]string),
		pending:  make(map[string]bool),
	}
}

// NewDefaultLoader serves the built-in catalog under BuiltinPrefix and
// everything else from the local disk.
func NewDefaultLoader() *Loader {
	cfs := NewCompositeFS()
	cfs.Mount(BuiltinPrefix, CatalogFS())
	cfs.SetFallback(NewLocalFS("."))
	return NewLoader(cfs, 8)
}

func (l *Loader) WithLogger(logger *slog.Logger) *Loader {
	l.logger = logger
	return l
}

// LoadFiles loads every path. All files are attempted; the first error is
// returned alongside a result listing all of them. Figure names must be
// unique across the set.
func (l *Loader) LoadFiles(paths ...string) (*LoadResult, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	// Reset state for this load operation
	l.palettes = make(map[string]map[string]string)
	l.pending = make(map[string]bool)

	result := &LoadResult{Sources: make(map[string]string)}
	for _, p := range paths {
		figs, err := l.loadFile(p)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		for _, fig := range figs {
			if prev, dup := result.Sources[fig.Name]; dup {
				result.Errors = append(result.Errors, fmt.Errorf("figure %q defined in both %s and %s", fig.Name, prev, p))
				continue
			}
			result.Sources[fig.Name] = p
			result.Figures = append(result.Figures, fig)
		}
		l.logger.Debug("Loaded diagram file", "path", p, "figures", len(figs))
	}
	if len(result.Errors) > 0 {
		return result, result.Errors[0]
	}
	return result, nil
}

// LoadFile loads a single document file.
func (l *Loader) LoadFile(p string) ([]*viz.Figure, error) {
	res, err := l.LoadFiles(p)
	if err != nil {
		return nil, err
	}
	return res.Figures, nil
}

func (l *Loader) loadFile(p string) ([]*viz.Figure, error) {
	data, err := l.fs.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("could not read '%s': %w", p, err)
	}
	docs, err := ParseDocuments(data, p)
	if err != nil {
		return nil, err
	}
	figs := make([]*viz.Figure, 0, len(docs))
	for _, doc := range docs {
		inherited, err := l.importPalettes(p, doc.Imports, 1)
		if err != nil {
			return nil, err
		}
		fig, err := doc.Figure(inherited)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		figs = append(figs, fig)
	}
	return figs, nil
}

// importPalettes merges the palettes of imports in order; later imports
// override earlier ones.
func (l *Loader) importPalettes(importer string, imports []string, depth int) (map[string]string, error) {
	merged := map[string]string{}
	for _, imp := range imports {
		pal, err := l.loadPalette(importer, imp, depth)
		if err != nil {
			return nil, fmt.Errorf("failed to load import '%s' from '%s': %w", imp, importer, err)
		}
		for k, v := range pal {
			merged[k] = v
		}
	}
	return merged, nil
}

func (l *Loader) loadPalette(importer, imp string, depth int) (map[string]string, error) {
	if l.maxDepth > 0 && depth > l.maxDepth {
		return nil, fmt.Errorf("max import depth (%d) exceeded near '%s'", l.maxDepth, imp)
	}
	canonical := resolveImport(importer, imp)
	if pal, found := l.palettes[canonical]; found {
		return pal, nil
	}
	if l.pending[canonical] {
		return nil, fmt.Errorf("circular import detected: '%s' is already being loaded", canonical)
	}
	l.pending[canonical] = true
	defer delete(l.pending, canonical)

	if !l.fs.Exists(canonical) {
		return nil, fmt.Errorf("palette '%s' not found: %w", canonical, fs.ErrNotExist)
	}
	data, err := l.fs.ReadFile(canonical)
	if err != nil {
		return nil, fmt.Errorf("cannot read '%s': %w", canonical, err)
	}
	var doc PaletteDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", canonical, err)
	}
	pal, err := l.importPalettes(canonical, doc.Imports, depth+1)
	if err != nil {
		return nil, err
	}
	for k, v := range doc.Palette {
		pal[k] = v
	}
	l.palettes[canonical] = pal
	return pal, nil
}

// resolveImport interprets imp relative to the importing document.
// Built-in documents resolve inside the catalog.
func resolveImport(importer, imp string) string {
	if rest, ok := strings.CutPrefix(importer, BuiltinPrefix); ok {
		if strings.HasPrefix(imp, BuiltinPrefix) {
			return imp
		}
		return BuiltinPrefix + path.Join(path.Dir(rest), imp)
	}
	if strings.HasPrefix(imp, BuiltinPrefix) || filepath.IsAbs(imp) {
		return imp
	}
	return filepath.Join(filepath.Dir(importer), imp)
}
