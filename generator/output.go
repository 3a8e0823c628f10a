package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/panyam/socdiag/viz"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TempFilePrefix is the prefix of temporary files left by interrupted writes.
const TempFilePrefix = ".socdiag-tmp-"

// Extensions maps an output format to its file extension.
var Extensions = map[string]string{
	"png":        ".png",
	"svg":        ".svg",
	"pdf":        ".pdf",
	"dot":        ".dot",
	"mermaid":    ".mmd",
	"excalidraw": ".excalidraw",
}

// Label is the human readable name used in progress lines.
func Label(f *viz.Figure) string {
	if f.Title != "" {
		return f.Title
	}
	return f.Name
}

// SetHeading turns a set name like "supplementary" into "Supplementary".
func SetHeading(set string) string {
	if set == "" {
		return "Default"
	}
	return cases.Title(language.English).String(strings.ReplaceAll(set, "-", " "))
}

// OutputName is the file name of fig rendered as format.
func OutputName(f *viz.Figure, format string) string {
	base := f.Output
	if base == "" {
		base = f.Name
	}
	return Slug(base) + Extensions[format]
}

// Slug folds s into a safe file basename: accents dropped, lowercase,
// runs of anything but letters and digits collapsed to one underscore.
func Slug(s string) string {
	// A chain carries state, so build one per call.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(r)
			continue
		}
		sep = true
	}
	if b.Len() == 0 {
		return "diagram"
	}
	return b.String()
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}
	return nil
}
