package viz

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontSet holds parsed regular and bold typefaces. It is safe to share
// between surfaces; faces are cached per surface.
type FontSet struct {
	Regular    *opentype.Font
	Bold       *opentype.Font
	RegularTTF []byte
	BoldTTF    []byte
}

var (
	goFontsOnce sync.Once
	goFonts     *FontSet
)

// GoFonts returns the embedded Go Regular/Bold typefaces.
func GoFonts() *FontSet {
	goFontsOnce.Do(func() {
		fs, err := NewFontSet(goregular.TTF, gobold.TTF)
		if err != nil {
			panic(err) // should never happen with embedded fonts
		}
		goFonts = fs
	})
	return goFonts
}

// NewFontSet parses TTF/OTF data. An empty bold falls back to regular.
func NewFontSet(regular, bold []byte) (*FontSet, error) {
	if len(bold) == 0 {
		bold = regular
	}
	r, err := opentype.Parse(regular)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	b, err := opentype.Parse(bold)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &FontSet{Regular: r, Bold: b, RegularTTF: regular, BoldTTF: bold}, nil
}

// LoadFontSet reads font files from disk. Empty paths select the Go fonts.
func LoadFontSet(regularPath, boldPath string) (*FontSet, error) {
	if regularPath == "" {
		return GoFonts(), nil
	}
	regular, err := os.ReadFile(regularPath)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", regularPath, err)
	}
	var bold []byte
	if boldPath != "" {
		if bold, err = os.ReadFile(boldPath); err != nil {
			return nil, fmt.Errorf("read font %s: %w", boldPath, err)
		}
	}
	return NewFontSet(regular, bold)
}

type faceKey struct {
	size float64
	bold bool
}

// faceCache owns font.Face values, which are not safe for concurrent use.
type faceCache struct {
	fonts *FontSet
	faces map[faceKey]font.Face
}

func newFaceCache(fs *FontSet) *faceCache {
	if fs == nil {
		fs = GoFonts()
	}
	return &faceCache{fonts: fs, faces: make(map[faceKey]font.Face)}
}

func (c *faceCache) face(size float64, bold bool) font.Face {
	key := faceKey{size, bold}
	if f, ok := c.faces[key]; ok {
		return f
	}
	src := c.fonts.Regular
	if bold {
		src = c.fonts.Bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		f = basicfont.Face7x13
	}
	c.faces[key] = f
	return f
}

func (c *faceCache) measure(line string, st TextStyle) float64 {
	adv := font.MeasureString(c.face(st.Size, st.Bold), line)
	return float64(adv) / 64
}
