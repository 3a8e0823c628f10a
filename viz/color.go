package viz

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	White       = color.NRGBA{255, 255, 255, 255}
	Black       = color.NRGBA{0, 0, 0, 255}
	Gray        = color.NRGBA{128, 128, 128, 255}
	Transparent = color.NRGBA{}
)

var namedColors = map[string]color.NRGBA{
	"white":       White,
	"black":       Black,
	"gray":        Gray,
	"grey":        Gray,
	"lightgray":   {211, 211, 211, 255},
	"lightgrey":   {211, 211, 211, 255},
	"darkgray":    {169, 169, 169, 255},
	"darkblue":    {0, 0, 139, 255},
	"blue":        {0, 0, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"yellow":      {255, 255, 0, 255},
	"orange":      {255, 165, 0, 255},
	"none":        Transparent,
	"transparent": Transparent,
}

// ParseColor accepts a named color, #rgb, #rrggbb or #rrggbbaa.
func ParseColor(s string) (color.NRGBA, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[key]; ok {
		return c, nil
	}
	alpha := uint8(255)
	if len(key) == 9 && key[0] == '#' {
		a, err := strconv.ParseUint(key[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		alpha = uint8(a)
		key = key[:7]
	}
	c, err := colorful.Hex(key)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{r, g, b, alpha}, nil
}

// MustParseColor is ParseColor for literals known to be valid.
func MustParseColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha scales the alpha channel of c by a in [0, 1].
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	a = math.Max(0, math.Min(1, a))
	c.A = uint8(math.Round(float64(c.A) * a))
	return c
}

// Hex formats c as #rrggbb, ignoring alpha.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Opacity returns the alpha channel as a fraction.
func Opacity(c color.NRGBA) float64 {
	return float64(c.A) / 255
}

// ContrastText returns white for dark fills and black for light ones.
func ContrastText(fill color.NRGBA) color.NRGBA {
	l, _, _ := toColorful(fill).Lab()
	if l < 0.6 {
		return White
	}
	return Black
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Colormap maps a value in [0, 1] to a color.
type Colormap func(v float64) color.NRGBA

// rdYlGnStops is the diverging red-yellow-green scale used for maturity levels.
var rdYlGnStops = []string{
	"#a50026", "#d73027", "#f46d43", "#fdae61", "#fee08b", "#ffffbf",
	"#d9ef8b", "#a6d96a", "#66bd63", "#1a9850", "#006837",
}

// RdYlGn interpolates between the stops of the red-yellow-green scale.
func RdYlGn(v float64) color.NRGBA {
	return interpolate(rdYlGnStops, v)
}

// Colormaps lists the colormaps documents can refer to by name.
var Colormaps = map[string]Colormap{
	"RdYlGn": RdYlGn,
}

func interpolate(stops []string, v float64) color.NRGBA {
	v = math.Max(0, math.Min(1, v))
	pos := v * float64(len(stops)-1)
	i := int(math.Floor(pos))
	if i >= len(stops)-1 {
		return MustParseColor(stops[len(stops)-1])
	}
	a, _ := colorful.Hex(stops[i])
	b, _ := colorful.Hex(stops[i+1])
	r, g, bl := a.BlendRgb(b, pos-float64(i)).Clamped().RGB255()
	return color.NRGBA{r, g, bl, 255}
}
