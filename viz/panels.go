package viz

import (
	"image/color"
	"strings"
)

// KPI is one key performance indicator row.
type KPI struct {
	Name        string
	Description string
	Value       string
	Color       color.NRGBA
}

// KPIList draws one rounded colored bar per KPI, top to bottom, with the
// name and value in bold and the description underneath.
type KPIList struct {
	Items     []KPI
	Top       float64 // y of the first row
	X, Width  float64
	BarHeight float64
	Step      float64
	Pad       float64
	Alpha     float64
	TextX     float64
	NameSize  float64
	DescSize  float64
}

func DefaultKPIList() KPIList {
	return KPIList{
		Top: 9.5, X: 0.5, Width: 9, BarHeight: 0.7, Step: 1.1, Pad: 0.1, Alpha: 0.8,
		TextX: 1, NameSize: 12, DescSize: 9,
	}
}

func (k *KPIList) Kind() string { return "kpis" }

func (k *KPIList) Draw(c *Canvas) {
	y := k.Top
	for _, it := range k.Items {
		// The padded bar hangs from y; text sits inside the unpadded part.
		top := y - k.Pad
		c.RoundedBox(k.X, top-k.BarHeight, k.Width, k.BarHeight, k.Pad, Style{Fill: WithAlpha(it.Color, k.Alpha)})
		c.Text(Point{k.TextX, top - k.BarHeight/2}, it.Name+": "+it.Value, TextStyle{
			Size: k.NameSize, Bold: true, Color: White,
		})
		c.Text(Point{k.TextX, top - k.BarHeight*0.8}, it.Description, TextStyle{
			Size: k.DescSize, Color: WithAlpha(White, 0.9),
		})
		y -= k.Step
	}
}

// ToolCategory is a named group of tools sharing a color.
type ToolCategory struct {
	Name  string
	Tools []string
	Color color.NRGBA
}

// ToolInventory draws a header bar per category with the tool names
// joined on the line below.
type ToolInventory struct {
	Items      []ToolCategory
	Top        float64
	X, Width   float64
	Step       float64
	Alpha      float64
	HeaderSize float64
	ToolSize   float64
	Separator  string
}

func DefaultToolInventory() ToolInventory {
	return ToolInventory{
		Top: 9.5, X: 0.5, Width: 9, Step: 1.5, Alpha: 0.9,
		HeaderSize: 11, ToolSize: 9, Separator: " • ",
	}
}

func (t *ToolInventory) Kind() string { return "tools" }

func (t *ToolInventory) Draw(c *Canvas) {
	y := t.Top
	for _, it := range t.Items {
		c.RoundedBox(t.X, y-0.4, t.Width, 0.3, 0.05, Style{Fill: WithAlpha(it.Color, t.Alpha)})
		c.Text(Point{t.X + t.Width/2, y - 0.25}, it.Name, TextStyle{
			Size: t.HeaderSize, Bold: true, Color: White, Align: AlignCenter,
		})
		c.Text(Point{t.X + 0.5, y - 0.7}, strings.Join(it.Tools, t.Separator), TextStyle{
			Size: t.ToolSize, Bold: true, Color: it.Color,
		})
		y -= t.Step
	}
}

// TextBlock is a bold heading followed by plain lines, stacked downward.
type TextBlock struct {
	At           Point
	Heading      string
	Lines        []string
	Spacing      float64
	Size         float64
	HeadingColor color.NRGBA
	Color        color.NRGBA
}

func DefaultTextBlock() TextBlock {
	return TextBlock{
		Spacing:      0.4,
		Size:         9,
		HeadingColor: MustParseColor("#2c3e50"),
		Color:        MustParseColor("#7f8c8d"),
	}
}

func (t *TextBlock) Kind() string { return "text" }

func (t *TextBlock) Draw(c *Canvas) {
	y := t.At.Y
	if t.Heading != "" {
		c.Text(Point{t.At.X, y}, t.Heading, TextStyle{Size: t.Size, Bold: true, Color: t.HeadingColor})
		y -= t.Spacing
	}
	for _, line := range t.Lines {
		c.Text(Point{t.At.X, y}, line, TextStyle{Size: t.Size, Color: t.Color})
		y -= t.Spacing
	}
}
