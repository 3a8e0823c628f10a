package loader

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Vec is an [x, y] pair: a point, a size or an offset.
type Vec [2]float64

// Segment is a [[x1, y1], [x2, y2]] arrow.
type Segment [2]Vec

// FigureDoc is one YAML document describing a whole figure.
type FigureDoc struct {
	Name       string            `yaml:"name"`
	Set        string            `yaml:"set,omitempty"`
	Title      string            `yaml:"title,omitempty"`
	Output     string            `yaml:"output,omitempty"`
	Size       Vec               `yaml:"size"`
	Grid       []int             `yaml:"grid,omitempty,flow"`
	Background string            `yaml:"background,omitempty"`
	Seed       uint64            `yaml:"seed,omitempty"` // fixes placeholder data; 0 uses the run seed
	Imports    []string          `yaml:"imports,omitempty"`
	Palette    map[string]string `yaml:"palette,omitempty"`
	Panels     []PanelDoc        `yaml:"panels"`

	sizeLine int // where size was written, for error messages
}

// PaletteDoc is the shape of an imported file: named colors, possibly
// importing further palettes.
type PaletteDoc struct {
	Imports []string          `yaml:"imports,omitempty"`
	Palette map[string]string `yaml:"palette"`
}

type PanelDoc struct {
	Row       int          `yaml:"row,omitempty"`
	Col       int          `yaml:"col,omitempty"`
	Title     string       `yaml:"title,omitempty"`
	TitleSize float64      `yaml:"title_size,omitempty"`
	Extent    []float64    `yaml:"extent,flow"`
	Elements  []ElementDoc `yaml:"elements"`
}

// ElementDoc is a single-key mapping whose key names the element kind,
// e.g. `- box: {...}` or `- arrows: {...}`.
type ElementDoc struct {
	Kind  string
	Value any
}

// elementKinds maps a kind to a constructor for its document type.
var elementKinds = map[string]func() any{
	"box":    func() any { return &BoxDoc{} },
	"boxes":  func() any { return &BoxesDoc{} },
	"arrows": func() any { return &ArrowsDoc{} },
	"steps":  func() any { return &StepsDoc{} },
	"legend": func() any { return &LegendDoc{} },
	"label":  func() any { return &LabelDoc{} },
	"kpis":   func() any { return &KPIsDoc{} },
	"tools":  func() any { return &ToolsDoc{} },
	"matrix": func() any { return &MatrixDoc{} },
	"pie":    func() any { return &PieDoc{} },
	"bars":   func() any { return &BarsDoc{} },
	"text":   func() any { return &TextDoc{} },
}

// ElementKinds lists the element kinds a document may use.
func ElementKinds() []string {
	out := make([]string, 0, len(elementKinds))
	for k := range elementKinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (e *ElementDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return fmt.Errorf("line %d: element must be a mapping with exactly one kind key", node.Line)
	}
	kind := node.Content[0].Value
	ctor, ok := elementKinds[kind]
	if !ok {
		return fmt.Errorf("line %d: unknown element kind %q", node.Line, kind)
	}
	v := ctor()
	if err := decodeKnownFields(node.Content[1], v); err != nil {
		return fmt.Errorf("line %d: %s: %w", node.Line, kind, err)
	}
	e.Kind, e.Value = kind, v
	return nil
}

// decodeKnownFields decodes node into v, rejecting keys v has no field
// for. node.Decode ignores the KnownFields setting of the outer decoder.
func decodeKnownFields(node *yaml.Node, v any) error {
	data, err := yaml.Marshal(expandAliases(node))
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}

// expandAliases copies n with every alias replaced by what it points to,
// so the copy can be encoded without the anchors defined elsewhere.
func expandAliases(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return expandAliases(n.Alias)
	}
	out := *n
	out.Anchor = ""
	out.Content = make([]*yaml.Node, len(n.Content))
	for i, c := range n.Content {
		out.Content[i] = expandAliases(c)
	}
	return &out
}

func (e ElementDoc) MarshalYAML() (any, error) {
	return map[string]any{e.Kind: e.Value}, nil
}

type BoxStyleDoc struct {
	Alpha         *float64 `yaml:"alpha,omitempty"`
	Pad           *float64 `yaml:"pad,omitempty"`
	Edge          *string  `yaml:"edge,omitempty"`
	EdgeWidth     *float64 `yaml:"edge_width,omitempty"`
	TitleSize     *float64 `yaml:"title_size,omitempty"`
	TitleOffset   *float64 `yaml:"title_offset,omitempty"`
	DetailSize    *float64 `yaml:"detail_size,omitempty"`
	DetailOffset  *float64 `yaml:"detail_offset,omitempty"`
	DetailSpacing *float64 `yaml:"detail_spacing,omitempty"`
	DetailIndent  *float64 `yaml:"detail_indent,omitempty"`
	HeadingSize   *float64 `yaml:"heading_size,omitempty"`
	HeadingColor  *string  `yaml:"heading_color,omitempty"`
	// TextColor sets title and detail colors; "auto" picks by fill darkness.
	TextColor *string `yaml:"text_color,omitempty"`
}

type BoxDoc struct {
	At      Vec          `yaml:"at,flow"`
	Size    Vec          `yaml:"size,flow"`
	Title   string       `yaml:"title"`
	Fill    string       `yaml:"fill"`
	Details []string     `yaml:"details,omitempty"`
	Style   *BoxStyleDoc `yaml:"style,omitempty"`
}

// BoxesDoc is a group of boxes sharing one style.
type BoxesDoc struct {
	Style *BoxStyleDoc `yaml:"style,omitempty"`
	Items []BoxDoc     `yaml:"items"`
}

type ArrowStyleDoc struct {
	Color     *string  `yaml:"color,omitempty"`
	Alpha     *float64 `yaml:"alpha,omitempty"`
	Width     *float64 `yaml:"width,omitempty"`
	Head      *float64 `yaml:"head,omitempty"`
	Shrink    *float64 `yaml:"shrink,omitempty"`
	Curvature *float64 `yaml:"rad,omitempty"`
}

type ArrowsDoc struct {
	Style *ArrowStyleDoc `yaml:"style,omitempty"`
	Items []Segment      `yaml:"items,flow"`
}

type StepDoc struct {
	At      Vec    `yaml:"at,flow"`
	Marker  string `yaml:"marker"`
	Caption string `yaml:"caption"`
	Color   string `yaml:"color"`
}

type StepsDoc struct {
	Offset      *Vec           `yaml:"offset,omitempty,flow"`
	Radius      *float64       `yaml:"radius,omitempty"`
	Alpha       *float64       `yaml:"alpha,omitempty"`
	MarkerSize  *float64       `yaml:"marker_size,omitempty"`
	CaptionSize *float64       `yaml:"caption_size,omitempty"`
	CaptionGap  *float64       `yaml:"caption_gap,omitempty"`
	Arrow       *ArrowStyleDoc `yaml:"arrow,omitempty"`
	Items       []StepDoc      `yaml:"items"`
}

type LegendItemDoc struct {
	Label string `yaml:"label"`
	Color string `yaml:"color"`
}

type LegendDoc struct {
	At     *Vec            `yaml:"at,omitempty,flow"`
	Swatch *Vec            `yaml:"swatch,omitempty,flow"`
	Step   *float64        `yaml:"step,omitempty"`
	Size   *float64        `yaml:"size,omitempty"`
	Alpha  *float64        `yaml:"alpha,omitempty"`
	Items  []LegendItemDoc `yaml:"items"`
}

type TextBoxDoc struct {
	Fill   string  `yaml:"fill"`
	Stroke string  `yaml:"stroke,omitempty"`
	Alpha  float64 `yaml:"alpha,omitempty"`
	Pad    float64 `yaml:"pad,omitempty"`
}

type LabelDoc struct {
	At     Vec         `yaml:"at,flow"`
	Text   string      `yaml:"text"`
	Size   float64     `yaml:"size,omitempty"`
	Bold   bool        `yaml:"bold,omitempty"`
	Color  string      `yaml:"color,omitempty"`
	Align  string      `yaml:"align,omitempty"`
	VAlign string      `yaml:"valign,omitempty"`
	Box    *TextBoxDoc `yaml:"box,omitempty"`
}

type KPIDoc struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Value       string `yaml:"value"`
	Color       string `yaml:"color"`
}

type KPIsDoc struct {
	Top       *float64 `yaml:"top,omitempty"`
	Step      *float64 `yaml:"step,omitempty"`
	BarHeight *float64 `yaml:"bar_height,omitempty"`
	Items     []KPIDoc `yaml:"items"`
}

type ToolCategoryDoc struct {
	Name  string   `yaml:"name"`
	Tools []string `yaml:"tools,flow"`
	Color string   `yaml:"color"`
}

type ToolsDoc struct {
	Top   *float64          `yaml:"top,omitempty"`
	Step  *float64          `yaml:"step,omitempty"`
	Items []ToolCategoryDoc `yaml:"items"`
}

type MatrixDoc struct {
	Rows   []string `yaml:"rows,flow"`
	Cols   []string `yaml:"cols,flow"`
	Values [][]int  `yaml:"values,omitempty,flow"`
	Levels int      `yaml:"levels,omitempty"`
	// Colormap names a viz.Colormaps entry; RdYlGn if empty.
	Colormap   string  `yaml:"colormap,omitempty"`
	Origin     *Vec    `yaml:"origin,omitempty,flow"`
	Cell       *Vec    `yaml:"cell,omitempty,flow"`
	Step       *Vec    `yaml:"step,omitempty,flow"`
	ScaleLabel *string `yaml:"scale_label,omitempty"`
	ScaleAt    *Vec    `yaml:"scale_at,omitempty,flow"`
}

type PieDoc struct {
	Center Vec       `yaml:"center,flow"`
	Radius float64   `yaml:"radius"`
	Values []float64 `yaml:"values,flow"`
	Labels []string  `yaml:"labels,flow"`
	Colors []string  `yaml:"colors,flow"`
	Suffix *string   `yaml:"suffix,omitempty"`
}

type BarDoc struct {
	Label string  `yaml:"label"`
	Count float64 `yaml:"count"`
	Color string  `yaml:"color"`
}

type BarsDoc struct {
	Title     string   `yaml:"title,omitempty"`
	TitleAt   *Vec     `yaml:"title_at,omitempty,flow"`
	Origin    *Vec     `yaml:"origin,omitempty,flow"`
	Step      *float64 `yaml:"step,omitempty"`
	Height    *float64 `yaml:"height,omitempty"`
	MaxLength *float64 `yaml:"max_length,omitempty"`
	Items     []BarDoc `yaml:"items"`
}

type TextDoc struct {
	At           Vec      `yaml:"at,flow"`
	Heading      string   `yaml:"heading,omitempty"`
	Lines        []string `yaml:"lines"`
	Spacing      *float64 `yaml:"spacing,omitempty"`
	Size         *float64 `yaml:"size,omitempty"`
	HeadingColor *string  `yaml:"heading_color,omitempty"`
	Color        *string  `yaml:"color,omitempty"`
}
