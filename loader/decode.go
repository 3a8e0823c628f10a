package loader

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	gfn "github.com/panyam/goutils/fn"
	"github.com/panyam/socdiag/viz"
	"gopkg.in/yaml.v3"
)

// ParseDocuments decodes every YAML document in data. Unknown keys are
// rejected so typos in hand written documents surface early.
func ParseDocuments(data []byte, source string) ([]*FigureDoc, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// A second pass over the same stream keeps node positions for
	// checks that run after decoding.
	nodes := yaml.NewDecoder(bytes.NewReader(data))
	var docs []*FigureDoc
	for {
		doc := &FigureDoc{}
		err := dec.Decode(doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", source, err)
		}
		var node yaml.Node
		if nodes.Decode(&node) == nil {
			doc.sizeLine = valueLine(&node, "size")
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// valueLine returns the line of the value under key in a mapping
// document, or 0 if the key is absent.
func valueLine(doc *yaml.Node, key string) int {
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return 0
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1].Line
		}
	}
	return 0
}

// Parse decodes the documents in data into figures. Imports are not
// followed; use a Loader for documents that import palettes.
func Parse(data []byte, source string) ([]*viz.Figure, error) {
	docs, err := ParseDocuments(data, source)
	if err != nil {
		return nil, err
	}
	figs := make([]*viz.Figure, 0, len(docs))
	for _, doc := range docs {
		fig, err := doc.Figure(nil)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		figs = append(figs, fig)
	}
	return figs, nil
}

// palette resolves color references: a palette name first, then a named
// color or hex literal.
type palette struct {
	names map[string]string
	errs  *ErrorCollector
}

func (p *palette) color(ref string) color.NRGBA {
	s := ref
	if v, ok := p.names[ref]; ok {
		s = v
	}
	c, err := viz.ParseColor(s)
	if err != nil {
		p.errs.AddErrors(err)
	}
	return c
}

func (p *palette) colorOr(ref *string, def color.NRGBA) color.NRGBA {
	if ref == nil {
		return def
	}
	return p.color(*ref)
}

func setF(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setV(dst *viz.Point, src *Vec) {
	if src != nil {
		*dst = pt(*src)
	}
}

func pt(v Vec) viz.Point { return viz.Point{X: v[0], Y: v[1]} }

// Figure converts the document. inherited holds palette entries from
// imported files; the document's own palette wins on conflicts.
func (d *FigureDoc) Figure(inherited map[string]string) (*viz.Figure, error) {
	errs := &ErrorCollector{MaxErrors: 20}
	names := map[string]string{}
	for k, v := range inherited {
		names[k] = v
	}
	for k, v := range d.Palette {
		names[k] = v
	}
	p := &palette{names: names, errs: errs}

	if d.Name == "" {
		errs.Errorf("figure has no name")
	}
	if d.Size[0] <= 0 || d.Size[1] <= 0 {
		at := ""
		if d.sizeLine > 0 {
			at = fmt.Sprintf("line %d: ", d.sizeLine)
		}
		errs.Errorf("%ssize must be positive [width, height] in inches, got %v", at, d.Size)
	}
	fig := &viz.Figure{
		Name:       d.Name,
		Set:        d.Set,
		Title:      d.Title,
		Output:     d.Output,
		Width:      d.Size[0],
		Height:     d.Size[1],
		Rows:       1,
		Cols:       1,
		Background: viz.White,
		Seed:       d.Seed,
	}
	if fig.Output == "" {
		fig.Output = d.Name
	}
	if len(d.Grid) == 2 {
		fig.Rows, fig.Cols = d.Grid[0], d.Grid[1]
	} else if len(d.Grid) != 0 {
		errs.Errorf("grid must be [rows, cols], got %v", d.Grid)
	}
	if d.Background != "" {
		fig.Background = p.color(d.Background)
	}

	for i, pd := range d.Panels {
		panel := &viz.Panel{Row: pd.Row, Col: pd.Col, Title: pd.Title, TitleSize: pd.TitleSize}
		if len(pd.Extent) != 4 || pd.Extent[1] <= pd.Extent[0] || pd.Extent[3] <= pd.Extent[2] {
			errs.Errorf("panel %d: extent must be [xmin, xmax, ymin, ymax], got %v", i, pd.Extent)
		} else {
			panel.Extent = viz.Extent{XMin: pd.Extent[0], XMax: pd.Extent[1], YMin: pd.Extent[2], YMax: pd.Extent[3]}
		}
		for _, ed := range pd.Elements {
			panel.Elements = append(panel.Elements, p.elements(ed)...)
		}
		fig.Panels = append(fig.Panels, panel)
	}

	if err := errs.Err(); err != nil {
		return nil, fmt.Errorf("figure %q: %w", d.Name, err)
	}
	return fig, nil
}

func (p *palette) elements(ed ElementDoc) []viz.Drawable {
	switch v := ed.Value.(type) {
	case *BoxDoc:
		return []viz.Drawable{p.box(*v, viz.DefaultBoxStyle())}
	case *BoxesDoc:
		base := p.boxStyle(viz.DefaultBoxStyle(), v.Style)
		return gfn.Map(v.Items, func(b BoxDoc) viz.Drawable { return p.box(b, base) })
	case *ArrowsDoc:
		st := p.arrowStyle(viz.DefaultArrowStyle(), v.Style)
		return gfn.Map(v.Items, func(s Segment) viz.Drawable {
			return &viz.Connector{From: pt(s[0]), To: pt(s[1]), Style: st}
		})
	case *StepsDoc:
		return []viz.Drawable{p.steps(v)}
	case *LegendDoc:
		return []viz.Drawable{p.legend(v)}
	case *LabelDoc:
		return []viz.Drawable{p.label(v)}
	case *KPIsDoc:
		return []viz.Drawable{p.kpis(v)}
	case *ToolsDoc:
		return []viz.Drawable{p.tools(v)}
	case *MatrixDoc:
		return []viz.Drawable{p.matrix(v)}
	case *PieDoc:
		return []viz.Drawable{p.pie(v)}
	case *BarsDoc:
		return []viz.Drawable{p.bars(v)}
	case *TextDoc:
		return []viz.Drawable{p.text(v)}
	}
	p.errs.Errorf("unsupported element %q", ed.Kind)
	return nil
}

func (p *palette) boxStyle(st viz.BoxStyle, d *BoxStyleDoc) viz.BoxStyle {
	if d == nil {
		return st
	}
	setF(&st.Alpha, d.Alpha)
	setF(&st.Pad, d.Pad)
	st.EdgeColor = p.colorOr(d.Edge, st.EdgeColor)
	setF(&st.EdgeWidth, d.EdgeWidth)
	setF(&st.TitleSize, d.TitleSize)
	setF(&st.TitleOffset, d.TitleOffset)
	setF(&st.DetailSize, d.DetailSize)
	setF(&st.DetailOffset, d.DetailOffset)
	setF(&st.DetailSpacing, d.DetailSpacing)
	setF(&st.DetailIndent, d.DetailIndent)
	setF(&st.HeadingSize, d.HeadingSize)
	st.HeadingColor = p.colorOr(d.HeadingColor, st.HeadingColor)
	if d.TextColor != nil {
		if strings.EqualFold(*d.TextColor, "auto") {
			st.AutoText = true
		} else {
			c := p.color(*d.TextColor)
			st.AutoText = false
			st.TitleColor, st.DetailColor = c, c
		}
	}
	return st
}

func (p *palette) box(d BoxDoc, base viz.BoxStyle) viz.Drawable {
	return &viz.Box{
		X: d.At[0], Y: d.At[1], W: d.Size[0], H: d.Size[1],
		Title:   d.Title,
		Fill:    p.color(d.Fill),
		Details: d.Details,
		Style:   p.boxStyle(base, d.Style),
	}
}

func (p *palette) arrowStyle(st viz.ArrowStyle, d *ArrowStyleDoc) viz.ArrowStyle {
	if d == nil {
		return st
	}
	if d.Color != nil {
		st.Color = p.color(*d.Color)
	}
	if d.Alpha != nil {
		st.Color.A = 255
		st.Color = viz.WithAlpha(st.Color, *d.Alpha)
	}
	setF(&st.Width, d.Width)
	if d.Head != nil {
		// head is the arrow's mutation scale; the open head is 0.4 of it each way.
		h := 0.4 * *d.Head
		st.HeadLength, st.HeadWidth = h, h
	}
	if d.Shrink != nil {
		st.ShrinkA, st.ShrinkB = *d.Shrink, *d.Shrink
	}
	setF(&st.Curvature, d.Curvature)
	return st
}

func (p *palette) steps(d *StepsDoc) viz.Drawable {
	s := viz.DefaultSteps()
	setV(&s.Offset, d.Offset)
	setF(&s.Radius, d.Radius)
	setF(&s.Alpha, d.Alpha)
	setF(&s.MarkerSize, d.MarkerSize)
	setF(&s.CaptionSize, d.CaptionSize)
	setF(&s.CaptionGap, d.CaptionGap)
	s.Arrow = p.arrowStyle(s.Arrow, d.Arrow)
	s.Items = gfn.Map(d.Items, func(it StepDoc) viz.Step {
		return viz.Step{At: pt(it.At), Marker: it.Marker, Caption: it.Caption, Color: p.color(it.Color)}
	})
	return &s
}

func (p *palette) legend(d *LegendDoc) viz.Drawable {
	l := viz.DefaultLegend()
	setV(&l.At, d.At)
	setV(&l.Swatch, d.Swatch)
	setF(&l.Step, d.Step)
	setF(&l.TextSize, d.Size)
	setF(&l.Alpha, d.Alpha)
	l.Items = gfn.Map(d.Items, func(it LegendItemDoc) viz.LegendItem {
		return viz.LegendItem{Label: it.Label, Color: p.color(it.Color)}
	})
	return &l
}

func (p *palette) label(d *LabelDoc) viz.Drawable {
	st := viz.TextStyle{Size: d.Size, Bold: d.Bold, Color: viz.Black}
	if st.Size == 0 {
		st.Size = 10
	}
	if d.Color != "" {
		st.Color = p.color(d.Color)
	}
	switch strings.ToLower(d.Align) {
	case "", "left":
	case "center":
		st.Align = viz.AlignCenter
	case "right":
		st.Align = viz.AlignRight
	default:
		p.errs.Errorf("label %q: unknown align %q", d.Text, d.Align)
	}
	switch strings.ToLower(d.VAlign) {
	case "", "baseline":
	case "center":
		st.VAlign = viz.VAlignCenter
	case "top":
		st.VAlign = viz.VAlignTop
	case "bottom":
		st.VAlign = viz.VAlignBottom
	default:
		p.errs.Errorf("label %q: unknown valign %q", d.Text, d.VAlign)
	}
	if b := d.Box; b != nil {
		alpha, pad := b.Alpha, b.Pad
		if alpha == 0 {
			alpha = 1
		}
		if pad == 0 {
			pad = 0.3
		}
		box := &viz.TextBox{Fill: viz.WithAlpha(p.color(b.Fill), alpha), Pad: pad}
		if b.Stroke != "" {
			box.Stroke = p.color(b.Stroke)
		}
		st.Background = box
	}
	return &viz.Label{At: pt(d.At), Text: d.Text, Style: st}
}

func (p *palette) kpis(d *KPIsDoc) viz.Drawable {
	k := viz.DefaultKPIList()
	setF(&k.Top, d.Top)
	setF(&k.Step, d.Step)
	setF(&k.BarHeight, d.BarHeight)
	if k.BarHeight <= 0 {
		p.errs.Errorf("kpis: bar_height must be positive, got %v", k.BarHeight)
	}
	k.Items = gfn.Map(d.Items, func(it KPIDoc) viz.KPI {
		return viz.KPI{Name: it.Name, Description: it.Description, Value: it.Value, Color: p.color(it.Color)}
	})
	return &k
}

func (p *palette) tools(d *ToolsDoc) viz.Drawable {
	t := viz.DefaultToolInventory()
	setF(&t.Top, d.Top)
	setF(&t.Step, d.Step)
	t.Items = gfn.Map(d.Items, func(it ToolCategoryDoc) viz.ToolCategory {
		return viz.ToolCategory{Name: it.Name, Tools: it.Tools, Color: p.color(it.Color)}
	})
	return &t
}

func (p *palette) matrix(d *MatrixDoc) viz.Drawable {
	h := viz.DefaultHeatMatrix()
	h.Rows, h.Cols, h.Values = d.Rows, d.Cols, d.Values
	if d.Levels > 0 {
		h.Levels = d.Levels
	}
	if d.Colormap != "" {
		cm, ok := viz.Colormaps[d.Colormap]
		if !ok {
			p.errs.Errorf("unknown colormap %q", d.Colormap)
		} else {
			h.Colormap = cm
		}
	}
	setV(&h.Origin, d.Origin)
	setV(&h.Cell, d.Cell)
	setV(&h.Step, d.Step)
	setV(&h.ScaleAt, d.ScaleAt)
	if d.ScaleLabel != nil {
		h.ScaleLabel = *d.ScaleLabel
	}
	return &h
}

func (p *palette) pie(d *PieDoc) viz.Drawable {
	pc := viz.DefaultPieChart()
	pc.Center = pt(d.Center)
	if d.Radius > 0 {
		pc.Radius = d.Radius
	}
	pc.Values, pc.Labels = d.Values, d.Labels
	pc.Colors = gfn.Map(d.Colors, p.color)
	if d.Suffix != nil {
		pc.Suffix = *d.Suffix
	}
	return &pc
}

func (p *palette) bars(d *BarsDoc) viz.Drawable {
	b := viz.DefaultBarChart()
	b.Title = d.Title
	setV(&b.TitleAt, d.TitleAt)
	setV(&b.Origin, d.Origin)
	setF(&b.Step, d.Step)
	setF(&b.Height, d.Height)
	setF(&b.MaxLength, d.MaxLength)
	b.Items = gfn.Map(d.Items, func(it BarDoc) viz.Bar {
		return viz.Bar{Label: it.Label, Count: it.Count, Color: p.color(it.Color)}
	})
	return &b
}

func (p *palette) text(d *TextDoc) viz.Drawable {
	t := viz.DefaultTextBlock()
	t.At, t.Heading, t.Lines = pt(d.At), d.Heading, d.Lines
	setF(&t.Spacing, d.Spacing)
	setF(&t.Size, d.Size)
	t.HeadingColor = p.colorOr(d.HeadingColor, t.HeadingColor)
	t.Color = p.colorOr(d.Color, t.Color)
	return &t
}
