package viz

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
)

// --- Excalidraw Generator ---

// ExcalidrawGenerator exports a figure as an Excalidraw scene. The figure
// is rendered onto a Recorder and every primitive becomes a scene element
// at its real position, so the scene mirrors the raster output.
type ExcalidrawGenerator struct {
	DPI float64 // scene pixels per inch, 100 if unset
}

func (g *ExcalidrawGenerator) Export(fig *Figure) ([]byte, error) {
	dpi := g.DPI
	if dpi <= 0 {
		dpi = 100
	}
	w, h := fig.PixelSize(dpi)
	rec := NewRecorder(float64(w), float64(h))
	Render(fig, rec)

	scene := newExcalidrawScene(fig.Seed)
	for _, op := range rec.Ops {
		var err error
		switch op.Kind {
		case OpRect:
			_, err = scene.addRectangle(op.Rect, op.Radius, op.Style)
		case OpEllipse:
			_, err = scene.addEllipse(op.Center, op.RX, op.RY, op.Style)
		case OpWedge:
			_, err = scene.addPolygon(wedgePoints(op.Center, op.RX, op.RY, op.Start, op.End), op.Style)
		case OpArrow:
			_, err = scene.addArrow(op.From, op.To, op.Arrow)
		case OpText:
			_, err = scene.addText(op.At, op.Text, op.Font, rec.MeasureText)
		}
		if err != nil {
			return nil, fmt.Errorf("error adding %s to Excalidraw scene: %w", op.Kind, err)
		}
	}
	data, err := scene.toJSON(Hex(fig.Background))
	if err != nil {
		return nil, fmt.Errorf("encode excalidraw scene %s: %w", fig.Name, err)
	}
	return data, nil
}

// --- Excalidraw Helper Structs and Methods ---

type ExcalidrawElement struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	X               float64         `json:"x"`
	Y               float64         `json:"y"`
	Width           float64         `json:"width"`
	Height          float64         `json:"height"`
	Angle           float64         `json:"angle,omitempty"`
	StrokeColor     string          `json:"strokeColor"`
	BackgroundColor string          `json:"backgroundColor"`
	FillStyle       string          `json:"fillStyle"`
	StrokeWidth     float64         `json:"strokeWidth"`
	StrokeStyle     string          `json:"strokeStyle"`
	Roughness       int             `json:"roughness"`
	Opacity         int             `json:"opacity"`
	Seed            int64           `json:"seed"`
	Version         int             `json:"version"`
	VersionNonce    int64           `json:"versionNonce"`
	IsDeleted       bool            `json:"isDeleted,omitempty"`
	BoundElements   []*BoundElement `json:"boundElements,omitempty"`
	Points          [][]float64     `json:"points,omitempty"`
	Text            string          `json:"text,omitempty"`
	FontSize        float64         `json:"fontSize,omitempty"`
	FontFamily      int             `json:"fontFamily,omitempty"`
	TextAlign       string          `json:"textAlign,omitempty"`
	VerticalAlign   string          `json:"verticalAlign,omitempty"`
	Baseline        int             `json:"baseline,omitempty"`
	OriginalText    string          `json:"originalText,omitempty"`
	StrokeSharpness string          `json:"strokeSharpness,omitempty"`
	StartArrowhead  *string         `json:"startArrowhead"`
	EndArrowhead    *string         `json:"endArrowhead"`
}

type BoundElement struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type ExcalidrawFile struct {
	Type     string               `json:"type"`
	Version  int                  `json:"version"`
	Source   string               `json:"source"`
	Elements []*ExcalidrawElement `json:"elements"`
	AppState map[string]any       `json:"appState"`
	Files    map[string]any       `json:"files"`
}

type ExcalidrawScene struct {
	elements     []*ExcalidrawElement
	elementIDMap map[string]*ExcalidrawElement
	randSource   *rand.Rand
}

func newExcalidrawScene(seed uint64) *ExcalidrawScene {
	return &ExcalidrawScene{
		elements:     make([]*ExcalidrawElement, 0),
		elementIDMap: make(map[string]*ExcalidrawElement),
		randSource:   rand.New(rand.NewPCG(seed, 0xe7ca)),
	}
}

func (s *ExcalidrawScene) newSeed() int64 { return s.randSource.Int64N(2147483646) + 1 }

func (s *ExcalidrawScene) newElementID(prefix string) string {
	return prefix + "_" + strconv.FormatInt(s.newSeed(), 36)
}

func (s *ExcalidrawScene) addElement(element *ExcalidrawElement) error {
	if element.ID == "" {
		element.ID = s.newElementID(element.Type)
	}
	if _, dup := s.elementIDMap[element.ID]; dup {
		return fmt.Errorf("duplicate element id %s", element.ID)
	}
	element.Seed = s.newSeed()
	element.VersionNonce = s.newSeed()
	element.Version = 2
	s.elements = append(s.elements, element)
	s.elementIDMap[element.ID] = element
	return nil
}

func (s *ExcalidrawScene) shape(typ string, r Rect, st Style) *ExcalidrawElement {
	el := &ExcalidrawElement{
		Type: typ, X: r.X, Y: r.Y, Width: r.W, Height: r.H,
		StrokeColor: "transparent", BackgroundColor: "transparent",
		FillStyle: "solid", StrokeStyle: "solid", Roughness: 0, Opacity: 100,
	}
	if st.hasFill() {
		el.BackgroundColor = Hex(st.Fill)
		el.Opacity = int(math.Round(Opacity(st.Fill) * 100))
	}
	if st.hasStroke() {
		el.StrokeColor = Hex(st.Stroke)
		el.StrokeWidth = st.StrokeWidth
	}
	return el
}

func (s *ExcalidrawScene) addRectangle(r Rect, radius float64, st Style) (*ExcalidrawElement, error) {
	rect := s.shape("rectangle", r, st)
	if radius > 0 {
		rect.StrokeSharpness = "round"
	}
	return rect, s.addElement(rect)
}

func (s *ExcalidrawScene) addEllipse(c Point, rx, ry float64, st Style) (*ExcalidrawElement, error) {
	el := s.shape("ellipse", Rect{c.X - rx, c.Y - ry, 2 * rx, 2 * ry}, st)
	return el, s.addElement(el)
}

// addPolygon adds a closed line element; points are relative to its origin.
func (s *ExcalidrawScene) addPolygon(pts []Point, st Style) (*ExcalidrawElement, error) {
	b := boundsOf(pts)
	el := s.shape("line", b, st)
	el.Points = relativePoints(append(pts, pts[0]), Point{b.X, b.Y})
	return el, s.addElement(el)
}

func (s *ExcalidrawScene) addText(at Point, text string, st TextStyle, measure func(string, TextStyle) float64) (*ExcalidrawElement, error) {
	_, box := layoutText(text, at, st, func(line string) float64 { return measure(line, st) })
	align := map[HAlign]string{AlignLeft: "left", AlignCenter: "center", AlignRight: "right"}[st.Align]
	textEl := &ExcalidrawElement{
		Type: "text", X: box.X, Y: box.Y, Width: box.W, Height: box.H, Text: text, OriginalText: text,
		StrokeColor: Hex(st.Color), BackgroundColor: "transparent", FillStyle: "solid", StrokeStyle: "solid",
		FontSize: st.Size, FontFamily: 2, TextAlign: align, VerticalAlign: "top",
		Baseline: int(st.Size * ascentRatio), Opacity: int(math.Round(Opacity(st.Color) * 100)),
	}
	return textEl, s.addElement(textEl)
}

func (s *ExcalidrawScene) addArrow(from, to Point, st ArrowStyle) (*ExcalidrawElement, error) {
	shaft, _ := ArrowGeometry(from, to, st)
	origin := shaft[0]
	b := boundsOf(shaft)
	ah := "arrow"
	arrow := &ExcalidrawElement{
		Type: "arrow", X: origin.X, Y: origin.Y, Width: b.W, Height: b.H,
		StartArrowhead: nil, EndArrowhead: &ah,
		Points:      relativePoints(shaft, origin),
		StrokeColor: Hex(st.Color), BackgroundColor: "transparent", FillStyle: "solid",
		StrokeWidth: st.Width, StrokeStyle: "solid", Roughness: 0, StrokeSharpness: "round",
		Opacity: int(math.Round(Opacity(st.Color) * 100)),
	}
	if st.Curvature == 0 {
		arrow.StrokeSharpness = "sharp"
	}
	return arrow, s.addElement(arrow)
}

func relativePoints(pts []Point, origin Point) [][]float64 {
	out := make([][]float64, len(pts))
	for i, p := range pts {
		out[i] = []float64{p.X - origin.X, p.Y - origin.Y}
	}
	return out
}

func (s *ExcalidrawScene) toJSON(background string) ([]byte, error) {
	file := ExcalidrawFile{
		Type: "excalidraw", Version: 2, Source: "https://github.com/panyam/socdiag",
		Elements: s.elements, AppState: map[string]any{"viewBackgroundColor": background},
		Files: map[string]any{},
	}
	return json.MarshalIndent(file, "", "  ")
}
