package viz

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
)

const (
	OpRect    = "rect"
	OpEllipse = "ellipse"
	OpWedge   = "wedge"
	OpArrow   = "arrow"
	OpText    = "text"
)

// Op is one recorded primitive. Only the fields relevant to Kind are set.
type Op struct {
	Kind   string
	Rect   Rect
	Radius float64

	Center     Point
	RX, RY     float64
	Start, End float64

	From, To Point
	Arrow    ArrowStyle

	At   Point
	Text string
	Font TextStyle

	Style Style
}

// Recorder is a surface that keeps every primitive it is given. It backs
// structural checks and the excalidraw export.
type Recorder struct {
	w, h  float64
	faces *faceCache
	Ops   []Op
}

func NewRecorder(w, h float64) *Recorder {
	return &Recorder{w: w, h: h, faces: newFaceCache(nil)}
}

func (r *Recorder) Size() (float64, float64) { return r.w, r.h }

func (r *Recorder) Rect(rc Rect, radius float64, st Style) {
	r.Ops = append(r.Ops, Op{Kind: OpRect, Rect: rc, Radius: radius, Style: st})
}

func (r *Recorder) Ellipse(c Point, rx, ry float64, st Style) {
	r.Ops = append(r.Ops, Op{Kind: OpEllipse, Center: c, RX: rx, RY: ry, Style: st})
}

func (r *Recorder) Wedge(c Point, rx, ry, start, end float64, st Style) {
	r.Ops = append(r.Ops, Op{Kind: OpWedge, Center: c, RX: rx, RY: ry, Start: start, End: end, Style: st})
}

func (r *Recorder) Arrow(from, to Point, st ArrowStyle) {
	r.Ops = append(r.Ops, Op{Kind: OpArrow, From: from, To: to, Arrow: st})
}

func (r *Recorder) Text(at Point, text string, st TextStyle) {
	r.Ops = append(r.Ops, Op{Kind: OpText, At: at, Text: text, Font: st})
}

func (r *Recorder) MeasureText(line string, st TextStyle) float64 {
	return r.faces.measure(line, st)
}

// Count returns how many primitives of a kind were recorded.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Counts tallies recorded primitives per kind.
func (r *Recorder) Counts() map[string]int {
	out := map[string]int{}
	for _, op := range r.Ops {
		out[op.Kind]++
	}
	return out
}

// Texts returns the strings of all text primitives in drawing order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

// Encode writes a plain text listing of the recorded primitives, one per line.
func (r *Recorder) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	counts := r.Counts()
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	fmt.Fprintf(bw, "# %d primitives", len(r.Ops))
	for _, k := range kinds {
		fmt.Fprintf(bw, " %s=%d", k, counts[k])
	}
	bw.WriteString("\n")
	for _, op := range r.Ops {
		switch op.Kind {
		case OpRect:
			fmt.Fprintf(bw, "rect %s %s %s %s r=%s fill=%s\n", num(op.Rect.X), num(op.Rect.Y), num(op.Rect.W), num(op.Rect.H), num(op.Radius), Hex(op.Style.Fill))
		case OpEllipse:
			fmt.Fprintf(bw, "ellipse %s %s %s %s fill=%s\n", num(op.Center.X), num(op.Center.Y), num(op.RX), num(op.RY), Hex(op.Style.Fill))
		case OpWedge:
			fmt.Fprintf(bw, "wedge %s %s %s..%s fill=%s\n", num(op.Center.X), num(op.Center.Y), num(op.Start), num(op.End), Hex(op.Style.Fill))
		case OpArrow:
			fmt.Fprintf(bw, "arrow %s %s -> %s %s\n", num(op.From.X), num(op.From.Y), num(op.To.X), num(op.To.Y))
		case OpText:
			fmt.Fprintf(bw, "text %s %s %s\n", num(op.At.X), num(op.At.Y), strconv.Quote(op.Text))
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write listing: %w", err)
	}
	return nil
}
