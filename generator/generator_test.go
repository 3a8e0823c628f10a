package generator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/panyam/socdiag/config"
	"github.com/panyam/socdiag/viz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gotest.tools/v3/fs"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func matrixFigure(name string) *viz.Figure {
	m := viz.DefaultHeatMatrix()
	m.Rows = []string{"A", "B", "C"}
	m.Cols = []string{"x", "y", "z"}
	m.Origin, m.Cell, m.Step = viz.Point{X: 10, Y: 80}, viz.Point{X: 15, Y: 15}, viz.Point{X: 20, Y: 20}
	return &viz.Figure{
		Name:       name,
		Title:      "Matrix " + name,
		Width:      4,
		Height:     4,
		Rows:       1,
		Cols:       1,
		Background: viz.White,
		Panels: []*viz.Panel{{
			Extent: viz.Extent{XMax: 100, YMax: 100},
			Elements: []viz.Drawable{
				&viz.Box{X: 5, Y: 5, W: 40, H: 20, Title: "Triage", Fill: viz.MustParseColor("#2E86AB"), Style: viz.DefaultBoxStyle()},
				&m,
			},
		}},
	}
}

func TestGenerate_AllFormats(t *testing.T) {
	dir := t.TempDir()
	var progress bytes.Buffer
	g := New(Options{OutputDir: filepath.Join(dir, "out"), Formats: config.Formats, DPI: 50, Seed: 3}).
		WithProgress(&progress)

	results, err := g.Generate(context.Background(), []*viz.Figure{matrixFigure("one")})
	require.NoError(t, err)
	require.Len(t, results, len(config.Formats))

	for i, r := range results {
		assert.Equal(t, config.Formats[i], r.Format)
		assert.Equal(t, "one"+Extensions[r.Format], filepath.Base(r.Path))
		info, err := os.Stat(r.Path)
		require.NoError(t, err, r.Path)
		assert.Positive(t, info.Size())
		assert.Equal(t, int64(r.Bytes), info.Size())
	}
	assert.True(t, strings.HasPrefix(progress.String(), "Generating Matrix one diagram...\n"))
	assert.Contains(t, progress.String(), "Matrix one diagram saved as: ")

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), TempFilePrefix), e.Name())
	}
}

func TestGenerate_UnwritableOutputDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	g := New(Options{OutputDir: filepath.Join(blocker, "out")})
	_, err := g.Generate(context.Background(), []*viz.Figure{matrixFigure("one")})
	require.Error(t, err)
	assert.ErrorContains(t, err, "create output directory")
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	g := New(Options{OutputDir: t.TempDir(), Formats: []string{"gif"}})
	_, err := g.Generate(context.Background(), []*viz.Figure{matrixFigure("one")})
	assert.ErrorContains(t, err, "unsupported format: gif")
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := New(Options{OutputDir: t.TempDir()})
	results, err := g.Generate(ctx, []*viz.Figure{matrixFigure("one"), matrixFigure("two")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestGenerate_SeedIsReproducible(t *testing.T) {
	render := func() ([]Result, []byte) {
		dir := t.TempDir()
		g := New(Options{OutputDir: dir, Formats: []string{"svg"}, Seed: 99, Parallelism: 2})
		results, err := g.Generate(context.Background(), []*viz.Figure{matrixFigure("one"), matrixFigure("two")})
		require.NoError(t, err)
		data, err := os.ReadFile(results[1].Path)
		require.NoError(t, err)
		return results, data
	}
	r1, a := render()
	_, b := render()
	assert.Equal(t, a, b)
	require.Len(t, r1, 2)
	assert.Equal(t, "one", r1[0].Figure)
	assert.Equal(t, uint64(99), r1[0].Seed)
	assert.Equal(t, uint64(100), r1[1].Seed)
}

func TestGenerateFrom_ContinuesSeeds(t *testing.T) {
	g := New(Options{OutputDir: t.TempDir(), Formats: []string{"dot"}, Seed: 99})
	first, err := g.Generate(context.Background(), []*viz.Figure{matrixFigure("one"), matrixFigure("two")})
	require.NoError(t, err)
	second, err := g.GenerateFrom(context.Background(), []*viz.Figure{matrixFigure("three")}, len(first))
	require.NoError(t, err)

	require.Len(t, second, 1)
	assert.Equal(t, uint64(101), second[0].Seed)
	assert.Equal(t, uint64(100), first[1].Seed)
}

func TestNew_PicksSeed(t *testing.T) {
	g := New(Options{OutputDir: t.TempDir()})
	assert.NotZero(t, g.Options().Seed)
}

func TestGenerate_FigureSeedWins(t *testing.T) {
	fig := matrixFigure("one")
	fig.Seed = 5
	g := New(Options{OutputDir: t.TempDir(), Formats: []string{"dot"}, Seed: 99})
	results, err := g.Generate(context.Background(), []*viz.Figure{fig})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), results[0].Seed)
}

func TestRender_BackgroundOverride(t *testing.T) {
	g := New(Options{Background: viz.MustParseColor("#123456")})
	out, err := g.Render(matrixFigure("one"), "svg")
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(string(out)), "#123456")
}

func TestOptionsFromConfig(t *testing.T) {
	c := config.Default()
	c.Background = "not-a-color"
	_, err := OptionsFromConfig(c)
	assert.ErrorContains(t, err, "background")

	c.Background = "lightgray"
	opts, err := OptionsFromConfig(c)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), opts.Background.A)
	assert.Nil(t, opts.Fonts)
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"security_operations_overview": "security_operations_overview",
		"SOC Process Flow":             "soc_process_flow",
		"Équipe  rôles!":               "equipe_roles",
		"metrics-tools":                "metrics-tools",
		"  ":                           "diagram",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestOutputNameAndHeadings(t *testing.T) {
	f := &viz.Figure{Name: "roles", Output: "soc_team_roles"}
	assert.Equal(t, "soc_team_roles.mmd", OutputName(f, "mermaid"))
	f.Output = ""
	assert.Equal(t, "roles.pdf", OutputName(f, "pdf"))
	assert.Equal(t, "roles", Label(f))

	assert.Equal(t, "Main", SetHeading("main"))
	assert.Equal(t, "Supplementary Extra", SetHeading("supplementary-extra"))
	assert.Equal(t, "Default", SetHeading(""))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := fs.NewDir(t, "atomic", fs.WithFile("a.txt", "old"))
	path := dir.Join("a.txt")
	require.NoError(t, writeFileAtomic(path, []byte("new"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	assert.Error(t, writeFileAtomic(dir.Join("missing", "a.txt"), []byte("x"), 0o644))
}

func TestWatch_RebuildsOnChange(t *testing.T) {
	src := fs.NewDir(t, "watch", fs.WithFile("diagram.yaml", "name: one\n"))
	out := t.TempDir()

	builds := make(chan error, 8)
	loads := 0
	load := func() ([]*viz.Figure, error) {
		loads++
		return []*viz.Figure{matrixFigure("one")}, nil
	}
	g := New(Options{OutputDir: out, Formats: []string{"dot"}, Seed: 1})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- g.Watch(ctx, []string{src.Join("diagram.yaml")}, load, WatchOptions{
			Debounce: 10 * time.Millisecond,
			OnBuild:  func(_ []Result, err error) { builds <- err },
		})
	}()

	waitBuild := func() {
		t.Helper()
		select {
		case err := <-builds:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for a build")
		}
	}
	waitBuild()

	// Ignored: not a document.
	require.NoError(t, os.WriteFile(src.Join("notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(src.Join("diagram.yaml"), []byte("name: two\n"), 0o644))
	waitBuild()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.GreaterOrEqual(t, loads, 2)
	_, err := os.Stat(filepath.Join(out, "one.dot"))
	assert.NoError(t, err)
}

func TestIsDocument(t *testing.T) {
	assert.True(t, isDocument("/a/b.yaml"))
	assert.True(t, isDocument("b.YML"))
	assert.False(t, isDocument("/a/.b.yaml"))
	assert.False(t, isDocument("/a/b.yaml~"))
}
