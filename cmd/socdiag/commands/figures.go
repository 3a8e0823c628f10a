package commands

import (
	"fmt"
	"log/slog"

	"github.com/panyam/socdiag/loader"
	"github.com/panyam/socdiag/viz"
)

// loadFigures returns the built-in figures, or the figures of the
// documents named by --file. sources maps figure names to their files.
func loadFigures() (figs []*viz.Figure, sources map[string]string, err error) {
	if len(filePatterns) == 0 {
		figs, err = loader.Builtins()
		return figs, nil, err
	}
	paths, err := loader.Glob(filePatterns...)
	if err != nil {
		return nil, nil, err
	}
	res, err := loader.NewDefaultLoader().WithLogger(slog.Default()).LoadFiles(paths...)
	if err != nil {
		for _, e := range res.Errors[1:] {
			slog.Error("Load failed", "error", e)
		}
		return nil, nil, err
	}
	loader.SortBySet(res.Figures)
	return res.Figures, res.Sources, nil
}

// findFigure loads the figures and returns the one called name.
func findFigure(name string) (*viz.Figure, map[string]string, error) {
	figs, sources, err := loadFigures()
	if err != nil {
		return nil, nil, err
	}
	sel, err := loader.Select(figs, []string{name}, "")
	if err != nil {
		return nil, nil, fmt.Errorf("%w (see 'socdiag list')", err)
	}
	return sel[0], sources, nil
}
