// Package logging sets up the process wide slog logger.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/fatih/color"
)

type PrettyHandlerOptions struct {
	SlogOpts slog.HandlerOptions
}

// PrettyHandler writes one colored line per record followed by its
// attributes as indented JSON. Meant for a terminal during development.
type PrettyHandler struct {
	slog.Handler
	out    io.Writer
	mu     *sync.Mutex
	attrs  []scopedAttr
	groups []string
}

// scopedAttr is an attribute added with WithAttrs under the groups open
// at the time.
type scopedAttr struct {
	groups []string
	attr   slog.Attr
}

func NewPrettyHandler(out io.Writer, opts PrettyHandlerOptions) *PrettyHandler {
	return &PrettyHandler{
		Handler: slog.NewJSONHandler(out, &opts.SlogOpts),
		out:     out,
		mu:      &sync.Mutex{},
	}
}

func (h *PrettyHandler) Handle(ctx context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	switch r.Level {
	case slog.LevelDebug:
		level = color.MagentaString(level)
	case slog.LevelInfo:
		level = color.BlueString(level)
	case slog.LevelWarn:
		level = color.YellowString(level)
	case slog.LevelError:
		level = color.RedString(level)
	}

	fields := make(map[string]any, r.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		addField(fields, a.groups, a.attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		addField(fields, h.groups, a)
		return true
	})

	var extra string
	if len(fields) > 0 {
		b, err := json.MarshalIndent(fields, "", "  ")
		if err != nil {
			return err
		}
		extra = color.WhiteString(string(b))
	}

	line := strings.TrimRight(fmt.Sprintf("%s %s %s %s",
		r.Time.Format("[15:04:05.000]"), level, color.CyanString(r.Message), extra), " ")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.out, line)
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scoped := slices.Clone(h.attrs)
	for _, a := range attrs {
		scoped = append(scoped, scopedAttr{groups: h.groups, attr: a})
	}
	return &PrettyHandler{
		Handler: h.Handler.WithAttrs(attrs),
		out:     h.out,
		mu:      h.mu,
		attrs:   scoped,
		groups:  h.groups,
	}
}

// WithGroup nests the attributes that follow under name, the way the JSON
// handler does.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &PrettyHandler{
		Handler: h.Handler.WithGroup(name),
		out:     h.out,
		mu:      h.mu,
		attrs:   h.attrs,
		groups:  append(slices.Clone(h.groups), name),
	}
}

// addField stores a under the nested maps named by groups. Group values
// become maps of their own; empty attributes and empty groups are dropped.
func addField(fields map[string]any, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		if len(members) == 0 {
			return
		}
		if a.Key != "" {
			groups = append(slices.Clone(groups), a.Key)
		}
		for _, m := range members {
			addField(fields, groups, m)
		}
		return
	}
	for _, g := range groups {
		sub, ok := fields[g].(map[string]any)
		if !ok {
			sub = map[string]any{}
			fields[g] = sub
		}
		fields = sub
	}
	fields[a.Key] = a.Value.Any()
}
