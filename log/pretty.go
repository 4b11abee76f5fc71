package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette styles each part of a pretty record. Styles render plain text
// when the output is not a color terminal.
type palette struct {
	key, text, number, yes, no, when, null lipgloss.Style
	level                                  map[slog.Level]lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return palette{
		key:    fg("8"),
		text:   fg("6"),
		number: fg("3"),
		yes:    fg("2"),
		no:     fg("1"),
		when:   fg("4"),
		null:   fg("8"),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): fg("5"),
			slog.LevelDebug:        fg("4"),
			slog.LevelInfo:         fg("2"),
			slog.LevelWarn:         fg("3").Bold(true),
			slog.LevelError:        fg("1").Bold(true),
		},
	}
}

func (p palette) forLevel(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.level[slog.LevelError]
	case l >= slog.LevelWarn:
		return p.level[slog.LevelWarn]
	case l >= slog.LevelInfo:
		return p.level[slog.LevelInfo]
	case l >= slog.LevelDebug:
		return p.level[slog.LevelDebug]
	default:
		return p.level[slog.Level(LevelTrace)]
	}
}

// prettyHandler writes records as colored key=value lines (text format) or
// as indented objects (JSON format). Groups flatten into dotted keys.
type prettyHandler struct {
	cfg    config
	opts   *slog.HandlerOptions
	colors palette
	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string
}

func newPrettyHandler(cfg config) *prettyHandler {
	return &prettyHandler{
		cfg:    cfg,
		opts:   cfg.handlerOptions(),
		colors: newPalette(cfg.output),
		mu:     &sync.Mutex{},
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualify(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// qualify nests attrs under the open groups.
func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.prefix == "" || len(attrs) == 0 {
		return attrs
	}

	return []slog.Attr{{
		Key:   strings.TrimSuffix(h.prefix, "."),
		Value: slog.GroupValue(attrs...),
	}}
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if s := h.cfg.formatTime(r.Time); s != "" {
			fields = append(fields, slog.String(slog.TimeKey, s))
		}
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			fields = append(fields,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	attrs := make([]slog.Attr, 0, r.NumAttrs())

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	fields = append(fields, h.qualify(attrs)...)

	var buf bytes.Buffer

	if h.cfg.format == FormatJSON {
		h.writeObject(&buf, fields)
	} else {
		h.writeLine(&buf, fields)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.cfg.output.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) writeLine(buf *bytes.Buffer, fields []slog.Attr) {
	walk(fields, "", func(key string, v slog.Value) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.colors.key.Render(key))
		buf.WriteByte('=')
		buf.WriteString(h.value(v))
	})
}

func (h *prettyHandler) writeObject(buf *bytes.Buffer, fields []slog.Attr) {
	buf.WriteString("{")

	first := true

	walk(fields, "", func(key string, v slog.Value) {
		if !first {
			buf.WriteByte(',')
		}

		first = false

		buf.WriteString("\n  ")
		buf.WriteString(h.colors.key.Render(key))
		buf.WriteString(": ")
		buf.WriteString(h.value(v))
	})

	buf.WriteString("\n}")
}

// walk visits every leaf of fields, joining group keys with '.'. Empty
// attributes and empty groups are skipped.
func walk(fields []slog.Attr, prefix string, visit func(string, slog.Value)) {
	for _, a := range fields {
		v := a.Value.Resolve()

		if a.Key == "" && v.Kind() != slog.KindGroup {
			continue
		}

		if v.Kind() == slog.KindGroup {
			p := prefix
			if a.Key != "" {
				p = prefix + a.Key + "."
			}

			walk(v.Group(), p, visit)

			continue
		}

		visit(prefix+a.Key, v)
	}
}

func (h *prettyHandler) value(v slog.Value) string {
	c := h.colors

	switch v.Kind() {
	case slog.KindString:
		return c.text.Render(v.String())
	case slog.KindInt64:
		return c.number.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return c.number.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return c.number.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return c.yes.Render("true")
		}

		return c.no.Render("false")
	case slog.KindDuration:
		return c.when.Render(v.Duration().String())
	case slog.KindTime:
		return c.when.Render(v.Time().Format(time.RFC3339Nano))
	}

	switch x := v.Any().(type) {
	case nil:
		return c.null.Render("null")
	case slog.Level:
		return c.forLevel(x).Render(levelName(x))
	case error:
		return c.no.Render(x.Error())
	default:
		return c.text.Render(fmt.Sprint(x))
	}
}
