package stmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/l3aro/go-cfg-structure/pkg/cfg"
)

// Options controls rendering.
type Options struct {
	Indent int // Spaces per nesting level; tabs when 0
}

// DefaultOptions returns tab-indented rendering options.
func DefaultOptions() Options {
	return Options{}
}

// Render writes b as Go-like source. Loops are only labeled when a break or
// continue reaches them from inside a nested loop.
func Render(w io.Writer, b Block, opts Options) error {
	r := &renderer{
		opts:   opts,
		needed: make(map[cfg.Label]bool),
	}
	r.scanLabels(b, nil)
	r.block(b, 0, nil)

	_, err := io.WriteString(w, r.sb.String())
	return err
}

// String renders b with default options.
func String(b Block) string {
	var sb strings.Builder
	_ = Render(&sb, b, DefaultOptions())
	return sb.String()
}

type renderer struct {
	opts   Options
	sb     strings.Builder
	needed map[cfg.Label]bool
}

// scanLabels marks loops targeted from below their innermost enclosing loop.
func (r *renderer) scanLabels(b Block, loops []cfg.Label) {
	for _, s := range b {
		switch s.Kind {
		case KindLoop:
			r.scanLabels(s.Body, append(loops, s.Label))
		case KindIf:
			r.scanLabels(s.Body, loops)
			r.scanLabels(s.Else, loops)
		case KindBreak, KindContinue:
			if len(loops) == 0 || loops[len(loops)-1] != s.Label {
				r.needed[s.Label] = true
			}
		}
	}
}

func (r *renderer) line(depth int, format string, args ...any) {
	if r.opts.Indent > 0 {
		r.sb.WriteString(strings.Repeat(" ", depth*r.opts.Indent))
	} else {
		r.sb.WriteString(strings.Repeat("\t", depth))
	}
	fmt.Fprintf(&r.sb, format, args...)
	r.sb.WriteByte('\n')
}

func (r *renderer) block(b Block, depth int, loops []cfg.Label) {
	for _, s := range b {
		switch s.Kind {
		case KindRaw:
			r.line(depth, "%s", s.Text)
		case KindLoop:
			if r.needed[s.Label] {
				r.line(depth, "%v:", s.Label)
			}
			r.line(depth, "for {")
			r.block(s.Body, depth+1, append(loops, s.Label))
			r.line(depth, "}")
		case KindIf:
			r.line(depth, "if %s {", s.Cond)
			r.block(s.Body, depth+1, loops)
			if len(s.Else) > 0 {
				r.line(depth, "} else {")
				r.block(s.Else, depth+1, loops)
			}
			r.line(depth, "}")
		case KindBreak, KindContinue:
			if len(loops) > 0 && loops[len(loops)-1] == s.Label {
				r.line(depth, "%s", s.Kind)
			} else {
				r.line(depth, "%s %v", s.Kind, s.Label)
			}
		}
	}
}
