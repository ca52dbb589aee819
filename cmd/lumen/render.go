package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/lumen-lang/lumen/internal/diag"
)

// renderer prints diagnostics with severity coloring when stdout is a
// terminal, capped at max entries (0 means unlimited).
type renderer struct {
	out     io.Writer
	max     int
	printed int
	dropped int
	errors  int

	errColor  *color.Color
	warnColor *color.Color
	hintColor *color.Color
}

func newRenderer(out io.Writer, max int) *renderer {
	r := &renderer{
		out:       out,
		max:       max,
		errColor:  color.New(color.FgRed, color.Bold),
		warnColor: color.New(color.FgYellow),
		hintColor: color.New(color.FgCyan),
	}
	if f, ok := out.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		for _, c := range []*color.Color{r.errColor, r.warnColor, r.hintColor} {
			c.DisableColor()
		}
	}
	return r
}

func (r *renderer) print(d diag.Diagnostic) {
	if d.Severity >= diag.SevError {
		r.errors++
	}
	if r.max > 0 && r.printed >= r.max {
		r.dropped++
		return
	}
	r.printed++

	c := r.hintColor
	switch d.Severity {
	case diag.SevError:
		c = r.errColor
	case diag.SevWarning:
		c = r.warnColor
	}
	fmt.Fprintf(r.out, "%s:%s: %s: %s\n",
		d.Span.URI, d.Span.Start, c.Sprint(d.Severity), d.Message())
}

func (r *renderer) summary(project string, modules int) {
	if r.dropped > 0 {
		fmt.Fprintf(r.out, "... and %d more diagnostics\n", r.dropped)
	}
	if r.errors == 0 && r.printed == 0 {
		fmt.Fprintf(r.out, "%s: %d module(s), no problems found\n", project, modules)
		return
	}
	fmt.Fprintf(r.out, "%s: %d module(s), %d diagnostic(s)\n", project, modules, r.printed+r.dropped)
}
