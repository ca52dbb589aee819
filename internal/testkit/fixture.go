// Package testkit parses the multi-module fixture format used by the
// engine's tests: `--@ <filename>` lines split one string into named
// virtual files, and a `--^` marker on the line after a reference marks
// the column of interest for position queries.
package testkit

import (
	"strings"

	"github.com/lumen-lang/lumen/internal/source"
)

// File is one virtual module from a fixture.
type File struct {
	Name   string
	Source string
}

// Fixture is a parsed multi-module test input.
type Fixture struct {
	Files []File

	// Caret is the position the `--^` marker points at, if any. The
	// marker line itself is removed from the source, so positions refer
	// to the cleaned text.
	Caret    source.Pos
	CaretURI string
	HasCaret bool
}

const (
	fileMarker  = "--@ "
	caretMarker = "--^"
)

// Parse splits a fixture string. Text before the first `--@` marker
// belongs to a file named "Main.lum".
func Parse(input string) Fixture {
	var fx Fixture

	name := "Main.lum"
	var lines []string

	flush := func() {
		if len(lines) == 0 {
			return
		}
		src, caret, ok := extractCaret(lines)
		if ok {
			fx.Caret = caret
			fx.CaretURI = name
			fx.HasCaret = true
		}
		fx.Files = append(fx.Files, File{Name: name, Source: src})
		lines = nil
	}

	for _, line := range strings.Split(input, "\n") {
		if rest, ok := strings.CutPrefix(line, fileMarker); ok {
			flush()
			name = strings.TrimSpace(rest)
			continue
		}
		lines = append(lines, line)
	}
	flush()
	return fx
}

// extractCaret removes a `--^` marker line and reports the position it
// points at: the marked column on the preceding line.
func extractCaret(lines []string) (string, source.Pos, bool) {
	for i, line := range lines {
		col := strings.Index(line, caretMarker)
		if col < 0 || strings.TrimSpace(line) != caretMarker {
			continue
		}
		cleaned := make([]string, 0, len(lines)-1)
		cleaned = append(cleaned, lines[:i]...)
		cleaned = append(cleaned, lines[i+1:]...)
		pos := source.Pos{Line: i, Column: col + len(caretMarker)}
		return strings.Join(cleaned, "\n"), pos, true
	}
	return strings.Join(lines, "\n"), source.Pos{}, false
}
