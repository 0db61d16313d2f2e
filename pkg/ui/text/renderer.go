// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/confguard/pkg/ui/display"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderResult renders any result type as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	w := &errWriter{w: r.output}
	switch v := result.(type) {
	case *display.ProjectView:
		r.project(w, v)
	case *display.TransactionView:
		r.transaction(w, v)
	case *display.InfoView:
		r.info(w, v)
	case *display.MessageView:
		w.line(v.Message)
		for _, p := range v.Paths {
			w.line("  " + p)
		}
	default:
		w.printf("%+v\n", result)
	}
	return w.err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return werr
}

// RenderMessage renders a simple message as plain text
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func (r *Renderer) project(w *errWriter, v *display.ProjectView) {
	w.printf("Project:  %s\n", v.SourceDir)
	if v.Guarded {
		w.printf("State:    guarded (%s)\n", v.Sentinel)
		w.printf("Storage:  %s\n", v.StorageDir)
	} else {
		w.line("State:    unguarded")
	}
	w.printf("Links:    %s\n", linkMode(v.Relative))
	w.line("Targets:")

	width := 0
	for _, t := range v.Targets {
		if len(t.Path) > width {
			width = len(t.Path)
		}
	}
	for _, t := range v.Targets {
		line := fmt.Sprintf("  %-*s  %s", width, t.Path, t.State)
		if t.Dest != "" {
			line += " -> " + t.Dest
		}
		w.line(line)
	}
}

func (r *Renderer) transaction(w *errWriter, v *display.TransactionView) {
	switch {
	case v.RolledBack:
		w.printf("%s of %s rolled back\n", v.Command, v.SourceDir)
	case v.Command == "guard":
		w.printf("Guarded %s as %s\n", v.SourceDir, v.Sentinel)
	case v.Command == "guard-one":
		w.printf("Guarded %s in %s\n", v.Target, v.SourceDir)
	default:
		w.printf("Unguarded %s\n", v.SourceDir)
	}
	for _, f := range v.Files {
		w.line("  " + f)
	}
	for _, warning := range v.Warnings {
		w.line("warning: " + warning)
	}
}

func (r *Renderer) info(w *errWriter, v *display.InfoView) {
	w.printf("confguard %s (%s, %s)\n", v.Version, v.Commit, v.BuildDate)
	w.printf("Base dir:      %s\n", v.BaseDir)
	w.printf("Storage root:  %s\n", v.StorageRoot)
	w.printf("Default links: %s\n", linkMode(v.Relative))
	w.printf("Config file:   %s\n", v.ConfigFile)
	w.printf("Log file:      %s\n", v.LogFile)
	w.printf("Sources:       %s\n", strings.Join(v.Sources, ", "))
	w.line("Environment:")
	for _, e := range v.Environment {
		value := e.Value
		if value == "" {
			value = "(unset)"
		}
		w.printf("  %s=%s\n", e.Name, value)
	}
	w.printf("Guarded projects: %d\n", len(v.Projects))
	for _, p := range v.Projects {
		source := p.SourceDir
		if p.Orphaned {
			source = "orphaned"
		}
		w.printf("  %s  %s\n", p.Sentinel, source)
	}
}

func linkMode(relative bool) string {
	if relative {
		return "relative"
	}
	return "absolute"
}

// errWriter keeps the first write error and skips later writes
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *errWriter) line(s string) {
	e.printf("%s\n", s)
}
