// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/confguard/pkg/links"
	"github.com/arthur-debert/confguard/pkg/style"
	"github.com/arthur-debert/confguard/pkg/ui/display"
)

// Renderer provides rich terminal output using lipgloss styles and pterm tables
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w}
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *display.ProjectView:
		return r.project(v)
	case *display.TransactionView:
		return r.transaction(v)
	case *display.InfoView:
		return r.info(v)
	case *display.MessageView:
		var b strings.Builder
		b.WriteString(style.Success("%s", v.Message) + "\n")
		for _, p := range v.Paths {
			b.WriteString("  " + style.Path(p) + "\n")
		}
		return r.write(b.String())
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

// RenderError renders an error with styling
func (r *Renderer) RenderError(err error) error {
	return r.write(style.ErrorIndicator + " " + style.ErrorStyle.Render(err.Error()) + "\n")
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	return r.write(style.InfoIndicator + " " + msg + "\n")
}

func (r *Renderer) write(s string) error {
	_, err := io.WriteString(r.output, s)
	return err
}

func (r *Renderer) project(v *display.ProjectView) error {
	var b strings.Builder

	b.WriteString(style.TitleStyle.Render(v.SourceDir) + "  " + style.GuardState(v.Sentinel) + "\n")
	if v.Guarded {
		b.WriteString(style.MutedStyle.Render("storage ") + style.Path(v.StorageDir) + "\n")
	}
	b.WriteString(style.MutedStyle.Render("links   ") + linkMode(v.Relative) + "\n\n")

	data := pterm.TableData{{"Target", "State", "Stored at"}}
	for _, t := range v.Targets {
		data = append(data, []string{t.Path, stateLabel(t.State), t.Dest})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	b.WriteString(table + "\n")

	return r.write(b.String())
}

func (r *Renderer) transaction(v *display.TransactionView) error {
	var b strings.Builder

	switch {
	case v.RolledBack:
		b.WriteString(style.Warning(fmt.Sprintf("%s of %s failed and was rolled back", v.Command, v.SourceDir)) + "\n")
	case v.Command == "guard":
		b.WriteString(style.Success("Guarded %s as %s", style.Path(v.SourceDir), style.GuardedStyle.Render(v.Sentinel)) + "\n")
	case v.Command == "guard-one":
		b.WriteString(style.Success("Guarded %s in %s", style.LinkStyle.Render(v.Target), style.Path(v.SourceDir)) + "\n")
	default:
		b.WriteString(style.Success("Unguarded %s", style.Path(v.SourceDir)) + "\n")
	}
	for _, f := range v.Files {
		b.WriteString("  " + style.LinkStyle.Render(f) + "\n")
	}
	for _, warning := range v.Warnings {
		b.WriteString(style.Warning(warning) + "\n")
	}

	return r.write(b.String())
}

func (r *Renderer) info(v *display.InfoView) error {
	var b strings.Builder

	b.WriteString(style.TitleStyle.Render("confguard "+v.Version) + " " +
		style.MutedStyle.Render(fmt.Sprintf("(%s, %s)", v.Commit, v.BuildDate)) + "\n")

	rows := [][2]string{
		{"Base dir", style.Path(v.BaseDir)},
		{"Storage root", style.Path(v.StorageRoot)},
		{"Default links", linkMode(v.Relative)},
		{"Config file", style.Path(v.ConfigFile)},
		{"Log file", style.Path(v.LogFile)},
		{"Sources", strings.Join(v.Sources, ", ")},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%s %s\n", style.MutedStyle.Render(fmt.Sprintf("%-14s", row[0])), row[1]))
	}

	var env strings.Builder
	for i, e := range v.Environment {
		value := e.Value
		if value == "" {
			value = style.MutedStyle.Render("(unset)")
		}
		if i > 0 {
			env.WriteString("\n")
		}
		env.WriteString(e.Name + "=" + value)
	}
	b.WriteString(style.BoxStyle.Render(env.String()) + "\n")

	b.WriteString(style.TitleStyle.Render(fmt.Sprintf("Guarded projects: %d", len(v.Projects))) + "\n")
	if len(v.Projects) > 0 {
		data := pterm.TableData{{"Sentinel", "Project"}}
		for _, p := range v.Projects {
			source := p.SourceDir
			if p.Orphaned {
				source = style.WarningStyle.Render("orphaned")
			}
			data = append(data, []string{p.Sentinel, source})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		b.WriteString(table + "\n")
	}

	return r.write(b.String())
}

func linkMode(relative bool) string {
	if relative {
		return "relative"
	}
	return "absolute"
}

func stateLabel(state string) string {
	switch links.LinkState(state) {
	case links.StateLinked:
		return style.SuccessStyle.Render(state)
	case links.StateMissing, links.StateStorageMissing:
		return style.ErrorStyle.Render(state)
	case links.StateWrongTarget, links.StateOccupied:
		return style.WarningStyle.Render(state)
	}
	switch state {
	case "present":
		return style.NormalStyle.Render(state)
	case "symlink":
		return style.LinkStyle.Render(state)
	default:
		return style.MutedStyle.Render(state)
	}
}
