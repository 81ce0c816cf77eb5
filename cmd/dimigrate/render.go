package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"dimigrate/internal/diag"
	"dimigrate/internal/driver"
	"dimigrate/internal/project"
	"dimigrate/internal/source"
)

type renderer struct {
	out         io.Writer
	quiet       bool
	colorized   bool
	maxFailures int
}

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	warnLabel  = color.New(color.FgYellow, color.Bold)
	pathLabel  = color.New(color.FgCyan)
	okLabel    = color.New(color.FgGreen)
)

func newRenderer(cmd *cobra.Command) *renderer {
	flags := cmd.Root().PersistentFlags()
	colorMode, _ := flags.GetString("color")
	quiet, _ := flags.GetBool("quiet")
	maxFailures, _ := flags.GetInt("max-failures")

	colorized := false
	switch colorMode {
	case "on":
		color.NoColor = false
		colorized = true
	case "off":
		color.NoColor = true
	default:
		colorized = isTerminal(os.Stdout)
		color.NoColor = !colorized
	}

	return &renderer{
		out:         cmd.OutOrStdout(),
		quiet:       quiet,
		colorized:   colorized,
		maxFailures: maxFailures,
	}
}

// RenderSummary prints every project's outcome followed by a totals panel.
func (r *renderer) RenderSummary(s *driver.Summary, dry bool) {
	for i := range s.Results {
		r.renderProject(&s.Results[i], dry)
	}
	if !r.quiet {
		r.renderTotals(s, dry)
	}
}

func (r *renderer) renderProject(res *driver.ProjectResult, dry bool) {
	name := res.Name
	if name == "" {
		name = res.ManifestPath
	}
	title := name
	if res.FromCache {
		title += " (cached)"
	}
	fmt.Fprintf(r.out, "project %s\n", r.bold(title))

	if res.Err != nil {
		r.renderProjectError(res.Err)
		return
	}

	if !r.quiet {
		for _, path := range res.EditedFiles {
			verb := "edited"
			if dry {
				verb = "would edit"
			}
			fmt.Fprintf(r.out, "  %s %s\n", verb, pathLabel.Sprint(path))
		}
		if len(res.EditedFiles) == 0 && len(res.Failures) == 0 {
			fmt.Fprintf(r.out, "  %s\n", okLabel.Sprint("nothing to migrate"))
		}
	}

	shown := res.Failures
	truncated := 0
	if r.maxFailures > 0 && len(shown) > r.maxFailures {
		truncated = len(shown) - r.maxFailures
		shown = shown[:r.maxFailures]
	}
	for _, f := range shown {
		fmt.Fprintf(r.out, "  %s %s\n", errorLabel.Sprint("failure"), f)
	}
	if truncated > 0 {
		fmt.Fprintf(r.out, "  ... and %d more failures (raise --max-failures to see them)\n", truncated)
	}
}

func (r *renderer) renderProjectError(err error) {
	var cfgErr *project.ConfigError
	if errors.As(err, &cfgErr) {
		fmt.Fprintf(r.out, "  %s %s: %v\n", errorLabel.Sprint("error"), cfgErr.Code.ID(), cfgErr)
		return
	}
	var buildErr *project.BuildError
	if errors.As(err, &buildErr) {
		fmt.Fprintf(r.out, "  %s %v\n", errorLabel.Sprint("error"), buildErr)
		for _, d := range buildErr.Diags {
			r.renderDiagnostic(buildErr.FileSet, d)
		}
		return
	}
	fmt.Fprintf(r.out, "  %s %v\n", errorLabel.Sprint("error"), err)
}

// renderDiagnostic prints one diagnostic with its source line and a caret
// underline sized by the display width of the underlined text.
func (r *renderer) renderDiagnostic(fset *source.FileSet, d diag.Diagnostic) {
	label := warnLabel
	if d.Severity >= diag.SevError {
		label = errorLabel
	}

	sp := d.Primary
	if fset == nil || sp.Empty() {
		fmt.Fprintf(r.out, "  %s %s: %s\n", label.Sprint(d.Severity.String()), d.Code.ID(), d.Message)
		return
	}

	file := fset.Get(sp.File)
	start, end := fset.Resolve(sp)
	loc := fmt.Sprintf("%s:%d:%d", file.FormatPath("relative", fset.BaseDir()), start.Line, start.Col)
	fmt.Fprintf(r.out, "  %s: %s %s: %s\n",
		pathLabel.Sprint(loc), label.Sprint(d.Severity.String()), d.Code.ID(), d.Message)

	line := file.GetLine(start.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(r.out, "    %s\n", strings.TrimRight(line, "\r\n"))
	fmt.Fprintf(r.out, "    %s\n", caretLine(line, start, end))
}

// caretLine builds the "   ^~~~" underline for a span inside line. Columns
// are byte-based; display widths come from runewidth so tabs and wide runes
// keep the caret under the right glyph.
func caretLine(line string, start, end source.LineCol) string {
	col := int(start.Col)
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}
	prefix := line[:col-1]

	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		to := int(end.Col) - 1
		if to > len(line) {
			to = len(line)
		}
		if to > col-1 {
			width = runewidth.StringWidth(line[col-1 : to])
		}
	}
	if width < 1 {
		width = 1
	}

	pad := strings.Repeat(" ", runewidth.StringWidth(strings.ReplaceAll(prefix, "\t", "    ")))
	return pad + "^" + strings.Repeat("~", width-1)
}

func (r *renderer) renderTotals(s *driver.Summary, dry bool) {
	edited, failures, broken := s.Totals()

	verb := "edited"
	if dry {
		verb = "to edit"
	}
	lines := []string{
		fmt.Sprintf("projects  %d", len(s.Results)),
		fmt.Sprintf("files %s  %d", verb, edited),
		fmt.Sprintf("failures  %d", failures),
	}
	if broken > 0 {
		lines = append(lines, fmt.Sprintf("broken    %d", broken))
	}
	if dry && edited > 0 {
		lines = append(lines, "", "re-run without --dry-run to apply these edits")
	}

	body := strings.Join(lines, "\n")
	if r.colorized {
		panel := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1)
		fmt.Fprintln(r.out, panel.Render(body))
		return
	}
	fmt.Fprintln(r.out, body)
}

func (r *renderer) bold(s string) string {
	if !r.colorized {
		return s
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Render(s)
}
