// Package wizard holds the interactive forms: picking an exam variant and
// creating a starter .oge.yaml.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/oge-trainer/oge/internal/catalog"
	"github.com/oge-trainer/oge/internal/countdown"
)

// promptWidth is the display width a task prompt is truncated to in labels.
const promptWidth = 48

// InitSpec holds all fields collected by the init wizard.
type InitSpec struct {
	Catalog      string
	DownloadsDir string
	Format       string
	SessionLog   bool
}

const configTemplate = `# oge project configuration
catalog: {{ .Catalog }}
downloads_dir: {{ .DownloadsDir }}
export:
  format: {{ .Format }}
{{- if eq .Format "mp3" }}
  options:
    bitrate: 128
{{- end }}
session_log:
  enabled: {{ .SessionLog }}
# hooks:
#   after_export:
#     - command: echo saved
`

// PickVariant asks the user to choose a variant from cat.
func PickVariant(in io.Reader, out io.Writer, cat *catalog.Catalog) (int, error) {
	ids := cat.IDs()
	if len(ids) == 0 {
		return 0, fmt.Errorf("the task catalog has no variants")
	}

	id := ids[0]
	opts := make([]huh.Option[int], 0, len(ids))
	for _, v := range ids {
		tasks, _ := cat.Lookup(v)
		opts = append(opts, huh.NewOption(VariantLabel(v, tasks), v))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Exam variant").
				Options(opts...).
				Value(&id),
		),
	).
		WithInput(in).
		WithOutput(out)

	if !isTerminal(in) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return 0, fmt.Errorf("variant selection failed: %w", err)
	}
	return id, nil
}

// VariantLabel describes a variant in one line: its id, task count, total
// time and the start of its first prompt.
func VariantLabel(id int, tasks []catalog.Task) string {
	total := 0
	for _, t := range tasks {
		total += t.Time
	}
	label := fmt.Sprintf("Variant %d · %d tasks · %s", id, len(tasks), countdown.Format(total))
	if len(tasks) > 0 {
		label += " · " + Truncate(tasks[0].Text, promptWidth)
	}
	return label
}

// Truncate shortens s to at most width terminal cells, adding an ellipsis
// when something was cut. Newlines are folded to spaces.
func Truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, width, "…")
}

// ParseVariant converts user input into a variant id present in cat.
func ParseVariant(s string, cat *catalog.Catalog) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("variant must be a number, got %q", s)
	}
	if _, ok := cat.Lookup(id); !ok {
		return 0, fmt.Errorf("variant %d is not in the catalog", id)
	}
	return id, nil
}

// RunInitWizard collects the answers for a new .oge.yaml.
func RunInitWizard(in io.Reader, out io.Writer, defaults InitSpec) (*InitSpec, error) {
	spec := defaults

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task catalog").
				Description("Path or http(s) URL of the variants file").
				Placeholder("tasks.json").
				Value(&spec.Catalog).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("catalog is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Downloads directory").
				Description("Where saved answers are written").
				Value(&spec.DownloadsDir),
			huh.NewSelect[string]().
				Title("Export format").
				Options(
					huh.NewOption("wav (as recorded)", "wav"),
					huh.NewOption("mp3", "mp3"),
				).
				Value(&spec.Format),
			huh.NewConfirm().
				Title("Keep a session log?").
				Value(&spec.SessionLog),
		),
	).
		WithInput(in).
		WithOutput(out)

	if !isTerminal(in) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	spec.Catalog = strings.TrimSpace(spec.Catalog)
	spec.DownloadsDir = strings.TrimSpace(spec.DownloadsDir)
	if spec.DownloadsDir == "" {
		spec.DownloadsDir = "."
	}
	return &spec, nil
}

// GenerateConfig renders a .oge.yaml from the given spec.
func GenerateConfig(spec *InitSpec) (string, error) {
	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

// Use accessible mode for non-TTY input (e.g., tests, piped input).
func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
