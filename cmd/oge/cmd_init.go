package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oge-trainer/oge/internal/catalog"
	"github.com/oge-trainer/oge/internal/projectconfig"
	"github.com/oge-trainer/oge/internal/wizard"
)

const sampleCatalog = `{
  "variants": [
    {
      "id": 1,
      "tasks": [
        { "text": "Read the text aloud. You have 90 seconds to prepare.", "time": 120 },
        { "text": "Answer the six questions of the telephone survey.", "time": 240 },
        { "text": "Give a monologue on the topic in 10-12 sentences.", "time": 180 }
      ]
    },
    {
      "id": 2,
      "tasks": [
        { "text": "Describe the photo: where and when it was taken, what is happening.", "time": 180 }
      ]
    }
  ]
}
`

type initFile struct {
	name    string
	content string
	what    string
}

func newInitCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create .oge.yaml and a sample task catalog",
		Long: `Create a starter .oge.yaml and, if missing, a sample tasks.json in the
given directory (default: current directory).

On a terminal the settings are asked interactively; use --yes to accept
the defaults. Existing files are left untouched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return initProject(cmd.InOrStdin(), cmd.OutOrStdout(), dir, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept defaults without asking")

	return cmd
}

//nolint:errcheck // display-only writes
func initProject(in io.Reader, out io.Writer, dir string, yes bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	spec := &wizard.InitSpec{
		Catalog:      projectconfig.DefaultCatalog,
		DownloadsDir: "answers",
		Format:       projectconfig.DefaultExportFormat,
	}
	if f, ok := in.(*os.File); ok && !yes && term.IsTerminal(int(f.Fd())) {
		var err error
		if spec, err = wizard.RunInitWizard(in, out, *spec); err != nil {
			return err
		}
	}

	content, err := wizard.GenerateConfig(spec)
	if err != nil {
		return err
	}

	files := []initFile{
		{projectconfig.FileName, content, "Project configuration"},
	}
	if !catalog.IsRemote(spec.Catalog) && spec.Catalog == projectconfig.DefaultCatalog {
		files = append(files, initFile{spec.Catalog, sampleCatalog, "Sample task catalog"})
	}

	fmt.Fprintln(out, "Project created:")
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		created, err := writeIfMissing(path, f.content)
		if err != nil {
			return err
		}
		status := "created"
		if !created {
			status = "exists"
		}
		fmt.Fprintf(out, "  %-14s %-8s %s\n", f.name, status, f.what)
	}
	return nil
}

func writeIfMissing(path, content string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
