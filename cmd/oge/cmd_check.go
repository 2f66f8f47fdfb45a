package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oge-trainer/oge/internal/catalog"
	"github.com/oge-trainer/oge/internal/validation"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [catalog]",
		Short: "Validate a task catalog",
		Long: `Validate a task catalog against the catalog schema and load it.

With no argument the catalog from .oge.yaml is checked. Local files are
schema-checked first so every problem is listed; URLs are fetched once.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := ""
			if len(args) == 1 {
				source = args[0]
			} else {
				cfg, err := loadProjectConfig()
				if err != nil {
					return err
				}
				source = cfg.Catalog
			}
			return checkCatalog(cmd, source)
		},
	}
	return cmd
}

//nolint:errcheck // display-only writes
func checkCatalog(cmd *cobra.Command, source string) error {
	out := cmd.OutOrStdout()

	if !catalog.IsRemote(source) {
		problems, err := validation.ValidateCatalogFile(source)
		if err != nil {
			return err
		}
		if len(problems) > 0 {
			fmt.Fprintf(out, "✗ %s\n", source)
			for _, p := range problems {
				fmt.Fprintf(out, "   - %s\n", p)
			}
			return fmt.Errorf("%s: %d schema problem(s)", source, len(problems))
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), catalog.DefaultFetchTimeout)
	defer cancel()
	cat, err := catalog.Load(ctx, source)
	if err != nil {
		fmt.Fprintf(out, "✗ %s\n   - %v\n", source, err)
		return err
	}

	tasks, empty := 0, 0
	for _, id := range cat.IDs() {
		ts, _ := cat.Lookup(id)
		tasks += len(ts)
		if len(ts) == 0 {
			empty++
		}
	}
	fmt.Fprintf(out, "✓ %s: %d variant(s), %d task(s)\n", source, cat.Len(), tasks)
	if empty > 0 {
		fmt.Fprintf(out, "⚠️  %d variant(s) have no tasks and finish immediately\n", empty)
	}
	return nil
}
