package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/oge-trainer/oge/internal/catalog"
	"github.com/oge-trainer/oge/internal/countdown"
	"github.com/oge-trainer/oge/internal/wizard"
)

const promptColumnWidth = 52

func newVariantsCommand() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "variants",
		Short: "List the variants in the task catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if source == "" {
				cfg, err := loadProjectConfig()
				if err != nil {
					return err
				}
				source = cfg.Catalog
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), catalog.DefaultFetchTimeout)
			defer cancel()
			cat, err := catalog.Load(ctx, source)
			if err != nil {
				return err
			}

			printVariants(cmd.OutOrStdout(), cat)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "catalog", "", "Task catalog path or URL (default from .oge.yaml)")

	return cmd
}

//nolint:errcheck // display-only writes
func printVariants(w io.Writer, cat *catalog.Catalog) {
	ids := cat.IDs()
	if len(ids) == 0 {
		fmt.Fprintln(w, "No variants found.")
		return
	}

	fmt.Fprintf(w, "%-8s %-6s %s %s\n", "Variant", "Tasks", runewidth.FillRight("First task", promptColumnWidth), "Time")
	fmt.Fprintln(w, strings.Repeat("─", 8+1+6+1+6+1+promptColumnWidth))
	for _, id := range ids {
		tasks, _ := cat.Lookup(id)
		total := 0
		for _, t := range tasks {
			total += t.Time
		}
		first := ""
		if len(tasks) > 0 {
			first = wizard.Truncate(tasks[0].Text, promptColumnWidth)
		}
		fmt.Fprintf(w, "%-8d %-6d %s %s\n", id, len(tasks), runewidth.FillRight(first, promptColumnWidth), countdown.Format(total))
	}
}
