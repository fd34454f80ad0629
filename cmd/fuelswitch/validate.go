package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dokzlo13/fuelswitch/internal/loader"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load content and report everything that was skipped",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := loader.LoadDir(opts.cfg.Content.Dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d resources, %d part types, %d switchable\n",
				content.Catalog.Len(), len(content.Types), len(content.Registry.Types()))

			r := content.Report
			printProblems(out, "Unreadable files", r.Files)
			printProblems(out, "Discarded", r.Discarded)
			printProblems(out, "Conflicts", r.Conflicts)
			if len(r.Inert) > 0 {
				fmt.Fprintln(out, "Without options:")
				for _, name := range r.Inert {
					fmt.Fprintf(out, "  %s\n", name)
				}
			}

			if !r.OK() {
				return fmt.Errorf("content has problems")
			}
			fmt.Fprintln(out, "OK")
			return nil
		},
	}
}

func printProblems(out io.Writer, title string, problems []loader.Problem) {
	if len(problems) == 0 {
		return
	}
	fmt.Fprintf(out, "%s:\n", title)
	for _, p := range problems {
		fmt.Fprintf(out, "  %s\n", p)
	}
}
