package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dokzlo13/fuelswitch/internal/info"
	"github.com/dokzlo13/fuelswitch/internal/loader"
)

func newInfoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info [type...]",
		Short: "Show the resource options of switchable part types",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := loader.LoadDir(opts.cfg.Content.Dir)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				args = content.Registry.Types()
			}

			formatter := info.NewFormatter(opts.cfg.InfoFormat, opts.cfg.PrimaryInfoFormat)
			var types []info.TypeInfo
			for _, typeID := range args {
				entry, ok := content.Registry.ForType(typeID)
				if !ok {
					return fmt.Errorf("part type %q has no resource options", typeID)
				}
				types = append(types, info.Describe(entry, formatter))
			}

			if len(types) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No switchable part types")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.RenderTable(types, opts.cfg.Log.Colors))
			return nil
		},
	}
}
