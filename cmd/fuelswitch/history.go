package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dokzlo13/fuelswitch/internal/db"
	"github.com/dokzlo13/fuelswitch/internal/ledger"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent resource switches and craft saves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.Open(opts.cfg.Database.Path)
			if err != nil {
				return err
			}
			defer database.Close()

			entries, err := ledger.New(database.DB).Recent(limit)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{"Time", "Event", "Part", "Type", "Details"})
			for _, e := range entries {
				t.AppendRow(table.Row{
					e.Timestamp.Local().Format("2006-01-02 15:04:05"),
					string(e.EventType),
					shortID(e.PartID),
					e.PartType,
					details(e),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func details(e *ledger.Entry) string {
	switch e.EventType {
	case ledger.EventSelectionChanged:
		return fmt.Sprintf("%v -> %v (%v)", e.Payload["from"], e.Payload["to"], e.Payload["cause"])
	case ledger.EventCraftSaved, ledger.EventCraftLoaded:
		return fmt.Sprintf("%v (%v parts)", e.Payload["name"], e.Payload["parts"])
	}
	return ""
}
