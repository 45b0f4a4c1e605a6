package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPipelinesCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "pipelines",
		Short: "List stored generation pipelines",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := ctx.client().Pipelines(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, resp)
			}
			out := cmd.OutOrStdout()
			if len(resp.Pipelines) == 0 {
				fmt.Fprintln(out, "No pipelines stored")
				return nil
			}
			rows := make([][]string, 0, len(resp.Pipelines))
			for _, p := range resp.Pipelines {
				rows = append(rows, []string{
					p.ID,
					p.Name,
					p.Status,
					percentCell(p.Progress),
					p.CreatedAt,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]tableColumn{
					{Header: "ID"},
					{Header: "Name"},
					{Header: "Status"},
					{Header: "Progress", Right: true},
					{Header: "Created"},
				},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON output")
	return cmd
}
