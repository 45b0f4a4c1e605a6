package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAssetsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "assets [asset-id]",
		Short: "List catalog assets, or show one by identifier",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				resp, err := ctx.client().Asset(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp)
				}
				asset := resp.Asset
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader(asset.DisplayName, colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("asset id", statusInfo, asset.AssetID, colorize))
				fmt.Fprintln(out, renderStatusLine("type", statusInfo, asset.Type+"/"+asset.Subtype, colorize))
				if asset.ModelURL != "" {
					fmt.Fprintln(out, renderStatusLine("model", statusOK, asset.ModelURL, colorize))
				}
				if asset.RiggedModelURL != "" {
					fmt.Fprintln(out, renderStatusLine("rigged model", statusOK, asset.RiggedModelURL, colorize))
				}
				if asset.SpriteCount > 0 {
					fmt.Fprintln(out, renderStatusLine("sprites", statusInfo, fmt.Sprintf("%d rendered", asset.SpriteCount), colorize))
				}
				return nil
			}

			resp, err := ctx.client().Assets(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, resp)
			}
			if len(resp.Assets) == 0 {
				fmt.Fprintln(out, "Catalog is empty")
				return nil
			}
			rows := make([][]string, 0, len(resp.Assets))
			for _, asset := range resp.Assets {
				rows = append(rows, []string{
					asset.AssetID,
					asset.DisplayName,
					asset.Type + "/" + asset.Subtype,
					yesNo(asset.ModelURL != ""),
					yesNo(asset.RiggedModelURL != ""),
					fmt.Sprintf("%d", asset.SpriteCount),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]tableColumn{
					{Header: "Asset ID"},
					{Header: "Name"},
					{Header: "Type"},
					{Header: "Model"},
					{Header: "Rigged"},
					{Header: "Sprites", Right: true},
				},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON output")
	return cmd
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
