package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"assetforge/internal/api"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status [pipeline-id]",
		Short: "Show daemon status, or one pipeline's progress",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				status, err := ctx.client().Status(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, status)
				}
				renderDaemonStatus(cmd, status)
				return nil
			}

			view, err := ctx.client().Pipeline(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, view)
			}
			renderPipeline(cmd, view)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON output")
	return cmd
}

func renderDaemonStatus(cmd *cobra.Command, status api.DaemonStatus) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Forge Daemon", colorize) {
		fmt.Fprintln(out, line)
	}
	kind := statusError
	detail := "stopped"
	if status.Running {
		kind = statusOK
		detail = fmt.Sprintf("pid %d", status.PID)
	}
	fmt.Fprintln(out, renderStatusLine("daemon", kind, detail, colorize))
	fmt.Fprintln(out, renderStatusLine("catalog", statusInfo, status.CatalogPath, colorize))
	fmt.Fprintln(out, renderStatusLine("assets", statusInfo, fmt.Sprintf("%d recorded", status.AssetCount), colorize))

	if len(status.Pipelines) > 0 {
		states := make([]string, 0, len(status.Pipelines))
		for state := range status.Pipelines {
			states = append(states, state)
		}
		sort.Strings(states)
		parts := make([]string, 0, len(states))
		for _, state := range states {
			parts = append(parts, fmt.Sprintf("%s=%d", state, status.Pipelines[state]))
		}
		fmt.Fprintln(out, renderStatusLine("pipelines", statusInfo, strings.Join(parts, " "), colorize))
	}
}

// stageDisplayOrder fixes the row order for pipeline stage rendering.
var stageDisplayOrder = []string{
	"textInput",
	"promptOptimization",
	"imageGeneration",
	"image3D",
	"textureGeneration",
	"rigging",
	"spriteGeneration",
}

func renderPipeline(cmd *cobra.Command, view api.PipelineView) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader(fmt.Sprintf("Pipeline %s", view.ID), colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("asset", statusInfo, fmt.Sprintf("%s (%s/%s)", view.Name, view.Type, view.Subtype), colorize))
	fmt.Fprintln(out, renderStatusLine("status", statusKindForState(view.Status), fmt.Sprintf("%d%%", view.Progress), colorize))
	if view.Error != "" {
		fmt.Fprintln(out, renderStatusLine("error", statusError, view.Error, colorize))
	}

	rows := make([][]string, 0, len(view.Stages))
	for _, name := range stageDisplayOrder {
		stage, ok := view.Stages[name]
		if !ok {
			continue
		}
		rows = append(rows, []string{name, stage.Status, percentCell(stage.Progress), stage.Error})
	}
	fmt.Fprintln(out, renderTable(
		[]tableColumn{
			{Header: "Stage"},
			{Header: "Status"},
			{Header: "Progress", Right: true},
			{Header: "Error"},
		},
		rows,
	))

	if model := view.Results.Image3D; model != nil && model.ModelURL != "" {
		fmt.Fprintln(out, renderStatusLine("model", statusOK, model.ModelURL, colorize))
	}
}

func statusKindForState(state string) statusKind {
	switch state {
	case "completed":
		return statusOK
	case "failed":
		return statusError
	case "processing":
		return statusInfo
	default:
		return statusWarn
	}
}
