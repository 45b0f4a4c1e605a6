package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"assetforge/internal/api"
)

func newSoundCommand(ctx *commandContext) *cobra.Command {
	var (
		duration  float64
		influence float64
		output    string
	)

	cmd := &cobra.Command{
		Use:   "sound <text>",
		Short: "Generate a sound effect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			audio, contentType, err := ctx.client().SoundEffect(cmd.Context(), api.SoundEffectRequest{
				Text:            args[0],
				DurationSeconds: duration,
				PromptInfluence: influence,
			})
			if err != nil {
				return err
			}

			target := strings.TrimSpace(output)
			if target == "" {
				target = "sound.mp3"
			}
			if err := os.WriteFile(target, audio, 0o644); err != nil {
				return fmt.Errorf("write audio file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes (%s) to %s\n", len(audio), contentType, target)
			return nil
		},
	}

	cmd.Flags().Float64Var(&duration, "duration", 0, "Requested duration in seconds")
	cmd.Flags().Float64Var(&influence, "influence", 0, "Prompt influence (0-1)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path")
	return cmd
}
