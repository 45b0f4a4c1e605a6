package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"assetforge/internal/pipeline"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		filePath    string
		description string
		assetID     string
		name        string
		assetType   string
		subtype     string
		style       string
		quality     string
		genType     string
		refImage    string
		rigging     bool
		retexture   bool
		sprites     bool
		presets     []string
		height      float64
		noEnhance   bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Start an asset generation pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg pipeline.Config
			if strings.TrimSpace(filePath) != "" {
				raw, err := os.ReadFile(filePath)
				if err != nil {
					return fmt.Errorf("read config file: %w", err)
				}
				if err := json.Unmarshal(raw, &cfg); err != nil {
					return fmt.Errorf("parse config file: %w", err)
				}
			}
			applyFlag(&cfg.Description, description)
			applyFlag(&cfg.AssetID, assetID)
			applyFlag(&cfg.Name, name)
			applyFlag(&cfg.Type, assetType)
			applyFlag(&cfg.Subtype, subtype)
			applyFlag(&cfg.Style, style)
			applyFlag(&cfg.Quality, quality)
			applyFlag(&cfg.GenerationType, genType)
			applyFlag(&cfg.ReferenceImage.URL, refImage)
			if cmd.Flags().Changed("rigging") {
				cfg.EnableRigging = rigging
			}
			if cmd.Flags().Changed("retexture") {
				cfg.EnableRetexturing = retexture
			}
			if cmd.Flags().Changed("sprites") {
				cfg.EnableSprites = sprites
			}
			if len(presets) > 0 {
				cfg.MaterialPresets = presets
			}
			if height > 0 {
				cfg.Rigging.HeightMeters = height
			}
			if noEnhance {
				disabled := false
				cfg.Metadata.UseEnhancement = &disabled
			}

			resp, err := ctx.client().Generate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, resp)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Pipeline %s started (%s)\n", resp.PipelineID, resp.Status)
			fmt.Fprintln(out, resp.Message)
			fmt.Fprintf(out, "Track progress with: forge status %s\n", resp.PipelineID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "JSON file with the full generation config")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Asset description")
	cmd.Flags().StringVar(&assetID, "asset-id", "", "Stable asset identifier")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Asset display name")
	cmd.Flags().StringVarP(&assetType, "type", "t", "", "Asset type (e.g. weapon)")
	cmd.Flags().StringVar(&subtype, "subtype", "", "Asset subtype (e.g. sword)")
	cmd.Flags().StringVar(&style, "style", "", "Visual style hint")
	cmd.Flags().StringVar(&quality, "quality", "", "Model quality (low, medium, high)")
	cmd.Flags().StringVar(&genType, "generation-type", "", "Generation type (set to avatar for riggable characters)")
	cmd.Flags().StringVar(&refImage, "reference-image", "", "Reference image URL (skips image generation)")
	cmd.Flags().BoolVar(&rigging, "rigging", false, "Enable auto-rigging (avatar only)")
	cmd.Flags().BoolVar(&retexture, "retexture", false, "Enable material preset variants")
	cmd.Flags().BoolVar(&sprites, "sprites", false, "Enable sprite generation")
	cmd.Flags().StringSliceVar(&presets, "preset", nil, "Material preset (repeatable)")
	cmd.Flags().Float64Var(&height, "height", 0, "Rigging target height in meters")
	cmd.Flags().BoolVar(&noEnhance, "no-enhance", false, "Skip prompt enhancement")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON output")

	return cmd
}

func applyFlag(dst *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dst = trimmed
	}
}
