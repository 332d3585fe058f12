package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/billheat/internal/heatmap"
	"github.com/emiliopalmerini/billheat/internal/infrastructure/config"
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Print a heat-map gradient",
	Long: `Print the gradient used to color usage rows, one swatch per step.

Anchors default to BILLHEAT_GRADIENT_START/MIDDLE/STOP.

Examples:
  billheat palette --steps 4
  billheat palette --steps 6 --start "#0000ff" --stop "#ff0000"`,
	RunE: runPalette,
}

var (
	paletteSteps  int
	paletteStart  string
	paletteMiddle string
	paletteStop   string
	palettePlain  bool
)

func init() {
	paletteCmd.Flags().IntVarP(&paletteSteps, "steps", "n", 4, "Number of steps (colors = steps + 1)")
	paletteCmd.Flags().StringVar(&paletteStart, "start", "", "Start color (#RRGGBB)")
	paletteCmd.Flags().StringVar(&paletteMiddle, "middle", "", "Middle color (#RRGGBB)")
	paletteCmd.Flags().StringVar(&paletteStop, "stop", "", "Stop color (#RRGGBB)")
	paletteCmd.Flags().BoolVar(&palettePlain, "plain", false, "Print colors without swatches")
}

func runPalette(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	g := cfg.Gradient
	if paletteStart != "" {
		g.Start = paletteStart
	}
	if paletteMiddle != "" {
		g.Middle = paletteMiddle
	}
	if paletteStop != "" {
		g.Stop = paletteStop
	}

	palette, err := g.Palette(paletteSteps)
	if err != nil {
		return err
	}
	return printPalette(cmd.OutOrStdout(), palette, !palettePlain)
}

var swatchLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("#737373"))

func printPalette(w io.Writer, palette heatmap.Palette, swatches bool) error {
	for i, s := range palette {
		c, err := heatmap.ParseRGB(s)
		if err != nil {
			return err
		}

		line := fmt.Sprintf("%3d  %-18s %s", i, s, c.Hex())
		if swatches {
			swatch := lipgloss.NewStyle().
				Background(lipgloss.Color(c.Hex())).
				Render("      ")
			line = swatch + " " + swatchLabel.Render(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
