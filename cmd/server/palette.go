package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brandkit/api/internal/color"
)

var paletteCmd = &cobra.Command{
	Use:   "palette <color> [harmony]",
	Short: "Print the palette resolved for a base color",
	Long: `Resolves a palette offline with the same color engine the generation
pipeline uses. Invalid input falls back exactly as it would during a
generation.`,
	Example: "  server palette '#3B82F6' triadic",
	Args:    cobra.RangeArgs(1, 2),
	RunE:    runPalette,
}

func runPalette(cmd *cobra.Command, args []string) error {
	harmony := ""
	if len(args) > 1 {
		harmony = args[1]
	}

	res := color.NewEngine().Resolve(args[0], harmony)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "base:    %s\n", res.Base)
	fmt.Fprintf(out, "harmony: %s\n", res.Harmony)
	fmt.Fprintf(out, "palette: %s\n", strings.Join(res.Palette, " "))

	var notes []string
	if res.BaseFallback {
		notes = append(notes, "base color replaced")
	}
	if res.HarmonyFallback {
		notes = append(notes, "harmony replaced")
	}
	if res.ManualHarmony {
		notes = append(notes, "manual harmony used")
	}
	if res.PaletteFallback {
		notes = append(notes, "constant palette used")
	}
	if len(notes) > 0 {
		fmt.Fprintf(out, "notes:   %s\n", strings.Join(notes, ", "))
	}
	return nil
}
