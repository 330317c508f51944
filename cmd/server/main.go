package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd runs the API server when no subcommand is given
var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "BrandKit API - brand identity generation",
	Long: `BrandKit turns a short business description and a style vibe into a
brand identity: name, color palette, font and logo.

Run without arguments to start the HTTP server and the job worker.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(paletteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
