package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "dev"

	rootCmd = &cobra.Command{
		Use:   "karaoke-tools",
		Short: "Maintenance commands for the karaoke catalog",
		Long: `karaoke-tools runs maintenance jobs against the catalog database:
metadata backfills from iTunes, MusicBrainz and Wikidata, and release
version bumps.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.AddCommand(newBackfillCmd())
	rootCmd.AddCommand(newBumpVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
