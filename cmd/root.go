package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "graphsteg",
	Short: "Hide files inside images and WAV audio",
	Long: `Graphsteg embeds encrypted payloads into lossless carriers.
Samples are paired across a weighted graph, so most of the payload is
written by swapping near-identical colours instead of overwriting them.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}
