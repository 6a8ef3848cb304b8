package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/graphsteg/graphsteg/pkg/carrier"
	"github.com/graphsteg/graphsteg/pkg/pipeline"
	"github.com/spf13/cobra"
)

var (
	revealFlags      engineFlags
	revealPassphrase string
	revealDest       string
)

var revealCmd = &cobra.Command{
	Use:   "reveal [carrier]",
	Short: "Recover a file hidden in a single carrier",
	Long: `Reveal extracts, decrypts and decompresses a payload concealed with
the same passphrase and engine parameters.

Example:
  graphsteg reveal holiday_stego.png -p "correct horse"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := revealFlags.params()
		if err != nil {
			return err
		}
		car, err := carrier.Load(args[0])
		if err != nil {
			return err
		}

		header, plain, err := pipeline.Reveal(car, revealPassphrase, params)
		if err != nil {
			if errors.Is(err, pipeline.ErrShardedPayload) {
				return fmt.Errorf("%w (try: graphsteg bind)", err)
			}
			return err
		}

		outPath := filepath.Join(revealDest, header.OriginalFilename)
		if err := os.WriteFile(outPath, plain, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Printf("Recovered %s (%d bytes)\n", outPath, len(plain))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(revealCmd)

	revealFlags.register(revealCmd)
	revealCmd.Flags().StringVarP(&revealPassphrase, "passphrase", "p", "", "Passphrase the payload was concealed with")
	revealCmd.Flags().StringVarP(&revealDest, "destination", "d", ".", "Directory to write the recovered file into")
	revealCmd.MarkFlagRequired("passphrase")
}
