package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/graphsteg/graphsteg/pkg/carrier"
	"github.com/graphsteg/graphsteg/pkg/pipeline"
	"github.com/spf13/cobra"
)

var (
	bindFlags      engineFlags
	bindPassphrase string
	bindDest       string
)

var bindCmd = &cobra.Command{
	Use:   "bind [directory]",
	Short: "Reconstruct a file from a set of split carriers",
	Long: `Bind scans a directory (default: the current one) for carrier files,
extracts whatever shards decode under the passphrase, and reconstructs
the original file once a threshold group is present.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceDir := "."
		if len(args) > 0 {
			sourceDir = args[0]
		}
		params, err := bindFlags.params()
		if err != nil {
			return err
		}

		entries, err := os.ReadDir(sourceDir)
		if err != nil {
			return fmt.Errorf("failed to read directory: %w", err)
		}

		fmt.Printf("Scanning for carriers in %s...\n", sourceDir)
		var carriers []carrier.Carrier
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if ext != ".png" && ext != ".wav" {
				continue
			}
			path := filepath.Join(sourceDir, entry.Name())
			car, err := carrier.Load(path)
			if err != nil {
				fmt.Printf("Skipping unreadable carrier %s: %v\n", entry.Name(), err)
				continue
			}
			carriers = append(carriers, car)
		}
		if len(carriers) == 0 {
			return fmt.Errorf("no carriers found in %s", sourceDir)
		}

		header, plain, err := pipeline.RevealAcross(carriers, bindPassphrase, params)
		if err != nil {
			return err
		}

		outPath := filepath.Join(bindDest, header.OriginalFilename)
		if err := os.WriteFile(outPath, plain, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Printf("Reconstructed %s (%d bytes)\n", outPath, len(plain))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bindCmd)

	bindFlags.register(bindCmd)
	bindCmd.Flags().StringVarP(&bindPassphrase, "passphrase", "p", "", "Passphrase the carriers were split with")
	bindCmd.Flags().StringVarP(&bindDest, "destination", "d", ".", "Directory to write the reconstructed file into")
	bindCmd.MarkFlagRequired("passphrase")
}
