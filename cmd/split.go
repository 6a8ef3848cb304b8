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
	splitFlags      engineFlags
	splitPassphrase string
	splitThreshold  int
	splitDest       string
)

var splitCmd = &cobra.Command{
	Use:   "split [file] [carrier...]",
	Short: "Spread a file over several carriers",
	Long: `Split encrypts a file under an ephemeral key, erasure-codes it into
one shard per carrier and hides a key fragment alongside each shard.
Any threshold-sized subset of the output carriers recovers the file;
fewer recover nothing at all.

Example:
  graphsteg split diary.txt a.png b.png c.png -t 2 -p "correct horse"`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath, carrierPaths := args[0], args[1:]

		if splitThreshold < 2 {
			return fmt.Errorf("threshold (-t) must be at least 2")
		}
		if splitThreshold > len(carrierPaths) {
			return fmt.Errorf("threshold cannot exceed the number of carriers")
		}
		params, err := splitFlags.params()
		if err != nil {
			return err
		}

		carriers := make([]carrier.Carrier, len(carrierPaths))
		for i, path := range carrierPaths {
			if carriers[i], err = carrier.Load(path); err != nil {
				return fmt.Errorf("carrier %s: %w", path, err)
			}
		}

		file, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()

		fmt.Printf("Splitting over %d carriers, %d needed to recover...\n", len(carriers), splitThreshold)
		err = pipeline.ConcealAcross(cmd.Context(), file, filepath.Base(filePath), carriers, splitThreshold, splitPassphrase, params, nil)
		if err != nil {
			return err
		}

		if splitDest != "" {
			if err := os.MkdirAll(splitDest, 0755); err != nil {
				return fmt.Errorf("failed to create destination directory: %w", err)
			}
		}
		for i, car := range carriers {
			out := shardName(carrierPaths[i], car, i+1, len(carriers))
			if err := car.Save(out); err != nil {
				return fmt.Errorf("failed to save carrier %d: %w", i+1, err)
			}
			fmt.Printf("Created %s\n", out)
		}
		fmt.Println("Done! Distribute the carriers separately.")
		return nil
	},
}

func shardName(carrierPath string, car carrier.Carrier, index, total int) string {
	ext := ".png"
	if _, ok := car.(*carrier.WavCarrier); ok {
		ext = ".wav"
	}
	base := strings.TrimSuffix(filepath.Base(carrierPath), filepath.Ext(carrierPath))
	name := fmt.Sprintf("%s_%d_of_%d%s", base, index, total, ext)
	dir := splitDest
	if dir == "" {
		dir = filepath.Dir(carrierPath)
	}
	return filepath.Join(dir, name)
}

func init() {
	rootCmd.AddCommand(splitCmd)

	splitFlags.register(splitCmd)
	splitCmd.Flags().StringVarP(&splitPassphrase, "passphrase", "p", "", "Passphrase seeding the sample permutation")
	splitCmd.Flags().IntVarP(&splitThreshold, "threshold", "t", 0, "Carriers required to recover the file")
	splitCmd.Flags().StringVarP(&splitDest, "destination", "d", "", "Directory for the output carriers (default: alongside each input)")
	splitCmd.MarkFlagRequired("threshold")
	splitCmd.MarkFlagRequired("passphrase")
}
