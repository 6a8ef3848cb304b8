package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/graphsteg/graphsteg/pkg/carrier"
	"github.com/graphsteg/graphsteg/pkg/pipeline"
	"github.com/graphsteg/graphsteg/pkg/stego"
	"github.com/spf13/cobra"
)

var (
	concealFlags      engineFlags
	concealPassphrase string
	concealOutput     string
)

var concealCmd = &cobra.Command{
	Use:   "conceal [file] [carrier]",
	Short: "Hide a file inside a single cover image or WAV",
	Long: `Conceal compresses and encrypts a file, then embeds it into the
cover medium. The output keeps the cover's dimensions and, to the eye,
its content.

Example:
  graphsteg conceal diary.txt holiday.png -p "correct horse"

The payload is recoverable only with the same passphrase.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath, carrierPath := args[0], args[1]

		params, err := concealFlags.params()
		if err != nil {
			return err
		}

		car, err := carrier.Load(carrierPath)
		if err != nil {
			return err
		}

		file, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()

		if info, err := file.Stat(); err == nil {
			capacity := stego.NewEngine(params).Capacity(car)
			fmt.Printf("Carrier capacity: %d bytes, payload: %d bytes (before compression)\n", capacity, info.Size())
		}

		ch := make(chan stego.Progress, 64)
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			bar := progress.New(progress.WithDefaultGradient())
			for p := range ch {
				if p.Total > 0 {
					fmt.Printf("\r%s", bar.ViewAs(float64(p.Done)/float64(p.Total)))
				}
			}
			fmt.Println()
		}()

		err = pipeline.Conceal(cmd.Context(), file, filepath.Base(filePath), car, concealPassphrase, params, ch)
		close(ch)
		wg.Wait()
		if err != nil {
			return err
		}

		out := concealOutput
		if out == "" {
			out = stegoName(carrierPath, car)
		}
		if err := car.Save(out); err != nil {
			return err
		}
		fmt.Printf("Created %s\n", out)
		return nil
	},
}

// stegoName derives the default output path. Images always come out as
// PNG; a lossy output format would destroy the payload.
func stegoName(carrierPath string, car carrier.Carrier) string {
	ext := ".png"
	if _, ok := car.(*carrier.WavCarrier); ok {
		ext = ".wav"
	}
	base := strings.TrimSuffix(carrierPath, filepath.Ext(carrierPath))
	return base + "_stego" + ext
}

func init() {
	rootCmd.AddCommand(concealCmd)

	concealFlags.register(concealCmd)
	concealCmd.Flags().StringVarP(&concealPassphrase, "passphrase", "p", "", "Passphrase protecting the payload")
	concealCmd.Flags().StringVarP(&concealOutput, "output", "o", "", "Output path (default: <carrier>_stego.png, or _stego.wav for WAV carriers)")
	concealCmd.MarkFlagRequired("passphrase")
}
