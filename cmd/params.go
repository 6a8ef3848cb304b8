package cmd

import (
	"fmt"

	"github.com/graphsteg/graphsteg/pkg/stego"
	"github.com/spf13/cobra"
)

// engineFlags collects the engine tunables shared by every command
// that runs the embedding engine.
type engineFlags struct {
	preset           string
	samplesPerVertex int
	bitsPerVertex    int
	distanceMax      int
	quantum          int
	batch            int
	reservePasses    int
	seed             int64
}

// register wires the tunables onto a command. Defaults of -1 mean
// "keep the preset value".
func (ef *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ef.preset, "preset", "default", "Parameter preset: default, imperceptibility or performance")
	cmd.Flags().IntVar(&ef.samplesPerVertex, "samples-per-vertex", -1, "Samples aggregated per vertex (1-4)")
	cmd.Flags().IntVar(&ef.bitsPerVertex, "bits-per-vertex", -1, "Payload bits per vertex (1, 2 or 4)")
	cmd.Flags().IntVar(&ef.distanceMax, "distance", -1, "Maximum per-channel colour distance for a swap (2-128)")
	cmd.Flags().IntVar(&ef.quantum, "quantum", -1, "Colour quantisation step, a power of two up to 32")
	cmd.Flags().IntVar(&ef.batch, "batch", -1, "Vertices per matching batch (min 10000)")
	cmd.Flags().IntVar(&ef.reservePasses, "reserve-passes", -1, "Reserve matching passes (0-8)")
	cmd.Flags().Int64Var(&ef.seed, "seed", 0, "Permutation seed (overridden by a passphrase)")
}

// params resolves the preset plus any explicit overrides.
func (ef *engineFlags) params() (stego.Params, error) {
	var p stego.Params
	switch ef.preset {
	case "default":
		p = stego.DefaultParams()
	case "imperceptibility":
		p = stego.ImperceptibilityParams()
	case "performance":
		p = stego.PerformanceParams()
	default:
		return p, fmt.Errorf("unknown preset %q", ef.preset)
	}
	if ef.samplesPerVertex >= 0 {
		p.SamplesPerVertex = ef.samplesPerVertex
	}
	if ef.bitsPerVertex >= 0 {
		p.BitsPerVertex = ef.bitsPerVertex
	}
	if ef.distanceMax >= 0 {
		p.DistanceMax = ef.distanceMax
	}
	if ef.quantum >= 0 {
		p.Quantum = ef.quantum
	}
	if ef.batch >= 0 {
		p.VerticesPerMatching = ef.batch
	}
	if ef.reservePasses >= 0 {
		p.ReservePasses = ef.reservePasses
	}
	if ef.seed != 0 {
		p.Seed = ef.seed
	}
	return p, nil
}
