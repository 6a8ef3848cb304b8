package cmd

import (
	"fmt"

	"github.com/graphsteg/graphsteg/pkg/carrier"
	"github.com/graphsteg/graphsteg/pkg/stego"
	"github.com/spf13/cobra"
)

var capacityFlags engineFlags

var capacityCmd = &cobra.Command{
	Use:   "capacity [carrier]",
	Short: "Show how many payload bytes a carrier can hold",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := capacityFlags.params()
		if err != nil {
			return err
		}
		car, err := carrier.Load(args[0])
		if err != nil {
			return err
		}

		eng := stego.NewEngine(params)
		fmt.Printf("Carrier:        %s\n", args[0])
		fmt.Printf("Sample buffer:  %d bytes (%d samples)\n", len(car.Bytes()), len(car.Bytes())/3)
		fmt.Printf("Raw capacity:   %d bytes\n", eng.RawCapacity(car))
		fmt.Printf("Payload space:  %d bytes\n", eng.Capacity(car))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(capacityCmd)
	capacityFlags.register(capacityCmd)
}
