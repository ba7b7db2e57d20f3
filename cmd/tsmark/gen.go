package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/awmlab/tsmark/internal/tsgen"
)

var genPackets int

var genCmd = &cobra.Command{
	Use:   "gen <out.ts>",
	Short: "generate a minimal valid transport stream to use as a carrier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if genPackets < 0 {
			return fmt.Errorf("packet count must be non-negative, got %d", genPackets)
		}
		if err := os.WriteFile(args[0], tsgen.Carrier(genPackets), 0o644); err != nil {
			return err
		}
		slog.Info("carrier written", "output", args[0], "packets", genPackets)
		return nil
	},
}

func init() {
	genCmd.Flags().IntVar(&genPackets, "packets", 32, "number of packets to generate")
	rootCmd.AddCommand(genCmd)
}
