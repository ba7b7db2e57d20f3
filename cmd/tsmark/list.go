package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/awmlab/tsmark/mpegts"
)

var listCmd = &cobra.Command{
	Use:   "list <in.ts>...",
	Short: "list embedded payloads with sizes and digests",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Each file is scanned by its own Reader; only the result
		// slots are shared.
		results := make([][]mpegts.Entry, len(args))
		var g errgroup.Group
		for i, path := range args {
			i, path := i, path
			g.Go(func() error {
				r := mpegts.NewReader()
				if err := r.LoadFile(path); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				results[i] = r.Entries()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "FILE\tNAME\tBYTES\tXXH64")
		for i, path := range args {
			for _, e := range results[i] {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%016x\n", path, e.Name, len(e.Data), xxhash.Sum64(e.Data))
			}
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
