package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/awmlab/tsmark/mpegts"
)

var (
	getDir  string
	getName string
)

var getCmd = &cobra.Command{
	Use:   "get <in.ts>",
	Short: "extract embedded payloads into files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := mpegts.NewReader()
		if err := r.LoadFile(args[0]); err != nil {
			return err
		}

		written := 0
		for _, e := range r.Entries() {
			if getName != "" && e.Name != getName {
				continue
			}
			// Recovered names are untrusted; never let them escape
			// the output directory.
			base := filepath.Base(e.Name)
			if base == "." || base == ".." || base == string(filepath.Separator) {
				slog.Warn("skipping entry with unusable name", "name", e.Name)
				continue
			}
			dest := filepath.Join(getDir, base)
			if err := os.WriteFile(dest, e.Data, 0o644); err != nil {
				return err
			}
			slog.Info("entry extracted", "name", e.Name, "bytes", len(e.Data), "dest", dest)
			written++
		}

		if getName != "" && written == 0 {
			return fmt.Errorf("no entry named %q in %s", getName, args[0])
		}
		if written == 0 {
			slog.Info("no embedded entries found", "input", args[0])
		}
		return nil
	},
}

func init() {
	getCmd.Flags().StringVar(&getDir, "dir", ".", "directory to write recovered payloads into")
	getCmd.Flags().StringVar(&getName, "name", "", "extract only the entry with this name")
	rootCmd.AddCommand(getCmd)
}
