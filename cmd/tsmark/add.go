package main

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/awmlab/tsmark/mpegts"
)

var addCmd = &cobra.Command{
	Use:   "add <in.ts> <out.ts> <payload>...",
	Short: "copy a transport stream and append payload files to it",
	Long: `Copy in.ts to out.ts unchanged and append each payload after it.
A payload is either a plain path (embedded under its base name) or
name=path to embed it under an explicit name.`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := mpegts.NewWriter()
		for _, arg := range args[2:] {
			name, path := splitPayloadArg(arg)
			if err := w.AppendFile(name, path); err != nil {
				return err
			}
			slog.Debug("payload registered", "name", name, "path", path)
		}
		if err := w.ProcessFile(args[0], args[1]); err != nil {
			return err
		}
		slog.Info("payloads embedded",
			"input", args[0],
			"output", args[1],
			"entries", len(args)-2,
		)
		return nil
	},
}

// splitPayloadArg interprets "name=path" arguments; a bare path is embedded
// under its base name.
func splitPayloadArg(arg string) (name, path string) {
	if i := strings.IndexByte(arg, '='); i >= 0 {
		return arg[:i], arg[i+1:]
	}
	return filepath.Base(arg), arg
}

func init() {
	rootCmd.AddCommand(addCmd)
}
