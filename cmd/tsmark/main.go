// Command tsmark embeds named payloads into MPEG transport streams and
// recovers them again. Payloads ride in tagged packets appended after the
// original stream, which passes through byte for byte.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "tsmark",
	Short:         "embed and recover named payloads in MPEG transport streams",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
