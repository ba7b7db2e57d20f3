package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awmlab/tsmark/internal/audio"
)

var wavCmd = &cobra.Command{
	Use:   "wav",
	Short: "inspect and copy PCM sound files",
}

var wavInfoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "print channel, sample-rate and bit-depth metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := audio.ReadAll(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d ch, %d Hz, %d bit, %d frames\n",
			args[0], b.Channels, b.SampleRate, b.BitDepth, b.Frames())
		return nil
	},
}

var wavCopyCmd = &cobra.Command{
	Use:   "copy <in> <out>",
	Short: "decode a PCM file and re-encode it frame by frame",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := audio.OpenWAV(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		out, err := audio.CreateWAV(args[1], in.Channels(), in.SampleRate(), in.BitDepth())
		if err != nil {
			return err
		}
		for {
			frames, err := in.ReadFrames(1024)
			if err != nil {
				out.Close()
				return err
			}
			if len(frames) == 0 {
				break
			}
			if err := out.WriteFrames(frames); err != nil {
				out.Close()
				return err
			}
		}
		return out.Close()
	},
}

func init() {
	wavCmd.AddCommand(wavInfoCmd)
	wavCmd.AddCommand(wavCopyCmd)
	rootCmd.AddCommand(wavCmd)
}
