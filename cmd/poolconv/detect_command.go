package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"poolconv/internal/hwaccel"
	"poolconv/internal/logging"
)

func newDetectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Probe ffmpeg hardware acceleration backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			detector := hwaccel.NewDetector(cfg.FFmpegBinary(), cfg.FFmpeg.HWAccelPriority, logging.NewNop())
			mode := detector.Detect(cmd.Context())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Priority: %v\n", cfg.FFmpeg.HWAccelPriority)
			if mode == hwaccel.ModeNone {
				fmt.Fprintln(out, "Selected: none (software encoding)")
			} else {
				fmt.Fprintf(out, "Selected: %s\n", mode)
			}
			return nil
		},
	}
}
