package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"poolconv/internal/convert"
	"poolconv/internal/hwaccel"
	"poolconv/internal/media/ffprobe"
	"poolconv/internal/pipeline"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var force bool
	var outputDir string

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a single file's audio to PCM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			source := args[0]
			if _, err := os.Stat(source); err != nil {
				return fmt.Errorf("source file %q: %w", source, err)
			}

			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			prober := ffprobe.New(cfg.FFprobeBinary(), time.Duration(cfg.FFmpeg.ProbeTimeout)*time.Second)
			codec, err := prober.AudioCodec(cmd.Context(), source)
			if err != nil {
				return fmt.Errorf("probe audio codec: %w", err)
			}

			out := cmd.OutOrStdout()
			if codec == "" {
				fmt.Fprintln(out, "No audio stream found")
				if !force {
					return nil
				}
			} else {
				fmt.Fprintf(out, "Audio codec: %s\n", codec)
			}
			if !force && !pipeline.NeedsConversion(codec) {
				fmt.Fprintln(out, "Codec does not need conversion (use --force to convert anyway)")
				return nil
			}

			detector := hwaccel.NewDetector(cfg.FFmpegBinary(), cfg.FFmpeg.HWAccelPriority, logger)
			mode := detector.Detect(cmd.Context())

			targetDir := outputDir
			if targetDir == "" {
				targetDir = cfg.Paths.OutputDir
			}
			converter := convert.New(convert.Options{
				Binary:    cfg.FFmpegBinary(),
				OutputDir: targetDir,
				Threads:   cfg.FFmpeg.Threads,
				HWAccel:   mode,
				Logger:    logger,
			})

			result, err := converter.Convert(cmd.Context(), source)
			if err != nil {
				return err
			}
			if result.Skipped {
				fmt.Fprintf(out, "Already converted: %s\n", result.OutputPath)
				return nil
			}
			fmt.Fprintf(out, "Converted in %s: %s\n", result.Duration.Round(time.Millisecond), result.OutputPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Convert even when the audio codec is not targeted")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Override the configured output directory")
	return cmd
}
