package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"poolconv/internal/config"
	"poolconv/internal/logging"
	"poolconv/internal/services"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and dependency status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Output directory", cfg.Paths.OutputDir},
				{"Log directory", cfg.Paths.LogDir},
				{"Gateway URL", cfg.Catalog.GatewayURL},
				{"Gateway token set", yesNo(strings.TrimSpace(cfg.Catalog.APIToken) != "")},
				{"Replace in media pool", yesNo(cfg.Catalog.ReplaceInMediaPool)},
				{"Max workers", strconv.Itoa(cfg.Workers.MaxWorkers)},
				{"Batch size", strconv.Itoa(cfg.Workers.BatchSize)},
				{"Poll interval", fmt.Sprintf("%ds", cfg.Workers.PollInterval)},
				{"Batch timeout", fmt.Sprintf("%ds", cfg.Workers.BatchTimeout)},
				{"HW accel priority", strings.Join(cfg.FFmpeg.HWAccelPriority, ", ")},
				{"Codec cache size", strconv.Itoa(cfg.Cache.CodecCacheSize)},
				{"Skip already processed", yesNo(cfg.Cache.SkipAlreadyProcessed)},
				{"History ledger", yesNo(cfg.Ledger.Enabled)},
				{"ffmpeg available", yesNo(binaryAvailable(cfg.FFmpegBinary()))},
				{"ffprobe available", yesNo(binaryAvailable(cfg.FFprobeBinary()))},
				{"Gateway reachable", gatewayStatus(cmd, ctx, cfg)},
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Setting", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func gatewayStatus(cmd *cobra.Command, ctx *commandContext, cfg *config.Config) string {
	client := ctx.gatewayClient(cfg, logging.NewNop())
	probeCtx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	err := client.Initialize(probeCtx)
	switch {
	case err == nil:
		return "yes (project open)"
	case errors.Is(err, services.ErrNotFound):
		return "yes (no active project)"
	default:
		return "no"
	}
}
