package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"poolconv/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversion attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Ledger.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Conversion history is disabled (set ledger.enabled = true)")
				return nil
			}

			store, err := ledger.Open(cfg.Paths.LogDir)
			if err != nil {
				return fmt.Errorf("open history database: %w", err)
			}
			defer store.Close()

			attempts, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(attempts) == 0 {
				fmt.Fprintln(out, "No conversion attempts recorded")
				return nil
			}

			titler := cases.Title(language.English)
			rows := make([][]string, 0, len(attempts))
			for _, attempt := range attempts {
				rows = append(rows, []string{
					attempt.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					attempt.BaseName,
					attempt.Codec,
					attempt.HWAccel,
					titler.String(attempt.Status),
					formatAttemptDuration(attempt),
				})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"When", "Clip", "Codec", "HW", "Status", "Duration"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum attempts to show (default "+strconv.Itoa(ledger.DefaultRecentLimit)+")")
	return cmd
}

func formatAttemptDuration(attempt ledger.Attempt) string {
	if attempt.Status == ledger.StatusSkipped || attempt.Duration <= 0 {
		return "-"
	}
	return attempt.Duration.Round(time.Millisecond).String()
}
