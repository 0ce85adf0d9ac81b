package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eastgenomics/inca-import/internal/compare"
	"github.com/eastgenomics/inca-import/internal/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "inca-compare",
		Short: "Diff distinct column values between two INCA databases",
		RunE: func(cmd *cobra.Command, args []string) error {
			firstConfig, _ := cmd.Flags().GetString("first-config")
			secondConfig, _ := cmd.Flags().GetString("second-config")
			out, _ := cmd.Flags().GetString("out")

			firstManager, err := config.NewManager(firstConfig)
			if err != nil {
				return fmt.Errorf("loading first configuration: %w", err)
			}
			secondManager, err := config.NewManager(secondConfig)
			if err != nil {
				return fmt.Errorf("loading second configuration: %w", err)
			}
			logger := firstManager.NewLogger()

			first, err := compare.Open(firstManager.GetDatabaseConfig())
			if err != nil {
				return fmt.Errorf("connecting to first database: %w", err)
			}
			defer first.Close()

			second, err := compare.Open(secondManager.GetDatabaseConfig())
			if err != nil {
				return fmt.Errorf("connecting to second database: %w", err)
			}
			defer second.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			comparator := compare.NewComparator(first, second, logger)
			diffs, err := comparator.Run(ctx, compare.ComparisonColumns())
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()

			if err := compare.WriteTSV(f, diffs); err != nil {
				return err
			}
			fmt.Printf("Compared %d columns, wrote %s\n", len(diffs), out)
			return nil
		},
	}

	rootCmd.Flags().String("first-config", "", "Configuration file for the first database")
	rootCmd.Flags().String("second-config", "", "Configuration file for the second database")
	rootCmd.Flags().String("out", compare.DefaultReportName, "Path for the comparison TSV")
	_ = rootCmd.MarkFlagRequired("first-config")
	_ = rootCmd.MarkFlagRequired("second-config")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
