package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/eastgenomics/inca-import/internal/config"
	"github.com/eastgenomics/inca-import/internal/database"
	"github.com/eastgenomics/inca-import/internal/domain"
	"github.com/eastgenomics/inca-import/internal/mapping"
	"github.com/eastgenomics/inca-import/internal/panels"
	"github.com/eastgenomics/inca-import/internal/repository"
	"github.com/eastgenomics/inca-import/internal/service"
	"github.com/eastgenomics/inca-import/pkg/external"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "inca-import",
		Short: "Normalize clinical variant reports for the INCA database",
	}

	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(dumpCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(panelappCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [report files]",
		Short: "Normalize variant reports, then write and/or insert the batch",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			workbookPath, _ := cmd.Flags().GetString("workbook")
			panelsPath, _ := cmd.Flags().GetString("panels")
			rescuePath, _ := cmd.Flags().GetString("rescue")
			mappingPath, _ := cmd.Flags().GetString("mapping")
			dumpPath, _ := cmd.Flags().GetString("dump")
			write, _ := cmd.Flags().GetBool("write")
			dbImport, _ := cmd.Flags().GetBool("db")

			manager, err := config.NewManager(configPath)
			if err != nil {
				return err
			}
			logger := manager.NewLogger()

			tables := mapping.Defaults()
			if mappingPath != "" {
				tables, err = mapping.Load(mappingPath)
				if err != nil {
					return err
				}
			}

			index, err := buildPanelIndex(workbookPath, panelsPath, rescuePath)
			if err != nil {
				return err
			}

			reports, err := service.LoadReports(args)
			if err != nil {
				return err
			}

			importer, err := service.NewImportService(logger, tables, index)
			if err != nil {
				return err
			}
			result := importer.Run(reports)
			fmt.Printf("Normalized %d records (%d reports processed, %d skipped)\n",
				len(result.Records), result.Processed, result.Skipped)

			if write {
				if err := service.WriteDump(dumpPath, result.Records); err != nil {
					return err
				}
				fmt.Printf("Wrote %s\n", dumpPath)
			}

			if !dbImport {
				return nil
			}
			return insertRecords(manager, logger, result.Records)
		},
	}

	cmd.Flags().String("config", "", "Path to configuration file")
	cmd.Flags().String("workbook", "", "Path to the panel assignment workbook (xlsx)")
	cmd.Flags().String("panels", "", "Path to the reference panel dump (tsv)")
	cmd.Flags().String("rescue", "", "Path to the manual rescue mapping (tsv)")
	cmd.Flags().String("mapping", "", "Path to a mapping configuration overriding the built-in tables")
	cmd.Flags().String("dump", service.DefaultDumpName, "Path for the normalized record dump written with --write")
	cmd.Flags().Bool("write", false, "Write the normalized records as pretty-printed JSON")
	cmd.Flags().Bool("db", false, "Insert the normalized records into the database")
	return cmd
}

func dumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [dump file]",
		Short: "Insert a previously written record dump, bypassing processing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			path := service.DefaultDumpName
			if len(args) == 1 {
				path = args[0]
			}

			manager, err := config.NewManager(configPath)
			if err != nil {
				return err
			}
			logger := manager.NewLogger()

			records, err := service.ReadDump(path)
			if err != nil {
				return err
			}
			return insertRecords(manager, logger, records)
		},
	}

	cmd.Flags().String("config", "", "Path to configuration file")
	return cmd
}

func insertRecords(manager *config.Manager, logger *logrus.Logger, records []domain.Record) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(ctx, manager.GetDatabaseConfig(), logger)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repository.NewIncaRepository(db.Pool, logger)
	inserted, err := repo.BulkInsert(ctx, records)
	if err != nil {
		return err
	}
	fmt.Printf("Inserted %d records into testdirectory.inca\n", inserted)
	return nil
}

// buildPanelIndex assembles the sample-to-panel index from the auxiliary
// inputs. Without a workbook there is nothing to resolve and enrichment is
// skipped entirely.
func buildPanelIndex(workbookPath, panelsPath, rescuePath string) (domain.PanelResolver, error) {
	if workbookPath == "" {
		return nil, nil
	}
	if panelsPath == "" {
		return nil, fmt.Errorf("--panels is required when --workbook is given")
	}

	assignments, err := panels.LoadAssignments(workbookPath)
	if err != nil {
		return nil, err
	}
	reference, err := panels.LoadDisorderReference(panelsPath)
	if err != nil {
		return nil, err
	}

	var rescue []panels.RescueRule
	if rescuePath != "" {
		rescue, err = panels.LoadRescueMapping(rescuePath)
		if err != nil {
			return nil, err
		}
	}

	return panels.Build(assignments, reference, rescue), nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			dir, _ := cmd.Flags().GetString("dir")

			manager, err := config.NewManager(configPath)
			if err != nil {
				return err
			}

			migrator, err := database.NewMigrator(manager.GetDatabaseConfig(), dir, manager.NewLogger())
			if err != nil {
				return err
			}
			defer migrator.Close()

			return migrator.Up()
		},
	}
	upCmd.Flags().String("config", "", "Path to configuration file")
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			dir, _ := cmd.Flags().GetString("dir")

			manager, err := config.NewManager(configPath)
			if err != nil {
				return err
			}

			migrator, err := database.NewMigrator(manager.GetDatabaseConfig(), dir, manager.NewLogger())
			if err != nil {
				return err
			}
			defer migrator.Close()

			return migrator.Down()
		},
	}
	downCmd.Flags().String("config", "", "Path to configuration file")
	downCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(downCmd)

	return cmd
}

func panelappCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "panelapp",
		Short: "Fetch the PanelApp catalogue and write the reference dump",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			out, _ := cmd.Flags().GetString("out")

			manager, err := config.NewManager(configPath)
			if err != nil {
				return err
			}
			logger := manager.NewLogger()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client := external.NewPanelAppClient(*manager.GetPanelAppConfig(), logger)
			catalogue, err := client.FetchPanels(ctx)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()

			if err := external.WriteDisorderTSV(f, catalogue); err != nil {
				return err
			}
			fmt.Printf("Wrote %d panels to %s\n", len(catalogue), out)
			return nil
		},
	}

	cmd.Flags().String("config", "", "Path to configuration file")
	cmd.Flags().String("out", "panelapp_panels.tsv", "Path for the reference panel dump")
	return cmd
}
