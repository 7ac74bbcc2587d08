package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gamecatalog/internal/migration"
)

func newReportCommand(ctx *migrateContext) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "List stored screenshots with sizes and formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withMigrator(func(m *migration.Migrator) error {
				report, err := m.Report(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonFlag {
					return writeJSON(cmd, reportJSON(report))
				}
				printReport(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
}

func newRunCommand(ctx *migrateContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Convert non-WebP raster screenshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withMigrator(func(m *migration.Migrator) error {
				report, err := m.Report(cmd.Context())
				if err != nil {
					return err
				}
				summary, err := runWithProgress(cmd, m, report.Count(), dryRun, ctx.jsonFlag)
				if err != nil {
					return err
				}
				if ctx.jsonFlag {
					return writeJSON(cmd, summaryJSON(summary))
				}
				printSummary(cmd.OutOrStdout(), summary)
				if len(summary.Errors) > 0 {
					return fmt.Errorf("%d screenshot(s) had errors", len(summary.Errors))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show planned conversions without changing anything")
	return cmd
}

func newVerifyCommand(ctx *migrateContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that stored screenshot paths are canonical and present",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withMigrator(func(m *migration.Migrator) error {
				v, err := m.Verify(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonFlag {
					if err := writeJSON(cmd, verificationJSON(v)); err != nil {
						return err
					}
				} else {
					printVerification(cmd.OutOrStdout(), v)
				}
				if len(v.Missing) > 0 {
					return errors.New("some screenshot files are missing")
				}
				return nil
			})
		},
	}
}
