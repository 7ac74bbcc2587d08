package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"gamecatalog/internal/config"
	"gamecatalog/internal/logging"
	"gamecatalog/internal/migration"
)

type migrateContext struct {
	configFlag string
	jsonFlag   bool
	yesFlag    bool
}

func newRootCommand() *cobra.Command {
	ctx := &migrateContext{}

	rootCmd := &cobra.Command{
		Use:           "screenshot-migrate",
		Short:         "Convert stored screenshots to WebP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withMigrator(func(m *migration.Migrator) error {
				return runInteractive(cmd, ctx, m)
			})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&ctx.jsonFlag, "json", false, "Emit JSON instead of tables")
	rootCmd.Flags().BoolVarP(&ctx.yesFlag, "yes", "y", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(newReportCommand(ctx))
	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newVerifyCommand(ctx))

	return rootCmd
}

func (c *migrateContext) withMigrator(fn func(*migration.Migrator) error) error {
	cfg, _, _, err := config.Load(strings.TrimSpace(c.configFlag))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	m, err := migration.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.Warn("close catalog database", logging.Error(err))
		}
	}()
	return fn(m)
}

// runInteractive is the default flow: report, confirm, migrate, verify.
func runInteractive(cmd *cobra.Command, ctx *migrateContext, m *migration.Migrator) error {
	report, err := m.Report(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printReport(out, report)
	if report.Count() == 0 {
		return nil
	}

	if !ctx.yesFlag {
		ok, err := confirm(cmd.InOrStdin(), out, "Proceed with migration?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Migration cancelled.")
			return nil
		}
	}

	summary, err := runWithProgress(cmd, m, report.Count(), false, false)
	if err != nil {
		return err
	}
	printSummary(out, summary)

	return verifyAndPrint(cmd.Context(), out, m)
}

func verifyAndPrint(ctx context.Context, out io.Writer, m *migration.Migrator) error {
	v, err := m.Verify(ctx)
	if err != nil {
		return err
	}
	printVerification(out, v)
	return nil
}
