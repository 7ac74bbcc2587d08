package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gamecatalog/internal/api"
	"gamecatalog/internal/preflight"
	"gamecatalog/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog API for the UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, ctx)
		},
	}
}

func runServe(cmd *cobra.Command, ctx *commandContext) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := ctx.ensureLogger()

	results := preflight.RunAll(cfg)
	out := cmd.OutOrStdout()
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := "ok"
		if !r.Passed {
			status = "FAIL"
		}
		rows = append(rows, []string{r.Name, status, r.Detail})
	}
	fmt.Fprintln(out, renderTable(out, []string{"Check", "Status", "Detail"}, rows, nil))
	if failed := preflight.Failed(results); len(failed) > 0 {
		return errors.New("preflight checks failed")
	}

	return ctx.withService(func(svc *api.Service) error {
		srv, err := server.New(cfg, svc, logger)
		if err != nil {
			return err
		}
		if err := srv.Start(signalCtx); err != nil {
			return fmt.Errorf("start api server: %w", err)
		}
		fmt.Fprintf(out, "Listening on http://%s\n", srv.Addr())

		<-signalCtx.Done()
		logger.Info("gamecatalog server shutting down")
		srv.Stop()
		return nil
	})
}

