package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gamecatalog/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a starter configuration for the catalog",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, isDefault, err := resolveInitTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			cfg, _, _, err := config.Load(target)
			if err != nil {
				return fmt.Errorf("read back sample config: %w", err)
			}
			configArg := ""
			if !isDefault {
				configArg = fmt.Sprintf(" --config %q", target)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintf(out, "Catalog database: %s\n", cfg.Paths.Database)
			fmt.Fprintf(out, "Screenshots:      %s\n", cfg.Paths.ScreenshotsDir)
			if cfg.API.Token == "" {
				fmt.Fprintf(out, "The UI bridge on %s accepts unauthenticated requests; set [api] token or GAMECATALOG_API_TOKEN to require one.\n", cfg.API.Bind)
			}
			fmt.Fprintf(out, "Next: gamecatalog%s config validate, then gamecatalog%s serve\n", configArg, configArg)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

// resolveInitTarget expands raw, falling back to the default config location
// when it is blank.
func resolveInitTarget(raw string) (string, bool, error) {
	defaultPath, err := config.DefaultConfigPath()
	if err != nil {
		return "", false, fmt.Errorf("determine default config path: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultPath, true, nil
	}
	target, err := config.ExpandPath(raw)
	if err != nil {
		return "", false, fmt.Errorf("resolve config path: %w", err)
	}
	return target, filepath.Clean(target) == filepath.Clean(defaultPath), nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and show resolved paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Data directory", cfg.Paths.DataDir},
				{"Database", cfg.Paths.Database},
				{"Screenshots", cfg.Paths.ScreenshotsDir},
				{"Lock file", cfg.Paths.LockFile},
				{"API bind", cfg.API.Bind},
				{"API token", yesNo(cfg.API.Token != "")},
			}
			fmt.Fprintln(out, renderTable(out, []string{"Setting", "Value"}, rows, nil))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
