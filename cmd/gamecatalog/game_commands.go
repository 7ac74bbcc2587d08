package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"gamecatalog/internal/api"
	"gamecatalog/internal/catalog"
	"gamecatalog/internal/config"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List games in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				games := svc.LoadAll(cmd.Context())
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.GameListResponse{Games: games})
				}
				out := cmd.OutOrStdout()
				if len(games) == 0 {
					fmt.Fprintln(out, "No games in the catalog")
					return nil
				}
				rows := make([][]string, 0, len(games))
				for _, g := range games {
					rows = append(rows, []string{
						strconv.FormatInt(g.ID, 10),
						g.Title,
						g.Version,
						g.Status,
						formatRating(g.Rating),
						yesNo(g.ScreenshotData != ""),
						g.DisplayLink,
					})
				}
				headers := []string{"ID", "Title", "Version", "Status", "Rating", "Screenshot", "Link"}
				aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}
				fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
				return nil
			})
		},
	}
}

// gameFlags holds the editable fields shared by add and update.
type gameFlags struct {
	title      string
	version    string
	status     string
	rating     float64
	review     string
	link       string
	screenshot string
}

func (f *gameFlags) register(flags *pflag.FlagSet) {
	flags.StringVarP(&f.title, "title", "t", "", "Game title")
	flags.StringVar(&f.version, "game-version", "", "Installed version or edition")
	flags.StringVarP(&f.status, "status", "s", "", "One of "+statusList())
	flags.Float64VarP(&f.rating, "rating", "r", 0, "Rating")
	flags.StringVar(&f.review, "review", "", "Free-form review")
	flags.StringVar(&f.link, "link", "", "Store or wiki URL")
	flags.StringVar(&f.screenshot, "screenshot", "", "Image file to attach")
}

// apply copies the flags that were set on the command line onto in.
func (f *gameFlags) apply(flags *pflag.FlagSet, in api.GameInput) api.GameInput {
	if flags.Changed("title") {
		in.Title = f.title
	}
	if flags.Changed("game-version") {
		in.Version = f.version
	}
	if flags.Changed("status") {
		in.Status = f.status
	}
	if flags.Changed("rating") {
		in.Rating = api.Rating(f.rating)
	}
	if flags.Changed("review") {
		in.Review = f.review
	}
	if flags.Changed("link") {
		in.GameLink = f.link
	}
	return in
}

// screenshotPayload reads the --screenshot file as a base64 payload. nil
// means no file was given.
func (f *gameFlags) screenshotPayload() (*string, error) {
	path := strings.TrimSpace(f.screenshot)
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read screenshot: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("screenshot %s is empty", path)
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return &encoded, nil
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var flags gameFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a game",
		RunE: func(cmd *cobra.Command, args []string) error {
			input := flags.apply(cmd.Flags(), api.GameInput{})
			if _, err := input.Fields().Normalize(); err != nil {
				return err
			}
			payload, err := flags.screenshotPayload()
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *api.Service) error {
				if !svc.Add(cmd.Context(), input, payload) {
					return errors.New("add game failed; see log output for details")
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resultOutput{OK: true})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", input.Title)
				return nil
			})
		},
	}
	flags.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var flags gameFlags
	var clearScreenshot bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a game; unset flags keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if clearScreenshot && strings.TrimSpace(flags.screenshot) != "" {
				return errors.New("--screenshot and --clear-screenshot are mutually exclusive")
			}
			payload, err := flags.screenshotPayload()
			if err != nil {
				return err
			}
			if clearScreenshot {
				empty := ""
				payload = &empty
			}
			return ctx.withService(func(svc *api.Service) error {
				current, ok := svc.Get(cmd.Context(), id)
				if !ok {
					return fmt.Errorf("game %d not found", id)
				}
				input := flags.apply(cmd.Flags(), current.Input())
				if _, err := input.Fields().Normalize(); err != nil {
					return err
				}
				if !svc.Update(cmd.Context(), id, input, payload) {
					return fmt.Errorf("update game %d failed; see log output for details", id)
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resultOutput{OK: true})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %d (%s)\n", id, input.Title)
				return nil
			})
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&clearScreenshot, "clear-screenshot", false, "Remove the current screenshot")
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a game and its screenshot",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *api.Service) error {
				if !svc.Delete(cmd.Context(), id) {
					return fmt.Errorf("game %d not found", id)
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resultOutput{OK: true})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d\n", id)
				return nil
			})
		},
	}
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show game counts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			// Read-only: a catalog that was never written reports zeros
			// instead of being created.
			counts, err := catalog.StatisticsAt(cmd.Context(), cfg.Paths.Database)
			if err != nil {
				return fmt.Errorf("read statistics: %w", err)
			}
			stats := api.FromStatistics(counts)
			if ctx.jsonOutput() {
				return writeJSON(cmd, stats)
			}
			rows := [][]string{
				{"Total", strconv.Itoa(stats.TotalGames)},
				{"Playing", strconv.Itoa(stats.Playing)},
				{"Completed", strconv.Itoa(stats.Completed)},
				{"Planned", strconv.Itoa(stats.Planned)},
				{"Dropped", strconv.Itoa(stats.Dropped)},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"Status", "Games"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func newVersionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the application version",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			info := api.VersionInfo{Name: config.AppName, Version: config.AppVersion}
			if ctx.jsonOutput() {
				return writeJSON(cmd, info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", info.Name, info.Version)
			return nil
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid game id %q", raw)
	}
	return id, nil
}

func formatRating(r float64) string {
	if r == 0 {
		return "-"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func statusList() string {
	statuses := catalog.AllStatuses()
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
