package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"gamecatalog/internal/migration"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newTable(out io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	if isTerminal(out) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	return tw
}

func printReport(out io.Writer, report migration.Report) {
	if report.Count() == 0 {
		fmt.Fprintln(out, "No screenshot files found.")
		return
	}

	tw := newTable(out)
	tw.AppendHeader(table.Row{"ID", "Title", "Format", "Size"})
	for _, e := range report.Entries {
		tw.AppendRow(table.Row{e.ID, e.Title, e.Format, humanize.IBytes(uint64(e.Size))})
	}
	tw.AppendFooter(table.Row{"", "Total", strconv.Itoa(report.Count()), humanize.IBytes(uint64(report.TotalBytes))})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	tw.Render()

	formats := make([]string, 0, len(report.Formats))
	for _, f := range report.Formats {
		formats = append(formats, fmt.Sprintf("%s: %d", f.Format, f.Count))
	}
	fmt.Fprintf(out, "Formats: %s\n", strings.Join(formats, ", "))
	fmt.Fprintf(out, "Estimated saving: %s\n", humanize.IBytes(uint64(report.EstimatedSaving())))
}

func printSummary(out io.Writer, s migration.RunSummary) {
	tw := newTable(out)
	tw.AppendHeader(table.Row{"Result", "Count"})
	if s.DryRun {
		tw.AppendRow(table.Row{"Would convert", s.Planned})
	} else {
		tw.AppendRow(table.Row{"Converted", s.Converted})
	}
	tw.AppendRow(table.Row{"Already WebP", s.AlreadyCanonical})
	tw.AppendRow(table.Row{"Skipped (SVG)", s.SkippedVector})
	tw.AppendRow(table.Row{"Errors", len(s.Errors)})
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	tw.Render()

	if s.DryRun {
		for _, item := range s.Items {
			if item.Action == migration.ActionPlanned {
				fmt.Fprintf(out, "  %s -> %s\n", item.Entry.Path, item.NewPath)
			}
		}
	} else if s.Converted > 0 {
		fmt.Fprintf(out, "Size: %s -> %s\n", humanize.IBytes(uint64(s.BytesBefore)), humanize.IBytes(uint64(s.BytesAfter)))
	}
	for _, line := range s.Errors {
		fmt.Fprintf(out, "  error: %s\n", line)
	}
}

func printVerification(out io.Writer, v migration.Verification) {
	fmt.Fprintf(out, "WebP screenshots: %d\n", v.Canonical)
	fmt.Fprintf(out, "Other formats:    %d\n", v.NonCanonical)
	if len(v.Missing) == 0 {
		fmt.Fprintln(out, "Missing files:    0")
	} else {
		tw := newTable(out)
		tw.AppendHeader(table.Row{"ID", "Title", "Missing path"})
		for _, m := range v.Missing {
			tw.AppendRow(table.Row{m.ID, m.Title, m.Path})
		}
		tw.Render()
	}
	if v.OK() {
		fmt.Fprintln(out, "Verification passed")
	} else {
		fmt.Fprintln(out, "Verification found problems")
	}
}

// confirm asks a yes/no question; anything but y or yes declines.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// runWithProgress runs the migration, drawing a progress bar on stderr when
// it is a terminal.
func runWithProgress(cmd *cobra.Command, m *migration.Migrator, total int, dryRun, quiet bool) (migration.RunSummary, error) {
	opts := migration.RunOptions{DryRun: dryRun}
	errOut := cmd.ErrOrStderr()
	if !quiet && total > 0 && isTerminal(errOut) {
		bar := progressbar.NewOptions(total,
			progressbar.OptionSetWriter(errOut),
			progressbar.OptionSetDescription("Migrating screenshots"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer func() { _ = bar.Finish() }()
		opts.OnItem = func(item migration.ItemResult) {
			bar.Describe(item.Entry.Title)
			_ = bar.Add(1)
		}
	}
	return m.Run(cmd.Context(), opts)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type entryJSON struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Format string `json:"format"`
}

type reportOutput struct {
	Count           int            `json:"count"`
	TotalBytes      int64          `json:"total_bytes"`
	EstimatedSaving int64          `json:"estimated_saving"`
	Formats         map[string]int `json:"formats"`
	Entries         []entryJSON    `json:"entries"`
}

func reportJSON(r migration.Report) reportOutput {
	out := reportOutput{
		Count:           r.Count(),
		TotalBytes:      r.TotalBytes,
		EstimatedSaving: r.EstimatedSaving(),
		Formats:         make(map[string]int, len(r.Formats)),
		Entries:         make([]entryJSON, 0, len(r.Entries)),
	}
	for _, f := range r.Formats {
		out.Formats[f.Format] = f.Count
	}
	for _, e := range r.Entries {
		out.Entries = append(out.Entries, entryJSON(e))
	}
	return out
}

type itemJSON struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Action  string `json:"action"`
	From    string `json:"from"`
	To      string `json:"to,omitempty"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
}

type summaryOutput struct {
	DryRun           bool       `json:"dry_run"`
	Total            int        `json:"total"`
	Converted        int        `json:"converted"`
	AlreadyCanonical int        `json:"already_webp"`
	SkippedVector    int        `json:"skipped_svg"`
	Planned          int        `json:"planned"`
	BytesBefore      int64      `json:"bytes_before"`
	BytesAfter       int64      `json:"bytes_after"`
	Items            []itemJSON `json:"items"`
	Errors           []string   `json:"errors"`
}

func summaryJSON(s migration.RunSummary) summaryOutput {
	out := summaryOutput{
		DryRun:           s.DryRun,
		Total:            s.Total,
		Converted:        s.Converted,
		AlreadyCanonical: s.AlreadyCanonical,
		SkippedVector:    s.SkippedVector,
		Planned:          s.Planned,
		BytesBefore:      s.BytesBefore,
		BytesAfter:       s.BytesAfter,
		Items:            make([]itemJSON, 0, len(s.Items)),
		Errors:           append([]string{}, s.Errors...),
	}
	for _, item := range s.Items {
		j := itemJSON{
			ID:      item.Entry.ID,
			Title:   item.Entry.Title,
			Action:  item.Action.String(),
			From:    item.Entry.Path,
			To:      item.NewPath,
			Warning: item.Warning,
		}
		if item.Err != nil {
			j.Error = item.Err.Error()
		}
		out.Items = append(out.Items, j)
	}
	return out
}

type missingJSON struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

type verificationOutput struct {
	OK           bool          `json:"ok"`
	Canonical    int           `json:"webp"`
	NonCanonical int           `json:"other"`
	Missing      []missingJSON `json:"missing"`
}

func verificationJSON(v migration.Verification) verificationOutput {
	out := verificationOutput{
		OK:           v.OK(),
		Canonical:    v.Canonical,
		NonCanonical: v.NonCanonical,
		Missing:      make([]missingJSON, 0, len(v.Missing)),
	}
	for _, m := range v.Missing {
		out.Missing = append(out.Missing, missingJSON(m))
	}
	return out
}
