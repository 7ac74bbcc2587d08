package migration

import (
	"context"
	"sort"

	"gamecatalog/internal/fileutil"
)

// estimatedSavingRatio is the expected size reduction from WebP conversion.
const estimatedSavingRatio = 0.5

// Entry is one screenshot present on disk.
type Entry struct {
	ID     int64
	Title  string
	Path   string
	Size   int64
	Format string
}

// FormatCount is one bucket of the format histogram.
type FormatCount struct {
	Format string
	Count  int
}

// Report summarizes the screenshots that exist on disk.
type Report struct {
	Entries    []Entry
	TotalBytes int64
	Formats    []FormatCount
}

// Count returns the number of screenshots found.
func (r Report) Count() int {
	return len(r.Entries)
}

// EstimatedSaving is the expected byte reduction after conversion.
func (r Report) EstimatedSaving() int64 {
	return int64(float64(r.TotalBytes) * estimatedSavingRatio)
}

// Report lists records whose screenshot file exists, with sizes and a
// per-format histogram. Rows pointing at missing files are left out.
func (m *Migrator) Report(ctx context.Context) (Report, error) {
	rows, err := m.screenshotRows(ctx)
	if err != nil {
		return Report{}, err
	}

	var report Report
	counts := make(map[string]int)
	for _, row := range rows {
		size, ok := fileutil.RegularFileSize(row.path)
		if !ok {
			continue
		}
		entry := Entry{
			ID:     row.id,
			Title:  row.title,
			Path:   row.path,
			Size:   size,
			Format: formatOf(row.path),
		}
		report.Entries = append(report.Entries, entry)
		report.TotalBytes += size
		counts[entry.Format]++
	}

	for format, count := range counts {
		report.Formats = append(report.Formats, FormatCount{Format: format, Count: count})
	}
	sort.Slice(report.Formats, func(i, j int) bool {
		if report.Formats[i].Count != report.Formats[j].Count {
			return report.Formats[i].Count > report.Formats[j].Count
		}
		return report.Formats[i].Format < report.Formats[j].Format
	})
	return report, nil
}
