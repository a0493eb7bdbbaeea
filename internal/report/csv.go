package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/naka-gawa/github-org-stats/internal/domain"
)

// DefaultCSVPath is where the CSV report is written unless --out says otherwise.
const DefaultCSVPath = "out/org_stats.csv"

// CSVHeader names the columns of every CSV record.
var CSVHeader = []string{
	"real_org_name", "org_created_at", "stars", "forks", "followers",
	"updated_at", "pushed_at", "open_issues_count", "size",
}

// CSVWriter appends one record per organization after a single header line.
// Each record is flushed as soon as it is written.
type CSVWriter struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVWriter writes the header line to w and returns a writer for the records.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := &CSVWriter{w: csv.NewWriter(w)}
	if err := cw.write(CSVHeader); err != nil {
		return nil, err
	}
	return cw, nil
}

// CreateCSVFile truncates or creates the file at path, creating missing
// parent directories, and writes the header line.
func CreateCSVFile(path string) (*CSVWriter, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: failed to create output directory: %w", domain.ErrDurableOutput, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create output file: %w", domain.ErrDurableOutput, err)
	}
	cw, err := NewCSVWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	cw.closer = f
	return cw, nil
}

// WriteSummary appends the CSV projection of summary.
func (c *CSVWriter) WriteSummary(summary Summary) error {
	return c.write(summary.Record())
}

func (c *CSVWriter) write(record []string) error {
	if err := c.w.Write(record); err != nil {
		return fmt.Errorf("%w: failed to write csv record: %w", domain.ErrDurableOutput, err)
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("%w: failed to flush csv record: %w", domain.ErrDurableOutput, err)
	}
	return nil
}

// Close closes the underlying file, if CreateCSVFile opened one.
func (c *CSVWriter) Close() error {
	if c.closer == nil {
		return nil
	}
	if err := c.closer.Close(); err != nil {
		return fmt.Errorf("%w: failed to close output file: %w", domain.ErrDurableOutput, err)
	}
	return nil
}

// ParseRecord reads a CSV record written by WriteSummary back into the
// organization and statistics it was rendered from. RequestName is not part
// of the record and is left empty.
func ParseRecord(record []string) (domain.Organization, domain.AggregateStats, error) {
	if len(record) != len(CSVHeader) {
		return domain.Organization{}, domain.AggregateStats{}, fmt.Errorf("expected %d fields, got %d", len(CSVHeader), len(record))
	}
	year, err := strconv.Atoi(record[1])
	if err != nil {
		return domain.Organization{}, domain.AggregateStats{}, fmt.Errorf("failed to parse %s: %w", CSVHeader[1], err)
	}

	var stats domain.AggregateStats
	sums := []struct {
		index int
		dst   *uint64
	}{
		{2, &stats.StarsSum},
		{3, &stats.ForksSum},
		{4, &stats.FollowersSum},
		{7, &stats.OpenIssuesSum},
		{8, &stats.SizeSum},
	}
	for _, s := range sums {
		if *s.dst, err = strconv.ParseUint(record[s.index], 10, 64); err != nil {
			return domain.Organization{}, domain.AggregateStats{}, fmt.Errorf("failed to parse %s: %w", CSVHeader[s.index], err)
		}
	}
	if stats.UpdatedAtMax, err = ParseTimestamp(record[5]); err != nil {
		return domain.Organization{}, domain.AggregateStats{}, fmt.Errorf("failed to parse %s: %w", CSVHeader[5], err)
	}
	if stats.PushedAtMax, err = ParseTimestamp(record[6]); err != nil {
		return domain.Organization{}, domain.AggregateStats{}, fmt.Errorf("failed to parse %s: %w", CSVHeader[6], err)
	}

	org := domain.Organization{DisplayName: record[0], CreatedYear: year}
	return org, stats, nil
}
