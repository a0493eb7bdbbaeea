package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-org-stats/internal/domain"
)

var (
	acme = domain.Organization{RequestName: "acme", DisplayName: "Acme, Inc.", CreatedYear: 2011}

	acmeStats = domain.AggregateStats{
		StarsSum:      15,
		ForksSum:      3,
		FollowersSum:  7,
		OpenIssuesSum: 2,
		SizeSum:       150,
		UpdatedAtMax:  time.Date(2023, 7, 2, 12, 30, 0, 0, time.UTC),
		PushedAtMax:   time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC),
	}
)

func TestSummary_Projections(t *testing.T) {
	summary := Summarize(acme, acmeStats)

	assert.Equal(t, []string{
		"Acme, Inc. [2011]",
		"Sum: 15",
		"Sum: 3",
		"",
		"Sum: 7",
		"Latest: 2023-07-02 12:30:00 UTC",
		"Latest: 2023-06-01 08:00:00 UTC",
		"Sum: 2",
		"Sum: 150",
		"",
	}, summary.HeaderCells())
	assert.Len(t, summary.HeaderCells(), len(ColumnLabels))

	assert.Equal(t, []string{
		"Acme, Inc.", "2011", "15", "3", "7",
		"2023-07-02 12:30:00 UTC", "2023-06-01 08:00:00 UTC", "2", "150",
	}, summary.Record())
}

func TestFormatTimestamp(t *testing.T) {
	testCases := []struct {
		name     string
		in       time.Time
		expected string
	}{
		{"whole seconds", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), "2023-01-01 00:00:00 UTC"},
		{"fractional seconds", time.Date(2023, 1, 1, 0, 0, 0, 500_000_000, time.UTC), "2023-01-01 00:00:00.5 UTC"},
		{"converted to UTC", time.Date(2023, 1, 1, 9, 0, 0, 0, time.FixedZone("JST", 9*60*60)), "2023-01-01 00:00:00 UTC"},
		{"never raised", time.Time{}, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			formatted := FormatTimestamp(tc.in)
			assert.Equal(t, tc.expected, formatted)

			parsed, err := ParseTimestamp(formatted)
			require.NoError(t, err)
			assert.True(t, tc.in.Equal(parsed))
		})
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewCSVWriter(&buf)
	require.NoError(t, err)

	require.NoError(t, w.WriteSummary(Summarize(acme, acmeStats)))
	require.NoError(t, w.WriteSummary(Summarize(domain.Organization{DisplayName: "empty"}, domain.NewAggregateStats())))
	require.NoError(t, w.Close())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "real_org_name,org_created_at,stars,forks,followers,updated_at,pushed_at,open_issues_count,size", lines[0])
	assert.Equal(t, `"Acme, Inc.",2011,15,3,7,2023-07-02 12:30:00 UTC,2023-06-01 08:00:00 UTC,2,150`, lines[1])
	assert.Equal(t, "empty,0,0,0,0,,,0,0", lines[2])
}

func TestCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewCSVWriter(&buf)
	require.NoError(t, err)
	summary := Summarize(acme, acmeStats)
	require.NoError(t, w.WriteSummary(summary))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.Len(t, record, 9)
	}

	org, stats, err := ParseRecord(records[1])
	require.NoError(t, err)
	assert.Equal(t, acmeStats, stats)
	assert.Equal(t, summary.HeaderCells(), Summarize(org, stats).HeaderCells())
}

func TestParseRecord_Errors(t *testing.T) {
	_, _, err := ParseRecord([]string{"acme", "2011"})
	assert.Error(t, err)

	_, _, err = ParseRecord([]string{"acme", "2011", "x", "0", "0", "", "", "0", "0"})
	assert.ErrorContains(t, err, "stars")

	_, _, err = ParseRecord([]string{"acme", "2011", "0", "0", "0", "yesterday", "", "0", "0"})
	assert.ErrorContains(t, err, "updated_at")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCSVWriter_WriteFailureIsDurableOutputError(t *testing.T) {
	_, err := NewCSVWriter(failingWriter{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDurableOutput)
	assert.Contains(t, err.Error(), "disk full")
}

func TestCreateCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "org_stats.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("stale content from a previous run\n"), 0o644))

	w, err := CreateCSVFile(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteSummary(Summarize(acme, acmeStats)))
	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "stale")
	assert.True(t, strings.HasPrefix(string(content), "real_org_name,"))
	assert.Equal(t, 2, strings.Count(string(content), "\n"))
}

func TestCreateCSVFile_Failure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := CreateCSVFile(filepath.Join(blocker, "org_stats.csv"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDurableOutput)
}

func TestRenderTable(t *testing.T) {
	mit := "MIT License"
	repos := []domain.Repository{
		{Name: "repo-b", Stars: 5, License: &mit, PushedAt: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), UpdatedAt: time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC), CreatedYear: 2020},
		{Name: "repo-a", Stars: 10, PushedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), UpdatedAt: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), CreatedYear: 2018},
	}
	var buf bytes.Buffer

	RenderTable(&buf, Summarize(acme, acmeStats), repos)

	out := buf.String()
	for _, want := range []string{
		"Acme, Inc. [2011]", "Sum: 15", "Latest: 2023-06-01 08:00:00 UTC",
		"Repository", "Open issues", "Created",
		"repo-b", "MIT License", "2023-06-01 00:00:00 UTC", "2020",
		"repo-a", "2018",
	} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "Acme, Inc. [2011]"), strings.Index(out, "Repository"))
	assert.Less(t, strings.Index(out, "Repository"), strings.Index(out, "repo-b"))
	assert.Less(t, strings.Index(out, "repo-b"), strings.Index(out, "repo-a"))
}

func TestRenderTable_Colors(t *testing.T) {
	testCases := []struct {
		name        string
		noColor     bool
		expectColor bool
	}{
		{name: "plain when color is disabled", noColor: true, expectColor: false},
		{name: "green labels on a terminal", noColor: false, expectColor: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			saved := color.NoColor
			t.Cleanup(func() { color.NoColor = saved })
			color.NoColor = tc.noColor
			var buf bytes.Buffer

			RenderTable(&buf, Summarize(acme, acmeStats), nil)

			out := buf.String()
			assert.Contains(t, out, "Repository")
			assert.Equal(t, tc.expectColor, strings.Contains(out, "\x1b["))
		})
	}
}
