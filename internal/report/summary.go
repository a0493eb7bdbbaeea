// Package report renders organization statistics as a console table and as CSV records.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/naka-gawa/github-org-stats/internal/domain"
)

// TimestampLayout is the textual form of every timestamp in both outputs.
// Fractional seconds only appear when they are non-zero.
const TimestampLayout = "2006-01-02 15:04:05.999999999 UTC"

// Summary is the formatted snapshot of one organization's statistics.
// Every value is formatted once here; HeaderCells and Record only arrange them.
type Summary struct {
	OrgName     string
	CreatedYear string
	Stars       string
	Forks       string
	Followers   string
	UpdatedAt   string
	PushedAt    string
	OpenIssues  string
	Size        string
}

// Summarize formats org and stats.
func Summarize(org domain.Organization, stats domain.AggregateStats) Summary {
	return Summary{
		OrgName:     org.DisplayName,
		CreatedYear: strconv.Itoa(org.CreatedYear),
		Stars:       strconv.FormatUint(stats.StarsSum, 10),
		Forks:       strconv.FormatUint(stats.ForksSum, 10),
		Followers:   strconv.FormatUint(stats.FollowersSum, 10),
		UpdatedAt:   FormatTimestamp(stats.UpdatedAtMax),
		PushedAt:    FormatTimestamp(stats.PushedAtMax),
		OpenIssues:  strconv.FormatUint(stats.OpenIssuesSum, 10),
		Size:        strconv.FormatUint(stats.SizeSum, 10),
	}
}

// HeaderCells is the table projection: one cell per table column.
func (s Summary) HeaderCells() []string {
	return []string{
		fmt.Sprintf("%s [%s]", s.OrgName, s.CreatedYear),
		"Sum: " + s.Stars,
		"Sum: " + s.Forks,
		"",
		"Sum: " + s.Followers,
		"Latest: " + s.UpdatedAt,
		"Latest: " + s.PushedAt,
		"Sum: " + s.OpenIssues,
		"Sum: " + s.Size,
		"",
	}
}

// Record is the CSV projection, in CSVHeader order.
func (s Summary) Record() []string {
	return []string{
		s.OrgName,
		s.CreatedYear,
		s.Stars,
		s.Forks,
		s.Followers,
		s.UpdatedAt,
		s.PushedAt,
		s.OpenIssues,
		s.Size,
	}
}

// FormatTimestamp renders t in UTC. The zero time, a maximum no repository
// raised, renders as the empty string.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp is the inverse of FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
