package report

import (
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/naka-gawa/github-org-stats/internal/domain"
)

// ColumnLabels are the table column labels, printed as the first body row.
var ColumnLabels = []string{
	"Repository", "Stars", "Forks", "License", "Followers",
	"Updated at", "Pushed at", "Open issues", "Size", "Created",
}

// Row is the table projection of one repository.
func Row(repo domain.Repository) []string {
	return []string{
		repo.Name,
		strconv.FormatUint(uint64(repo.Stars), 10),
		strconv.FormatUint(uint64(repo.Forks), 10),
		repo.LicenseName(),
		strconv.FormatUint(uint64(repo.Watchers), 10),
		FormatTimestamp(repo.UpdatedAt),
		FormatTimestamp(repo.PushedAt),
		strconv.FormatUint(uint64(repo.OpenIssues), 10),
		strconv.FormatUint(uint64(repo.Size), 10),
		strconv.Itoa(repo.CreatedYear),
	}
}

// RenderTable writes the organization table to w: the summary as the header,
// then the column labels, then one row per repository in the given order.
// Colors follow fatih/color, so they are dropped when stdout is not a
// terminal or NO_COLOR is set.
func RenderTable(w io.Writer, summary Summary, repos []domain.Repository) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(summary.HeaderCells())
	if color.NoColor {
		table.Append(ColumnLabels)
	} else {
		green := tablewriter.Colors{tablewriter.FgGreenColor}
		headerColors := make([]tablewriter.Colors, len(ColumnLabels))
		labelColors := make([]tablewriter.Colors, len(ColumnLabels))
		for i := range ColumnLabels {
			headerColors[i] = tablewriter.Colors{}
			labelColors[i] = green
		}
		headerColors[0] = green
		table.SetHeaderColor(headerColors...)
		table.Rich(ColumnLabels, labelColors)
	}
	for _, repo := range repos {
		table.Append(Row(repo))
	}
	table.Render()
}
