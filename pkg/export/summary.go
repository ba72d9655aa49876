package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/dtnitsch/wp-stylometry/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// RenderSummary prints the aggregated statistics as a console table.
func RenderSummary(w io.Writer, stats models.MonthlyStats) {
	t := newTable(w)
	header := table.Row{}
	for _, h := range Header() {
		header = append(header, h)
	}
	header = append(header, "articles")
	t.AppendHeader(header)

	configs := []table.ColumnConfig{}
	for i := range models.Metrics {
		configs = append(configs, table.ColumnConfig{Number: i + 3, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)

	rows := stats.Rows()
	for _, row := range rows {
		r := table.Row{row.Month, row.Category}
		for _, m := range models.Metrics {
			r = append(r, fmt.Sprintf("%.2f", row.Stats.Value(m)))
		}
		r = append(r, row.Stats.Articles)
		t.AppendRow(r)
	}
	t.AppendFooter(table.Row{"Total", fmt.Sprintf("%d groups", len(rows))})
	t.Render()
}

// RenderYearCounts prints per-year article counts.
func RenderYearCounts(w io.Writer, title string, counts map[int]int) {
	years := make([]int, 0, len(counts))
	total := 0
	for y, n := range counts {
		years = append(years, y)
		total += n
	}
	sort.Ints(years)

	t := newTable(w)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Year", "Articles"})
	for _, y := range years {
		t.AppendRow(table.Row{y, counts[y]})
	}
	t.AppendFooter(table.Row{"Total", total})
	t.Render()
}

// RenderPublicationSummary prints the article count per time-of-day bin.
func RenderPublicationSummary(w io.Writer, grid *models.PublicationGrid) {
	t := newTable(w)
	t.SetTitle(fmt.Sprintf("Publication times, %d days", len(grid.Days)))
	t.AppendHeader(table.Row{"From", "Articles"})
	for i, n := range grid.BinTotals() {
		t.AppendRow(table.Row{grid.BinLabel(i), n})
	}
	t.AppendFooter(table.Row{"Total", grid.Total()})
	t.Render()
}
