package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/wp-stylometry/models"
	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

func sampleStats() models.MonthlyStats {
	stats := make(models.MonthlyStats)
	stats.Set(models.AggregationKey{YearMonth: "2024-02", Category: "Sport"}, models.AggregateStats{
		AvgWordCount: 120, AvgSentenceCount: 8, AvgSentenceLength: 15, AvgLexicalDiversity: 0.75, Articles: 2,
	})
	stats.Set(models.AggregationKey{YearMonth: "2024-01", Category: "Politik"}, models.AggregateStats{
		AvgWordCount: 150, AvgSentenceCount: 35.0 / 3, AvgSentenceLength: 12.5, AvgLexicalDiversity: 0.5, Articles: 3,
	})
	stats.Set(models.AggregationKey{YearMonth: "2024-01", Category: "Sport"}, models.AggregateStats{
		AvgWordCount: 80, AvgSentenceCount: 4, AvgSentenceLength: 20, AvgLexicalDiversity: 1, Articles: 1,
	})
	return stats
}

func TestWriteTable_CSV(t *testing.T) {
	dir := t.TempDir()
	path := TablePath(dir, models.FormatCSV)

	if err := WriteTable(sampleStats(), path, models.FormatCSV); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(first)), "\n")
	want := []string{
		"month,category,avg_word_count,avg_sentence_count,avg_sentence_length,avg_lexical_diversity",
		"2024-01,Politik,150,11.666666666666666,12.5,0.5",
		"2024-01,Sport,80,4,20,1",
		"2024-02,Sport,120,8,15,0.75",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}

	if err := WriteTable(sampleStats(), path, models.FormatCSV); err != nil {
		t.Fatalf("second WriteTable() error = %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("csv output differs between identical runs")
	}
}

func TestWriteTable_XLSX(t *testing.T) {
	path := TablePath(t.TempDir(), models.FormatXLSX)
	if err := WriteTable(sampleStats(), path, models.FormatXLSX); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if diff := cmp.Diff(Header(), rows[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if rows[1][0] != "2024-01" || rows[1][1] != "Politik" || rows[1][2] != "150" {
		t.Errorf("first data row = %v", rows[1])
	}
	if rows[3][0] != "2024-02" || rows[3][1] != "Sport" {
		t.Errorf("last data row = %v", rows[3])
	}
}

func TestWriteTable_UnknownFormat(t *testing.T) {
	err := WriteTable(sampleStats(), filepath.Join(t.TempDir(), "x.ods"), "ods")
	if !errors.Is(err, models.ErrInvalidFormat) {
		t.Errorf("WriteTable() error = %v, want ErrInvalidFormat", err)
	}
}

func TestPlotMetrics(t *testing.T) {
	dir := t.TempDir()
	paths, err := PlotMetrics(sampleStats(), dir)
	if err != nil {
		t.Fatalf("PlotMetrics() error = %v", err)
	}
	if len(paths) != len(models.Metrics) {
		t.Fatalf("got %d charts, want %d", len(paths), len(models.Metrics))
	}
	for _, m := range models.Metrics {
		info, err := os.Stat(ChartPath(dir, m))
		if err != nil {
			t.Errorf("missing chart for %s: %v", m, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("chart for %s is empty", m)
		}
	}
}

func TestPlotMetrics_Empty(t *testing.T) {
	if _, err := PlotMetrics(make(models.MonthlyStats), t.TempDir()); !errors.Is(err, ErrNoData) {
		t.Errorf("PlotMetrics() error = %v, want ErrNoData", err)
	}
}

func TestPlotPublicationTimes(t *testing.T) {
	grid := &models.PublicationGrid{
		Days:       []string{"2023-12-31", "2024-01-01", "2024-01-02"},
		BinMinutes: 360,
		Counts:     [][]int{{0, 1, 2, 0}, {1, 0, 0, 3}, {0, 0, 5, 1}},
	}
	path := filepath.Join(t.TempDir(), PublicationTimesFile)
	if err := PlotPublicationTimes(grid, path); err != nil {
		t.Fatalf("PlotPublicationTimes() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("heat map not written: %v", err)
	}

	if err := PlotPublicationTimes(models.NewPublicationGrid(30), path); !errors.Is(err, ErrNoData) {
		t.Errorf("empty grid error = %v, want ErrNoData", err)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	RenderSummary(&buf, sampleStats())
	out := buf.String()
	for _, want := range []string{"Politik", "2024-02", "11.67", "3 GROUPS"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderYearCounts(t *testing.T) {
	var buf bytes.Buffer
	RenderYearCounts(&buf, "Articles per year", map[int]int{2023: 2, 2024: 5})
	out := buf.String()
	if !strings.Contains(out, "2023") || !strings.Contains(out, "7") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Index(out, "2023") > strings.Index(out, "2024") {
		t.Error("years not sorted")
	}
}
