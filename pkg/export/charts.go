package export

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/dtnitsch/wp-stylometry/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PublicationTimesFile is the heat map written by pubtimes.
const PublicationTimesFile = "article_publication_times.png"

// ChartPath returns "<dir>/<metric>_plot.png".
func ChartPath(dir string, m models.Metric) string {
	return filepath.Join(dir, string(m)+"_plot.png")
}

// PlotMetrics writes one line chart per metric with a series per category
// and months on the x axis. It returns the written paths.
func PlotMetrics(stats models.MonthlyStats, dir string) ([]string, error) {
	months := stats.Months()
	if len(months) == 0 {
		return nil, ErrNoData
	}

	paths := make([]string, 0, len(models.Metrics))
	for _, m := range models.Metrics {
		path := ChartPath(dir, m)
		if err := plotMetric(stats, months, m, path); err != nil {
			return paths, fmt.Errorf("failed to plot %s: %w", m, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func plotMetric(stats models.MonthlyStats, months []string, m models.Metric, path string) error {
	p := plot.New()
	p.Title.Text = string(m) + " by category"
	p.X.Label.Text = "Month"
	p.Y.Label.Text = string(m)
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, category := range stats.Categories() {
		var xys plotter.XYs
		for x, month := range months {
			s, ok := stats.Get(month, category)
			if !ok {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(x), Y: s.Value(m)})
		}
		if len(xys) == 0 {
			continue
		}

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		p.Add(line, points)
		p.Legend.Add(category, line, points)
	}

	p.NominalX(months...)

	width := vg.Length(math.Max(10, float64(len(months))*0.6)) * vg.Inch
	return p.Save(width, 6*vg.Inch, path)
}

// publicationGrid adapts a PublicationGrid to plotter.GridXYZ. Counts are
// log-scaled so sparse days remain visible.
type publicationGrid struct {
	g *models.PublicationGrid
}

func (pg publicationGrid) Dims() (c, r int) { return len(pg.g.Days), pg.g.Bins() }
func (pg publicationGrid) X(c int) float64  { return float64(c) }
func (pg publicationGrid) Y(r int) float64 {
	return float64(r*pg.g.BinMinutes) / 60
}
func (pg publicationGrid) Z(c, r int) float64 {
	return math.Log1p(float64(pg.g.Counts[c][r]))
}

// PlotPublicationTimes writes the date by time-of-day heat map.
func PlotPublicationTimes(grid *models.PublicationGrid, path string) error {
	if grid == nil || len(grid.Days) == 0 || grid.Bins() == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Article Publication Times Distribution"
	p.X.Label.Text = "Publication Date"
	p.Y.Label.Text = "Time of Day (24-hour format)"

	hm := plotter.NewHeatMap(publicationGrid{g: grid}, palette.Heat(32, 1))
	if hm.Max <= hm.Min {
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	p.X.Tick.Marker = plot.ConstantTicks(yearTicks(grid.Days))
	var hours []plot.Tick
	for h := 0; h <= 24; h += 2 {
		hours = append(hours, plot.Tick{Value: float64(h), Label: fmt.Sprintf("%02d:00", h)})
	}
	p.Y.Tick.Marker = plot.ConstantTicks(hours)

	return p.Save(20*vg.Inch, 10*vg.Inch, path)
}

// yearTicks labels the first day of every year present in days.
func yearTicks(days []string) []plot.Tick {
	var ticks []plot.Tick
	last := ""
	for i, day := range days {
		if len(day) < 4 {
			continue
		}
		year := day[:4]
		if year == last {
			continue
		}
		last = year
		ticks = append(ticks, plot.Tick{Value: float64(i), Label: year})
	}
	return ticks
}
