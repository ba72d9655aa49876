package models

import "fmt"

const minutesPerDay = 24 * 60

// PublicationGrid counts articles per local calendar day and time-of-day bin.
type PublicationGrid struct {
	// Days holds "YYYY-MM-DD" in chronological order.
	Days       []string
	BinMinutes int
	// Counts is indexed [day][bin].
	Counts [][]int
}

// NewPublicationGrid returns an empty grid with bins of binMinutes.
func NewPublicationGrid(binMinutes int) *PublicationGrid {
	return &PublicationGrid{BinMinutes: binMinutes}
}

// Bins is the number of time-of-day bins per day.
func (g *PublicationGrid) Bins() int {
	if g.BinMinutes <= 0 {
		return 0
	}
	return minutesPerDay / g.BinMinutes
}

// Total is the number of articles in the grid.
func (g *PublicationGrid) Total() int {
	total := 0
	for _, row := range g.Counts {
		for _, n := range row {
			total += n
		}
	}
	return total
}

// BinTotals sums every bin over all days.
func (g *PublicationGrid) BinTotals() []int {
	totals := make([]int, g.Bins())
	for _, row := range g.Counts {
		for i, n := range row {
			totals[i] += n
		}
	}
	return totals
}

// BinLabel renders the start of bin i as "HH:MM".
func (g *PublicationGrid) BinLabel(i int) string {
	m := i * g.BinMinutes
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
