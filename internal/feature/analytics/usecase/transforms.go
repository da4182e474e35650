package usecase

import (
	"sort"
	"time"

	"dashboard_backend/internal/feature/datasets/domain/entity"
)

// Point is one computed analytics value.
type Point struct {
	Date  time.Time
	Value float64
}

// GrowthPoint is one year-over-year comparison.
// Period is the ISO week number for weekly data or the month number for
// monthly data.
type GrowthPoint struct {
	Date     time.Time
	Year     int
	Period   int
	Value    float64
	Previous float64
	Growth   float64 // percent
}

// toPoints converts observations to points, dropping the series metadata.
func toPoints(obs []entity.Observation) []Point {
	out := make([]Point, 0, len(obs))
	for _, o := range obs {
		out = append(out, Point{Date: o.Date, Value: o.Value})
	}
	return sortByDate(out)
}

// sortByDate returns a date-ascending copy of the points.
func sortByDate(points []Point) []Point {
	out := make([]Point, len(points))
	copy(out, points)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// periodOf maps a date to its comparison (year, period) pair. Weekly data
// uses the ISO year and week so that week 1 spanning a year boundary lines
// up correctly; everything else compares by calendar month.
func periodOf(date time.Time, frequency string) (int, int) {
	if frequency == entity.FrequencyWeekly {
		return date.ISOWeek()
	}
	return date.Year(), int(date.Month())
}

// YoYGrowth aligns each point with the same period of the previous year and
// computes percent growth. Points with no previous-year counterpart (the
// first year of data) are dropped, as are comparisons against a
// non-positive base.
func YoYGrowth(points []Point, frequency string) []GrowthPoint {
	points = sortByDate(points)

	type key struct{ year, period int }
	byPeriod := make(map[key]float64, len(points))
	for _, p := range points {
		y, per := periodOf(p.Date, frequency)
		byPeriod[key{y, per}] = p.Value
	}

	var out []GrowthPoint
	for _, p := range points {
		y, per := periodOf(p.Date, frequency)
		prev, ok := byPeriod[key{y - 1, per}]
		if !ok || prev <= 0 {
			continue
		}
		out = append(out, GrowthPoint{
			Date:     p.Date,
			Year:     y,
			Period:   per,
			Value:    p.Value,
			Previous: prev,
			Growth:   (p.Value - prev) / prev * 100,
		})
	}
	return out
}

// RollingMean computes the trailing mean over the given window.
// No value is emitted until the window has filled.
func RollingMean(points []Point, window int) []Point {
	if window <= 0 || len(points) < window {
		return nil
	}
	points = sortByDate(points)

	out := make([]Point, 0, len(points)-window+1)
	var sum float64
	for i, p := range points {
		sum += p.Value
		if i >= window {
			sum -= points[i-window].Value
		}
		if i >= window-1 {
			out = append(out, Point{Date: p.Date, Value: sum / float64(window)})
		}
	}
	return out
}

// RatioSeries joins two series on date and divides numerator by denominator.
// Dates missing from either side or with a zero denominator are dropped.
func RatioSeries(num, den []Point) []Point {
	denByDate := make(map[time.Time]float64, len(den))
	for _, p := range den {
		denByDate[p.Date.UTC()] = p.Value
	}

	num = sortByDate(num)
	var out []Point
	for _, p := range num {
		d, ok := denByDate[p.Date.UTC()]
		if !ok || d == 0 {
			continue
		}
		out = append(out, Point{Date: p.Date, Value: p.Value / d})
	}
	return out
}

// CumulativeSum computes the running total of a series in date order.
func CumulativeSum(points []Point) []Point {
	points = sortByDate(points)

	out := make([]Point, 0, len(points))
	var sum float64
	for _, p := range points {
		sum += p.Value
		out = append(out, Point{Date: p.Date, Value: sum})
	}
	return out
}
