// Package entity defines the domain models for the datasets feature.
package entity

import "time"

// Dataset frequency values.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Dataset describes one ingested CSV dataset in the catalog.
type Dataset struct {
	Slug      string // Stable identifier derived from the CSV file name
	Name      string // Human-readable name
	Frequency string // Observation frequency ("daily", "weekly", "monthly")
	Unit      string // Unit of measure, free-form (e.g. "thousand heads")
}

// Observation is one time-series data point of a dataset.
// A dataset carries one or more named series (CSV value columns).
type Observation struct {
	Dataset string    // Dataset slug
	Series  string    // Series name (CSV column header)
	Date    time.Time // Observation date (period start)
	Value   float64   // Observed value
}
