// Package dto defines data transfer objects for the datasets feature's HTTP transport layer.
package dto

// DatasetItem はカタログ一覧のレスポンスDTOです。
type DatasetItem struct {
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Frequency string `json:"frequency"`
	Unit      string `json:"unit,omitempty"`
}

// SeriesPoint は時系列データ1点のレスポンスDTOです。
type SeriesPoint struct {
	Date  string  `json:"date"`  // 日付（YYYY-MM-DD）
	Value float64 `json:"value"` // 観測値
}

// SeriesResponse は1系列のレスポンスDTOです。
type SeriesResponse struct {
	Dataset string        `json:"dataset"`
	Series  string        `json:"series"`
	Points  []SeriesPoint `json:"points"`
}
