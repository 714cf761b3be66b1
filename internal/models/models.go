package models

import (
	"fmt"
	"strings"
	"time"
)

// DataRow is one record of the consumption dataset.
type DataRow struct {
	Year              int      `json:"year"`
	Consumption       float64  `json:"consumption"`        // Quadrillion Btu
	ScaledConsumption float64  `json:"scaled_consumption"` // proportion
	Category          Category `json:"category,omitempty"` // empty when the source has no category column
}

// Category is one of the three stacked energy series.
type Category string

const (
	Nuclear    Category = "nuclear"
	FossilFuel Category = "fossil_fuel"
	Renewable  Category = "renewable"
)

// Categories lists the series in stacking order, bottom first.
var Categories = []Category{Nuclear, FossilFuel, Renewable}

// Color returns the fill used for the category's bars.
func (c Category) Color() string {
	switch c {
	case Nuclear:
		return "lightblue"
	case FossilFuel:
		return "pink"
	case Renewable:
		return "lightgreen"
	}
	return "gray"
}

// Label returns the human readable series name.
func (c Category) Label() string {
	switch c {
	case Nuclear:
		return "Nuclear Electric Power"
	case FossilFuel:
		return "Fossil Fuels"
	case Renewable:
		return "Renewable Energy"
	}
	return string(c)
}

// Index returns the stacking position of the category, or -1.
func (c Category) Index() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return -1
}

// ParseCategory maps a free-form label from the source data to a Category.
// "Nuclear Electric Power", "fossil fuels" and "Renewable" are all accepted.
func ParseCategory(s string) (Category, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", " ", "-", " ").Replace(norm)
	switch {
	case strings.HasPrefix(norm, "nuclear"):
		return Nuclear, nil
	case strings.HasPrefix(norm, "fossil"):
		return FossilFuel, nil
	case strings.HasPrefix(norm, "renewable"):
		return Renewable, nil
	}
	return "", fmt.Errorf("unknown energy category %q", s)
}

// StackEntry is one category's value for a year.
type StackEntry struct {
	Consumption       float64 `json:"consumption"`
	ScaledConsumption float64 `json:"scaled_consumption"`
}

// YearStack holds the three series values for a single year. A nil entry
// means the source had no row for that category and year.
type YearStack struct {
	Year    int                     `json:"year"`
	Entries map[Category]*StackEntry `json:"entries"`
}

// Entry returns the entry for a category, or nil.
func (s YearStack) Entry(c Category) *StackEntry {
	return s.Entries[c]
}

// Base returns the cumulative consumption of the categories stacked below c.
func (s YearStack) Base(c Category) float64 {
	base := 0.0
	for _, cat := range Categories {
		if cat == c {
			break
		}
		if e := s.Entries[cat]; e != nil {
			base += e.Consumption
		}
	}
	return base
}

// Total returns the summed consumption of all present categories, added in
// stacking order so the result is the same on every call.
func (s YearStack) Total() float64 {
	total := 0.0
	for _, cat := range Categories {
		if e := s.Entries[cat]; e != nil {
			total += e.Consumption
		}
	}
	return total
}

// SourceMetadata describes where a dataset was loaded from.
type SourceMetadata struct {
	Kind      string    `json:"kind"` // "http", "file" or "git"
	Location  string    `json:"location"`
	Path      string    `json:"path,omitempty"`     // file inside a git repository
	Revision  string    `json:"revision,omitempty"` // resolved commit SHA
	FetchedAt time.Time `json:"fetched_at"`
	RowCount  int       `json:"row_count"`
}

// Margins around the drawable area, in pixels.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Config is the literal configuration of the chart.
type Config struct {
	Width        float64
	Height       float64
	Margins      Margins
	MaxMagnitude float64
	PaddingInner float64
	Background   string
	Caption      string
	XLabel       string
	YLabel       string
	ErrorText    string
}

// DefaultConfig returns the chart constants.
func DefaultConfig() Config {
	return Config{
		Width:        850,
		Height:       350,
		Margins:      Margins{Top: 50, Right: 100, Bottom: 75, Left: 100},
		MaxMagnitude: 110,
		PaddingInner: 0.1,
		Background:   "#e7f5fe",
		Caption:      "Green: Renewable Energy, Pink: Fossil Fuels, Blue: Nuclear Electric Power",
		XLabel:       "Year",
		YLabel:       "Energy Consumption (Quadrillion Btu)",
		ErrorText:    "Error loading data",
	}
}

// InnerWidth is the drawable width.
func (c Config) InnerWidth() float64 {
	return c.Width - c.Margins.Left - c.Margins.Right
}

// InnerHeight is the drawable height.
func (c Config) InnerHeight() float64 {
	return c.Height - c.Margins.Top - c.Margins.Bottom
}
