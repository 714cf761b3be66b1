package collector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/user/energy-chart-go/internal/models"
)

const (
	ColumnYear              = "Year"
	ColumnConsumption       = "Consumption"
	ColumnScaledConsumption = "Scaled Consumption"
)

// categoryColumns are header names accepted for the optional category column.
var categoryColumns = []string{"Category", "Source", "Type"}

// ParseRows reads the comma-separated payload into DataRows, keeping source order.
func ParseRows(r io.Reader) ([]models.DataRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // checked per row below

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv payload")
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		columns[strings.TrimSpace(name)] = i
	}

	yearIdx, ok := columns[ColumnYear]
	if !ok {
		return nil, fmt.Errorf("missing %q column", ColumnYear)
	}
	consIdx, ok := columns[ColumnConsumption]
	if !ok {
		return nil, fmt.Errorf("missing %q column", ColumnConsumption)
	}
	scaledIdx, ok := columns[ColumnScaledConsumption]
	if !ok {
		return nil, fmt.Errorf("missing %q column", ColumnScaledConsumption)
	}
	catIdx := -1
	for _, name := range categoryColumns {
		if idx, ok := columns[name]; ok {
			catIdx = idx
			break
		}
	}

	var rows []models.DataRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}
		if isBlankRecord(record) {
			continue
		}

		field := func(idx int) string {
			if idx < len(record) {
				return record[idx]
			}
			return ""
		}

		year, err := coerceNumber(field(yearIdx))
		if err != nil {
			return nil, fmt.Errorf("line %d: column %q: %w", line, ColumnYear, err)
		}
		if year != float64(int(year)) {
			return nil, fmt.Errorf("line %d: column %q: %v is not a whole year", line, ColumnYear, year)
		}
		cons, err := coerceNumber(field(consIdx))
		if err != nil {
			return nil, fmt.Errorf("line %d: column %q: %w", line, ColumnConsumption, err)
		}
		scaled, err := coerceNumber(field(scaledIdx))
		if err != nil {
			return nil, fmt.Errorf("line %d: column %q: %w", line, ColumnScaledConsumption, err)
		}

		row := models.DataRow{
			Year:              int(year),
			Consumption:       cons,
			ScaledConsumption: scaled,
		}
		if catIdx >= 0 {
			cat, err := models.ParseCategory(field(catIdx))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			row.Category = cat
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, errors.New("csv payload has no data rows")
	}
	return rows, nil
}

// coerceNumber converts a field the way a unary plus does in the browser:
// surrounding whitespace is ignored and an empty field is zero.
func coerceNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not numeric", s)
	}
	return v, nil
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
