package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/user/energy-chart-go/internal/chart"
	"github.com/user/energy-chart-go/internal/models"
)

const xlsxSheet = "Consumption"

// Hex fills matching the chart's named colors.
var categoryHex = map[models.Category]string{
	models.Nuclear:    "ADD8E6",
	models.FossilFuel: "FFC0CB",
	models.Renewable:  "90EE90",
}

// XlsxReportAdapter writes a per-year table with a stacked column chart.
type XlsxReportAdapter struct {
	reportBuf bytes.Buffer
}

// PrepareData builds the workbook in memory.
func (xra *XlsxReportAdapter) PrepareData(result *chart.Result) error {
	if err := requireData(result); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []interface{}{"Year"}
	for _, cat := range models.Categories {
		headers = append(headers, cat.Label())
	}
	headers = append(headers, "Total")
	if err := f.SetSheetRow(xlsxSheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetColWidth(xlsxSheet, "A", lastCol, 22); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		f.SetCellStyle(xlsxSheet, "A1", lastCol+"1", style)
	}

	for i, st := range result.Stacks {
		row := []interface{}{st.Year}
		for _, cat := range models.Categories {
			if e := st.Entry(cat); e != nil {
				row = append(row, e.Consumption)
			} else {
				row = append(row, nil)
			}
		}
		row = append(row, st.Total())
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for %d: %w", st.Year, err)
		}
	}

	if len(result.Stacks) > 0 {
		if err := addStackedChart(f, len(result.Stacks), len(headers), result.Config); err != nil {
			return err
		}
	}

	xra.reportBuf.Reset()
	if _, err := f.WriteTo(&xra.reportBuf); err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	return nil
}

func addStackedChart(f *excelize.File, rows, cols int, cfg models.Config) error {
	lastRow := rows + 1

	series := make([]excelize.ChartSeries, 0, len(models.Categories))
	for i, cat := range models.Categories {
		col, _ := excelize.ColumnNumberToName(i + 2)
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", xlsxSheet, col),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", xlsxSheet, lastRow),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", xlsxSheet, col, col, lastRow),
			Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{categoryHex[cat]}},
		})
	}

	maximum := cfg.MaxMagnitude
	minimum := 0.0
	anchor, _ := excelize.CoordinatesToCellName(cols+2, 2)
	err := f.AddChart(xlsxSheet, anchor, &excelize.Chart{
		Type:      excelize.ColStacked,
		Series:    series,
		Title:     []excelize.RichTextRun{{Text: cfg.YLabel}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: uint(cfg.Width), Height: uint(cfg.Height)},
		XAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: cfg.XLabel}}},
		YAxis: excelize.ChartAxis{
			MajorGridLines: true,
			Minimum:        &minimum,
			Maximum:        &maximum,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to add chart: %w", err)
	}
	return nil
}

// Write saves the workbook to the specified output file.
func (xra *XlsxReportAdapter) Write(outputFilePath string) error {
	return writeFile(outputFilePath, xra.reportBuf.Bytes())
}
