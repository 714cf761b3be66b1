package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/user/energy-chart-go/internal/chart"
	"github.com/user/energy-chart-go/internal/collector"
	"github.com/user/energy-chart-go/internal/models"
)

func getTestRows() []models.DataRow {
	return []models.DataRow{
		{Year: 2000, Consumption: 8.5, ScaledConsumption: 0.106, Category: models.Nuclear},
		{Year: 2000, Consumption: 60.2, ScaledConsumption: 0.753, Category: models.FossilFuel},
		{Year: 2000, Consumption: 11.3, ScaledConsumption: 0.141, Category: models.Renewable},
		{Year: 2001, Consumption: 8.0, ScaledConsumption: 0.1, Category: models.Nuclear},
		{Year: 2001, Consumption: 59.5, ScaledConsumption: 0.76, Category: models.FossilFuel},
		{Year: 2001, Consumption: 10.8, ScaledConsumption: 0.14, Category: models.Renewable},
	}
}

func getTestResult(t *testing.T) *chart.Result {
	t.Helper()
	r := chart.NewRenderer(models.DefaultConfig(), nil)
	if err := r.Draw(getTestRows()); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	res := r.Result()
	res.Source = models.SourceMetadata{
		Kind:      "git",
		Location:  "https://example.com/energy.git",
		Path:      "data/consumption.csv",
		Revision:  "abcdef1234567890",
		FetchedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		RowCount:  6,
	}
	return res
}

func getFailedResult(t *testing.T) *chart.Result {
	t.Helper()
	r := chart.NewRenderer(models.DefaultConfig(), nil)
	r.Fail(collector.NewDataLoadError("https://example.com/data.csv", errors.New("unexpected status 404 Not Found")))
	return r.Result()
}

func prepareAndWrite(t *testing.T, adapter ReportAdapter, result *chart.Result, name string) []byte {
	t.Helper()
	if err := adapter.PrepareData(result); err != nil {
		t.Fatalf("PrepareData() error = %v", err)
	}
	outputPath := filepath.Join(t.TempDir(), "out", name)
	if err := adapter.Write(outputPath); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read written report: %v", err)
	}
	return content
}

func TestNewReportAdapter(t *testing.T) {
	for _, format := range Formats {
		adapter, err := NewReportAdapter(format)
		if err != nil || adapter == nil {
			t.Errorf("NewReportAdapter(%q) = %v, %v", format, adapter, err)
		}
	}
	if _, err := NewReportAdapter("pdf"); err == nil {
		t.Error("NewReportAdapter(pdf) should fail")
	}
}

func TestJsonReportAdapter(t *testing.T) {
	content := prepareAndWrite(t, &JsonReportAdapter{}, getTestResult(t), "report.json")

	var report struct {
		Source models.SourceMetadata `json:"source"`
		Rows   []models.DataRow      `json:"rows"`
		Stacks []models.YearStack    `json:"stacks"`
	}
	if err := json.Unmarshal(content, &report); err != nil {
		t.Fatalf("Generated JSON is invalid: %v", err)
	}
	if len(report.Rows) != 6 || len(report.Stacks) != 2 {
		t.Errorf("JSON has %d rows and %d stacks, want 6 and 2", len(report.Rows), len(report.Stacks))
	}
	if report.Source.Revision != "abcdef1234567890" {
		t.Errorf("JSON source revision = %q", report.Source.Revision)
	}
	if got := report.Stacks[0].Entry(models.FossilFuel); got == nil || got.Consumption != 60.2 {
		t.Errorf("2000 fossil fuel entry = %+v, want 60.2", got)
	}
}

func TestHtmlReportAdapter(t *testing.T) {
	content := string(prepareAndWrite(t, &HtmlReportAdapter{}, getTestResult(t), "report.html"))

	for _, want := range []string{
		"<svg",
		`id="plot"`,
		`id="bar-renewable-2001"`,
		`data-tooltip="Amount: 11.3, Proportion: 0.141"`,
		"Green: Renewable Energy, Pink: Fossil Fuels, Blue: Nuclear Electric Power",
		"<noscript><img",
		"data:image/png;base64,",
		"abcdef12",
		"2024-01-01 12:00:00 UTC",
		`addEventListener("mouseover"`,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("HTML report missing %q", want)
		}
	}
	if strings.Contains(content, "<?xml") {
		t.Error("HTML report should not carry the XML prolog")
	}
	if strings.Contains(content, "ZgotmplZ") {
		t.Error("HTML report has a filtered URL")
	}
}

func TestHtmlReportAdapter_LoadFailure(t *testing.T) {
	content := string(prepareAndWrite(t, &HtmlReportAdapter{}, getFailedResult(t), "report.html"))

	if !strings.Contains(content, ">Error loading data</text>") {
		t.Error("HTML report should show the error text")
	}
	if strings.Contains(content, `class="bar"`) {
		t.Error("HTML report should have no bars")
	}
	if strings.Contains(content, "<noscript>") {
		t.Error("HTML report should have no fallback image")
	}
}

func TestSvgReportAdapter(t *testing.T) {
	content := string(prepareAndWrite(t, &SvgReportAdapter{}, getTestResult(t), "chart.svg"))
	if !strings.HasPrefix(content, "<?xml") {
		t.Error("SVG report should be a standalone document")
	}
	if got := strings.Count(content, `class="bar"`); got != 6 {
		t.Errorf("SVG bars = %d, want 6", got)
	}

	failed := string(prepareAndWrite(t, &SvgReportAdapter{}, getFailedResult(t), "error.svg"))
	if !strings.Contains(failed, `id="error"`) {
		t.Error("SVG report of a failed load should hold the error text")
	}
}

func TestPngReportAdapter(t *testing.T) {
	content := prepareAndWrite(t, &PngReportAdapter{}, getTestResult(t), "chart.png")
	if !bytes.HasPrefix(content, []byte("\x89PNG")) {
		t.Error("PNG report does not start with the PNG signature")
	}
}

func TestXlsxReportAdapter(t *testing.T) {
	content := prepareAndWrite(t, &XlsxReportAdapter{}, getTestResult(t), "chart.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("sheet rows = %d, want 3", len(rows))
	}
	wantHeader := []string{"Year", "Nuclear Electric Power", "Fossil Fuels", "Renewable Energy", "Total"}
	for i, want := range wantHeader {
		if rows[0][i] != want {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], want)
		}
	}
	if rows[1][0] != "2000" || rows[1][2] != "60.2" {
		t.Errorf("2000 row = %v", rows[1])
	}
}

func TestDataFormatsRejectFailedLoad(t *testing.T) {
	for _, adapter := range []ReportAdapter{&JsonReportAdapter{}, &PngReportAdapter{}, &XlsxReportAdapter{}} {
		err := adapter.PrepareData(getFailedResult(t))
		var dle *collector.DataLoadError
		if !errors.As(err, &dle) {
			t.Errorf("%T.PrepareData() error = %v, want *DataLoadError", adapter, err)
		}
	}
}
