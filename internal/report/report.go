package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/user/energy-chart-go/internal/chart"
	"github.com/user/energy-chart-go/internal/models"
)

// ReportAdapter defines the interface for generating different report formats.
type ReportAdapter interface {
	PrepareData(result *chart.Result) error
	Write(outputFilePath string) error
}

// Formats lists the supported output formats.
var Formats = []string{"html", "svg", "json", "png", "xlsx"}

// NewReportAdapter returns the adapter for a format name.
func NewReportAdapter(format string) (ReportAdapter, error) {
	switch format {
	case "html":
		return &HtmlReportAdapter{}, nil
	case "svg":
		return &SvgReportAdapter{}, nil
	case "json":
		return &JsonReportAdapter{}, nil
	case "png":
		return &PngReportAdapter{}, nil
	case "xlsx":
		return &XlsxReportAdapter{}, nil
	}
	return nil, fmt.Errorf("unsupported report format: %s (choose from %v)", format, Formats)
}

// writeFile creates the parent directory and writes the report.
func writeFile(outputFilePath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(outputFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for report file %s: %w", outputFilePath, err)
	}
	return os.WriteFile(outputFilePath, data, 0644)
}

// requireData rejects results without a drawn chart, for the data formats.
func requireData(result *chart.Result) error {
	if result == nil {
		return fmt.Errorf("no chart result to report")
	}
	if result.Err != nil {
		return fmt.Errorf("chart has no data: %w", result.Err)
	}
	return nil
}

// --- JSON Report Adapter ---

// JsonReportAdapter writes the source metadata, rows and keyed stacks.
type JsonReportAdapter struct {
	reportData []byte
}

type jsonReport struct {
	Source    models.SourceMetadata `json:"source"`
	Generated time.Time             `json:"generated"`
	Rows      []models.DataRow      `json:"rows"`
	Stacks    []models.YearStack    `json:"stacks"`
}

// PrepareData marshals the dataset into indented JSON.
func (jra *JsonReportAdapter) PrepareData(result *chart.Result) error {
	if err := requireData(result); err != nil {
		return err
	}
	jsonData, err := json.MarshalIndent(jsonReport{
		Source:    result.Source,
		Generated: time.Now().UTC(),
		Rows:      result.Rows,
		Stacks:    result.Stacks,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data to JSON: %w", err)
	}
	jra.reportData = jsonData
	return nil
}

// Write saves the JSON report data to the specified output file.
func (jra *JsonReportAdapter) Write(outputFilePath string) error {
	return writeFile(outputFilePath, jra.reportData)
}

// --- SVG Report Adapter ---

// SvgReportAdapter writes the drawn surface, or the error surface.
type SvgReportAdapter struct {
	reportBuf bytes.Buffer
}

func (sra *SvgReportAdapter) PrepareData(result *chart.Result) error {
	if result == nil || result.Surface == nil {
		return fmt.Errorf("no surface to report")
	}
	sra.reportBuf.Reset()
	return chart.WriteSVG(&sra.reportBuf, result.Surface)
}

func (sra *SvgReportAdapter) Write(outputFilePath string) error {
	return writeFile(outputFilePath, sra.reportBuf.Bytes())
}

// --- PNG Report Adapter ---

// PngReportAdapter writes a static image of the stacks.
type PngReportAdapter struct {
	reportBuf bytes.Buffer
}

func (pra *PngReportAdapter) PrepareData(result *chart.Result) error {
	if err := requireData(result); err != nil {
		return err
	}
	pra.reportBuf.Reset()
	if err := chart.WriteStaticImage(&pra.reportBuf, result.Stacks, result.Config, "png"); err != nil {
		return fmt.Errorf("failed to render png: %w", err)
	}
	return nil
}

func (pra *PngReportAdapter) Write(outputFilePath string) error {
	return writeFile(outputFilePath, pra.reportBuf.Bytes())
}

// --- HTML Report Adapter ---

//go:embed templates/report.html.tmpl
var htmlTemplate string

// HtmlReportAdapter writes a standalone page with the interactive chart.
type HtmlReportAdapter struct {
	reportBuf bytes.Buffer
}

type htmlData struct {
	Title    string
	Caption  string
	Chart    template.HTML
	Fallback template.URL // png data URL, empty when the chart failed
	Source   models.SourceMetadata
	Failed   bool
}

var templateFuncs = template.FuncMap{
	"FormatDateTime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04:05 MST")
	},
	"ShortSha": func(sha string) string {
		if len(sha) > 8 {
			return sha[:8]
		}
		return sha
	},
}

// PrepareData renders the page. A failed load still produces a page
// showing the error text in place of the chart.
func (hra *HtmlReportAdapter) PrepareData(result *chart.Result) error {
	if result == nil || result.Surface == nil {
		return fmt.Errorf("no surface to report")
	}

	inline, err := chart.InlineSVG(result.Surface)
	if err != nil {
		return fmt.Errorf("failed to serialize chart: %w", err)
	}

	data := htmlData{
		Title:   result.Config.YLabel,
		Caption: result.Surface.Caption,
		Chart:   template.HTML(inline),
		Source:  result.Source,
		Failed:  result.Err != nil,
	}
	if !data.Failed {
		fallback, err := chart.StaticImageBase64(result.Stacks, result.Config)
		if err != nil {
			fmt.Printf("Warning: Error generating static chart: %v. HTML report will have no fallback image.\n", err)
		} else {
			data.Fallback = template.URL("data:image/png;base64," + fallback)
		}
	}

	tmpl, err := template.New("report").Funcs(templateFuncs).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse HTML template: %w", err)
	}
	hra.reportBuf.Reset()
	if err := tmpl.Execute(&hra.reportBuf, data); err != nil {
		return fmt.Errorf("failed to execute HTML template: %w", err)
	}
	return nil
}

// Write saves the HTML report data to the specified output file.
func (hra *HtmlReportAdapter) Write(outputFilePath string) error {
	return writeFile(outputFilePath, hra.reportBuf.Bytes())
}
