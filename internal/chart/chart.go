package chart

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/user/energy-chart-go/internal/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	_ "gonum.org/v1/plot/vg/vgimg" // png
	_ "gonum.org/v1/plot/vg/vgsvg" // svg
)

// Named CSS colors used by the categories, for the static renderer.
var categoryRGBA = map[models.Category]color.RGBA{
	models.Nuclear:    {R: 173, G: 216, B: 230, A: 255}, // lightblue
	models.FossilFuel: {R: 255, G: 192, B: 203, A: 255}, // pink
	models.Renewable:  {R: 144, G: 238, B: 144, A: 255}, // lightgreen
}

// labelEvery thins out the year labels on the static image's X axis.
const labelEvery = 5

// newStackedBarPlot builds the stacked bars with gonum/plot. It draws the
// same stacks as the interactive surface but has no hover behaviour.
func newStackedBarPlot(stacks []models.YearStack, cfg models.Config) (*plot.Plot, error) {
	if len(stacks) == 0 {
		return nil, fmt.Errorf("no data to plot")
	}

	p := plot.New()
	p.X.Label.Text = cfg.XLabel
	p.Y.Label.Text = cfg.YLabel
	p.Y.Min = 0
	p.Y.Max = cfg.MaxMagnitude
	p.Legend.Top = true
	p.Legend.Left = true

	names := make([]string, len(stacks))
	for i, st := range stacks {
		if i%labelEvery == 0 {
			names[i] = strconv.Itoa(st.Year)
		}
	}

	barWidth := vg.Length(cfg.InnerWidth() / float64(len(stacks)) * (1 - cfg.PaddingInner))
	if barWidth <= 0 {
		barWidth = 1
	}

	var below *plotter.BarChart
	for _, cat := range models.Categories {
		values := make(plotter.Values, len(stacks))
		for i, st := range stacks {
			if e := st.Entry(cat); e != nil {
				values[i] = e.Consumption
			}
		}
		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s bars: %w", cat, err)
		}
		bars.Color = categoryRGBA[cat]
		bars.LineStyle.Width = 0
		if below != nil {
			bars.StackOn(below)
		}
		p.Add(bars)
		p.Legend.Add(cat.Label(), bars)
		below = bars
	}
	p.NominalX(names...)
	return p, nil
}

// WriteStaticImage renders the stacks as a "png" or "svg" image.
func WriteStaticImage(w io.Writer, stacks []models.YearStack, cfg models.Config, format string) error {
	p, err := newStackedBarPlot(stacks, cfg)
	if err != nil {
		return err
	}

	writer, err := p.WriterTo(vg.Length(cfg.Width), vg.Length(cfg.Height), format)
	if err != nil {
		return fmt.Errorf("failed to create plot writer: %w", err)
	}
	if _, err := writer.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

// StaticImageBase64 returns the PNG rendering, base64 encoded for data URLs.
func StaticImageBase64(stacks []models.YearStack, cfg models.Config) (string, error) {
	var buf bytes.Buffer
	if err := WriteStaticImage(&buf, stacks, cfg, "png"); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
