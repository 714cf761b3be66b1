package chart

import (
	"context"
	"fmt"

	"github.com/user/energy-chart-go/internal/collector"
	"github.com/user/energy-chart-go/internal/models"
)

// Loader fetches the dataset. *collector.DataCollector satisfies it.
type Loader interface {
	Collect(ctx context.Context) ([]models.DataRow, error)
}

type metadataSource interface {
	SourceMetadata() models.SourceMetadata
}

// Result is what a rendering pass produced.
type Result struct {
	Config  models.Config
	Surface *Surface
	Rows    []models.DataRow
	Stacks  []models.YearStack
	Scales  Scales
	Source  models.SourceMetadata
	Err     error // the load failure, nil when the chart was drawn
}

// Renderer draws the stacked consumption chart onto its own surface.
// A Renderer is not safe for concurrent use.
type Renderer struct {
	Config models.Config

	loader  Loader
	surface *Surface
	plot    *Element
	tooltip *Tooltip
	result  Result
}

// NewRenderer creates a renderer. loader may be nil when rows are passed to Draw directly.
func NewRenderer(cfg models.Config, loader Loader) *Renderer {
	return &Renderer{
		Config:  cfg,
		loader:  loader,
		surface: NewSurface(),
	}
}

// Surface returns the drawing surface.
func (r *Renderer) Surface() *Surface { return r.surface }

// Tooltip returns the hover label owner of the current drawing.
func (r *Renderer) Tooltip() *Tooltip { return r.tooltip }

// Result returns the outcome of the last pass.
func (r *Renderer) Result() *Result {
	res := r.result
	return &res
}

// InitializeSurface clears the surface and draws the background, caption
// and the empty plot group.
func (r *Renderer) InitializeSurface() {
	cfg := r.Config
	root := r.surface.Reset(cfg.Width, cfg.Height)

	bg := root.Append(&Element{Tag: "rect", Class: "background", Width: cfg.Width, Height: cfg.Height})
	bg.SetAttr("fill", cfg.Background)
	r.surface.Caption = cfg.Caption

	r.plot = root.Append(&Element{Tag: "g", ID: "plot"})
	r.plot.SetAttr("transform", fmt.Sprintf("translate(%s,%s)",
		formatNumber(cfg.Margins.Left), formatNumber(cfg.Margins.Top)))
	r.tooltip = NewTooltip(r.plot)
	r.result = Result{Config: cfg, Surface: r.surface}
}

// Render loads the dataset and draws it. On a load failure the surface
// holds only the error text and the *collector.DataLoadError is returned.
func (r *Renderer) Render(ctx context.Context) error {
	r.InitializeSurface()
	if r.loader == nil {
		err := collector.NewDataLoadError("<none>", fmt.Errorf("no loader configured"))
		r.Fail(err)
		return err
	}

	rows, err := r.loader.Collect(ctx)
	if err != nil {
		r.Fail(err)
		return err
	}
	if err := r.Draw(rows); err != nil {
		return err
	}
	if m, ok := r.loader.(metadataSource); ok {
		r.result.Source = m.SourceMetadata()
	}
	return nil
}

// Draw renders rows synchronously. Previous output is cleared first, so
// drawing the same rows twice leaves the same surface.
func (r *Renderer) Draw(rows []models.DataRow) error {
	r.InitializeSurface()

	stacks, err := BuildStacks(rows)
	if err != nil {
		loadErr := collector.NewDataLoadError("dataset", err)
		r.Fail(loadErr)
		return loadErr
	}
	scales := BuildScales(rows, r.Config)

	for _, cat := range models.Categories {
		r.drawSeries(stacks, cat, scales)
	}
	r.drawAxes(scales)

	r.result.Rows = rows
	r.result.Stacks = stacks
	r.result.Scales = scales
	return nil
}

// Fail replaces the chart with the error text.
func (r *Renderer) Fail(err error) {
	r.InitializeSurface()
	msg := &Element{Tag: "text", ID: "error", Class: "error", X: 100, Y: 100, Text: r.Config.ErrorText}
	msg.SetAttr("font-size", "24px")
	r.surface.Root().Append(msg)
	r.result.Err = err
}

func (r *Renderer) drawSeries(stacks []models.YearStack, cat models.Category, scales Scales) {
	innerHeight := r.Config.InnerHeight()
	for _, st := range stacks {
		entry := st.Entry(cat)
		if entry == nil {
			continue
		}
		x, ok := scales.X.Map(st.Year)
		if !ok {
			continue
		}
		bar := &Element{
			Tag:    "rect",
			ID:     BarID(cat, st.Year),
			Class:  "bar",
			X:      x,
			Y:      scales.Y.Map(st.Base(cat) + entry.Consumption),
			Width:  scales.X.Bandwidth(),
			Height: innerHeight - scales.Y.Map(entry.Consumption),
		}
		bar.SetAttr("fill", cat.Color()).
			SetAttr("data-category", string(cat)).
			SetAttr("data-year", fmt.Sprint(st.Year))
		r.plot.Append(bar)
		r.attachTooltip(bar, entry)
	}
}

func (r *Renderer) attachTooltip(bar *Element, entry *models.StackEntry) {
	r.tooltip.Attach(bar, FormatTooltip(entry.Consumption, entry.ScaledConsumption))
}

// BarID names the rect drawn for a category and year.
func BarID(cat models.Category, year int) string {
	return fmt.Sprintf("bar-%s-%d", cat, year)
}
