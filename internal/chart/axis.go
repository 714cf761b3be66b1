package chart

import (
	"fmt"
	"strconv"
)

const (
	tickSize    = 6
	tickPadding = 3
	yTickCount  = 10
)

func (r *Renderer) drawAxes(scales Scales) {
	cfg := r.Config
	innerWidth, innerHeight := cfg.InnerWidth(), cfg.InnerHeight()

	// bottom
	xAxis := r.plot.Append(&Element{Tag: "g", Class: "axis axis-x"})
	xAxis.SetAttr("transform", fmt.Sprintf("translate(0,%s)", formatNumber(innerHeight)))
	xMin, xMax := scales.X.Range()
	xAxis.Append(axisLine(xMin, 0, xMax, 0))
	half := scales.X.Bandwidth() / 2
	for _, year := range scales.X.Domain() {
		x, _ := scales.X.Map(year)
		x += half
		xAxis.Append(tickLine(x, 0, x, tickSize))
		label := xAxis.Append(&Element{
			Tag:   "text",
			Class: "tick-label",
			X:     x,
			Y:     tickSize + tickPadding,
			Text:  strconv.Itoa(year),
		})
		label.SetAttr("dy", "0.71em").SetAttr("text-anchor", "middle")
	}

	// left
	yAxis := r.plot.Append(&Element{Tag: "g", Class: "axis axis-y"})
	y0, y1 := scales.Y.Range()
	yAxis.Append(axisLine(0, y0, 0, y1))
	for _, v := range scales.Y.Ticks(yTickCount) {
		y := scales.Y.Map(v)
		yAxis.Append(tickLine(-tickSize, y, 0, y))
		label := yAxis.Append(&Element{
			Tag:   "text",
			Class: "tick-label",
			X:     -(tickSize + tickPadding),
			Y:     y,
			Text:  formatNumber(v),
		})
		label.SetAttr("dy", "0.32em").SetAttr("text-anchor", "end")
	}

	xLabel := r.plot.Append(&Element{
		Tag:  "text",
		ID:   "xlab",
		X:    innerWidth / 2,
		Y:    innerHeight + 0.75*cfg.Margins.Bottom,
		Text: cfg.XLabel,
	})
	xLabel.SetAttr("text-anchor", "middle")

	yLabel := r.plot.Append(&Element{Tag: "text", ID: "ylab", X: 20, Y: -40, Text: cfg.YLabel})
	yLabel.SetAttr("text-anchor", "end").SetAttr("transform", "rotate(-90)")
}

func axisLine(x1, y1, x2, y2 float64) *Element {
	e := &Element{Tag: "line", Class: "domain", X: x1, Y: y1, X2: x2, Y2: y2}
	e.SetAttr("stroke", "currentColor")
	return e
}

func tickLine(x1, y1, x2, y2 float64) *Element {
	e := &Element{Tag: "line", Class: "tick", X: x1, Y: y1, X2: x2, Y2: y2}
	e.SetAttr("stroke", "currentColor")
	return e
}
