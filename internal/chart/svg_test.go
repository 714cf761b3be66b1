package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/user/energy-chart-go/internal/models"
)

func TestWriteSVG(t *testing.T) {
	r := NewRenderer(models.DefaultConfig(), nil)
	if err := r.Draw(year2000()); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	r.Tooltip().Enter(BarID(models.Nuclear, 2000))

	var buf bytes.Buffer
	if err := WriteSVG(&buf, r.Surface()); err != nil {
		t.Fatalf("WriteSVG() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`width="850.00" height="350.00"`,
		`fill="#e7f5fe"`,
		`id="plot"`,
		`transform="translate(100,50)"`,
		`id="bar-fossil_fuel-2000"`,
		`data-tooltip="Amount: 60.2, Proportion: 0.753"`,
		`id="tooltip"`,
		`>Amount: 8.5, Proportion: 0.106</text>`,
		`>Energy Consumption (Quadrillion Btu)</text>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg output missing %s", want)
		}
	}
	if got := strings.Count(out, `class="bar"`); got != 3 {
		t.Errorf("bar rects in svg = %d, want 3", got)
	}
}

func TestInlineSVG(t *testing.T) {
	r := NewRenderer(models.DefaultConfig(), nil)
	r.Fail(nil)

	out, err := InlineSVG(r.Surface())
	if err != nil {
		t.Fatalf("InlineSVG() error = %v", err)
	}
	if !strings.HasPrefix(out, "<svg") {
		t.Errorf("InlineSVG() should start with <svg, got %.40q", out)
	}
	if !strings.Contains(out, ">Error loading data</text>") {
		t.Error("InlineSVG() missing error text")
	}
}

func TestWriteSVG_EscapesText(t *testing.T) {
	s := NewSurface()
	root := s.Reset(10, 10)
	root.Append(&Element{Tag: "text", Text: "a < b & c"}).SetAttr("data-x", `"q"`)

	var buf bytes.Buffer
	if err := WriteSVG(&buf, s); err != nil {
		t.Fatalf("WriteSVG() error = %v", err)
	}
	if !strings.Contains(buf.String(), "a &lt; b &amp; c") {
		t.Errorf("text not escaped: %s", buf.String())
	}
	if strings.Contains(buf.String(), `data-x=""q""`) {
		t.Errorf("attribute not escaped: %s", buf.String())
	}
}

func TestWriteSVG_Uninitialized(t *testing.T) {
	if err := WriteSVG(&bytes.Buffer{}, NewSurface()); err == nil {
		t.Error("WriteSVG() on empty surface should fail")
	}
}
