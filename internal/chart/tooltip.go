package chart

import (
	"fmt"
	"strconv"
)

const (
	tooltipID   = "tooltip"
	tooltipAttr = "data-tooltip"
)

// Tooltip owns the single hover label of a surface. Entering a bar replaces
// any label already shown; leaving only removes the label created by the
// matching Enter, so a late leave from a previous bar cannot remove a newer one.
type Tooltip struct {
	layer   *Element
	targets map[string]*Element
	current *Element
	gen     uint64
}

// NewTooltip returns a tooltip that draws into layer.
func NewTooltip(layer *Element) *Tooltip {
	return &Tooltip{layer: layer, targets: make(map[string]*Element)}
}

// Attach registers bar as a hover target showing text.
func (t *Tooltip) Attach(bar *Element, text string) {
	bar.SetAttr(tooltipAttr, text)
	t.targets[bar.ID] = bar
}

// Targets returns the number of registered bars.
func (t *Tooltip) Targets() int { return len(t.targets) }

// Enter shows the label for the bar with the given id. It returns the
// generation to pass to Leave.
func (t *Tooltip) Enter(barID string) (uint64, bool) {
	bar, ok := t.targets[barID]
	if !ok || !bar.Attached() {
		return 0, false
	}
	text, _ := bar.Attr(tooltipAttr)

	t.dispose()
	t.gen++
	label := &Element{
		Tag:   "text",
		ID:    tooltipID,
		Class: "tooltip",
		X:     bar.X + 5,
		Y:     bar.Y - 5,
		Text:  text,
	}
	label.SetAttr("fill", "blue").SetAttr("text-anchor", "middle")
	t.current = t.layer.Append(label)
	return t.gen, true
}

// Leave removes the label if gen is still the current generation.
func (t *Tooltip) Leave(gen uint64) bool {
	if t.current == nil || gen != t.gen {
		return false
	}
	t.dispose()
	return true
}

// Active returns the label currently shown, or nil.
func (t *Tooltip) Active() *Element { return t.current }

// Generation returns the generation of the most recent Enter.
func (t *Tooltip) Generation() uint64 { return t.gen }

func (t *Tooltip) dispose() {
	if t.current != nil {
		t.current.Remove()
		t.current = nil
	}
}

// FormatTooltip renders the label text for a bar.
func FormatTooltip(consumption, scaled float64) string {
	return fmt.Sprintf("Amount: %s, Proportion: %s", formatNumber(consumption), formatNumber(scaled))
}

// formatNumber prints the shortest representation that round-trips,
// so 8.5 stays "8.5" and 60 stays "60".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
