package web

import (
	"log"
	"net/http"

	ds "github.com/starfederation/datastar-go/datastar"

	"github.com/user/energy-chart-go/internal/chart"
)

// hoverSig is the signal sent by the page on every hover event. page names
// the served page; the page increments gen on each enter, so a leave
// carries the generation of the bar that was left.
type hoverSig struct {
	Page  string `json:"page"`
	Hover struct {
		Bar string `json:"bar"`
		Gen uint64 `json:"gen"`
	} `json:"hover"`
}

// EnterHandler shows the tooltip of the hovered bar, replacing any shown one.
func (s *Server) EnterHandler(w http.ResponseWriter, r *http.Request) {
	var sig hoverSig
	if err := ds.ReadSignals(r, &sig); err != nil {
		log.Printf("error reading signals: %s", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	v := s.lookupView(r, sig.Page)
	if v == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	// An enter overtaken by a later one has nothing left to show.
	if sig.Hover.Gen < v.hoverGen {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	tooltip := v.renderer.Tooltip()
	if tooltip == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if _, ok := tooltip.Enter(sig.Hover.Bar); !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	v.hoverGen = sig.Hover.Gen
	patchChart(w, r, v)
}

// LeaveHandler removes the tooltip if it still belongs to the bar being left.
func (s *Server) LeaveHandler(w http.ResponseWriter, r *http.Request) {
	var sig hoverSig
	if err := ds.ReadSignals(r, &sig); err != nil {
		log.Printf("error reading signals: %s", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	v := s.lookupView(r, sig.Page)
	if v == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	tooltip := v.renderer.Tooltip()
	if tooltip == nil || sig.Hover.Gen != v.hoverGen || !tooltip.Leave(tooltip.Generation()) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	patchChart(w, r, v)
}

// patchChart morphs the page's chart container. Callers hold v.mu.
func patchChart(w http.ResponseWriter, r *http.Request, v *view) {
	svg, err := chart.InlineSVG(v.renderer.Surface())
	if err != nil {
		log.Printf("couldn't serialize chart: %s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	sse := ds.NewSSE(w, r)
	if err := sse.PatchElements(`<div id="chart">` + svg + `</div>`); err != nil {
		log.Printf("error patching chart: %s", err)
	}
}
