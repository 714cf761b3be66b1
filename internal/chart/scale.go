package chart

import (
	"math"

	"github.com/user/energy-chart-go/internal/models"
)

// BandScale maps discrete years to evenly spaced bands with inner padding.
// Outer padding is zero and bands are centred in the range.
type BandScale struct {
	domain       []int
	index        map[int]int
	rangeMin     float64
	rangeMax     float64
	paddingInner float64
	step         float64
	bandwidth    float64
	start        float64
}

// NewBandScale builds a band scale over domain, keeping first occurrences
// and dropping repeats.
func NewBandScale(domain []int, rangeMin, rangeMax, paddingInner float64) *BandScale {
	s := &BandScale{
		index:        make(map[int]int, len(domain)),
		rangeMin:     rangeMin,
		rangeMax:     rangeMax,
		paddingInner: paddingInner,
	}
	for _, v := range domain {
		if _, seen := s.index[v]; seen {
			continue
		}
		s.index[v] = len(s.domain)
		s.domain = append(s.domain, v)
	}

	n := float64(len(s.domain))
	s.step = (rangeMax - rangeMin) / math.Max(1, n-paddingInner)
	s.bandwidth = s.step * (1 - paddingInner)
	s.start = rangeMin + (rangeMax-rangeMin-s.step*(n-paddingInner))*0.5
	return s
}

// Map returns the start of the band for v.
func (s *BandScale) Map(v int) (float64, bool) {
	i, ok := s.index[v]
	if !ok {
		return math.NaN(), false
	}
	return s.start + s.step*float64(i), true
}

// Domain returns the distinct values in first-occurrence order.
func (s *BandScale) Domain() []int {
	out := make([]int, len(s.domain))
	copy(out, s.domain)
	return out
}

// Range returns the pixel extent of the scale.
func (s *BandScale) Range() (float64, float64) { return s.rangeMin, s.rangeMax }

// Bandwidth is the width of a single band.
func (s *BandScale) Bandwidth() float64 { return s.bandwidth }

// Step is the distance between the starts of adjacent bands.
func (s *BandScale) Step() float64 { return s.step }

// LinearScale maps a continuous domain onto a pixel range.
type LinearScale struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinearScale builds a linear scale from [d0,d1] to [r0,r1].
func NewLinearScale(d0, d1, r0, r1 float64) *LinearScale {
	return &LinearScale{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Map interpolates v. Values outside the domain extrapolate, they are not clamped.
func (s *LinearScale) Map(v float64) float64 {
	if s.d1 == s.d0 {
		return (s.r0 + s.r1) / 2
	}
	t := (v - s.d0) / (s.d1 - s.d0)
	return s.r0 + t*(s.r1-s.r0)
}

// Domain returns the input interval.
func (s *LinearScale) Domain() (float64, float64) { return s.d0, s.d1 }

// Range returns the output interval.
func (s *LinearScale) Range() (float64, float64) { return s.r0, s.r1 }

// Ticks returns roughly count evenly spaced round values inside the domain,
// using 1, 2 and 5 multiples of a power of ten.
func (s *LinearScale) Ticks(count int) []float64 {
	lo, hi := s.d0, s.d1
	if hi < lo {
		lo, hi = hi, lo
	}
	if count <= 0 || hi == lo {
		return []float64{lo}
	}

	step := tickStep(lo, hi, count)
	first := math.Ceil(lo / step)
	last := math.Floor(hi / step)
	ticks := make([]float64, 0, int(last-first)+1)
	for i := first; i <= last; i++ {
		// Multiply from the integer index so 0.1 steps do not accumulate error.
		ticks = append(ticks, i*step)
	}
	return ticks
}

func tickStep(lo, hi float64, count int) float64 {
	raw := (hi - lo) / float64(count)
	power := math.Pow(10, math.Floor(math.Log10(raw)))
	ratio := raw / power
	switch {
	case ratio >= math.Sqrt(50):
		power *= 10
	case ratio >= math.Sqrt(10):
		power *= 5
	case ratio >= math.Sqrt(2):
		power *= 2
	}
	return power
}

// Scales are the two mappings shared by every series.
type Scales struct {
	X *BandScale
	Y *LinearScale
}

// BuildScales derives both scales from the complete dataset. The magnitude
// domain is fixed at [0, cfg.MaxMagnitude] whatever the data holds.
func BuildScales(rows []models.DataRow, cfg models.Config) Scales {
	years := make([]int, len(rows))
	for i, r := range rows {
		years[i] = r.Year
	}
	return Scales{
		X: NewBandScale(years, 0, cfg.InnerWidth(), cfg.PaddingInner),
		Y: NewLinearScale(0, cfg.MaxMagnitude, cfg.InnerHeight(), 0),
	}
}
