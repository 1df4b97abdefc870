package kernel

import (
	"math"
	"reflect"
	"testing"
)

func TestSign(t *testing.T) {
	cases := []struct {
		x    float64
		want int
	}{
		{1.5, 1},
		{-3, -1},
		{0, 0},
	}
	for _, c := range cases {
		if got := Sign(c.x); got != c.want {
			t.Errorf("Sign(%v) = %d, want %d", c.x, got, c.want)
		}
	}
}

func TestMedianOddAndEven(t *testing.T) {
	if got := Median([]float64{3, 1, 2}); got != 2 {
		t.Errorf("odd median = %v, want 2", got)
	}
	if got := Median([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Errorf("even median = %v, want 2.5", got)
	}
}

func TestMedianPanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty slice")
		}
	}()
	Median(nil)
}

func TestPeaksSinglePoint(t *testing.T) {
	peaks := Peaks([]float64{5})
	want := []Peak{{Start: 0, End: 0, Duration: 1, Value: 5}}
	if !reflect.DeepEqual(peaks, want) {
		t.Errorf("Peaks(single) = %+v, want %+v", peaks, want)
	}
}

func TestPeaksSimpleRiseFall(t *testing.T) {
	peaks := Peaks([]float64{1, 3, 2})
	if len(peaks) != 1 {
		t.Fatalf("expected 1 peak, got %d: %+v", len(peaks), peaks)
	}
	if peaks[0].Start != 1 || peaks[0].End != 1 || peaks[0].Value != 3 {
		t.Errorf("peak = %+v, want Start=1 End=1 Value=3", peaks[0])
	}
}

// TestPeaksFlatTopSpansPlateau exercises the tie-break of §4.8: a plateau
// at the top of a climb is reported as a single peak spanning the whole
// flat run, not one point per equal-valued index.
func TestPeaksFlatTopSpansPlateau(t *testing.T) {
	peaks := Peaks([]float64{1, 3, 3, 2})
	if len(peaks) != 1 {
		t.Fatalf("expected 1 peak, got %d: %+v", len(peaks), peaks)
	}
	p := peaks[0]
	if p.Start != 1 || p.End != 2 || p.Duration != 2 || p.Value != 3 {
		t.Errorf("peak = %+v, want Start=1 End=2 Duration=2 Value=3", p)
	}
}

func TestPeaksMonotonicHasNone(t *testing.T) {
	if peaks := Peaks([]float64{1, 2, 3, 4}); len(peaks) != 0 {
		t.Errorf("expected no peaks in a monotonic series, got %+v", peaks)
	}
}

func TestPeaksEmpty(t *testing.T) {
	if peaks := Peaks(nil); peaks != nil {
		t.Errorf("Peaks(nil) = %+v, want nil", peaks)
	}
}

func TestSortedByValueDesc(t *testing.T) {
	peaks := []Peak{{Value: 1}, {Value: 5}, {Value: 3}}
	sorted := SortedByValueDesc(peaks)
	got := []float64{sorted[0].Value, sorted[1].Value, sorted[2].Value}
	want := []float64{5, 3, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedByValueDesc order = %v, want %v", got, want)
	}
	if peaks[0].Value != 1 {
		t.Errorf("SortedByValueDesc mutated its input")
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.0) {
		t.Error("1.0 should be finite")
	}
	if IsFinite(math.NaN()) {
		t.Error("NaN should not be finite")
	}
	if IsFinite(math.Inf(1)) {
		t.Error("+Inf should not be finite")
	}
	if IsFinite(math.Inf(-1)) {
		t.Error("-Inf should not be finite")
	}
}
