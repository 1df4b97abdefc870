package activeset

import (
	"reflect"
	"testing"
)

type fakeGraph map[int64][]int64

func (g fakeGraph) InRefs(ref int64) []int64 { return g[ref] }

func TestReachableFollowsFanIn(t *testing.T) {
	// 0 and 1 are inputs, 2 = f(0,1), 3 = f(2), 4 is dead (never referenced).
	g := fakeGraph{
		2: {0, 1},
		3: {2},
	}
	got := Reachable(g, []int64{3})
	want := map[int64]struct{}{3: {}, 2: {}, 0: {}, 1: {}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Reachable = %v, want %v", got, want)
	}
	if _, dead := got[4]; dead {
		t.Error("node 4 was never referenced and should not be active")
	}
}

func TestReachableIncludesOutputsWithNoFanIn(t *testing.T) {
	g := fakeGraph{}
	got := Reachable(g, []int64{0, 1})
	want := map[int64]struct{}{0: {}, 1: {}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Reachable(terminals) = %v, want %v", got, want)
	}
}

func TestReachableHandlesDiamondsWithoutInfiniteLoop(t *testing.T) {
	// 3 depends on 1 and 2, both of which depend on 0 - a diamond shape
	// that would loop forever without the seen-set guard.
	g := fakeGraph{
		1: {0},
		2: {0},
		3: {1, 2},
	}
	got := Reachable(g, []int64{3})
	want := map[int64]struct{}{3: {}, 2: {}, 1: {}, 0: {}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Reachable(diamond) = %v, want %v", got, want)
	}
}
