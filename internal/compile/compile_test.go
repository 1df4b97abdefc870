package compile

import (
	"errors"
	"testing"

	"dagforge/internal/dagnode"
)

func TestIntQuotAndModByZeroReturnOne(t *testing.T) {
	quot, err := Lookup("int-quot")
	if err != nil {
		t.Fatalf("Lookup(int-quot): %v", err)
	}
	if got := quot.Fn([]dagnode.Value{dagnode.Int(7), dagnode.Int(0)}); got.Int != 1 {
		t.Errorf("int-quot by zero = %d, want 1", got.Int)
	}
	mod, err := Lookup("int-mod")
	if err != nil {
		t.Fatalf("Lookup(int-mod): %v", err)
	}
	if got := mod.Fn([]dagnode.Value{dagnode.Int(7), dagnode.Int(0)}); got.Int != 1 {
		t.Errorf("int-mod by zero = %d, want 1", got.Int)
	}
	if got := quot.Fn([]dagnode.Value{dagnode.Int(7), dagnode.Int(2)}); got.Int != 3 {
		t.Errorf("int-quot(7,2) = %d, want 3", got.Int)
	}
}

func TestSafeDivAndModNearZeroReturnOne(t *testing.T) {
	div, err := Lookup("safe-div")
	if err != nil {
		t.Fatalf("Lookup(safe-div): %v", err)
	}
	mod, err := Lookup("safe-mod")
	if err != nil {
		t.Fatalf("Lookup(safe-mod): %v", err)
	}
	cases := []float64{0, 1e-7, -1e-7, 9.9e-7}
	for _, y := range cases {
		if got := div.Fn([]dagnode.Value{dagnode.Float(4), dagnode.Float(y)}); got.Float != 1.0 {
			t.Errorf("safe-div(4, %v) = %v, want 1.0", y, got.Float)
		}
		if got := mod.Fn([]dagnode.Value{dagnode.Float(4), dagnode.Float(y)}); got.Float != 1.0 {
			t.Errorf("safe-mod(4, %v) = %v, want 1.0", y, got.Float)
		}
	}
	if got := div.Fn([]dagnode.Value{dagnode.Float(6), dagnode.Float(2)}); got.Float != 3.0 {
		t.Errorf("safe-div(6,2) = %v, want 3.0", got.Float)
	}
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	resetRegistryForTests()
	defer resetRegistryForTests()
	err := Register(PrimitiveSpec{Name: "add", Arity: 2, Fn: func(args []dagnode.Value) dagnode.Value { return args[0] }})
	if !errors.Is(err, ErrPrimitiveExists) {
		t.Errorf("Register(duplicate add) err = %v, want ErrPrimitiveExists", err)
	}
}

func TestLookupUnknownPrimitive(t *testing.T) {
	if _, err := Lookup("does-not-exist"); !errors.Is(err, ErrPrimitiveNotFound) {
		t.Errorf("Lookup(unknown) err = %v, want ErrPrimitiveNotFound", err)
	}
}

func TestProgramRunEvaluatesStraightLine(t *testing.T) {
	// program computes (x + 1) * 2 for input x
	prog := &Program{
		InputRefs: []int64{0},
		Steps: []Step{
			{Ref: 0, IsInput: true},
			{Ref: 1, Literal: dagnode.Float(1)},
			{Ref: 2, Prim: "add", ArgRefs: []int64{0, 1}},
			{Ref: 3, Literal: dagnode.Float(2)},
			{Ref: 4, Prim: "mul", ArgRefs: []int64{2, 3}},
		},
		OutRefs: []int64{4},
	}
	out, err := prog.Run([]dagnode.Value{dagnode.Float(3)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 1 || out[0].Float != 8 {
		t.Errorf("Run output = %+v, want [8]", out)
	}
}

func TestProgramRunRejectsInputCountMismatch(t *testing.T) {
	prog := &Program{InputRefs: []int64{0, 1}}
	if _, err := prog.Run([]dagnode.Value{dagnode.Float(1)}); !errors.Is(err, ErrCompile) {
		t.Errorf("Run(mismatched inputs) err = %v, want ErrCompile", err)
	}
}
