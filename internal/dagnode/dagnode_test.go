package dagnode

import (
	"testing"

	"dagforge/internal/typesys"
)

func TestValueConstructors(t *testing.T) {
	if v := Int(7); v.Kind != KindInt || v.Int != 7 {
		t.Errorf("Int(7) = %+v", v)
	}
	if v := Float(1.5); v.Kind != KindFloat || v.Float != 1.5 {
		t.Errorf("Float(1.5) = %+v", v)
	}
	if v := Bool(true); v.Kind != KindBool || !v.Bool {
		t.Errorf("Bool(true) = %+v", v)
	}
	if v := TagValue("move"); v.Kind != KindTag || v.Tag != "move" {
		t.Errorf("TagValue(move) = %+v", v)
	}
}

func TestNilValue(t *testing.T) {
	if !Nil().IsNil() {
		t.Error("Nil() should report IsNil")
	}
	if Int(0).IsNil() {
		t.Error("a zero Int should not report IsNil")
	}
}

func TestNodeArity(t *testing.T) {
	n := &Node{Kind: Function, ArgTypes: []typesys.Type{typesys.Float, typesys.Float}}
	if n.Arity() != 2 {
		t.Errorf("Arity() = %d, want 2", n.Arity())
	}
	leaf := &Node{Kind: Constant}
	if leaf.Arity() != 0 {
		t.Errorf("Arity() of a nullary node = %d, want 0", leaf.Arity())
	}
}
