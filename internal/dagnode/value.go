// Package dagnode holds the tagged-union value representation shared by
// every genome variant and by the compiler. Values mix integers, floats,
// booleans, and domain tags; the node's declared return type says which tag
// is populated, so evaluation never needs a runtime type switch beyond a
// cheap Kind check.
package dagnode

// Kind discriminates the payload carried by a Value.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindTag
	KindNil
)

// Value is the tagged union produced and consumed by compiled programs.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Bool  bool
	Tag   string
}

func Int(v int64) Value    { return Value{Kind: KindInt, Int: v} }
func Float(v float64) Value { return Value{Kind: KindFloat, Float: v} }
func Bool(v bool) Value     { return Value{Kind: KindBool, Bool: v} }
func TagValue(v string) Value { return Value{Kind: KindTag, Tag: v} }
func Nil() Value            { return Value{Kind: KindNil} }

func (v Value) IsNil() bool { return v.Kind == KindNil }
