package compile

import "dagforge/internal/dagnode"

// registerBuiltins wires the numeric/boolean primitive table of §4.4 into
// the global registry. Division and modulo policies implement the boundary
// behaviours of §8: integer quot/mod by zero returns 1; float div/mod by
// |y| < 1e-6 returns 1.0.
func registerBuiltins() {
	MustRegister(PrimitiveSpec{Name: "int-add", Arity: 2, Fn: intBinOp(func(a, b int64) int64 { return a + b })})
	MustRegister(PrimitiveSpec{Name: "int-sub", Arity: 2, Fn: intBinOp(func(a, b int64) int64 { return a - b })})
	MustRegister(PrimitiveSpec{Name: "int-mul", Arity: 2, Fn: intBinOp(func(a, b int64) int64 { return a * b })})
	MustRegister(PrimitiveSpec{Name: "int-quot", Arity: 2, Fn: intBinOp(func(a, b int64) int64 {
		if b == 0 {
			return 1
		}
		return a / b
	})})
	MustRegister(PrimitiveSpec{Name: "int-mod", Arity: 2, Fn: intBinOp(func(a, b int64) int64 {
		if b == 0 {
			return 1
		}
		return a % b
	})})

	MustRegister(PrimitiveSpec{Name: "add", Arity: 2, Fn: floatBinOp(func(a, b float64) float64 { return a + b })})
	MustRegister(PrimitiveSpec{Name: "sub", Arity: 2, Fn: floatBinOp(func(a, b float64) float64 { return a - b })})
	MustRegister(PrimitiveSpec{Name: "mul", Arity: 2, Fn: floatBinOp(func(a, b float64) float64 { return a * b })})
	MustRegister(PrimitiveSpec{Name: "safe-div", Arity: 2, Fn: floatBinOp(func(a, b float64) float64 {
		if absf(b) < 1e-6 {
			return 1.0
		}
		return a / b
	})})
	MustRegister(PrimitiveSpec{Name: "safe-mod", Arity: 2, Fn: floatBinOp(func(a, b float64) float64 {
		if absf(b) < 1e-6 {
			return 1.0
		}
		r := a - b*float64(int64(a/b))
		return r
	})})
	MustRegister(PrimitiveSpec{Name: "min", Arity: 2, Fn: floatBinOp(func(a, b float64) float64 {
		if a < b {
			return a
		}
		return b
	})})
	MustRegister(PrimitiveSpec{Name: "max", Arity: 2, Fn: floatBinOp(func(a, b float64) float64 {
		if a > b {
			return a
		}
		return b
	})})
	MustRegister(PrimitiveSpec{Name: "abs", Arity: 1, Fn: func(args []dagnode.Value) dagnode.Value {
		return dagnode.Float(absf(args[0].Float))
	}})
	MustRegister(PrimitiveSpec{Name: "if<", Arity: 4, Fn: func(args []dagnode.Value) dagnode.Value {
		if args[0].Float < args[1].Float {
			return args[2]
		}
		return args[3]
	}})

	MustRegister(PrimitiveSpec{Name: "and", Arity: 2, Fn: boolBinOp(func(a, b bool) bool { return a && b })})
	MustRegister(PrimitiveSpec{Name: "or", Arity: 2, Fn: boolBinOp(func(a, b bool) bool { return a || b })})
	MustRegister(PrimitiveSpec{Name: "nand", Arity: 2, Fn: boolBinOp(func(a, b bool) bool { return !(a && b) })})
	MustRegister(PrimitiveSpec{Name: "nor", Arity: 2, Fn: boolBinOp(func(a, b bool) bool { return !(a || b) })})
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func intBinOp(f func(a, b int64) int64) PrimitiveFunc {
	return func(args []dagnode.Value) dagnode.Value {
		return dagnode.Int(f(args[0].Int, args[1].Int))
	}
}

func floatBinOp(f func(a, b float64) float64) PrimitiveFunc {
	return func(args []dagnode.Value) dagnode.Value {
		return dagnode.Float(f(args[0].Float, args[1].Float))
	}
}

func boolBinOp(f func(a, b bool) bool) PrimitiveFunc {
	return func(args []dagnode.Value) dagnode.Value {
		return dagnode.Bool(f(args[0].Bool, args[1].Bool))
	}
}
