package interp

import (
	"math"
	"strings"

	"github.com/nupython-lang/nupython/internal/ast"
	"github.com/nupython-lang/nupython/internal/runtime"
)

// EvalExpression evaluates an expression node into an owned result value
// (spec.md §4.2). A unary expression delegates straight to the element
// reader; a binary expression reads both operands, releases them through
// the environment once the operator kernel has consumed them, and
// dispatches on operator category — comparison is tested before
// arithmetic, since the arithmetic branch would otherwise mis-report a
// comparison operator as an invalid combination for some type pairs.
func EvalExpression(env *Environment, expr *ast.Expression) (Value, error) {
	if !expr.IsBinary() {
		return ReadElement(env, expr.Left)
	}

	left, err := ReadElement(env, expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := ReadElement(env, expr.Right)
	if err != nil {
		env.Release(left)
		return nil, err
	}

	var result Value
	if expr.Op.IsComparison() {
		result, err = evalComparison(expr.Op, left, right, expr.Line)
	} else {
		result, err = evalArithmetic(expr.Op, left, right, expr.Line)
	}
	env.Release(left)
	env.Release(right)
	return result, err
}

// evalArithmetic implements the operand-type table of spec.md §4.2. Any
// pair not named in that table — including every combination involving a
// Boolean operand — falls through to the default case and fails with
// invalid operand types.
func evalArithmetic(op ast.Operator, left, right Value, line int) (Value, error) {
	switch l := left.(type) {
	case *runtime.StringValue:
		r, ok := right.(*runtime.StringValue)
		if !ok || op != ast.OpAdd {
			return nil, runtime.NewSemanticError(line, runtime.ErrMsgInvalidOperandTypes)
		}
		return &runtime.StringValue{Value: l.Value + r.Value}, nil

	case *runtime.IntegerValue:
		switch r := right.(type) {
		case *runtime.IntegerValue:
			return evalIntArithmetic(op, l.Value, r.Value, line)
		case *runtime.RealValue:
			return evalRealArithmetic(op, float64(l.Value), r.Value, line)
		default:
			return nil, runtime.NewSemanticError(line, runtime.ErrMsgInvalidOperandTypes)
		}

	case *runtime.RealValue:
		switch r := right.(type) {
		case *runtime.IntegerValue:
			return evalRealArithmetic(op, l.Value, float64(r.Value), line)
		case *runtime.RealValue:
			return evalRealArithmetic(op, l.Value, r.Value, line)
		default:
			return nil, runtime.NewSemanticError(line, runtime.ErrMsgInvalidOperandTypes)
		}

	default:
		return nil, runtime.NewSemanticError(line, runtime.ErrMsgInvalidOperandTypes)
	}
}

// evalIntArithmetic mirrors execute_int_operation's counted loop for
// exponentiation: result starts at 1 and is multiplied by lhs rhs times,
// so a zero or negative rhs leaves the result at 1 rather than promoting
// to real or producing 0 (spec.md §9 resolves the ambiguity this way;
// the source's own loop never runs its body for rhs <= 0).
func evalIntArithmetic(op ast.Operator, l, r int64, line int) (Value, error) {
	switch op {
	case ast.OpAdd:
		return &runtime.IntegerValue{Value: l + r}, nil
	case ast.OpSub:
		return &runtime.IntegerValue{Value: l - r}, nil
	case ast.OpMul:
		return &runtime.IntegerValue{Value: l * r}, nil
	case ast.OpDiv:
		if r == 0 {
			return nil, runtime.NewSemanticError(line, runtime.ErrMsgDivByZero)
		}
		return &runtime.IntegerValue{Value: l / r}, nil
	case ast.OpMod:
		if r == 0 {
			return nil, runtime.NewSemanticError(line, runtime.ErrMsgModByZero)
		}
		return &runtime.IntegerValue{Value: l % r}, nil
	case ast.OpPow:
		result := int64(1)
		for i := int64(0); i < r; i++ {
			result *= l
		}
		return &runtime.IntegerValue{Value: result}, nil
	default:
		return nil, runtime.NewSemanticError(line, runtime.ErrMsgInvalidOperandTypes)
	}
}

func evalRealArithmetic(op ast.Operator, l, r float64, line int) (Value, error) {
	switch op {
	case ast.OpAdd:
		return &runtime.RealValue{Value: l + r}, nil
	case ast.OpSub:
		return &runtime.RealValue{Value: l - r}, nil
	case ast.OpMul:
		return &runtime.RealValue{Value: l * r}, nil
	case ast.OpDiv:
		if r == 0 {
			return nil, runtime.NewSemanticError(line, runtime.ErrMsgDivByZero)
		}
		return &runtime.RealValue{Value: l / r}, nil
	case ast.OpMod:
		if r == 0 {
			return nil, runtime.NewSemanticError(line, runtime.ErrMsgModByZero)
		}
		return &runtime.RealValue{Value: math.Mod(l, r)}, nil
	case ast.OpPow:
		return &runtime.RealValue{Value: math.Pow(l, r)}, nil
	default:
		return nil, runtime.NewSemanticError(line, runtime.ErrMsgInvalidOperandTypes)
	}
}

// evalComparison implements spec.md §4.2's comparison rules: strings
// compare lexicographically against strings only; Int, Real, and
// Boolean operands all compare in the numeric category, widening to
// real when either side is Real.
func evalComparison(op ast.Operator, left, right Value, line int) (Value, error) {
	if ls, ok := left.(*runtime.StringValue); ok {
		rs, ok := right.(*runtime.StringValue)
		if !ok {
			return nil, runtime.NewSemanticError(line, runtime.ErrMsgInvalidOperandTypes)
		}
		return boolFromCmp(strings.Compare(ls.Value, rs.Value), op)
	}
	if _, ok := right.(*runtime.StringValue); ok {
		return nil, runtime.NewSemanticError(line, runtime.ErrMsgInvalidOperandTypes)
	}

	lf, lIsNum := asFloat(left)
	rf, rIsNum := asFloat(right)
	if !lIsNum || !rIsNum {
		return nil, runtime.NewSemanticError(line, runtime.ErrMsgInvalidOperandTypes)
	}

	_, lReal := left.(*runtime.RealValue)
	_, rReal := right.(*runtime.RealValue)
	if lReal || rReal {
		return boolFromCmp(compareFloat(lf, rf), op)
	}

	li, _ := runtime.AsIntLike(left)
	ri, _ := runtime.AsIntLike(right)
	return boolFromCmp(compareInt(li, ri), op)
}

// asFloat widens Int, Real, and Boolean operands to float64 for
// categorizing a comparison; any other value reports false.
func asFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case *runtime.RealValue:
		return val.Value, true
	case *runtime.IntegerValue:
		return float64(val.Value), true
	case *runtime.BooleanValue:
		if val.Value {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func compareFloat(l, r float64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func compareInt(l, r int64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func boolFromCmp(cmp int, op ast.Operator) (Value, error) {
	switch op {
	case ast.OpEq:
		return &runtime.BooleanValue{Value: cmp == 0}, nil
	case ast.OpNotEq:
		return &runtime.BooleanValue{Value: cmp != 0}, nil
	case ast.OpLess:
		return &runtime.BooleanValue{Value: cmp < 0}, nil
	case ast.OpLessEq:
		return &runtime.BooleanValue{Value: cmp <= 0}, nil
	case ast.OpGreater:
		return &runtime.BooleanValue{Value: cmp > 0}, nil
	case ast.OpGreaterEq:
		return &runtime.BooleanValue{Value: cmp >= 0}, nil
	default:
		return &runtime.BooleanValue{Value: false}, nil
	}
}
