package interp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nupython-lang/nupython/internal/ast"
	"github.com/nupython-lang/nupython/internal/runtime"
)

// inputLineLimit mirrors the source's fgets(buf, 256, stdin): at most 255
// data bytes are kept, matching a 256-byte buffer reserved for a
// trailing NUL the Go string representation has no use for.
const inputLineLimit = 255

// EvalBuiltinCall evaluates input(), int(), or float() appearing as an
// assignment's right-hand side (spec.md §4.3).
func EvalBuiltinCall(it *Interpreter, env *Environment, call *ast.BuiltinCall) (Value, error) {
	switch call.Function {
	case "input":
		return evalInput(it, call)
	case "int":
		return evalIntConversion(env, call)
	case "float":
		return evalFloatConversion(env, call)
	default:
		return nil, runtime.NewSemanticError(call.Line, runtime.ErrMsgUnknownFunctionExpr, call.Function)
	}
}

func evalInput(it *Interpreter, call *ast.BuiltinCall) (Value, error) {
	if call.Arg == nil || call.Arg.Kind != ast.ElemStringLiteral {
		return nil, runtime.NewSemanticError(call.Line, runtime.ErrMsgInputRequiresStringLit)
	}

	fmt.Fprint(it.stdout, call.Arg.Text)

	var buf []byte
	for len(buf) < inputLineLimit {
		b, err := it.stdin.ReadByte()
		if err != nil {
			break
		}
		buf = append(buf, b)
		if b == '\n' {
			break
		}
	}
	line := strings.TrimRight(string(buf), "\r\n")
	return &runtime.StringValue{Value: line}, nil
}

func evalIntConversion(env *Environment, call *ast.BuiltinCall) (Value, error) {
	if call.Arg == nil || call.Arg.Kind != ast.ElemIdentifier {
		return nil, runtime.NewSemanticError(call.Line, runtime.ErrMsgIntRequiresVariable)
	}
	v, ok := env.Read(call.Arg.Text)
	if !ok {
		return nil, runtime.NewSemanticError(call.Line, runtime.ErrMsgNameUndefined, call.Arg.Text)
	}
	sv, ok := v.(*runtime.StringValue)
	if !ok {
		return nil, runtime.NewSemanticError(call.Line, runtime.ErrMsgIntRequiresString)
	}

	if isAllZeros(sv.Value) {
		return &runtime.IntegerValue{Value: 0}, nil
	}
	n, ok := parseIntPrefix(sv.Value)
	if !ok || n == 0 {
		return nil, runtime.NewSemanticError(call.Line, runtime.ErrMsgInvalidStringForInt)
	}
	return &runtime.IntegerValue{Value: n}, nil
}

func evalFloatConversion(env *Environment, call *ast.BuiltinCall) (Value, error) {
	if call.Arg == nil || call.Arg.Kind != ast.ElemIdentifier {
		return nil, runtime.NewSemanticError(call.Line, runtime.ErrMsgFloatRequiresVariable)
	}
	v, ok := env.Read(call.Arg.Text)
	if !ok {
		return nil, runtime.NewSemanticError(call.Line, runtime.ErrMsgNameUndefined, call.Arg.Text)
	}
	sv, ok := v.(*runtime.StringValue)
	if !ok {
		return nil, runtime.NewSemanticError(call.Line, runtime.ErrMsgFloatRequiresString)
	}

	if isAllZerosOrDot(sv.Value) {
		return &runtime.RealValue{Value: 0}, nil
	}
	f, ok := parseFloatPrefix(sv.Value)
	if !ok || f == 0 {
		return nil, runtime.NewSemanticError(call.Line, runtime.ErrMsgInvalidStringForFloat)
	}
	return &runtime.RealValue{Value: f}, nil
}

func isAllZeros(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c != '0' {
			return false
		}
	}
	return true
}

func isAllZerosOrDot(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c != '0' && c != '.' {
			return false
		}
	}
	return true
}

// parseIntPrefix implements the atoi convention: skip leading whitespace,
// accept one optional sign, then consume as many digits as possible. It
// reports false when no digits were found at all.
func parseIntPrefix(s string) (int64, bool) {
	i, n := 0, len(s)
	for i < n && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	start := i
	if i < n && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digitsStart := i
	for i < n && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digitsStart {
		return 0, false
	}
	val, err := strconv.ParseInt(s[start:i], 10, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// parseFloatPrefix implements the atof convention: leading whitespace,
// optional sign, digits, optional fractional part, optional exponent.
func parseFloatPrefix(s string) (float64, bool) {
	i, n := 0, len(s)
	for i < n && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	start := i
	if i < n && (s[i] == '+' || s[i] == '-') {
		i++
	}
	hadDigits := false
	for i < n && s[i] >= '0' && s[i] <= '9' {
		i++
		hadDigits = true
	}
	if i < n && s[i] == '.' {
		i++
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
			hadDigits = true
		}
	}
	if !hadDigits {
		return 0, false
	}
	end := i
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < n && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < n && s[k] >= '0' && s[k] <= '9' {
			k++
		}
		if k > j {
			end = k
		}
	}
	val, err := strconv.ParseFloat(s[start:end], 64)
	if err != nil {
		return 0, false
	}
	return val, true
}
