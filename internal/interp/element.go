package interp

import (
	"strconv"

	"github.com/nupython-lang/nupython/internal/ast"
	"github.com/nupython-lang/nupython/internal/runtime"
)

// ReadElement converts a leaf parse element into an owned runtime value
// (spec.md §4.1). Numeric literal text is parsed on demand here rather
// than at parse time, matching the element's documented contract: "the
// textual form of a numeric literal is carried as a string and parsed on
// demand". The parser guarantees well-formed literal text, so the parse
// failure branches below exist for robustness rather than any reachable
// program.
func ReadElement(env *Environment, el *ast.Element) (Value, error) {
	switch el.Kind {
	case ast.ElemIntLiteral:
		n, err := strconv.ParseInt(el.Text, 10, 64)
		if err != nil {
			return nil, runtime.NewSemanticError(el.Line, runtime.ErrMsgUnsupportedElementType)
		}
		return &runtime.IntegerValue{Value: n}, nil

	case ast.ElemRealLiteral:
		f, err := strconv.ParseFloat(el.Text, 64)
		if err != nil {
			return nil, runtime.NewSemanticError(el.Line, runtime.ErrMsgUnsupportedElementType)
		}
		return &runtime.RealValue{Value: f}, nil

	case ast.ElemStringLiteral:
		// A fresh copy each time: two elements that happen to carry the
		// same text must never alias the same StringValue.
		return &runtime.StringValue{Value: el.Text}, nil

	case ast.ElemTrue:
		return &runtime.BooleanValue{Value: true}, nil

	case ast.ElemFalse:
		return &runtime.BooleanValue{Value: false}, nil

	case ast.ElemIdentifier:
		v, ok := env.Read(el.Text)
		if !ok {
			return nil, runtime.NewSemanticError(el.Line, runtime.ErrMsgNameUndefined, el.Text)
		}
		return v, nil

	default:
		return nil, runtime.NewSemanticError(el.Line, runtime.ErrMsgUnsupportedElementType)
	}
}
