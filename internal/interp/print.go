package interp

import (
	"fmt"

	"github.com/nupython-lang/nupython/internal/ast"
	"github.com/nupython-lang/nupython/internal/runtime"
)

// execCall handles a statement-position function call. print is the only
// recognized name (spec.md §4.5); each value kind formats through its own
// String method, so this executor only needs to read the argument and
// append the trailing newline.
func (it *Interpreter) execCall(env *Environment, s *ast.CallStmt) error {
	if s.Function != "print" {
		return runtime.NewSemanticError(s.Line, runtime.ErrMsgUnknownFunctionStmt)
	}
	if s.Arg == nil {
		fmt.Fprintln(it.stdout)
		return nil
	}
	v, err := ReadElement(env, s.Arg)
	if err != nil {
		return err
	}
	fmt.Fprintln(it.stdout, v.String())
	return nil
}
