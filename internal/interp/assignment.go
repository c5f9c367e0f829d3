package interp

import (
	"github.com/nupython-lang/nupython/internal/ast"
	"github.com/nupython-lang/nupython/internal/runtime"
)

// execAssign resolves the left-hand target and writes the evaluated
// right-hand side through the environment (spec.md §4.4).
func (it *Interpreter) execAssign(env *Environment, s *ast.AssignStmt) error {
	value, err := it.evalRHS(env, s.RHS, s.Line)
	if err != nil {
		return err
	}

	if !s.Deref {
		env.Write(s.Target, value)
		return nil
	}

	// Pointer dereference: the target name must itself hold an address.
	// All three ways this can go wrong — the name is unbound, it isn't an
	// Int, or the address write is rejected — collapse to the same
	// diagnostic (spec.md §4.4).
	addr, ok := env.Read(s.Target)
	if !ok {
		return runtime.NewSemanticError(s.Line, runtime.ErrMsgInvalidAddress)
	}
	addrInt, ok := addr.(*runtime.IntegerValue)
	if !ok {
		return runtime.NewSemanticError(s.Line, runtime.ErrMsgInvalidAddress)
	}
	if err := env.WriteAddr(int(addrInt.Value), value); err != nil {
		return runtime.NewSemanticError(s.Line, runtime.ErrMsgInvalidAddress)
	}
	return nil
}

// evalRHS evaluates the right-hand side of an assignment, which the
// parser has already resolved to either an expression or a built-in call.
func (it *Interpreter) evalRHS(env *Environment, rhs ast.RHS, line int) (Value, error) {
	switch r := rhs.(type) {
	case *ast.Expression:
		return EvalExpression(env, r)
	case *ast.BuiltinCall:
		return EvalBuiltinCall(it, env, r)
	default:
		return nil, runtime.NewSemanticError(line, runtime.ErrMsgUnsupportedAssignmentType)
	}
}
