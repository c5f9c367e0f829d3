package interp

import (
	"fmt"

	"github.com/nupython-lang/nupython/internal/ast"
	"github.com/nupython-lang/nupython/internal/runtime"
)

// Execute runs the program graph rooted at root against env until the
// cursor falls off the end of the graph or a statement halts it with a
// semantic error (spec.md §4.6). Control never re-enters Execute from
// within a statement's own evaluation; Execute alone chooses the next
// cursor.
//
// On error, the diagnostic is written to stdout in the external wire
// format (spec.md §6) and Execute returns the error; the environment
// keeps whatever writes already landed (spec.md §7 — there is no
// rollback).
func (it *Interpreter) Execute(root ast.Stmt, env *Environment) error {
	cursor := root
	for cursor != nil {
		if it.Trace != nil {
			it.Trace(cursor.StmtLine())
		}

		next, err := it.step(env, cursor)
		if err != nil {
			fmt.Fprintf(it.stdout, "**SEMANTIC ERROR: %s\n", err.Error())
			return err
		}
		cursor = next
	}
	return nil
}

// step executes a single statement and returns the cursor it selects.
// Sequential kinds always return their wired Next; branching kinds defer
// to the Branching interface (spec.md §9's "method/accessor over the
// statement sum type") rather than a type switch naming every concrete
// branching kind.
func (it *Interpreter) step(env *Environment, cursor ast.Stmt) (ast.Stmt, error) {
	switch s := cursor.(type) {
	case *ast.AssignStmt:
		if err := it.execAssign(env, s); err != nil {
			return nil, err
		}
		return s.Next, nil

	case *ast.CallStmt:
		if err := it.execCall(env, s); err != nil {
			return nil, err
		}
		return s.Next, nil

	case *ast.PassStmt:
		return s.Next, nil

	default:
		branch, ok := cursor.(ast.Branching)
		if !ok {
			return nil, runtime.NewSemanticError(cursor.StmtLine(), runtime.ErrMsgUnknownStatement)
		}
		truthy, err := it.evalTruthy(env, branch.Condition())
		if err != nil {
			return nil, err
		}
		return branch.Take(truthy), nil
	}
}

// evalTruthy evaluates a branch condition and enforces spec.md §4.6's
// truthiness rule: only Int and Boolean results are accepted, and the
// condition is true when the payload is non-zero.
func (it *Interpreter) evalTruthy(env *Environment, cond *ast.Expression) (bool, error) {
	v, err := EvalExpression(env, cond)
	if err != nil {
		return false, err
	}
	switch val := v.(type) {
	case *runtime.IntegerValue:
		return val.Value != 0, nil
	case *runtime.BooleanValue:
		return val.Value, nil
	default:
		return false, runtime.NewSemanticError(cond.Line, runtime.ErrMsgConditionMustBeBoolOrInt)
	}
}
