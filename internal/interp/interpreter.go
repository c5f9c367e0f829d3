// Package interp is the execution engine: the expression evaluator, the
// value coercion rules, the statement dispatcher, and the control-flow
// traversal described by spec.md §2. It consumes an *ast.Stmt program
// graph and a *runtime.Environment and executes until the graph is
// exhausted or a semantic error halts it (spec.md §1).
package interp

import (
	"bufio"
	"io"

	"github.com/nupython-lang/nupython/internal/runtime"
)

// Value, Environment, and NewEnvironment are re-exported from runtime so
// callers of this package never need to import it directly — the same
// alias pattern the teacher uses in internal/interp/environment.go
// (`type Environment = runtime.Environment`) to route a lower-level
// package's types through the package callers actually talk to.
type Value = runtime.Value

type Environment = runtime.Environment

// NewEnvironment returns a fresh, empty Environment.
func NewEnvironment() *Environment { return runtime.NewEnvironment() }

// Interpreter executes nuPython program graphs. It holds only the I/O
// streams built-ins need (print's destination, input()'s source); the
// environment is supplied per call to Execute, matching spec.md §6's
// entry-point contract ("takes a pointer to the root statement and a
// pointer to an initialized environment... The caller retains ownership
// of both").
type Interpreter struct {
	stdout io.Writer
	stdin  *bufio.Reader

	// Trace, when set, is called with the line number of every statement
	// before it executes (SPEC_FULL.md §2.1's --trace flag). It is nil by
	// default and costs nothing when unset.
	Trace func(line int)
}

// New creates an Interpreter that writes print() output to stdout and
// reads input() lines from stdin.
func New(stdout io.Writer, stdin io.Reader) *Interpreter {
	return &Interpreter{
		stdout: stdout,
		stdin:  bufio.NewReader(stdin),
	}
}
