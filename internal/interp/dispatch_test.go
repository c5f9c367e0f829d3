package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nupython-lang/nupython/internal/ast"
)

// TestExecuteAssignmentAndPrint covers spec scenario 1: x = 7; y = 5; print(x + y).
func TestExecuteAssignmentAndPrint(t *testing.T) {
	printStmt := &ast.CallStmt{Function: "print", Line: 3}
	// print(x + y) — the argument needs a full expression, not a bare
	// element, so it is modeled the same way a real parser would: an
	// intermediate identifier is not needed here because CallStmt.Arg is
	// a single element. We compute x + y through an assignment into a
	// throwaway name instead to stay within the executor's own grammar.
	sum := &ast.AssignStmt{Target: "z", RHS: &ast.Expression{Left: &ast.Element{Kind: ast.ElemIdentifier, Text: "x"}, Op: ast.OpAdd, Right: &ast.Element{Kind: ast.ElemIdentifier, Text: "y"}, Line: 3}, Line: 3, Next: printStmt}
	printStmt.Arg = &ast.Element{Kind: ast.ElemIdentifier, Text: "z"}

	y := &ast.AssignStmt{Target: "y", RHS: &ast.Expression{Left: intEl("5")}, Line: 2, Next: sum}
	x := &ast.AssignStmt{Target: "x", RHS: &ast.Expression{Left: intEl("7")}, Line: 1, Next: y}

	var out bytes.Buffer
	it := New(&out, strings.NewReader(""))
	if err := it.Execute(x, NewEnvironment()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "12\n" {
		t.Errorf("got %q, want %q", out.String(), "12\n")
	}
}

// TestExecuteRealFormatting covers spec scenario 2: a = 1.5; b = 2.0; print(a * b).
func TestExecuteRealFormatting(t *testing.T) {
	print := &ast.CallStmt{Function: "print", Arg: &ast.Element{Kind: ast.ElemIdentifier, Text: "c"}, Line: 3}
	c := &ast.AssignStmt{Target: "c", RHS: &ast.Expression{Left: &ast.Element{Kind: ast.ElemIdentifier, Text: "a"}, Op: ast.OpMul, Right: &ast.Element{Kind: ast.ElemIdentifier, Text: "b"}, Line: 3}, Line: 3, Next: print}
	b := &ast.AssignStmt{Target: "b", RHS: &ast.Expression{Left: realEl("2.0")}, Line: 2, Next: c}
	a := &ast.AssignStmt{Target: "a", RHS: &ast.Expression{Left: realEl("1.5")}, Line: 1, Next: b}

	var out bytes.Buffer
	it := New(&out, strings.NewReader(""))
	if err := it.Execute(a, NewEnvironment()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "3.000000\n" {
		t.Errorf("got %q, want %q", out.String(), "3.000000\n")
	}
}

// TestExecuteInputAndConversion covers spec scenario 3: s = input("? "); n = int(s); print(n * 2).
func TestExecuteInputAndConversion(t *testing.T) {
	print := &ast.CallStmt{Function: "print", Arg: &ast.Element{Kind: ast.ElemIdentifier, Text: "r"}, Line: 3}
	r := &ast.AssignStmt{Target: "r", RHS: &ast.Expression{Left: &ast.Element{Kind: ast.ElemIdentifier, Text: "n"}, Op: ast.OpMul, Right: intEl("2"), Line: 3}, Line: 3, Next: print}
	n := &ast.AssignStmt{Target: "n", RHS: &ast.BuiltinCall{Function: "int", Arg: &ast.Element{Kind: ast.ElemIdentifier, Text: "s"}}, Line: 2, Next: r}
	s := &ast.AssignStmt{Target: "s", RHS: &ast.BuiltinCall{Function: "input", Arg: strEl("? ")}, Line: 1, Next: n}

	var out bytes.Buffer
	it := New(&out, strings.NewReader("42\n"))
	if err := it.Execute(s, NewEnvironment()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "? 84\n" {
		t.Errorf("got %q, want %q", out.String(), "? 84\n")
	}
}

// TestExecuteDivideByZeroHalts covers spec scenario 4.
func TestExecuteDivideByZeroHalts(t *testing.T) {
	after := &ast.CallStmt{Function: "print", Arg: strEl("after"), Line: 4}
	c := &ast.AssignStmt{Target: "c", RHS: &ast.Expression{Left: &ast.Element{Kind: ast.ElemIdentifier, Text: "a"}, Op: ast.OpDiv, Right: &ast.Element{Kind: ast.ElemIdentifier, Text: "b"}, Line: 3}, Line: 3, Next: after}
	b := &ast.AssignStmt{Target: "b", RHS: &ast.Expression{Left: intEl("0")}, Line: 2, Next: c}
	a := &ast.AssignStmt{Target: "a", RHS: &ast.Expression{Left: intEl("10")}, Line: 1, Next: b}

	var out bytes.Buffer
	it := New(&out, strings.NewReader(""))
	err := it.Execute(a, NewEnvironment())
	if err == nil {
		t.Fatal("expected divide-by-zero to halt execution")
	}
	if out.String() != "**SEMANTIC ERROR: divide by 0 (line 3)\n" {
		t.Errorf("got %q", out.String())
	}
	if strings.Contains(out.String(), "after") {
		t.Errorf("output should not contain \"after\": %q", out.String())
	}
}

// TestExecuteWhileLoopCounting covers spec scenario 5: i = 0; while i < 3: print(i); i = i + 1.
func TestExecuteWhileLoopCounting(t *testing.T) {
	whileStmt := &ast.WhileStmt{Line: 2}
	printI := &ast.CallStmt{Function: "print", Arg: &ast.Element{Kind: ast.ElemIdentifier, Text: "i"}, Line: 3}
	incr := &ast.AssignStmt{Target: "i", RHS: &ast.Expression{Left: &ast.Element{Kind: ast.ElemIdentifier, Text: "i"}, Op: ast.OpAdd, Right: intEl("1"), Line: 4}, Line: 4, Next: whileStmt}
	printI.Next = incr
	whileStmt.Cond = &ast.Expression{Left: &ast.Element{Kind: ast.ElemIdentifier, Text: "i"}, Op: ast.OpLess, Right: intEl("3"), Line: 2}
	whileStmt.LoopBody = printI
	whileStmt.Next = nil

	init := &ast.AssignStmt{Target: "i", RHS: &ast.Expression{Left: intEl("0")}, Line: 1, Next: whileStmt}

	var out bytes.Buffer
	it := New(&out, strings.NewReader(""))
	if err := it.Execute(init, NewEnvironment()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "0\n1\n2\n" {
		t.Errorf("got %q, want %q", out.String(), "0\n1\n2\n")
	}
}

// TestExecuteIfElseMixedNumericComparison covers spec scenario 6:
// x = 3; y = 3.0; if x == y: print("eq") else: print("ne").
func TestExecuteIfElseMixedNumericComparison(t *testing.T) {
	printEq := &ast.CallStmt{Function: "print", Arg: strEl("eq"), Line: 3}
	printNe := &ast.CallStmt{Function: "print", Arg: strEl("ne"), Line: 3}
	ifStmt := &ast.IfStmt{
		Cond:      &ast.Expression{Left: &ast.Element{Kind: ast.ElemIdentifier, Text: "x"}, Op: ast.OpEq, Right: &ast.Element{Kind: ast.ElemIdentifier, Text: "y"}, Line: 3},
		TruePath:  printEq,
		FalsePath: printNe,
		Line:      3,
	}
	y := &ast.AssignStmt{Target: "y", RHS: &ast.Expression{Left: realEl("3.0")}, Line: 2, Next: ifStmt}
	x := &ast.AssignStmt{Target: "x", RHS: &ast.Expression{Left: intEl("3")}, Line: 1, Next: y}

	var out bytes.Buffer
	it := New(&out, strings.NewReader(""))
	if err := it.Execute(x, NewEnvironment()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "eq\n" {
		t.Errorf("got %q, want %q", out.String(), "eq\n")
	}
}

func TestExecuteUnknownStatementHalts(t *testing.T) {
	var out bytes.Buffer
	it := New(&out, strings.NewReader(""))
	err := it.Execute(unknownStmt{line: 1}, NewEnvironment())
	if err == nil || err.Error() != "unknown statement type (line 1)" {
		t.Errorf("got %v, want unknown statement type (line 1)", err)
	}
}

func TestExecuteTraceHookCalledPerStatement(t *testing.T) {
	var out bytes.Buffer
	it := New(&out, strings.NewReader(""))
	var lines []int
	it.Trace = func(line int) { lines = append(lines, line) }

	second := &ast.PassStmt{Line: 2}
	first := &ast.PassStmt{Line: 1, Next: second}
	if err := it.Execute(first, NewEnvironment()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 || lines[0] != 1 || lines[1] != 2 {
		t.Errorf("trace lines = %v, want [1 2]", lines)
	}
}

// unknownStmt implements neither Sequential nor Branching, exercising the
// dispatcher's "other" row (spec.md §4.6).
type unknownStmt struct{ line int }

func (s unknownStmt) StmtLine() int { return s.line }
