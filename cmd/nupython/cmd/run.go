package cmd

import (
	"fmt"
	"os"

	"github.com/nupython-lang/nupython/internal/ast"
	"github.com/nupython-lang/nupython/internal/interp"
	"github.com/nupython-lang/nupython/internal/lexer"
	"github.com/nupython-lang/nupython/internal/parser"
	"github.com/spf13/cobra"
)

var (
	evalExpr string
	trace    bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a nuPython script",
	Long: `Execute a nuPython program from a file or an inline expression.

Examples:
  # Run a script file
  nupython run script.npy

  # Evaluate inline source
  nupython run -e 'print(1 + 2)'

  # Run with a per-statement execution trace
  nupython run --trace script.npy`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline source instead of reading from a file")
	runCmd.Flags().BoolVar(&trace, "trace", false, "print the line number of each executed statement to stderr")
}

func runScript(_ *cobra.Command, args []string) error {
	var source string

	switch {
	case evalExpr != "":
		source = evalExpr
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		source = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline source")
	}

	program, err := parseSource(source)
	if err != nil {
		return err
	}

	it := interp.New(os.Stdout, os.Stdin)
	if trace {
		it.Trace = func(line int) {
			fmt.Fprintf(os.Stderr, "[trace] line %d\n", line)
		}
	}

	if err := it.Execute(program, interp.NewEnvironment()); err != nil {
		return fmt.Errorf("execution halted: %w", err)
	}
	return nil
}

// parseSource lexes and parses source into a program graph, reporting the
// first syntax error encountered (nuPython's parser does not attempt
// error recovery).
func parseSource(source string) (ast.Stmt, error) {
	p := parser.New(lexer.New(source))
	return p.ParseProgram()
}
