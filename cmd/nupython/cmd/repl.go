package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/beevik/cmd"
	"github.com/nupython-lang/nupython/internal/interp"
	"github.com/nupython-lang/nupython/internal/lexer"
	"github.com/nupython-lang/nupython/internal/parser"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive nuPython session",
	Long: `Start a read-eval-print loop. Statements are executed as they are
entered, against a single environment shared for the whole session.
Lines beginning with ':' are meta-commands rather than nuPython source;
type :help to list them.`,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// repl holds the session state a meta-command callback needs: the shared
// environment, the output stream, and whether a trace hook is active.
type repl struct {
	env     *interp.Environment
	it      *interp.Interpreter
	out     io.Writer
	tracing bool
}

// metaCmds is the command tree for REPL meta-commands, grounded on the
// debugger command tree in the example pack's go6502 host package: a
// cmd.Tree whose leaves carry a Data callback, dispatched through
// cmd.Tree.Lookup rather than a hand-rolled switch on the verb.
var metaCmds = cmd.NewTree("nuPython REPL")

func init() {
	metaCmds.AddCommand(cmd.Command{
		Name:        "help",
		Description: "List meta-commands.",
		Usage:       "help",
		Data:        (*repl).cmdHelp,
	})
	metaCmds.AddCommand(cmd.Command{
		Name:        "env",
		Description: "Print every currently bound name and its value.",
		Usage:       "env",
		Data:        (*repl).cmdEnv,
	})
	metaCmds.AddCommand(cmd.Command{
		Name:        "reset",
		Description: "Discard the session's environment and start fresh.",
		Usage:       "reset",
		Data:        (*repl).cmdReset,
	})
	metaCmds.AddCommand(cmd.Command{
		Name:        "trace",
		Description: "Toggle printing the line number of each executed statement.",
		Usage:       "trace",
		Data:        (*repl).cmdTrace,
	})
	metaCmds.AddCommand(cmd.Command{
		Name:        "quit",
		Description: "Exit the REPL.",
		Usage:       "quit",
		Data:        (*repl).cmdQuit,
	})
}

var errQuit = fmt.Errorf("quit")

func (r *repl) cmdHelp(cmd.Selection) error {
	names := make([]string, 0)
	for _, c := range metaCmds.Commands {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	fmt.Fprintln(r.out, "Meta-commands:")
	for _, name := range names {
		c, _ := metaCmds.Lookup(name)
		fmt.Fprintf(r.out, "  :%-8s %s\n", c.Command.Name, c.Command.Description)
	}
	return nil
}

func (r *repl) cmdEnv(cmd.Selection) error {
	names := r.env.Names()
	if len(names) == 0 {
		fmt.Fprintln(r.out, "(empty)")
		return nil
	}
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(r.out, "%s = %s\n", k, names[k].String())
	}
	return nil
}

func (r *repl) cmdReset(cmd.Selection) error {
	r.env = interp.NewEnvironment()
	fmt.Fprintln(r.out, "environment reset")
	return nil
}

func (r *repl) cmdTrace(cmd.Selection) error {
	r.tracing = !r.tracing
	if r.tracing {
		r.it.Trace = func(line int) { fmt.Fprintf(r.out, "[trace] line %d\n", line) }
		fmt.Fprintln(r.out, "trace on")
	} else {
		r.it.Trace = nil
		fmt.Fprintln(r.out, "trace off")
	}
	return nil
}

func (r *repl) cmdQuit(cmd.Selection) error {
	return errQuit
}

func runREPL(_ *cobra.Command, _ []string) error {
	it := interp.New(os.Stdout, os.Stdin)
	r := &repl{env: interp.NewEnvironment(), it: it, out: os.Stdout}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprintln(r.out, "nuPython REPL -- :help for meta-commands, :quit to exit")

	for {
		fmt.Fprint(r.out, ">>> ")
		if !scanner.Scan() {
			return nil
		}
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, ":") {
			if err := r.dispatch(trimmed[1:]); err != nil {
				if err == errQuit {
					return nil
				}
				fmt.Fprintf(r.out, "%v\n", err)
			}
			continue
		}
		if trimmed == "" {
			continue
		}

		buf := line + "\n"
		if strings.HasSuffix(trimmed, ":") {
			for {
				fmt.Fprint(r.out, "... ")
				if !scanner.Scan() {
					break
				}
				cont := scanner.Text()
				if strings.TrimSpace(cont) == "" {
					break
				}
				buf += cont + "\n"
			}
		}
		r.evalChunk(buf)
	}
}

func (r *repl) dispatch(line string) error {
	sel, err := metaCmds.Lookup(line)
	switch {
	case err == cmd.ErrNotFound:
		fmt.Fprintf(r.out, "unknown meta-command: %s (try :help)\n", line)
		return nil
	case err == cmd.ErrAmbiguous:
		fmt.Fprintf(r.out, "ambiguous meta-command: %s\n", line)
		return nil
	case err != nil:
		return err
	}
	handler := sel.Command.Data.(func(*repl, cmd.Selection) error)
	return handler(r, sel)
}

// evalChunk lexes, parses, and executes one REPL entry against the
// session's shared environment. Syntax and semantic errors are reported
// without ending the session.
func (r *repl) evalChunk(source string) {
	p := parser.New(lexer.New(source))
	program, err := p.ParseProgram()
	if err != nil {
		fmt.Fprintf(r.out, "%v\n", err)
		return
	}
	if program == nil {
		return
	}
	if err := r.it.Execute(program, r.env); err != nil {
		// Execute has already written the "**SEMANTIC ERROR" line.
		return
	}
}
