// Command nupython runs or interactively evaluates nuPython programs.
package main

import (
	"fmt"
	"os"

	"github.com/nupython-lang/nupython/cmd/nupython/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
