package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "nupython",
	Short:   "nuPython interpreter",
	Version: Version,
	Long: `nupython is a tree-walking interpreter for a small dynamically-typed
Python subset: assignment, print, input, int/float conversion, if/else,
while, and pointer-style dereference assignment.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
`, GitCommit))
}
