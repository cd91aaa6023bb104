// Package cli wires the apimesh commands: generate (full documentation run)
// and endpoints (detection only).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dirFlag   string
	quietFlag bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "apimesh",
	Short: "apimesh - generate OpenAPI documentation from source code",
	Long: `apimesh scans a JavaScript/TypeScript codebase, detects the HTTP
endpoints it defines, and generates an OpenAPI 3.0 document describing them.

Endpoint handlers are documented from their actual source: each handler is
sliced together with the functions and imports it depends on, and the combined
context is sent to an LLM that produces the OpenAPI fragment for that route.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", ".", "root directory of the codebase to scan")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "disable progress output")
}
