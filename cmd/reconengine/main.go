// reconengine reconciles a bank trade extract against a counterparty
// extract and emits matching decisions and triage outcomes as JSON lines.
//
// Usage:
//
//	reconengine reconcile --bank <csv> --counterparty <csv> [--out <jsonl>]
//	    [--config <yaml>] [--snapshot <path>]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "reconengine",
	Short: "Trade reconciliation decision engine",
	Long: "reconengine matches bank and counterparty views of the same trades,\n" +
		"classifies each pair, and triages exceptions with severity, routing and SLA.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
