// Package main is a read-only inspection tool over already-built FAT
// transactions and issuances. It talks to no daemon and holds no state:
// every subcommand reads a chain ID, ext-ids, and content from flags or
// files, reconstructs the value with the fattoken library, and reports
// whether it validates.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fattoken-cli",
	Short: "Inspect FAT-0/FAT-1 transactions and issuances",
	Long: `fattoken-cli reconstructs transactions and issuances from their
wire form (chain ID, ext-ids, content) and reports whether they validate.
It does not submit anything to a chain and keeps no state between runs.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(issuanceCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	Execute()
}
