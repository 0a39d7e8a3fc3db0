// Command prminer mines a set of repositories' closed, unmerged pull
// requests, computes static complexity metrics over their files and writes
// checkpointed CSV batches for downstream model training.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "prminer",
	Short: "Mine pull-request history into complexity-metric datasets",
	Long: `prminer pages through each configured repository's closed and
unmerged pull requests, fetches per-file contents, computes structural and
cyclomatic complexity metrics, aggregates them per pull request and persists
the result as resumable CSV batches.`,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Println("Use `prminer run` to start mining. prminer", version)
	},
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}
