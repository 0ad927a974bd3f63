package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored analysis runs",
	Long: `List analysis runs persisted in the run store, newest first.

Examples:
  clg runs
  clg runs -n 50`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Maximum number of runs to show")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	eng, _, err := newEngine()
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	runs, err := eng.ListRuns(runsLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No stored runs.")
		return nil
	}

	w := os.Stdout
	fmt.Fprintf(w, "%-40s  %-20s  %-14s  %6s  %6s\n", "RUN", "CREATED", "TYPE", "NODES", "EDGES")
	for _, r := range runs {
		fmt.Fprintf(w, "%-40s  %-20s  %-14s  %6d  %6d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.ChangeType, r.NodeCount, r.EdgeCount)
	}
	return nil
}
