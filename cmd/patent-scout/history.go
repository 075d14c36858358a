// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/patent-scout/internal/report"
	"github.com/pdiddy/patent-scout/internal/stats"
)

var historyCmd = &cobra.Command{
	Use:   "history [molecule]",
	Short: "Show past discovery runs",
	Long: `History lists recorded discovery runs, newest first, with the found/expected
comparison for each. Pass a molecule name to filter, or --summary for
aggregate statistics across all runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	store, err := stats.NewStore(dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		sum, err := store.Summarize(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%d runs across %d molecules\n", sum.Runs, sum.Molecules)
		fmt.Printf("average match rate: %d%%\n", sum.AvgMatchRate)
		fmt.Printf("found %d of %d expected records; %d runs timed out\n",
			sum.TotalFound, sum.TotalExpected, sum.TimedOut)
		return nil
	}

	molecule := ""
	if len(args) > 0 {
		molecule = args[0]
	}
	limit, _ := cmd.Flags().GetInt("limit")

	rows, err := store.History(cmd.Context(), molecule, limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	fmt.Printf("%-20s  %-16s  %-11s  %-10s  %-9s  %s\n",
		"Molecule", "Started", "Found/Exp", "Match", "Status", "Elapsed")
	fmt.Println(strings.Repeat("-", 90))
	for _, r := range rows {
		fmt.Printf("%-20s  %-16s  %3d/%-7d  %8d%%  %-9s  %s\n",
			r.Molecule, r.Started.Format("2006-01-02 15:04"),
			r.Found, r.Expected, r.MatchRate, r.Status, r.Elapsed.Round(time.Second))
	}
	fmt.Printf("\n%d runs\n", len(rows))
	return nil
}

var showCmd = &cobra.Command{
	Use:   "show [run-file]",
	Short: "Render a saved run file",
	Long: `Show reloads a YAML run file written by 'discover --output' and renders it
without re-querying any provider.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := report.LoadRun(args[0])
		if err != nil {
			return err
		}
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return report.FormatJSON(run, os.Stdout)
		}
		report.FormatTable(run, os.Stdout)
		return nil
	},
}

func init() {
	historyCmd.Flags().String("data-dir", "data", "directory for the history database")
	historyCmd.Flags().Int("limit", 20, "maximum runs to list (0 = all)")
	historyCmd.Flags().Bool("summary", false, "print aggregate statistics instead of a listing")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	showCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
}
