// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report assembles the final envelope for a discovery run: ranking,
// aggregate statistics, the target-vs-found comparison, and renderers.
// Implements: prd012-reporting (R1-R3);
//
//	docs/ARCHITECTURE § Result Assembly.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/patent-scout/pkg/types"
)

// Assemble ranks the records and fills the run's aggregate statistics and
// comparison metric (R1.1, R1.3). Records must arrive in discovery order:
// the sort is stable, so score ties keep that order (R1.2).
func Assemble(run *types.SearchRun, records []types.Unified, cfg types.ReportConfig) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})
	run.Records = records

	run.ByCategory = make(map[types.Category]int)
	run.ByProvider = make(map[types.Provider]int)
	run.ByMethod = make(map[string]int)
	for _, u := range records {
		run.ByCategory[u.Category]++
		seen := make(map[types.Provider]bool)
		for _, m := range u.DiscoveryMethods {
			run.ByMethod[m.String()]++
			if !seen[m.Provider] {
				seen[m.Provider] = true
				run.ByProvider[m.Provider]++
			}
		}
	}

	run.Comparison = compare(run.Identity.Name, len(records), run.TimedOut, cfg)
}

// compare computes the target-vs-found metric (R2.1-R2.3). The expected
// baseline is a per-molecule lookup with a configured default; thresholds
// band the match rate, and a timed-out run is always flagged incomplete.
func compare(molecule string, found int, timedOut bool, cfg types.ReportConfig) types.Comparison {
	expected := cfg.ExpectedBaseline
	if expected <= 0 {
		expected = 8
	}
	if n, ok := cfg.Baselines[strings.ToLower(molecule)]; ok && n > 0 {
		expected = n
	}

	rate := found * 100 / expected
	if rate > 100 {
		rate = 100
	}

	goodFraction := cfg.GoodFraction
	if goodFraction <= 0 {
		goodFraction = 0.5
	}

	c := types.Comparison{
		Expected:  expected,
		Found:     found,
		MatchRate: rate,
	}
	switch {
	case timedOut:
		c.Status = types.RunIncomplete
	case found >= expected:
		c.Status = types.RunExcellent
	case float64(found) >= goodFraction*float64(expected):
		c.Status = types.RunGood
	default:
		c.Status = types.RunLow
	}
	return c
}

// FormatTable writes the run as a human-readable table to w.
func FormatTable(run *types.SearchRun, w io.Writer) {
	fmt.Fprintf(w, "Molecule: %s", run.Identity.Name)
	if run.Identity.Brand != "" {
		fmt.Fprintf(w, " (%s)", run.Identity.Brand)
	}
	if run.IdentityDegraded {
		fmt.Fprintf(w, "  [identity degraded]")
	}
	fmt.Fprintln(w)

	if len(run.Records) == 0 {
		fmt.Fprintln(w, "No patents found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-16s  %-50s  %-12s  %-5s  %s\n",
		"Rank", "Publication", "Title", "Category", "Score", "Found by")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range run.Records {
		title := r.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-16s  %-50s  %-12s  %-5d  %s\n",
			i+1, r.PublicationID, title, r.Category, r.Score, formatMethods(r.DiscoveryMethods))
	}

	fmt.Fprintf(w, "\n%d records, %d/%d expected (%d%%, %s)",
		len(run.Records), run.Comparison.Found, run.Comparison.Expected,
		run.Comparison.MatchRate, run.Comparison.Status)
	if run.TimedOut {
		fmt.Fprintf(w, " [timed out]")
	}
	fmt.Fprintln(w)
}

// FormatJSON writes the full run envelope as indented JSON to w.
func FormatJSON(run *types.SearchRun, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

func formatMethods(methods []types.DiscoveryMethod) string {
	switch len(methods) {
	case 0:
		return ""
	case 1:
		return string(methods[0].Provider)
	default:
		return fmt.Sprintf("%s +%d", methods[0].Provider, len(methods)-1)
	}
}
