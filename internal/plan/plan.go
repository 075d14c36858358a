// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan turns a molecule identity into bounded, ordered query lists
// per provider category.
// Implements: prd010-discovery (R1.1-R1.5);
//
//	docs/ARCHITECTURE § Fan-out Planning.
package plan

import (
	"fmt"
	"time"

	"github.com/pdiddy/patent-scout/pkg/types"
)

const (
	defaultBudget             = 8
	defaultCodeLimit          = 2
	defaultWorldwideCodeLimit = 5
)

// Plan produces the ordered query list for each provider category (R1.1).
//
// Every category starts with the molecule name, then the brand when present,
// then up to the category's code limit of alternate codes in identity order.
// The worldwide category additionally receives year-qualified name variants
// over the configured recent-year window (R1.3). Each list is truncated
// deterministically to the per-category budget, keeping earliest-generated
// queries, so identical identities always plan identical runs (R1.5).
//
// Family navigation is not planned here: its queries are the WO numbers the
// worldwide category discovers at run time.
func Plan(identity types.MoleculeIdentity, cfg types.PlannerConfig) map[types.Provider][]string {
	budget := cfg.Budget
	if budget <= 0 {
		budget = defaultBudget
	}
	codeLimit := cfg.CodeLimit
	if codeLimit <= 0 {
		codeLimit = defaultCodeLimit
	}
	wwCodeLimit := cfg.WorldwideCodeLimit
	if wwCodeLimit <= 0 {
		wwCodeLimit = defaultWorldwideCodeLimit
	}

	queries := map[types.Provider][]string{
		types.ProviderWorldwide: base(identity, wwCodeLimit),
		types.ProviderNational:  base(identity, codeLimit),
	}

	if cfg.YearWindow > 0 {
		anchor := cfg.Now
		if anchor.IsZero() {
			anchor = time.Now()
		}
		for i := 0; i < cfg.YearWindow; i++ {
			queries[types.ProviderWorldwide] = append(queries[types.ProviderWorldwide],
				fmt.Sprintf("%s %d", identity.Name, anchor.Year()-i))
		}
	}

	for category, list := range queries {
		if len(list) > budget {
			queries[category] = list[:budget]
		}
	}
	return queries
}

// base builds the shared query prefix: name, brand, alternate codes (R1.2).
func base(identity types.MoleculeIdentity, codeLimit int) []string {
	queries := []string{identity.Name}
	if identity.Brand != "" {
		queries = append(queries, identity.Brand)
	}
	for i, code := range identity.AlternateCodes {
		if i >= codeLimit {
			break
		}
		queries = append(queries, code)
	}
	return queries
}
