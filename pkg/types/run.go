// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunStatus summarizes how trustworthy a completed run is. Per prd012-reporting R2.3.
type RunStatus string

const (
	// RunExcellent: found at least the expected baseline count.
	RunExcellent RunStatus = "excellent"

	// RunGood: found at least the configured fraction of the baseline.
	RunGood RunStatus = "good"

	// RunLow: found fewer than the good-fraction threshold.
	RunLow RunStatus = "low"

	// RunIncomplete: the run timed out before all queries finished; the
	// envelope carries whatever was reconciled up to that point.
	RunIncomplete RunStatus = "incomplete"
)

// Comparison is the target-vs-found metric for a run.
type Comparison struct {
	// Expected is the configured baseline count for the molecule.
	Expected int `json:"expected" yaml:"expected"`

	// Found is the number of unified records in the final set.
	Found int `json:"found" yaml:"found"`

	// MatchRate is min(100, found/expected*100), as an integer percentage.
	MatchRate int `json:"match_rate" yaml:"match_rate"`

	// Status bands the match rate: excellent, good, low, or incomplete.
	Status RunStatus `json:"status" yaml:"status"`
}

// QueryOutcome records one executed provider query and its result.
type QueryOutcome struct {
	Provider Provider       `json:"provider" yaml:"provider"`
	Query    string         `json:"query" yaml:"query"`
	Status   ProviderStatus `json:"status" yaml:"status"`
	Results  int            `json:"results" yaml:"results"`
}

// FamilyStats summarizes worldwide family-number discovery and follow-up.
type FamilyStats struct {
	// Found is the total number of distinct WO numbers discovered.
	Found int `json:"found" yaml:"found"`

	// Followed is how many WO numbers were handed to family navigation.
	Followed int `json:"followed" yaml:"followed"`

	// Numbers samples the discovered WO numbers (bounded).
	Numbers []string `json:"numbers,omitempty" yaml:"numbers,omitempty"`
}

// SearchRun is the envelope for one discovery invocation. Owned by the result
// assembler for the duration of the request; never shared across concurrent
// runs. Per prd012-reporting R1.
type SearchRun struct {
	// Identity is the resolved molecule identity (possibly degraded).
	Identity MoleculeIdentity `json:"identity" yaml:"identity"`

	// TargetCountries lists the country prefixes the caller asked for.
	TargetCountries []string `json:"target_countries" yaml:"target_countries"`

	// Queries records every executed query and its outcome, in order.
	Queries []QueryOutcome `json:"queries" yaml:"queries"`

	// Family summarizes WO-number discovery and family navigation.
	Family FamilyStats `json:"family" yaml:"family"`

	// Records is the final deduplicated set, sorted by score descending.
	Records []Unified `json:"records" yaml:"records"`

	// ByCategory counts records per classification category.
	ByCategory map[Category]int `json:"by_category" yaml:"by_category"`

	// ByProvider counts records per contributing provider. A record found by
	// two providers counts once for each.
	ByProvider map[Provider]int `json:"by_provider" yaml:"by_provider"`

	// ByMethod counts records per discovery method ("provider:query").
	ByMethod map[string]int `json:"by_method" yaml:"by_method"`

	// ProviderErrors counts failed calls per provider.
	ProviderErrors map[Provider]int `json:"provider_errors,omitempty" yaml:"provider_errors,omitempty"`

	// IdentityDegraded is set when the identity lookup failed and the run
	// proceeded on name/brand alone.
	IdentityDegraded bool `json:"identity_degraded,omitempty" yaml:"identity_degraded,omitempty"`

	// TimedOut is set when the run budget expired before all queries ran.
	TimedOut bool `json:"timed_out,omitempty" yaml:"timed_out,omitempty"`

	// Comparison is the target-vs-found metric.
	Comparison Comparison `json:"comparison" yaml:"comparison"`

	// Started and Elapsed record run timing.
	Started time.Time     `json:"started" yaml:"started"`
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}
