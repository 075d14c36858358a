package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "patent-scout/0.1"). Per prd010-discovery R5.2.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// IdentityConfig holds settings for the identity resolution stage.
// Per prd009-molecule-identity R3.1-R3.3.
type IdentityConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxRetries bounds 429 retries against the identity API (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// CodeLimit caps how many development codes are extracted (default 10).
	CodeLimit int `json:"code_limit" yaml:"code_limit"`
}

// PlannerConfig holds settings for the query fan-out planner.
// Per prd010-discovery R1.1-R1.5.
type PlannerConfig struct {
	// CodeLimit caps alternate codes per provider category (default 2 for
	// expensive providers; the worldwide crawler uses WorldwideCodeLimit).
	CodeLimit int `json:"code_limit" yaml:"code_limit"`

	// WorldwideCodeLimit caps alternate codes for the worldwide crawler
	// (default 5).
	WorldwideCodeLimit int `json:"worldwide_code_limit" yaml:"worldwide_code_limit"`

	// YearWindow is how many recent years of year-qualified name variants
	// the worldwide category receives (default 0: disabled).
	YearWindow int `json:"year_window" yaml:"year_window"`

	// Budget caps the total queries per provider category (default 8).
	// Truncation is deterministic: earliest-generated queries are kept.
	Budget int `json:"budget" yaml:"budget"`

	// Now anchors year-qualified variants so runs are reproducible. Zero
	// means time.Now at plan time.
	Now time.Time `json:"-" yaml:"-"`
}

// ProviderConfig holds settings shared by the provider adapters and the
// fan-out loop that drives them. Per prd010-discovery R2, R5.
type ProviderConfig struct {
	HTTPConfig `yaml:",inline"`

	// PerQueryLimit caps candidates accepted from one adapter call (default 20).
	PerQueryLimit int `json:"per_query_limit" yaml:"per_query_limit"`

	// CallDelay is the minimum interval between successive calls to the
	// same external collaborator (default 1s).
	CallDelay time.Duration `json:"call_delay" yaml:"call_delay"`

	// CallTimeout bounds one adapter call (default 30s).
	CallTimeout time.Duration `json:"call_timeout" yaml:"call_timeout"`

	// Concurrency is the worker-pool size within one provider category
	// (default 3).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// FamilyFollowLimit caps how many discovered WO numbers are handed to
	// family navigation (default 10).
	FamilyFollowLimit int `json:"family_follow_limit" yaml:"family_follow_limit"`

	// EnrichLimit caps enrichment calls for sparse records (default 10).
	EnrichLimit int `json:"enrich_limit" yaml:"enrich_limit"`
}

// ReportConfig holds settings for result assembly and the comparison metric.
// Thresholds are configuration, not domain truths. Per prd012-reporting R2.
type ReportConfig struct {
	// ExpectedBaseline is the default expected record count when the
	// molecule has no entry in Baselines (default 8).
	ExpectedBaseline int `json:"expected_baseline" yaml:"expected_baseline"`

	// Baselines maps lowercase molecule names to expected counts
	// (e.g. darolutamide: 8, olaparib: 12).
	Baselines map[string]int `json:"baselines,omitempty" yaml:"baselines,omitempty"`

	// GoodFraction is the fraction of the baseline that still rates "good"
	// (default 0.5).
	GoodFraction float64 `json:"good_fraction" yaml:"good_fraction"`
}

// DiscoveryConfig groups all stage configurations for one discovery run.
type DiscoveryConfig struct {
	Identity IdentityConfig `json:"identity" yaml:"identity"`
	Planner  PlannerConfig  `json:"planner" yaml:"planner"`
	Provider ProviderConfig `json:"provider" yaml:"provider"`
	Report   ReportConfig   `json:"report" yaml:"report"`

	// RunTimeout is the total time budget for one run (default 300s). When
	// it expires, in-flight queries are cancelled and the run completes
	// with whatever has been reconciled.
	RunTimeout time.Duration `json:"run_timeout" yaml:"run_timeout"`

	// TargetCountries lists the country prefixes kept in the final set
	// (default ["BR"]).
	TargetCountries []string `json:"target_countries" yaml:"target_countries"`
}
