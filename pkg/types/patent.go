// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the patent-scout pipeline.
// Implements: prd010-discovery (MoleculeIdentity, Candidate, Unified);
//
//	prd011-reconciliation (DiscoveryMethod, Category);
//	prd012-reporting (SearchRun envelope).
//
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

// Provider identifies one of the external data sources the pipeline queries.
type Provider string

const (
	ProviderIdentity  Provider = "identity"
	ProviderWorldwide Provider = "worldwide-search"
	ProviderNational  Provider = "national-office"
	ProviderFamily    Provider = "family-navigation"
)

// ProviderStatus reports the outcome of a single adapter call. Adapters never
// return errors; a failed call yields an empty candidate list and a non-ok
// status. Per prd010-discovery R3.2.
type ProviderStatus string

const (
	StatusOK            ProviderStatus = "ok"
	StatusEmpty         ProviderStatus = "empty"
	StatusProviderError ProviderStatus = "provider-error"
	StatusRateLimited   ProviderStatus = "rate-limited"
)

// MoleculeIdentity is the canonical identity bundle for one molecule,
// resolved once per run and immutable afterwards. Per prd009-molecule-identity R1.1-R1.3.
type MoleculeIdentity struct {
	// Name is the molecule's chemical or generic name (e.g. "Darolutamide").
	Name string `json:"name" yaml:"name"`

	// Brand is the marketed brand name, when known (e.g. "Nubeqa").
	Brand string `json:"brand,omitempty" yaml:"brand,omitempty"`

	// CID is the compound identifier from the identity provider, zero when
	// resolution was degraded.
	CID int64 `json:"cid,omitempty" yaml:"cid,omitempty"`

	// AlternateCodes lists sponsor development codes (e.g. "ODM-201",
	// "BAY-1841788"), deduplicated, insertion order preserved.
	AlternateCodes []string `json:"alternate_codes,omitempty" yaml:"alternate_codes,omitempty"`

	// Synonyms lists other names for the molecule, capped at MaxSynonyms.
	Synonyms []string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`
}

// MaxSynonyms bounds the synonym list carried on a MoleculeIdentity.
const MaxSynonyms = 50

// Degraded reports whether identity resolution returned only the caller's
// own inputs. A degraded identity still produces a valid run. Per
// prd009-molecule-identity R2.4.
func (m MoleculeIdentity) Degraded() bool {
	return m.CID == 0 && len(m.AlternateCodes) == 0 && len(m.Synonyms) == 0
}

// Candidate is a patent reference as returned by one provider call, before
// reconciliation. Ephemeral: consumed by the reconciliation engine and never
// persisted standalone. Per prd010-discovery R4.1.
type Candidate struct {
	// PublicationID is the raw identifier as returned by the provider.
	// Adapters normalize defensively before emitting, but the engine
	// re-normalizes; empty or unparseable ids are dropped.
	PublicationID string `json:"publication_id" yaml:"publication_id"`

	// Title is the patent title, when the provider supplied one.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Abstract is the patent abstract or summary.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Assignee is the current assignee or applicant.
	Assignee string `json:"assignee,omitempty" yaml:"assignee,omitempty"`

	// FilingDate is the filing/deposit date string as supplied by the provider.
	FilingDate string `json:"filing_date,omitempty" yaml:"filing_date,omitempty"`

	// PublicationDate is the publication date string, when supplied.
	PublicationDate string `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`

	// LegalStatus is the provider's view of the document's legal status.
	LegalStatus string `json:"legal_status,omitempty" yaml:"legal_status,omitempty"`

	// Source identifies the provider that returned this candidate.
	Source Provider `json:"source" yaml:"source"`

	// Query is the query string that surfaced this candidate.
	Query string `json:"query" yaml:"query"`

	// RawScore is the provider-assigned relevance prior. Zero means the
	// provider offered no prior; scoring substitutes the default.
	RawScore int `json:"raw_score,omitempty" yaml:"raw_score,omitempty"`
}

// DiscoveryMethod records one (provider, query) pair that surfaced a record.
type DiscoveryMethod struct {
	Provider Provider `json:"provider" yaml:"provider"`
	Query    string   `json:"query" yaml:"query"`
}

// String renders the method as "provider:query" for grouping keys.
func (d DiscoveryMethod) String() string {
	return string(d.Provider) + ":" + d.Query
}

// Category labels the patent-law flavor of a record, assigned by the
// classifier's fixed-priority keyword scan. Per prd011-reconciliation R4.1.
type Category string

const (
	CategoryComposition Category = "COMPOSITION"
	CategoryCrystalline Category = "CRYSTALLINE"
	CategorySalt        Category = "SALT"
	CategoryFormulation Category = "FORMULATION"
	CategoryProcess     Category = "PROCESS"
	CategoryMedicalUse  Category = "MEDICAL_USE"
	CategoryCombination Category = "COMBINATION"
	CategoryOther       Category = "OTHER"
)

// Unified is the deduplicated, canonical patent entry. Created the first time
// a normalized PublicationID is seen; later candidates with the same id
// backfill empty fields and extend DiscoveryMethods. Per prd011-reconciliation R1-R3.
type Unified struct {
	// PublicationID is the normalized identifier: uppercase country prefix,
	// no spaces or hyphens. Unique within a run — this is the dedup key.
	PublicationID string `json:"publication_id" yaml:"publication_id"`

	Title           string `json:"title,omitempty" yaml:"title,omitempty"`
	Abstract        string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Assignee        string `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	FilingDate      string `json:"filing_date,omitempty" yaml:"filing_date,omitempty"`
	PublicationDate string `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`
	LegalStatus     string `json:"legal_status,omitempty" yaml:"legal_status,omitempty"`

	// DiscoveryMethods lists every (provider, query) pair that surfaced this
	// identifier, in first-seen order, without duplicates.
	DiscoveryMethods []DiscoveryMethod `json:"discovery_methods" yaml:"discovery_methods"`

	// Category is assigned by the classifier once all provider calls complete.
	Category Category `json:"category,omitempty" yaml:"category,omitempty"`

	// Score is the relevance score in [0, 15], assigned by the scorer.
	Score int `json:"score" yaml:"score"`

	// RawScore is the best provider-assigned prior among contributors.
	RawScore int `json:"-" yaml:"-"`
}
