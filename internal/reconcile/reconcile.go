// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile merges candidate records from every provider and query
// into one unified record per publication identifier, with full provenance.
// Implements: prd011-reconciliation (R1-R3);
//
//	docs/ARCHITECTURE § Reconciliation.
package reconcile

import (
	"github.com/pdiddy/patent-scout/internal/providers"
	"github.com/pdiddy/patent-scout/pkg/types"
)

// Engine accumulates candidates into unified records keyed by normalized
// publication id. It is a single-writer structure: the pipeline funnels all
// adapter output through one goroutine, so Engine itself takes no locks.
//
// The dedup key is identifier equality only — no fuzzy matching across
// different identifiers. A WO number and its BR family member are distinct
// records; family navigation must surface the BR identifier explicitly for
// it to appear. Identifiers that differ only in kind-code suffix also stay
// distinct (matching upstream behavior; see DESIGN.md).
type Engine struct {
	records map[string]*types.Unified
	order   []string // insertion order, for stable downstream sorting
	dropped int
}

// NewEngine returns an empty reconciliation engine.
func NewEngine() *Engine {
	return &Engine{records: make(map[string]*types.Unified)}
}

// Add folds one candidate into the record set (R1).
//
// The candidate's id is normalized; empty or unparseable ids are dropped
// (R1.2). The first candidate for an id seeds the unified record; later
// candidates merge-fill — each scalar field keeps its existing non-empty
// value and otherwise adopts the candidate's (first non-empty wins per
// field, not per record, so a later richer candidate backfills what an
// earlier sparse one left blank) (R2). The (provider, query) pair is
// recorded whether or not the record was already known (R3).
//
// Merge order only decides which source fills a still-empty field; it never
// overwrites a decided one, so field values are stable under provider
// completion reordering.
func (e *Engine) Add(c types.Candidate) {
	id := providers.NormalizePublicationID(c.PublicationID)
	if id == "" {
		e.dropped++
		return
	}

	u, ok := e.records[id]
	if !ok {
		u = &types.Unified{PublicationID: id}
		e.records[id] = u
		e.order = append(e.order, id)
	}

	fillEmpty(&u.Title, c.Title)
	fillEmpty(&u.Abstract, c.Abstract)
	fillEmpty(&u.Assignee, c.Assignee)
	fillEmpty(&u.FilingDate, c.FilingDate)
	fillEmpty(&u.PublicationDate, c.PublicationDate)
	fillEmpty(&u.LegalStatus, c.LegalStatus)
	if c.RawScore > u.RawScore {
		u.RawScore = c.RawScore
	}

	method := types.DiscoveryMethod{Provider: c.Source, Query: c.Query}
	for _, m := range u.DiscoveryMethods {
		if m == method {
			return
		}
	}
	u.DiscoveryMethods = append(u.DiscoveryMethods, method)
}

func fillEmpty(dst *string, src string) {
	if *dst == "" && src != "" {
		*dst = src
	}
}

// Get returns the unified record for a normalized id, or nil.
func (e *Engine) Get(id string) *types.Unified {
	return e.records[providers.NormalizePublicationID(id)]
}

// Len reports how many unified records exist.
func (e *Engine) Len() int { return len(e.records) }

// Dropped reports how many candidates were discarded for unparseable ids.
func (e *Engine) Dropped() int { return e.dropped }

// Records returns the unified records in first-seen order, classified and
// scored. Call once, after all provider output has been added.
func (e *Engine) Records() []types.Unified {
	out := make([]types.Unified, 0, len(e.order))
	for _, id := range e.order {
		u := *e.records[id]
		u.Category = Classify(u.Title, u.Abstract)
		u.Score = ScoreRecord(u)
		out = append(out, u)
	}
	return out
}
