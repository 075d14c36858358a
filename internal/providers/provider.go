// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package providers implements the adapters that query external patent data
// sources. Each adapter (worldwide-search crawler, national-office API,
// family-navigation API) implements the Adapter interface per the Strategy
// pattern. Adapters convert every failure — timeout, non-success HTTP
// status, parse error — into a status value: they never return an error and
// never abort the pipeline.
// Implements: prd010-discovery (R2-R3, R5);
//
//	docs/ARCHITECTURE § Provider Adapters.
package providers

import (
	"context"

	"github.com/pdiddy/patent-scout/pkg/types"
)

// Adapter executes queries against one external collaborator.
//
// Search returns at most limit candidates for the query. Enrich fetches
// detail fields for one already-discovered publication id. Both normalize
// identifiers defensively before emitting so the reconciliation engine can
// rely on direct string equality (R2.2).
//
// Adapters contain no retry logic; retries and pacing belong to the fan-out
// loop (R2.4). Rate limiting is external, via Limiter.
type Adapter interface {
	Name() types.Provider
	Search(ctx context.Context, query string, limit int) ([]types.Candidate, types.ProviderStatus)
	Enrich(ctx context.Context, publicationID string) (types.Candidate, types.ProviderStatus)
}

// searchStatus derives the status for a completed Search call.
func searchStatus(n int) types.ProviderStatus {
	if n == 0 {
		return types.StatusEmpty
	}
	return types.StatusOK
}
