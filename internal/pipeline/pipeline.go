// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates one discovery run: identity resolution, query
// planning, phased provider fan-out, reconciliation, and result assembly.
// Implements: prd010-discovery (R5), prd011-reconciliation (R1), prd012-reporting (R1);
//
//	docs/ARCHITECTURE § Pipeline.
package pipeline

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/patent-scout/internal/plan"
	"github.com/pdiddy/patent-scout/internal/providers"
	"github.com/pdiddy/patent-scout/internal/reconcile"
	"github.com/pdiddy/patent-scout/internal/report"
	"github.com/pdiddy/patent-scout/pkg/types"
)

// ErrNoProviders is the only hard failure a run can produce: the caller
// configured no provider adapters at all. Everything else degrades into
// statistics on the run envelope.
var ErrNoProviders = errors.New("no provider adapters configured")

// Resolver turns a molecule name/brand into an identity bundle.
type Resolver func(ctx context.Context, name, brand string) (types.MoleculeIdentity, error)

// Deps carries the pipeline's collaborators. Adapters own their transport;
// Limiters (keyed by provider) pace calls to each external collaborator.
type Deps struct {
	Resolve  Resolver
	Adapters []providers.Adapter
	Limiters map[types.Provider]*providers.Limiter
}

func (d Deps) adapter(name types.Provider) providers.Adapter {
	for _, a := range d.Adapters {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// woSampleLimit bounds the WO numbers sampled onto the run envelope.
const woSampleLimit = 10

// minTitleLen is the title length below which a record is considered sparse
// and eligible for enrichment.
const minTitleLen = 10

// woNumberPattern strips the kind code off a WO publication id so repeated
// publications of the same application collapse for family follow-up.
var woNumberPattern = regexp.MustCompile(`^WO\d+`)

// Discover executes one full discovery run. The returned envelope is always
// populated, even when the run times out (TimedOut set, partial records,
// status incomplete); the only error is ErrNoProviders.
func Discover(ctx context.Context, deps Deps, name, brand string, cfg types.DiscoveryConfig) (*types.SearchRun, error) {
	if len(deps.Adapters) == 0 {
		return nil, ErrNoProviders
	}
	applyDefaults(&cfg)

	started := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	run := &types.SearchRun{
		TargetCountries: cfg.TargetCountries,
		ProviderErrors:  make(map[types.Provider]int),
		Started:         started,
	}

	if deps.Resolve != nil {
		id, err := deps.Resolve(runCtx, name, brand)
		run.Identity = id
		run.IdentityDegraded = err != nil
	} else {
		run.Identity = types.MoleculeIdentity{Name: name, Brand: brand}
	}

	planned := plan.Plan(run.Identity, cfg.Planner)
	st := &runState{
		run:     run,
		engine:  reconcile.NewEngine(),
		woSeen:  make(map[string]bool),
		targets: cfg.TargetCountries,
	}

	// Phase A: worldwide and national categories in parallel; each category
	// runs its own bounded worker pool against the shared limiter.
	st.phase(func(out chan<- message) {
		g, gctx := errgroup.WithContext(runCtx)
		for _, a := range deps.Adapters {
			queries := planned[a.Name()]
			if len(queries) == 0 {
				continue
			}
			a := a
			g.Go(func() error {
				fanOut(gctx, a, queries, deps.Limiters[a.Name()], cfg.Provider, out)
				return nil
			})
		}
		g.Wait()
	})

	// Phase B: follow discovered WO numbers through family navigation.
	followed := st.woNumbers(cfg.Provider.FamilyFollowLimit)
	run.Family = types.FamilyStats{
		Found:    len(st.woOrder),
		Followed: len(followed),
		Numbers:  sample(st.woOrder, woSampleLimit),
	}
	if family := deps.adapter(types.ProviderFamily); family != nil && len(followed) > 0 && runCtx.Err() == nil {
		st.phase(func(out chan<- message) {
			fanOut(runCtx, family, followed, deps.Limiters[types.ProviderFamily], cfg.Provider, out)
		})
	}

	// Enrichment: backfill sparse records through the worldwide detail pages.
	if worldwide := deps.adapter(types.ProviderWorldwide); worldwide != nil && runCtx.Err() == nil {
		st.enrich(runCtx, worldwide, deps.Limiters[types.ProviderWorldwide], cfg.Provider)
	}

	run.TimedOut = runCtx.Err() != nil
	run.Elapsed = time.Since(started)
	report.Assemble(run, st.engine.Records(), cfg.Report)
	return run, nil
}

// message is one unit of adapter output funneled to the collector.
type message struct {
	outcome *types.QueryOutcome
	cand    *types.Candidate
}

// runState accumulates a run's mutable state. All writes funnel through one
// collector goroutine at a time, so no locking is needed.
type runState struct {
	run     *types.SearchRun
	engine  *reconcile.Engine
	woSeen  map[string]bool
	woOrder []string
	targets []string
}

// phase runs send against a fresh collector and waits for both to finish.
func (st *runState) phase(send func(out chan<- message)) {
	msgs := make(chan message, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for m := range msgs {
			st.apply(m)
		}
	}()
	send(msgs)
	close(msgs)
	<-done
}

func (st *runState) apply(m message) {
	if m.outcome != nil {
		st.run.Queries = append(st.run.Queries, *m.outcome)
		if m.outcome.Status == types.StatusProviderError || m.outcome.Status == types.StatusRateLimited {
			st.run.ProviderErrors[m.outcome.Provider]++
		}
	}
	if m.cand != nil {
		st.add(*m.cand)
	}
}

// add routes one candidate: WO documents feed family navigation and the WO
// statistics but stay out of the final set; everything else must match a
// target country and goes to the reconciliation engine.
func (st *runState) add(c types.Candidate) {
	id := providers.NormalizePublicationID(c.PublicationID)
	if id == "" {
		return
	}
	if providers.CountryPrefix(id) == "WO" {
		wo := woNumberPattern.FindString(id)
		if wo != "" && !st.woSeen[wo] {
			st.woSeen[wo] = true
			st.woOrder = append(st.woOrder, wo)
		}
		return
	}
	if !providers.HasCountry(id, st.targets) {
		return
	}
	st.engine.Add(c)
}

func (st *runState) woNumbers(limit int) []string {
	if limit > 0 && len(st.woOrder) > limit {
		return st.woOrder[:limit]
	}
	return st.woOrder
}

// enrich backfills title/abstract/assignee for sparse records, bounded by
// EnrichLimit and the run deadline. Runs after the collectors, so it is the
// sole writer at this point.
func (st *runState) enrich(ctx context.Context, adapter providers.Adapter, limiter *providers.Limiter, cfg types.ProviderConfig) {
	calls := 0
	for _, u := range st.engine.Records() {
		if calls >= cfg.EnrichLimit || ctx.Err() != nil {
			return
		}
		if len(strings.TrimSpace(u.Title)) >= minTitleLen {
			continue
		}
		if limiter != nil && limiter.Wait(ctx) != nil {
			return
		}
		callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
		c, status := adapter.Enrich(callCtx, u.PublicationID)
		cancel()
		calls++
		if status == types.StatusOK {
			st.engine.Add(c)
		}
	}
}

// fanOut drives one adapter through its query list with a bounded worker
// pool. Adapter failures become outcome statistics, never errors (R5.1).
func fanOut(ctx context.Context, adapter providers.Adapter, queries []string, limiter *providers.Limiter, cfg types.ProviderConfig, out chan<- message) {
	g := new(errgroup.Group)
	g.SetLimit(cfg.Concurrency)
	for _, q := range queries {
		q := q
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if limiter != nil && limiter.Wait(ctx) != nil {
				return nil
			}
			callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
			candidates, status := adapter.Search(callCtx, q, cfg.PerQueryLimit)
			cancel()

			out <- message{outcome: &types.QueryOutcome{
				Provider: adapter.Name(),
				Query:    q,
				Status:   status,
				Results:  len(candidates),
			}}
			for i := range candidates {
				out <- message{cand: &candidates[i]}
			}
			return nil
		})
	}
	g.Wait()
}

func sample(list []string, limit int) []string {
	if len(list) <= limit {
		return list
	}
	return list[:limit]
}

func applyDefaults(cfg *types.DiscoveryConfig) {
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 300 * time.Second
	}
	if len(cfg.TargetCountries) == 0 {
		cfg.TargetCountries = []string{"BR"}
	}
	if cfg.Provider.PerQueryLimit <= 0 {
		cfg.Provider.PerQueryLimit = 20
	}
	if cfg.Provider.CallTimeout <= 0 {
		cfg.Provider.CallTimeout = 30 * time.Second
	}
	if cfg.Provider.Concurrency <= 0 {
		cfg.Provider.Concurrency = 3
	}
	if cfg.Provider.FamilyFollowLimit <= 0 {
		cfg.Provider.FamilyFollowLimit = 10
	}
	if cfg.Provider.EnrichLimit <= 0 {
		cfg.Provider.EnrichLimit = 10
	}
}
