// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"testing"

	"github.com/pdiddy/patent-scout/pkg/types"
)

func TestAddIdempotentDedup(t *testing.T) {
	e := NewEngine()
	c := types.Candidate{
		PublicationID: "BR112014017533A2",
		Title:         "Androgen receptor modulating compounds",
		Source:        types.ProviderNational,
		Query:         "Darolutamide",
	}
	e.Add(c)
	e.Add(c)

	if e.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", e.Len())
	}
	u := e.Get("BR112014017533A2")
	// The identical (provider, query) pair is recorded once, not twice.
	if len(u.DiscoveryMethods) != 1 {
		t.Errorf("DiscoveryMethods = %v, want one entry", u.DiscoveryMethods)
	}
}

func TestAddRecordsEveryDiscoveryPath(t *testing.T) {
	e := NewEngine()
	e.Add(types.Candidate{
		PublicationID: "BR112014017533A2",
		Source:        types.ProviderNational,
		Query:         "Darolutamide",
	})
	e.Add(types.Candidate{
		PublicationID: "BR 11 2014 017533 A2", // formatting drift, same id
		Source:        types.ProviderFamily,
		Query:         "ODM-201",
	})

	if e.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", e.Len())
	}
	u := e.Get("BR112014017533A2")
	want := []types.DiscoveryMethod{
		{Provider: types.ProviderNational, Query: "Darolutamide"},
		{Provider: types.ProviderFamily, Query: "ODM-201"},
	}
	if len(u.DiscoveryMethods) != len(want) {
		t.Fatalf("DiscoveryMethods = %v, want %v", u.DiscoveryMethods, want)
	}
	for i := range want {
		if u.DiscoveryMethods[i] != want[i] {
			t.Errorf("DiscoveryMethods[%d] = %v, want %v", i, u.DiscoveryMethods[i], want[i])
		}
	}
}

func TestMergeFillFirstNonEmptyWinsPerField(t *testing.T) {
	e := NewEngine()
	e.Add(types.Candidate{PublicationID: "BR123456", Title: "", Assignee: "X", Source: types.ProviderNational, Query: "q1"})
	e.Add(types.Candidate{PublicationID: "BR123456", Title: "Foo", Assignee: "Y", Source: types.ProviderWorldwide, Query: "q2"})

	u := e.Get("BR123456")
	if u.Title != "Foo" {
		t.Errorf("Title = %q, want Foo (backfilled by later candidate)", u.Title)
	}
	if u.Assignee != "X" {
		t.Errorf("Assignee = %q, want X (already decided, not overwritten)", u.Assignee)
	}
}

func TestMergeFillKeepsBestRawScore(t *testing.T) {
	e := NewEngine()
	e.Add(types.Candidate{PublicationID: "BR123456", RawScore: 5, Source: types.ProviderNational, Query: "a"})
	e.Add(types.Candidate{PublicationID: "BR123456", RawScore: 9, Source: types.ProviderWorldwide, Query: "b"})
	e.Add(types.Candidate{PublicationID: "BR123456", RawScore: 3, Source: types.ProviderFamily, Query: "c"})

	if got := e.Get("BR123456").RawScore; got != 9 {
		t.Errorf("RawScore = %d, want 9", got)
	}
}

func TestAddDropsUnparseableIDs(t *testing.T) {
	e := NewEngine()
	e.Add(types.Candidate{PublicationID: "", Source: types.ProviderNational, Query: "q"})
	e.Add(types.Candidate{PublicationID: "not a patent", Source: types.ProviderNational, Query: "q"})
	e.Add(types.Candidate{PublicationID: "BR123456", Source: types.ProviderNational, Query: "q"})

	if e.Len() != 1 {
		t.Errorf("Len() = %d, want 1", e.Len())
	}
	if e.Dropped() != 2 {
		t.Errorf("Dropped() = %d, want 2", e.Dropped())
	}
}

func TestKindCodeDriftStaysDistinct(t *testing.T) {
	e := NewEngine()
	e.Add(types.Candidate{PublicationID: "BR112014017533A2", Source: types.ProviderNational, Query: "q"})
	e.Add(types.Candidate{PublicationID: "BR112014017533A8", Source: types.ProviderFamily, Query: "q"})

	if e.Len() != 2 {
		t.Errorf("Len() = %d, want 2 — kind-code variants are distinct records", e.Len())
	}
}

func TestRecordsFirstSeenOrderAndUniqueness(t *testing.T) {
	e := NewEngine()
	ids := []string{"BR111111", "BR222222", "BR333333"}
	for _, id := range ids {
		e.Add(types.Candidate{PublicationID: id, Source: types.ProviderNational, Query: "q"})
	}
	// Re-adding the first id must not move or duplicate it.
	e.Add(types.Candidate{PublicationID: "BR111111", Source: types.ProviderWorldwide, Query: "q2"})

	records := e.Records()
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	seen := make(map[string]bool)
	for i, u := range records {
		if u.PublicationID != ids[i] {
			t.Errorf("records[%d] = %s, want %s", i, u.PublicationID, ids[i])
		}
		if seen[u.PublicationID] {
			t.Errorf("duplicate record %s", u.PublicationID)
		}
		seen[u.PublicationID] = true
	}
}

func TestRecordsAreClassifiedAndScored(t *testing.T) {
	e := NewEngine()
	e.Add(types.Candidate{
		PublicationID: "BR112014017533A2",
		Title:         "Pharmaceutical composition comprising darolutamide",
		Abstract:      "A formulation for oral administration.",
		Assignee:      "Orion",
		RawScore:      9,
		Source:        types.ProviderWorldwide,
		Query:         "Darolutamide",
	})

	records := e.Records()
	u := records[0]
	if u.Category == "" {
		t.Error("record not classified")
	}
	if u.Score < 0 || u.Score > 15 {
		t.Errorf("Score = %d, out of bounds", u.Score)
	}
}
