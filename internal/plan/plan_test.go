// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plan

import (
	"reflect"
	"testing"
	"time"

	"github.com/pdiddy/patent-scout/pkg/types"
)

func darolutamide() types.MoleculeIdentity {
	return types.MoleculeIdentity{
		Name:           "Darolutamide",
		Brand:          "Nubeqa",
		CID:            67171867,
		AlternateCodes: []string{"ODM-201", "BAY-1841788"},
	}
}

func TestPlanOrdering(t *testing.T) {
	got := Plan(darolutamide(), types.PlannerConfig{Budget: 8, CodeLimit: 2, WorldwideCodeLimit: 5})

	want := []string{"Darolutamide", "Nubeqa", "ODM-201", "BAY-1841788"}
	if !reflect.DeepEqual(got[types.ProviderWorldwide], want) {
		t.Errorf("worldwide = %v, want %v", got[types.ProviderWorldwide], want)
	}
	if !reflect.DeepEqual(got[types.ProviderNational], want) {
		t.Errorf("national = %v, want %v", got[types.ProviderNational], want)
	}
	if _, ok := got[types.ProviderFamily]; ok {
		t.Error("family navigation must not be planned up front")
	}
}

func TestPlanBudgetRespected(t *testing.T) {
	identity := darolutamide()
	for i := 0; i < 20; i++ {
		identity.AlternateCodes = append(identity.AlternateCodes, "XX-"+string(rune('A'+i)))
	}

	got := Plan(identity, types.PlannerConfig{Budget: 3, CodeLimit: 50, WorldwideCodeLimit: 50})
	for category, list := range got {
		if len(list) > 3 {
			t.Errorf("%s: %d queries, budget is 3", category, len(list))
		}
	}
	// Truncation keeps the earliest-generated queries.
	want := []string{"Darolutamide", "Nubeqa", "ODM-201"}
	if !reflect.DeepEqual(got[types.ProviderNational], want) {
		t.Errorf("national = %v, want %v", got[types.ProviderNational], want)
	}
}

func TestPlanYearVariants(t *testing.T) {
	cfg := types.PlannerConfig{
		Budget:             20,
		YearWindow:         3,
		Now:                time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		CodeLimit:          2,
		WorldwideCodeLimit: 2,
	}
	got := Plan(darolutamide(), cfg)

	ww := got[types.ProviderWorldwide]
	wantTail := []string{"Darolutamide 2024", "Darolutamide 2023", "Darolutamide 2022"}
	if len(ww) < len(wantTail) {
		t.Fatalf("worldwide = %v, too short", ww)
	}
	tail := ww[len(ww)-3:]
	if !reflect.DeepEqual(tail, wantTail) {
		t.Errorf("year variants = %v, want %v", tail, wantTail)
	}
	// The national category never receives year variants.
	for _, q := range got[types.ProviderNational] {
		if q == "Darolutamide 2024" {
			t.Error("national category received a year variant")
		}
	}
}

func TestPlanDeterministic(t *testing.T) {
	cfg := types.PlannerConfig{
		Budget:     5,
		YearWindow: 4,
		Now:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	first := Plan(darolutamide(), cfg)
	for i := 0; i < 10; i++ {
		if !reflect.DeepEqual(Plan(darolutamide(), cfg), first) {
			t.Fatal("planning is not deterministic")
		}
	}
}

func TestPlanDegradedIdentity(t *testing.T) {
	identity := types.MoleculeIdentity{Name: "Darolutamide"}
	got := Plan(identity, types.PlannerConfig{})

	for category, list := range got {
		if len(list) != 1 || list[0] != "Darolutamide" {
			t.Errorf("%s = %v, want just the name", category, list)
		}
	}
}
