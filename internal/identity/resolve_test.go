// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/patent-scout/pkg/types"
)

func testCfg() types.IdentityConfig {
	return types.IdentityConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
		MaxRetries: 1,
		CodeLimit:  10,
	}
}

const sampleSynonymsJSON = `{
  "InformationList": {
    "Information": [
      {
        "CID": 67171867,
        "Synonym": [
          "Darolutamide",
          "ODM-201",
          "BAY-1841788",
          "BAY 1841788",
          "odm-201",
          "1297538-32-9",
          "Nubeqa",
          "Darolutamide [INN]"
        ]
      }
    ]
  }
}`

func newIdentityServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/compound/name/", func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "Darolutamide") || strings.Contains(r.URL.Path, "Nubeqa") {
			fmt.Fprint(w, `{"IdentifierList":{"CID":[67171867]}}`)
			return
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("/compound/cid/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, sampleSynonymsJSON)
	})
	return httptest.NewServer(mux)
}

func TestResolve(t *testing.T) {
	ts := newIdentityServer(t)
	defer ts.Close()
	old := identityAPIBase
	identityAPIBase = ts.URL
	defer func() { identityAPIBase = old }()

	identity, err := Resolve(context.Background(), ts.Client(), "Darolutamide", "Nubeqa", testCfg())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if identity.CID != 67171867 {
		t.Errorf("CID = %d, want 67171867", identity.CID)
	}
	wantCodes := []string{"ODM-201", "BAY-1841788"}
	if len(identity.AlternateCodes) != len(wantCodes) {
		t.Fatalf("AlternateCodes = %v, want %v", identity.AlternateCodes, wantCodes)
	}
	for i, c := range wantCodes {
		if identity.AlternateCodes[i] != c {
			t.Errorf("AlternateCodes[%d] = %q, want %q", i, identity.AlternateCodes[i], c)
		}
	}
	// Own name, brand, and the CAS number must not appear as codes.
	for _, c := range identity.AlternateCodes {
		if c == "DAROLUTAMIDE" || c == "NUBEQA" || c == "1297538-32-9" {
			t.Errorf("unexpected code %q", c)
		}
	}
	if identity.Degraded() {
		t.Error("identity should not be degraded")
	}
}

func TestResolveFallsBackToBrand(t *testing.T) {
	ts := newIdentityServer(t)
	defer ts.Close()
	old := identityAPIBase
	identityAPIBase = ts.URL
	defer func() { identityAPIBase = old }()

	identity, err := Resolve(context.Background(), ts.Client(), "unknown-generic", "Nubeqa", testCfg())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if identity.CID != 67171867 {
		t.Errorf("CID = %d, want 67171867 (via brand lookup)", identity.CID)
	}
}

func TestResolveFailsSoft(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()
	old := identityAPIBase
	identityAPIBase = ts.URL
	defer func() { identityAPIBase = old }()

	identity, err := Resolve(context.Background(), ts.Client(), "Darolutamide", "", testCfg())
	if err == nil {
		t.Fatal("Resolve() should report the degradation")
	}
	// Degraded identity still carries the caller's inputs.
	if identity.Name != "Darolutamide" {
		t.Errorf("Name = %q, want Darolutamide", identity.Name)
	}
	if !identity.Degraded() {
		t.Error("identity should be degraded")
	}
}

func TestSplitSynonyms(t *testing.T) {
	tests := []struct {
		name      string
		raw       []string
		wantCodes []string
		wantSyn   []string
	}{
		{
			name:      "codes and synonyms separated",
			raw:       []string{"ODM-201", "Darolutamide [INN]", "BAY 1841788"},
			wantCodes: []string{"ODM-201", "BAY-1841788"},
			wantSyn:   []string{"Darolutamide [INN]"},
		},
		{
			name:      "case-folded code dedup",
			raw:       []string{"ODM-201", "odm-201", "Odm 201"},
			wantCodes: []string{"ODM-201"},
		},
		{
			name:    "CAS number is not a code",
			raw:     []string{"1297538-32-9"},
			wantSyn: []string{"1297538-32-9"},
		},
		{
			name: "empty input",
			raw:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes, syn := splitSynonyms("Darolutamide", "Nubeqa", tt.raw, 10)
			if fmt.Sprint(codes) != fmt.Sprint(tt.wantCodes) {
				t.Errorf("codes = %v, want %v", codes, tt.wantCodes)
			}
			if fmt.Sprint(syn) != fmt.Sprint(tt.wantSyn) {
				t.Errorf("synonyms = %v, want %v", syn, tt.wantSyn)
			}
		})
	}
}

func TestSplitSynonymsCaps(t *testing.T) {
	var raw []string
	for i := 0; i < 80; i++ {
		raw = append(raw, fmt.Sprintf("synonym number %d", i))
	}
	_, syn := splitSynonyms("X", "", raw, 10)
	if len(syn) != types.MaxSynonyms {
		t.Errorf("len(synonyms) = %d, want %d", len(syn), types.MaxSynonyms)
	}
}
