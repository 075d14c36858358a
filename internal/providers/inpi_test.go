// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

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

func nationalCfg() types.ProviderConfig {
	return types.ProviderConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
		PerQueryLimit: 20,
	}
}

const sampleNationalJSON = `{
  "data": [
    {
      "title": "BR 11 2014 017533 A2",
      "applicant": "ORION CORPORATION",
      "fullText": "Compostos moduladores do receptor de androgenio e seu uso.",
      "depositDate": "2014-01-16"
    },
    {
      "title": "BR 11 2014 017533 A2",
      "applicant": "duplicate row",
      "fullText": "",
      "depositDate": ""
    },
    {
      "title": "PI0923670-8",
      "applicant": "row without the country prefix shape",
      "fullText": "",
      "depositDate": ""
    },
    {
      "title": "BR112021004710A8",
      "applicant": "BAYER AG",
      "fullText": "",
      "depositDate": "2021-03-11"
    }
  ]
}`

func TestNationalSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("medicine") == "" {
			http.Error(w, "missing medicine parameter", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, sampleNationalJSON)
	}))
	defer ts.Close()

	a := &NationalAdapter{Client: ts.Client(), Cfg: nationalCfg(), BaseURL: ts.URL, CountryPrefix: "BR"}
	candidates, status := a.Search(context.Background(), "Darolutamide", 20)

	if status != types.StatusOK {
		t.Fatalf("status = %s, want ok", status)
	}
	if len(candidates) != 2 {
		t.Fatalf("len(candidates) = %d, want 2 (dedup + prefix filter)", len(candidates))
	}

	first := candidates[0]
	if first.PublicationID != "BR112014017533A2" {
		t.Errorf("PublicationID = %q", first.PublicationID)
	}
	if first.Assignee != "ORION CORPORATION" {
		t.Errorf("Assignee = %q", first.Assignee)
	}
	if first.FilingDate != "2014-01-16" {
		t.Errorf("FilingDate = %q", first.FilingDate)
	}
	if !strings.Contains(first.Abstract, "moduladores") {
		t.Errorf("Abstract = %q", first.Abstract)
	}
	if first.Title != "" {
		t.Errorf("Title = %q, the office rows carry no real title", first.Title)
	}
	if first.Source != types.ProviderNational || first.Query != "Darolutamide" {
		t.Errorf("provenance = (%s, %q)", first.Source, first.Query)
	}
	if first.RawScore != nationalRawScore {
		t.Errorf("RawScore = %d, want %d", first.RawScore, nationalRawScore)
	}
}

func TestNationalSearchFailureStatuses(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    types.ProviderStatus
	}{
		{
			name:    "rate limited",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTooManyRequests) },
			want:    types.StatusRateLimited,
		},
		{
			name:    "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) },
			want:    types.StatusProviderError,
		},
		{
			name:    "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, "<html>not json") },
			want:    types.StatusProviderError,
		},
		{
			name:    "empty result set",
			handler: func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, `{"data":[]}`) },
			want:    types.StatusEmpty,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			a := &NationalAdapter{Client: ts.Client(), Cfg: nationalCfg(), BaseURL: ts.URL, CountryPrefix: "BR"}
			candidates, status := a.Search(context.Background(), "x", 20)
			if status != tt.want {
				t.Errorf("status = %s, want %s", status, tt.want)
			}
			if candidates != nil {
				t.Errorf("candidates = %v, want nil", candidates)
			}
		})
	}
}

func TestNationalEnrich(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, sampleNationalJSON)
	}))
	defer ts.Close()

	a := &NationalAdapter{Client: ts.Client(), Cfg: nationalCfg(), BaseURL: ts.URL, CountryPrefix: "BR"}
	c, status := a.Enrich(context.Background(), "BR112021004710A8")

	if status != types.StatusOK {
		t.Fatalf("status = %s, want ok", status)
	}
	if c.Assignee != "BAYER AG" {
		t.Errorf("Assignee = %q", c.Assignee)
	}
}

func TestNationalEnrichNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer ts.Close()

	a := &NationalAdapter{Client: ts.Client(), Cfg: nationalCfg(), BaseURL: ts.URL, CountryPrefix: "BR"}
	_, status := a.Enrich(context.Background(), "BR999999999999A9")
	if status != types.StatusEmpty {
		t.Errorf("status = %s, want empty", status)
	}
}
