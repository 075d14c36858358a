// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Implements: prd010-discovery R2.2, R3.3 (national-office adapter);
//
//	docs/ARCHITECTURE § Provider Adapters.
package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/patent-scout/pkg/types"
)

// nationalCrawlerBase is the INPI crawler service endpoint. Declared as a
// var so tests can substitute an httptest server; deployments override it
// through the inpi-crawler-url secret.
var nationalCrawlerBase = "https://crawler3-production.up.railway.app/api/data/inpi/patents"

// nationalRawScore is the prior for national-office hits: authoritative
// source, but its rows are sparse (no real title field).
const nationalRawScore = 5

// NationalAdapter queries the national patent-office crawler service. The
// service fronts the office's own search with a JSON API; its rows put the
// publication number in the "title" field and the applicant name in
// "applicant" — mapping quirks the adapter absorbs here so nothing
// downstream has to know about them.
type NationalAdapter struct {
	Client  *http.Client
	Cfg     types.ProviderConfig
	BaseURL string

	// CountryPrefix is the office's country code ("BR"); rows without it
	// are skipped.
	CountryPrefix string
}

// Name returns the adapter identifier.
func (a *NationalAdapter) Name() types.Provider { return types.ProviderNational }

// nationalRow is one row of the crawler service's response.
type nationalRow struct {
	// Title holds the publication number, not the patent title.
	Title       string `json:"title"`
	Applicant   string `json:"applicant"`
	FullText    string `json:"fullText"`
	DepositDate string `json:"depositDate"`
}

type nationalResponse struct {
	Data []nationalRow `json:"data"`
}

// Search runs one query against the office crawler (R2.2).
func (a *NationalAdapter) Search(ctx context.Context, query string, limit int) ([]types.Candidate, types.ProviderStatus) {
	rows, status := a.fetch(ctx, query)
	if status != types.StatusOK {
		return nil, status
	}

	seen := make(map[string]bool)
	var candidates []types.Candidate
	for _, row := range rows {
		c, ok := a.candidateFrom(row, query)
		if !ok || seen[c.PublicationID] {
			continue
		}
		seen[c.PublicationID] = true
		candidates = append(candidates, c)
		if limit > 0 && len(candidates) >= limit {
			break
		}
	}
	return candidates, searchStatus(len(candidates))
}

// Enrich looks the publication id back up and returns whatever detail the
// office row carries (R3.3).
func (a *NationalAdapter) Enrich(ctx context.Context, publicationID string) (types.Candidate, types.ProviderStatus) {
	id := NormalizePublicationID(publicationID)
	if id == "" {
		return types.Candidate{}, types.StatusEmpty
	}

	rows, status := a.fetch(ctx, id)
	if status != types.StatusOK {
		return types.Candidate{}, status
	}
	for _, row := range rows {
		c, ok := a.candidateFrom(row, "enrich:"+id)
		if ok && c.PublicationID == id {
			return c, types.StatusOK
		}
	}
	return types.Candidate{}, types.StatusEmpty
}

// candidateFrom maps one crawler row onto a Candidate. Rows whose
// publication number does not carry the office's country prefix are
// rejected.
func (a *NationalAdapter) candidateFrom(row nationalRow, query string) (types.Candidate, bool) {
	id := NormalizePublicationID(row.Title)
	if id == "" || CountryPrefix(id) != strings.ToUpper(a.CountryPrefix) {
		return types.Candidate{}, false
	}

	abstract := strings.TrimSpace(row.FullText)
	if len(abstract) > 500 {
		abstract = abstract[:500]
	}
	return types.Candidate{
		PublicationID: id,
		Assignee:      strings.TrimSpace(row.Applicant),
		Abstract:      abstract,
		FilingDate:    strings.TrimSpace(row.DepositDate),
		Source:        types.ProviderNational,
		Query:         query,
		RawScore:      nationalRawScore,
	}, true
}

func (a *NationalAdapter) fetch(ctx context.Context, query string) ([]nationalRow, types.ProviderStatus) {
	base := a.BaseURL
	if base == "" {
		base = nationalCrawlerBase
	}
	reqURL := base + "?" + url.Values{"medicine": {query}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, types.StatusProviderError
	}
	req.Header.Set("User-Agent", a.Cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, types.StatusProviderError
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, types.StatusRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, types.StatusProviderError
	}

	var body nationalResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, types.StatusProviderError
	}
	return body.Data, types.StatusOK
}

var _ Adapter = (*NationalAdapter)(nil)
