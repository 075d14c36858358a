// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Implements: prd010-discovery R2.3, R5.3 (family-navigation adapter);
//
//	docs/ARCHITECTURE § Provider Adapters.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/patent-scout/pkg/types"
)

// Family-navigation API endpoints (EPO OPS shape). Declared as vars so
// tests can substitute an httptest server.
var (
	familyAuthBase   = "https://ops.epo.org/3.2/auth/accesstoken"
	familySearchBase = "https://ops.epo.org/3.2/rest-services/published-data/search/biblio"
)

// tokenExpiryBuffer refreshes the access token this long before it expires.
const tokenExpiryBuffer = 5 * time.Minute

// familyRawScore is the prior for family-navigation hits: the family link
// is authoritative, but the member rows carry no bibliographic detail.
const familyRawScore = 7

// FamilyAdapter navigates patent families through an OPS-style published
// data API: the query is a WO number, the results are the family members
// published in the target countries. Authentication is OAuth client
// credentials; key pairs rotate through a KeyPool, and the token is shared
// across concurrent calls under a lock.
type FamilyAdapter struct {
	Client    *http.Client
	Cfg       types.ProviderConfig
	Keys      *KeyPool
	Countries []string

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// Name returns the adapter identifier.
func (a *FamilyAdapter) Name() types.Provider { return types.ProviderFamily }

// Search finds target-country family members of the given WO number (R2.3).
func (a *FamilyAdapter) Search(ctx context.Context, query string, limit int) ([]types.Candidate, types.ProviderStatus) {
	wo := NormalizePublicationID(query)
	if wo == "" {
		return nil, types.StatusEmpty
	}

	token, err := a.accessToken(ctx)
	if err != nil {
		return nil, types.StatusProviderError
	}

	params := url.Values{
		"q":     {"pn=" + wo},
		"Range": {"1-100"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, familySearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, types.StatusProviderError
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", a.Cfg.UserAgent)

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

	refs, err := decodeFamilyRefs(resp.Body)
	if err != nil {
		return nil, types.StatusProviderError
	}

	seen := make(map[string]bool)
	var candidates []types.Candidate
	for _, ref := range refs {
		id := NormalizePublicationID(ref.country + ref.number + ref.kind)
		if id == "" || seen[id] || !HasCountry(id, a.Countries) {
			continue
		}
		seen[id] = true
		candidates = append(candidates, types.Candidate{
			PublicationID: id,
			Source:        types.ProviderFamily,
			Query:         wo,
			RawScore:      familyRawScore,
		})
		if limit > 0 && len(candidates) >= limit {
			break
		}
	}
	return candidates, searchStatus(len(candidates))
}

// Enrich is not supported by the family API; detail comes from the
// worldwide crawler instead.
func (a *FamilyAdapter) Enrich(context.Context, string) (types.Candidate, types.ProviderStatus) {
	return types.Candidate{}, types.StatusEmpty
}

// accessToken returns a valid bearer token, refreshing through the next
// pooled credential when the current one is near expiry.
func (a *FamilyAdapter) accessToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && time.Now().Before(a.tokenExpiry.Add(-tokenExpiryBuffer)) {
		return a.token, nil
	}

	cred := a.Keys.Checkout()
	if cred.Key == "" {
		return "", fmt.Errorf("no family-navigation credentials configured")
	}

	form := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, familyAuthBase, form)
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.SetBasicAuth(cred.Key, cred.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned HTTP %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no token")
	}
	if body.ExpiresIn <= 0 {
		body.ExpiresIn = 1200
	}

	a.token = body.AccessToken
	a.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	return a.token, nil
}

// familyRef is one publication reference from the search result.
type familyRef struct {
	country, number, kind string
}

// OPS JSON wraps every scalar in {"$": value} and collapses single-element
// arrays into bare objects; decodeFamilyRefs tolerates both shapes.
func decodeFamilyRefs(r io.Reader) ([]familyRef, error) {
	var body struct {
		WorldPatentData struct {
			BiblioSearch struct {
				SearchResult struct {
					PublicationReference json.RawMessage `json:"ops:publication-reference"`
				} `json:"ops:search-result"`
			} `json:"ops:biblio-search"`
		} `json:"ops:world-patent-data"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing family response: %w", err)
	}

	raw := body.WorldPatentData.BiblioSearch.SearchResult.PublicationReference
	if len(raw) == 0 {
		return nil, nil
	}

	type opsValue struct {
		Value string `json:"$"`
	}
	type opsRef struct {
		DocumentID struct {
			Country   opsValue `json:"country"`
			DocNumber opsValue `json:"doc-number"`
			Kind      opsValue `json:"kind"`
		} `json:"document-id"`
	}

	var list []opsRef
	if err := json.Unmarshal(raw, &list); err != nil {
		var single opsRef
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("parsing publication references: %w", err)
		}
		list = []opsRef{single}
	}

	refs := make([]familyRef, 0, len(list))
	for _, ref := range list {
		refs = append(refs, familyRef{
			country: ref.DocumentID.Country.Value,
			number:  ref.DocumentID.DocNumber.Value,
			kind:    ref.DocumentID.Kind.Value,
		})
	}
	return refs, nil
}

var _ Adapter = (*FamilyAdapter)(nil)
