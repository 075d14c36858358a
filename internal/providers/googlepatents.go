// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Implements: prd010-discovery R2.1, R3.3-R3.5 (worldwide crawler);
//
//	docs/ARCHITECTURE § Provider Adapters.
package providers

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/patent-scout/pkg/types"
)

// worldwideSearchBase is the Google Patents site root. Declared as a var so
// tests can substitute an httptest server.
var worldwideSearchBase = "https://patents.google.com"

// maxCrawlBody caps how much of a result page the crawler reads.
const maxCrawlBody = 4 << 20

// patentLinkPattern matches publication ids in result-page links
// ("/patent/WO2011104180A1", "/patent/BR112014017533A2").
var patentLinkPattern = regexp.MustCompile(`/patent/([A-Z]{2}\d{4,13}(?:[A-Z]\d?)?)`)

// patentAnchorPattern additionally captures the anchor text, which on
// result pages is usually the patent title.
var patentAnchorPattern = regexp.MustCompile(`<a[^>]+href="[^"]*/patent/([A-Z]{2}\d{4,13}(?:[A-Z]\d?)?)[^"]*"[^>]*>([^<]*)</a>`)

// woTextPattern matches WO numbers in free text, tolerating the spacing and
// slashes publishers insert ("WO 2011/104180", "WO-2011104180").
var woTextPattern = regexp.MustCompile(`WO[\s-]?(\d{4})[\s/\-]?(\d{6,7})`)

// metaTagPattern extracts a named meta tag's content from a detail page.
func metaTagPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`<meta\s+name="` + regexp.QuoteMeta(name) + `"\s+content="([^"]*)"`)
}

var (
	metaTitlePattern    = metaTagPattern("DC.title")
	metaAbstractPattern = metaTagPattern("DC.description")
	assigneePattern     = regexp.MustCompile(`itemprop="assigneeCurrent"[^>]*>([^<]+)<`)
)

// WorldwideAdapter crawls a worldwide patent search site directly — no
// search-API intermediary. Search pages yield WO numbers (which drive
// family navigation) and direct target-country hits; detail pages back the
// Enrich call.
type WorldwideAdapter struct {
	Client *http.Client
	Cfg    types.ProviderConfig

	// Countries lists the target country prefixes extracted from result
	// pages alongside WO numbers.
	Countries []string
}

// Name returns the adapter identifier.
func (a *WorldwideAdapter) Name() types.Provider { return types.ProviderWorldwide }

// rawScore priors mirror how trustworthy each discovery path is: a direct
// country hit on a search page outranks a number scraped from page text.
const (
	scoreDirectHit = 9
	scoreTextHit   = 7
)

// Search crawls one result page and emits candidates for every publication
// id found (R2.1). WO documents are emitted too — the pipeline routes them
// to family navigation and keeps them out of the final set.
func (a *WorldwideAdapter) Search(ctx context.Context, query string, limit int) ([]types.Candidate, types.ProviderStatus) {
	page, status := a.fetch(ctx, worldwideSearchBase+"/?q="+url.QueryEscape(query))
	if status != types.StatusOK {
		return nil, status
	}

	seen := make(map[string]bool)
	var candidates []types.Candidate

	add := func(id, title string, score int) {
		id = NormalizePublicationID(id)
		if id == "" || seen[id] {
			return
		}
		if CountryPrefix(id) != "WO" && !HasCountry(id, a.Countries) {
			return
		}
		seen[id] = true
		candidates = append(candidates, types.Candidate{
			PublicationID: id,
			Title:         strings.TrimSpace(title),
			Source:        types.ProviderWorldwide,
			Query:         query,
			RawScore:      score,
		})
	}

	// Anchors first: they carry titles.
	for _, m := range patentAnchorPattern.FindAllStringSubmatch(page, -1) {
		add(m[1], m[2], scoreDirectHit)
	}
	for _, m := range patentLinkPattern.FindAllStringSubmatch(page, -1) {
		add(m[1], "", scoreDirectHit)
	}
	// WO numbers mentioned in plain text, outside links.
	for _, m := range woTextPattern.FindAllStringSubmatch(page, -1) {
		serial := m[2]
		if len(serial) > 6 {
			serial = serial[:6]
		}
		add("WO"+m[1]+serial, "", scoreTextHit)
	}

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, searchStatus(len(candidates))
}

// Enrich scrapes the detail page for one publication id (R3.5): title and
// abstract from Dublin Core meta tags, assignee from the bibliographic
// markup. Missing fields stay empty.
func (a *WorldwideAdapter) Enrich(ctx context.Context, publicationID string) (types.Candidate, types.ProviderStatus) {
	id := NormalizePublicationID(publicationID)
	if id == "" {
		return types.Candidate{}, types.StatusEmpty
	}

	page, status := a.fetch(ctx, worldwideSearchBase+"/patent/"+id)
	if status != types.StatusOK {
		return types.Candidate{}, status
	}

	c := types.Candidate{
		PublicationID: id,
		Source:        types.ProviderWorldwide,
		Query:         "enrich:" + id,
	}
	if m := metaTitlePattern.FindStringSubmatch(page); m != nil {
		c.Title = strings.TrimSpace(m[1])
	}
	if m := metaAbstractPattern.FindStringSubmatch(page); m != nil {
		abstract := strings.TrimSpace(m[1])
		if len(abstract) > 500 {
			abstract = abstract[:500]
		}
		c.Abstract = abstract
	}
	if m := assigneePattern.FindStringSubmatch(page); m != nil {
		c.Assignee = strings.TrimSpace(m[1])
	}

	if c.Title == "" && c.Abstract == "" && c.Assignee == "" {
		return types.Candidate{}, types.StatusEmpty
	}
	return c, types.StatusOK
}

// fetch retrieves a page and maps transport failures to statuses.
func (a *WorldwideAdapter) fetch(ctx context.Context, reqURL string) (string, types.ProviderStatus) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", types.StatusProviderError
	}
	req.Header.Set("User-Agent", a.Cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := a.Client.Do(req)
	if err != nil {
		return "", types.StatusProviderError
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", types.StatusRateLimited
	case resp.StatusCode != http.StatusOK:
		return "", types.StatusProviderError
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCrawlBody))
	if err != nil {
		return "", types.StatusProviderError
	}
	return string(body), types.StatusOK
}

var _ Adapter = (*WorldwideAdapter)(nil)
