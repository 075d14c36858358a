// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package identity resolves a molecule name or brand into a canonical
// identity bundle: compound id, development codes, and synonyms.
// Implements: prd009-molecule-identity (R1-R3);
//
//	docs/ARCHITECTURE § Identity Resolution.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/patent-scout/internal/httputil"
	"github.com/pdiddy/patent-scout/pkg/types"
)

// identityAPIBase is the PubChem PUG REST endpoint. Declared as a var so
// tests can substitute an httptest server.
var identityAPIBase = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"

// devCodePattern matches sponsor development codes among synonyms:
// two to four letters, an optional separator, then digits (e.g. "ODM-201",
// "BAY 1841788", "AZD2281"). CAS numbers start with digits and never match.
var devCodePattern = regexp.MustCompile(`^[A-Za-z]{2,4}[- ]?\d{2,8}$`)

// Resolve turns a molecule name/brand into a MoleculeIdentity (R1.1).
//
// Resolution fails soft (R2.4): on any lookup failure the returned identity
// carries only the caller's name and brand, and the error describes the
// degradation. The pipeline records the error as a statistic and proceeds —
// it must never abort on identity failure.
func Resolve(ctx context.Context, client *http.Client, name, brand string, cfg types.IdentityConfig) (types.MoleculeIdentity, error) {
	identity := types.MoleculeIdentity{Name: name, Brand: brand}

	cid, err := lookupCID(ctx, client, name, cfg)
	if err != nil && brand != "" {
		// The generic name may be unknown upstream; try the brand.
		cid, err = lookupCID(ctx, client, brand, cfg)
	}
	if err != nil {
		return identity, fmt.Errorf("identity lookup for %q: %w", name, err)
	}
	identity.CID = cid

	synonyms, err := lookupSynonyms(ctx, client, cid, cfg)
	if err != nil {
		return identity, fmt.Errorf("synonym lookup for CID %d: %w", cid, err)
	}

	identity.AlternateCodes, identity.Synonyms = splitSynonyms(name, brand, synonyms, cfg.CodeLimit)
	return identity, nil
}

// lookupCID resolves a name to the first compound id (R1.2).
func lookupCID(ctx context.Context, client *http.Client, name string, cfg types.IdentityConfig) (int64, error) {
	reqURL := fmt.Sprintf("%s/compound/name/%s/cids/JSON", identityAPIBase, url.PathEscape(name))

	var body struct {
		IdentifierList struct {
			CID []int64 `json:"CID"`
		} `json:"IdentifierList"`
	}
	if err := getJSON(ctx, client, reqURL, cfg, &body); err != nil {
		return 0, err
	}
	if len(body.IdentifierList.CID) == 0 {
		return 0, fmt.Errorf("no compound id for %q", name)
	}
	return body.IdentifierList.CID[0], nil
}

// lookupSynonyms fetches the synonym list for a compound id (R1.3).
func lookupSynonyms(ctx context.Context, client *http.Client, cid int64, cfg types.IdentityConfig) ([]string, error) {
	reqURL := fmt.Sprintf("%s/compound/cid/%d/synonyms/JSON", identityAPIBase, cid)

	var body struct {
		InformationList struct {
			Information []struct {
				Synonym []string `json:"Synonym"`
			} `json:"Information"`
		} `json:"InformationList"`
	}
	if err := getJSON(ctx, client, reqURL, cfg, &body); err != nil {
		return nil, err
	}
	if len(body.InformationList.Information) == 0 {
		return nil, fmt.Errorf("no synonym entry for CID %d", cid)
	}
	return body.InformationList.Information[0].Synonym, nil
}

func getJSON(ctx context.Context, client *http.Client, reqURL string, cfg types.IdentityConfig, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	// The identity API enforces a tight per-second rate; 429s are routine.
	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return fmt.Errorf("identity API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("identity API returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing identity response: %w", err)
	}
	return nil
}

// splitSynonyms separates development codes from plain synonyms (R1.4).
// Codes keep their first-seen order, deduplicated after normalization
// (uppercase, space separator folded to a hyphen). Synonyms exclude the
// molecule's own name and brand and are capped at types.MaxSynonyms.
func splitSynonyms(name, brand string, raw []string, codeLimit int) (codes, synonyms []string) {
	if codeLimit <= 0 {
		codeLimit = 10
	}

	seenCodes := make(map[string]bool)
	seenSyn := make(map[string]bool)
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, name) || strings.EqualFold(s, brand) {
			continue
		}

		if devCodePattern.MatchString(s) {
			code := strings.ToUpper(strings.ReplaceAll(s, " ", "-"))
			if !seenCodes[code] && len(codes) < codeLimit {
				seenCodes[code] = true
				codes = append(codes, code)
			}
			continue
		}

		key := strings.ToLower(s)
		if !seenSyn[key] && len(synonyms) < types.MaxSynonyms {
			seenSyn[key] = true
			synonyms = append(synonyms, s)
		}
	}
	return codes, synonyms
}
