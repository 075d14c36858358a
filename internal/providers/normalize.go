// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"regexp"
	"strings"
)

// publicationIDPattern validates the canonical identifier shape: two-letter
// country prefix, document digits, optional kind-code suffix
// (e.g. "BR112014017533A2", "WO2011104180A1", "US7654321").
var publicationIDPattern = regexp.MustCompile(`^[A-Z]{2}\d{4,13}(?:[A-Z]\d?)?$`)

// idSeparators strips the formatting noise providers insert into identifiers.
var idSeparators = strings.NewReplacer(" ", "", "-", "", "/", "", ".", "")

// NormalizePublicationID converts a raw provider identifier into canonical
// form: separators removed, uppercase country prefix. Returns "" when the
// result does not parse as a publication identifier — callers drop such
// records (prd011-reconciliation R1.2).
//
// Kind-code suffixes are preserved as-is: two sources disagreeing on the
// suffix ("...A2" vs "...A8") yield distinct identifiers on purpose.
func NormalizePublicationID(raw string) string {
	id := strings.ToUpper(idSeparators.Replace(strings.TrimSpace(raw)))
	if !publicationIDPattern.MatchString(id) {
		return ""
	}
	return id
}

// CountryPrefix returns the two-letter country prefix of a normalized id.
func CountryPrefix(id string) string {
	if len(id) < 2 {
		return ""
	}
	return id[:2]
}

// HasCountry reports whether the normalized id belongs to one of the given
// country prefixes.
func HasCountry(id string, countries []string) bool {
	prefix := CountryPrefix(id)
	for _, c := range countries {
		if strings.EqualFold(c, prefix) {
			return true
		}
	}
	return false
}
