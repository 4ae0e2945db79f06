package metadata

import (
	"strconv"
	"strings"
)

// posterSentinels are values providers use in place of a missing poster.
var posterSentinels = map[string]bool{
	"":     true,
	"n/a":  true,
	"na":   true,
	"none": true,
	"null": true,
}

// parseYear extracts a leading four-digit year ("2010", "2010-05-01",
// "2010–2015"). Anything else yields nil.
func parseYear(raw string) *int {
	raw = strings.TrimSpace(raw)
	if len(raw) < 4 {
		return nil
	}
	prefix := raw[:4]
	for i := 0; i < len(prefix); i++ {
		if prefix[i] < '0' || prefix[i] > '9' {
			return nil
		}
	}
	if len(raw) > 4 && raw[4] >= '0' && raw[4] <= '9' {
		return nil
	}
	year, err := strconv.Atoi(prefix)
	if err != nil || year == 0 {
		return nil
	}
	return &year
}

// normalizePoster maps provider "no poster" sentinels to nil.
func normalizePoster(raw string) *string {
	raw = strings.TrimSpace(raw)
	if posterSentinels[strings.ToLower(raw)] {
		return nil
	}
	return &raw
}

func optionalString(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &raw
}

func isBlankQuery(query string) bool {
	return strings.TrimSpace(query) == ""
}
