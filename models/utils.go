package models

import "strings"

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

// NormalizeKey lower-cases and trims catalogue keys such as instruments and event types.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
