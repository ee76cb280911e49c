// Package analysis normalises the metadata an AI reviewer attaches to a legal
// complaint, so that only known urgency and privacy values reach storage.
package analysis

import (
	"civicchain/backend/internal/config"
	"slices"
	"strings"
)

// NormalizeUrgency maps a suggested urgency onto one of config.Urgencies.
// Unknown or empty suggestions fall back to config.DefaultUrgency.
func NormalizeUrgency(suggested string) string {
	u := strings.ToLower(strings.TrimSpace(suggested))
	if slices.Contains(config.Urgencies, u) {
		return u
	}
	return config.DefaultUrgency
}

// NormalizePrivacy picks the suggested privacy level, then the level requested
// by the submitter, then config.DefaultPrivacy.
func NormalizePrivacy(suggested, requested string) string {
	for _, candidate := range []string{suggested, requested} {
		p := strings.ToLower(strings.TrimSpace(candidate))
		if slices.Contains(config.PrivacyLevels, p) {
			return p
		}
	}
	return config.DefaultPrivacy
}

// UrgencyRank returns the position of urgency in config.Urgencies, or -1.
func UrgencyRank(urgency string) int {
	return slices.Index(config.Urgencies, urgency)
}
