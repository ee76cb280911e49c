package analysis_test

import (
	"civicchain/backend/internal/analysis"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUrgency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"high", "high"},
		{" Critical ", "critical"},
		{"LOW", "low"},
		{"", "medium"},
		{"urgent!!", "medium"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, analysis.NormalizeUrgency(tt.in))
		})
	}
}

func TestNormalizePrivacy(t *testing.T) {
	assert.Equal(t, "private", analysis.NormalizePrivacy("private", "public"), "suggestion wins")
	assert.Equal(t, "anonymous", analysis.NormalizePrivacy("", "anonymous"), "falls back to the request")
	assert.Equal(t, "public", analysis.NormalizePrivacy("secret", "hidden"), "unknown values fall back to public")
	assert.Equal(t, "public", analysis.NormalizePrivacy("", ""))
}

func TestUrgencyRank(t *testing.T) {
	assert.Less(t, analysis.UrgencyRank("low"), analysis.UrgencyRank("critical"))
	assert.Equal(t, -1, analysis.UrgencyRank("unknown"))
}
