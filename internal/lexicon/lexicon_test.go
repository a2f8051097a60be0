package lexicon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricPatterns_CompiledInOrder(t *testing.T) {
	assert.Len(t, MetricPatterns, len(metricPatternSources))
	for i, re := range MetricPatterns {
		assert.Contains(t, re.String(), metricPatternSources[i])
		assert.True(t, strings.HasPrefix(re.String(), "(?i)"), "pattern %d should be case-insensitive", i)
	}
}

func TestMetricPatterns_Examples(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"percentage", "cut latency by 40%", true},
		{"dollar", "saved $12,000 annually", true},
		{"scale suffix", "served 50M users", true},
		{"comma grouped", "processed 100,000 events", true},
		{"unit count", "handled 300 requests per second", true},
		{"written magnitude", "reached 2 million devices", true},
		{"multiplier", "made builds 3 x faster", true},
		{"plain text", "wrote documentation for the team", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched := false
			for _, re := range MetricPatterns {
				if re.MatchString(tt.text) {
					matched = true
					break
				}
			}
			assert.Equal(t, tt.expected, matched)
		})
	}
}

func TestVerbLists_Lowercase(t *testing.T) {
	for _, v := range append(append([]string{}, StrongActionVerbs...), StrengthVerbs...) {
		assert.Equal(t, strings.ToLower(v), v)
	}
}

func TestStrengthVerbs_SubsetOfStrongActionVerbs(t *testing.T) {
	strong := make(map[string]bool, len(StrongActionVerbs))
	for _, v := range StrongActionVerbs {
		strong[v] = true
	}
	for _, v := range StrengthVerbs {
		assert.True(t, strong[v], "%s should also be a strong action verb", v)
	}
}

func TestVersion_Set(t *testing.T) {
	assert.NotEmpty(t, Version)
}
