package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "json fence",
			reply: "```json\n{\"overall_score\": 84}\n```",
			want:  `{"overall_score": 84}`,
		},
		{
			name:  "bare fence",
			reply: "```\n{\"overall_score\": 84}\n```",
			want:  `{"overall_score": 84}`,
		},
		{
			name:  "fence with another language tag",
			reply: "```javascript\n{\"overall_score\": 84}\n```",
			want:  `{"overall_score": 84}`,
		},
		{
			name:  "plain object",
			reply: `{"improved_bullets": []}`,
			want:  `{"improved_bullets": []}`,
		},
		{
			name:  "preamble before object",
			reply: "Here is my assessment of the resume:\n\n{\"keyword_match\": 70, \"missing_keywords\": [\"Kafka\"]}",
			want:  `{"keyword_match": 70, "missing_keywords": ["Kafka"]}`,
		},
		{
			name:  "preamble before array",
			reply: "Polished bullets:\n[\"Cut p99 latency by 40%\", \"Led 3 launches\"]",
			want:  `["Cut p99 latency by 40%", "Led 3 launches"]`,
		},
		{
			name:  "trailing prose",
			reply: "{\"role_title\": \"SRE\"}\n\nLet me know if you want more detail!",
			want:  `{"role_title": "SRE"}`,
		},
		{
			name:  "braces and escaped quotes inside strings",
			reply: "Result: {\"replacement_map\": {\"Wrote {docs}\": \"Authored the \\\"runbook\\\" set\"}}",
			want:  `{"replacement_map": {"Wrote {docs}": "Authored the \"runbook\" set"}}`,
		},
		{
			name:  "fenced with prose around the value",
			reply: "```json\nSure.\n{\"a\": {\"b\": {\"c\": 1}}} done\n```",
			want:  `{"a": {"b": {"c": 1}}}`,
		},
		{
			name:  "no JSON at all",
			reply: "  Here are your bullets ",
			want:  "Here are your bullets",
		},
		{
			name:  "unterminated value is returned as is",
			reply: "Result: {\"a\": [1, 2",
			want:  `{"a": [1, 2`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.reply))
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		open, close byte
		want        string
	}{
		{"object with array", `{"items": [1, 2, 3]} tail`, '{', '}', `{"items": [1, 2, 3]}`},
		{"array of objects", `[{"id": 1}, {"id": 2}] tail`, '[', ']', `[{"id": 1}, {"id": 2}]`},
		{"nested arrays", `[[1, 2], [3, 4]]`, '[', ']', `[[1, 2], [3, 4]]`},
		{"closing brace in string", `{"s": "}"}`, '{', '}', `{"s": "}"}`},
		{"escaped backslash before quote", `{"s": "a\\"} x`, '{', '}', `{"s": "a\\"}`},
		{"empty", "", '{', '}', ""},
		{"wrong opener", "not json", '{', '}', ""},
		{"never closed", `["a", "b"`, '[', ']', ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractBalanced(tt.in, tt.open, tt.close))
		})
	}
}
