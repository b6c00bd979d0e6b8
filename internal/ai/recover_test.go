package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecover(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want map[string]any
	}{
		{
			name: "plain object",
			raw:  `{"cover":{"title":"Plan"}}`,
			want: map[string]any{"cover": map[string]any{"title": "Plan"}},
		},
		{
			name: "fenced block",
			raw:  "Here is the plan:\n```json\n{\"a\": 1}\n```\nGood luck!",
			want: map[string]any{"a": float64(1)},
		},
		{
			name: "fence without language",
			raw:  "```\n{\"a\": \"b\"}\n```",
			want: map[string]any{"a": "b"},
		},
		{
			name: "prose around object",
			raw:  `Sure! {"a": {"b": [1, 2]}} Let me know.`,
			want: map[string]any{"a": map[string]any{"b": []any{float64(1), float64(2)}}},
		},
		{
			name: "trailing commas",
			raw:  `{"a": [1, 2,], "b": "x",}`,
			want: map[string]any{"a": []any{float64(1), float64(2)}, "b": "x"},
		},
		{
			name: "comments and unquoted keys",
			raw:  "{\n  // overview\n  title: \"Plan\", /* note */ count: 2\n}",
			want: map[string]any{"title": "Plan", "count": float64(2)},
		},
		{
			name: "truncated string",
			raw:  `{"a": "x", "b": "unfinished`,
			want: map[string]any{"a": "x", "b": "unfinished"},
		},
		{
			name: "truncated after colon",
			raw:  `{"a": {"b": [1, 2], "c":`,
			want: map[string]any{"a": map[string]any{"b": []any{float64(1), float64(2)}, "c": nil}},
		},
		{
			name: "single-quoted strings in fence",
			raw:  "```json\n{'a': 'b'}\n```",
			want: map[string]any{"a": "b"},
		},
		{
			name: "single-quoted value with quotes inside",
			raw:  `{'quote': 'she said "hi" and it\'s fine', "owner's": "Alex's cafe"}`,
			want: map[string]any{"quote": `she said "hi" and it's fine`, "owner's": "Alex's cafe"},
		},
		{
			name: "comment markers inside strings survive",
			raw:  `{"url": "https://example.com/a,}"}`,
			want: map[string]any{"url": "https://example.com/a,}"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Recover(tc.raw)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRecoverReturnsNil(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"I could not produce a plan today.",
		`["not", "an", "object"]`,
		"null",
	} {
		assert.Nil(t, Recover(raw), "input %q", raw)
	}
}
