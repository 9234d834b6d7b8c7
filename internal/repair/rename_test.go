package repair

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRename_StrictJSON(t *testing.T) {
	raw := `{"suggested_name": "Q3 Financial Report", "confidence": 0.92, "reasoning": "document header mentions Q3 financials"}`

	result := Rename(raw)

	assert.Equal(t, "Q3_Financial_Report", result.SuggestedName)
	assert.Equal(t, 0.92, result.Confidence)
	assert.Equal(t, "document header mentions Q3 financials", result.Reasoning)
}

func TestRename_JSONInsideCodeFence(t *testing.T) {
	raw := "Here is the suggestion:\n```json\n{\"suggested_name\": \"invoice_march\", \"confidence\": 0.8, \"reasoning\": \"invoice dated march\"}\n```"

	result := Rename(raw)

	assert.Equal(t, "invoice_march", result.SuggestedName)
	assert.Equal(t, 0.8, result.Confidence)
}

func TestRename_ClampsVendorConfidence(t *testing.T) {
	raw := `{"suggested_name": "notes", "confidence": 7.5, "reasoning": "x"}`

	result := Rename(raw)

	assert.Equal(t, 1.0, result.Confidence)
}

func TestRename_UnparseableFallsBackToHeuristic(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain prose",
			raw:  "This document appears to be a tax return from 2023",
			want: "this_document_appears_to",
		},
		{
			name: "not json",
			raw:  "not json",
			want: "not_json",
		},
		{
			name: "punctuation stripped",
			raw:  "Re: invoice #42 (final!)",
			want: "re_invoice_42_final",
		},
		{
			name: "empty input",
			raw:  "",
			want: "untitled",
		},
		{
			name: "json with empty name",
			raw:  `{"suggested_name": "", "confidence": 0.9}`,
			want: "suggestedname_confidence_09",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Rename(tc.raw)

			assert.Equal(t, tc.want, result.SuggestedName)
			assert.LessOrEqual(t, result.Confidence, 0.5)
			assert.NotEmpty(t, result.Reasoning)
		})
	}
}

func TestRename_AlwaysPopulatesAllFields(t *testing.T) {
	for _, raw := range []string{"", "{", "null", "[1,2,3]", strings.Repeat("x ", 500)} {
		result := Rename(raw)
		assert.NotEmpty(t, result.SuggestedName, "raw=%q", raw)
		assert.NotEmpty(t, result.Reasoning, "raw=%q", raw)
	}
}

func TestHeuristicName_CapsLength(t *testing.T) {
	raw := strings.Repeat("abcdefghijklmnop", 10) + " tail"
	name := HeuristicName(raw)
	assert.LessOrEqual(t, len(name), 48)
	assert.NotEmpty(t, name)
}

func TestSanitizeName(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"My Report.pdf", "My_Reportpdf"},
		{"a/b\\c", "abc"},
		{"   ", "untitled"},
		{"clean_name", "cleanname"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeName(tc.in))
		})
	}
}
