package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuizPromptDeterministic(t *testing.T) {
	a, _ := BuildQuizPrompt("The mitochondria is the powerhouse of the cell", 5, "mcq", "", 10000)
	b, _ := BuildQuizPrompt("The mitochondria is the powerhouse of the cell", 5, "mcq", "", 10000)
	assert.Equal(t, a, b)
}

func TestBuildQuizPromptTypeInstructions(t *testing.T) {
	tests := []struct {
		questionType string
		want         string
	}{
		{"mcq", "only multiple choice"},
		{"free_response", "only free-response"},
		{"mixed", "a mix of multiple choice and free-response"},
	}
	for _, tt := range tests {
		t.Run(tt.questionType, func(t *testing.T) {
			prompt, truncated := BuildQuizPrompt("some notes", 3, tt.questionType, "", 10000)
			assert.False(t, truncated)
			assert.Contains(t, prompt, tt.want)
			assert.Contains(t, prompt, "generate exactly 3 study questions")
		})
	}
}

func TestBuildQuizPromptCustomInstructions(t *testing.T) {
	prompt, _ := BuildQuizPrompt("notes", 5, "mixed", "  focus on dates  ", 10000)
	assert.Contains(t, prompt, "ADDITIONAL INSTRUCTIONS FROM USER:\nfocus on dates")

	prompt, _ = BuildQuizPrompt("notes", 5, "mixed", "   ", 10000)
	assert.NotContains(t, prompt, "ADDITIONAL INSTRUCTIONS")
}

func TestBuildQuizPromptTruncation(t *testing.T) {
	notes := strings.Repeat("x", 500)
	prompt, truncated := BuildQuizPrompt(notes, 5, "mixed", "", 100)

	require.True(t, truncated)
	assert.Contains(t, prompt, "[... notes truncated ...]")
	assert.NotContains(t, prompt, strings.Repeat("x", 101))

	// Under the limit nothing is cut
	prompt, truncated = BuildQuizPrompt("short notes", 5, "mixed", "", 100)
	assert.False(t, truncated)
	assert.Contains(t, prompt, "short notes")
	assert.NotContains(t, prompt, "truncated")
}

func TestBuildRecallPrompt(t *testing.T) {
	prompt, truncated := BuildRecallPrompt("## Cells\nMitochondria make energy", "cells have mitochondria", 10000)

	assert.False(t, truncated)
	assert.Contains(t, prompt, "ORIGINAL NOTES:\n## Cells\nMitochondria make energy")
	assert.Contains(t, prompt, "STUDENT'S RECALL ATTEMPT:\ncells have mitochondria")
	assert.Contains(t, prompt, `"score": 75`)
	assert.Contains(t, prompt, "Return ONLY the JSON object")
}

func TestBuildRecallPromptTruncatesNotesOnly(t *testing.T) {
	notes := strings.Repeat("n", 300)
	recall := "everything I remember"
	prompt, truncated := BuildRecallPrompt(notes, recall, 50)

	require.True(t, truncated)
	// The user's recall text is never cut
	assert.Contains(t, prompt, recall)
}

func TestBuildGradingPrompt(t *testing.T) {
	prompt := BuildGradingPrompt("What powers the cell?", "The mitochondria", "ATP production", "mitochondria")

	assert.Contains(t, prompt, "QUESTION:\nWhat powers the cell?")
	assert.Contains(t, prompt, "EXPECTED ANSWER:\nThe mitochondria")
	assert.Contains(t, prompt, "GRADING NOTES:\nATP production")
	assert.Contains(t, prompt, "STUDENT'S ANSWER:\nmitochondria")

	// No grading notes section without an explanation
	prompt = BuildGradingPrompt("Q", "A", "  ", "B")
	assert.NotContains(t, prompt, "GRADING NOTES")
}
