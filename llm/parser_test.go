package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validQuestionsJSON = `[
  {
    "question_type": "mcq",
    "question_text": "What is the powerhouse of the cell?",
    "options": ["A) Nucleus", "B) Mitochondria", "C) Ribosome", "D) Golgi"],
    "correct_answer": "B) Mitochondria",
    "explanation": "Mitochondria produce ATP."
  },
  {
    "question_type": "free_response",
    "question_text": "Explain cellular respiration.",
    "options": null,
    "correct_answer": "The process of converting glucose into ATP...",
    "explanation": "Key points include glycolysis."
  }
]`

func TestParseQuestionsValid(t *testing.T) {
	drafts, err := ParseQuestions(validQuestionsJSON)
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, "mcq", drafts[0].QuestionType)
	assert.Len(t, drafts[0].Options, 4)
	assert.Equal(t, "B) Mitochondria", drafts[0].CorrectAnswer)
	assert.Equal(t, "free_response", drafts[1].QuestionType)
	assert.Nil(t, drafts[1].Options)
}

func TestParseQuestionsStripsFencesAndProse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"json fence", "```json\n" + validQuestionsJSON + "\n```"},
		{"bare fence", "```\n" + validQuestionsJSON + "\n```"},
		{"prose wrapped", "Sure! Here are your questions:\n\n" + validQuestionsJSON + "\n\nLet me know if you need more."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, err := ParseQuestions(tt.raw)
			require.NoError(t, err)
			assert.Len(t, drafts, 2)
		})
	}
}

func TestParseQuestionsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"pure prose", "I am sorry, I cannot generate questions from this material."},
		{"unbalanced array", `[{"question_type": "mcq"`},
		{"broken json", `[{"question_type": mcq}]`},
		{"empty array", `[]`},
		{"empty string", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuestions(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestParseQuestionsSchemaViolations(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantField string
	}{
		{
			"unknown type",
			`[{"question_type": "essay", "question_text": "Q", "correct_answer": "A"}]`,
			"questions[0].question_type",
		},
		{
			"empty question text",
			`[{"question_type": "free_response", "question_text": " ", "correct_answer": "A"}]`,
			"questions[0].question_text",
		},
		{
			"too few options",
			`[{"question_type": "mcq", "question_text": "Q", "options": ["Only one"], "correct_answer": "Only one"}]`,
			"questions[0].options",
		},
		{
			"answer matches no option",
			`[{"question_type": "mcq", "question_text": "Q", "options": ["A) cat", "B) dog"], "correct_answer": "C) bird"}]`,
			"questions[0].correct_answer",
		},
		{
			"answer matches two options",
			`[{"question_type": "mcq", "question_text": "Q", "options": ["Paris", "paris "], "correct_answer": "Paris"}]`,
			"questions[0].correct_answer",
		},
		{
			"second draft bad fails whole batch",
			`[{"question_type": "free_response", "question_text": "Q", "correct_answer": "A"},
			  {"question_type": "mcq", "question_text": "Q2", "options": [], "correct_answer": "A"}]`,
			"questions[1].options",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuestions(tt.raw)
			require.Error(t, err)

			var sv *SchemaViolationError
			require.True(t, errors.As(err, &sv), "expected SchemaViolationError, got %v", err)
			assert.Equal(t, tt.wantField, sv.Field)
		})
	}
}

func TestParseQuestionsAnswerMatchIsCaseInsensitive(t *testing.T) {
	raw := `[{"question_type": "mcq", "question_text": "Capital of France?",
		"options": ["Paris", "London"], "correct_answer": "  PARIS  "}]`
	drafts, err := ParseQuestions(raw)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)
}

func TestParseQuestionsIdempotent(t *testing.T) {
	first, err1 := ParseQuestions(validQuestionsJSON)
	second, err2 := ParseQuestions(validQuestionsJSON)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)

	_, badErr1 := ParseQuestions("no payload here")
	_, badErr2 := ParseQuestions("no payload here")
	assert.ErrorIs(t, badErr1, ErrMalformedResponse)
	assert.ErrorIs(t, badErr2, ErrMalformedResponse)
}

const validAnalysisJSON = `{
  "score": 75,
  "correct_points": ["Remembered the mitochondria"],
  "missed_points": [{"topic": "ATP", "explanation": "Notes cover ATP synthesis."}],
  "inaccuracies": [{"what_they_said": "Cells have two nuclei", "correction": "Most have one", "explanation": "Basic cell biology."}],
  "suggestions": ["Review the energy metabolism section"],
  "summary": "Solid recall overall."
}`

func TestParseAnalysisValid(t *testing.T) {
	draft, err := ParseAnalysis(validAnalysisJSON)
	require.NoError(t, err)

	assert.Equal(t, 75, draft.Score)
	assert.Len(t, draft.CorrectPoints, 1)
	assert.Len(t, draft.MissedPoints, 1)
	assert.Equal(t, "ATP", draft.MissedPoints[0].Topic)
	assert.Len(t, draft.Inaccuracies, 1)
	assert.Equal(t, "Solid recall overall.", draft.Summary)
}

func TestParseAnalysisClampsScore(t *testing.T) {
	tests := []struct {
		name  string
		score string
		want  int
	}{
		{"above range", "150", 100},
		{"below range", "-5", 0},
		{"in range", "42", 42},
		{"fractional", "66.7", 67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"score": ` + tt.score + `, "summary": "ok"}`
			draft, err := ParseAnalysis(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, draft.Score)
		})
	}
}

func TestParseAnalysisDefaultsMissingArrays(t *testing.T) {
	draft, err := ParseAnalysis(`{"score": 10, "summary": "thin recall"}`)
	require.NoError(t, err)

	assert.NotNil(t, draft.CorrectPoints)
	assert.Empty(t, draft.CorrectPoints)
	assert.NotNil(t, draft.MissedPoints)
	assert.Empty(t, draft.MissedPoints)
	assert.NotNil(t, draft.Inaccuracies)
	assert.Empty(t, draft.Inaccuracies)
	assert.NotNil(t, draft.Suggestions)
	assert.Empty(t, draft.Suggestions)
}

func TestParseAnalysisSchemaViolations(t *testing.T) {
	var sv *SchemaViolationError

	_, err := ParseAnalysis(`{"summary": "no score"}`)
	require.Error(t, err)
	require.True(t, errors.As(err, &sv))
	assert.Equal(t, "score", sv.Field)

	_, err = ParseAnalysis(`{"score": 50}`)
	require.Error(t, err)
	require.True(t, errors.As(err, &sv))
	assert.Equal(t, "summary", sv.Field)
}

func TestParseAnalysisMalformed(t *testing.T) {
	_, err := ParseAnalysis("The student did quite well, I would say around 80%.")
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = ParseAnalysis(`{"score": `)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseAnalysisWrappedInFence(t *testing.T) {
	draft, err := ParseAnalysis("```json\n" + validAnalysisJSON + "\n```")
	require.NoError(t, err)
	assert.Equal(t, 75, draft.Score)
}

func TestExtractPayloadIgnoresBracketsInStrings(t *testing.T) {
	raw := `noise [{"question_type": "free_response", "question_text": "What does arr[0] mean?", "correct_answer": "First element [index zero]"}] trailing`
	drafts, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "What does arr[0] mean?", drafts[0].QuestionText)
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"yes", true},
		{"Yes.", true},
		{"YES, the answer is correct.", true},
		{"correct", true},
		{"true", true},
		{"no", false},
		{"No, the student missed the key point.", false},
		{"The answer is mostly right.", false},
		{"", false},
		{"maybe", false},
		{`"yes"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseVerdict(tt.raw))
		})
	}
}

func TestAnswersMatch(t *testing.T) {
	assert.True(t, AnswersMatch("  paris ", "Paris"))
	assert.True(t, AnswersMatch("PARIS", "paris"))
	assert.False(t, AnswersMatch("pari", "Paris"))
	assert.False(t, AnswersMatch("", "Paris"))
}
