package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QuestionDraft is a generated question before persistence
type QuestionDraft struct {
	QuestionType  string   `json:"question_type"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// MissedPoint is material present in the notes but absent from the recall
type MissedPoint struct {
	Topic       string `json:"topic"`
	Explanation string `json:"explanation"`
}

// Inaccuracy is a recalled statement that contradicts the notes
type Inaccuracy struct {
	WhatTheySaid string `json:"what_they_said"`
	Correction   string `json:"correction"`
	Explanation  string `json:"explanation"`
}

// AnalysisDraft is a parsed recall analysis. Score is always within [0, 100]
// and the slice fields are never nil.
type AnalysisDraft struct {
	Score         int          `json:"score"`
	CorrectPoints []string     `json:"correct_points"`
	MissedPoints  []MissedPoint `json:"missed_points"`
	Inaccuracies  []Inaccuracy `json:"inaccuracies"`
	Suggestions   []string     `json:"suggestions"`
	Summary       string       `json:"summary"`
}

// AnswersMatch compares an answer pair the way MCQ grading does:
// case-insensitive equality after trimming surrounding whitespace.
func AnswersMatch(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// extractPayload locates the first balanced top-level region delimited by open
// and close within raw. Models routinely wrap JSON in prose or code fences, so
// everything outside the region is discarded. The scanner is string-aware:
// brackets inside JSON strings do not count.
func extractPayload(raw string, open, close byte) (string, bool) {
	start := strings.IndexByte(raw, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}

// ParseQuestions parses raw model output into a batch of question drafts. The
// batch validates as a whole: a single bad draft fails everything, so callers
// never persist a partial set.
func ParseQuestions(raw string) ([]QuestionDraft, error) {
	payload, ok := extractPayload(raw, '[', ']')
	if !ok {
		return nil, fmt.Errorf("no JSON array found: %w", ErrMalformedResponse)
	}

	var drafts []QuestionDraft
	if err := json.Unmarshal([]byte(payload), &drafts); err != nil {
		return nil, fmt.Errorf("decode questions: %v: %w", err, ErrMalformedResponse)
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("empty question array: %w", ErrMalformedResponse)
	}

	for i, draft := range drafts {
		if err := validateQuestion(i, draft); err != nil {
			return nil, err
		}
	}
	return drafts, nil
}

func validateQuestion(i int, draft QuestionDraft) error {
	field := func(name string) string { return fmt.Sprintf("questions[%d].%s", i, name) }

	switch draft.QuestionType {
	case "mcq", "free_response":
	default:
		return &SchemaViolationError{Field: field("question_type"), Reason: fmt.Sprintf("unknown type %q", draft.QuestionType)}
	}
	if strings.TrimSpace(draft.QuestionText) == "" {
		return &SchemaViolationError{Field: field("question_text"), Reason: "empty"}
	}
	if strings.TrimSpace(draft.CorrectAnswer) == "" {
		return &SchemaViolationError{Field: field("correct_answer"), Reason: "empty"}
	}

	if draft.QuestionType == "mcq" {
		if len(draft.Options) < 2 {
			return &SchemaViolationError{Field: field("options"), Reason: "mcq requires at least 2 options"}
		}
		matches := 0
		for _, opt := range draft.Options {
			if AnswersMatch(opt, draft.CorrectAnswer) {
				matches++
			}
		}
		if matches != 1 {
			return &SchemaViolationError{
				Field:  field("correct_answer"),
				Reason: fmt.Sprintf("must match exactly one option, matched %d", matches),
			}
		}
	}
	return nil
}

// ParseAnalysis parses raw model output into a recall analysis draft.
// Out-of-range scores clamp to [0, 100] rather than failing; model scoring is
// approximate by nature. Absent arrays default to empty.
func ParseAnalysis(raw string) (*AnalysisDraft, error) {
	payload, ok := extractPayload(raw, '{', '}')
	if !ok {
		return nil, fmt.Errorf("no JSON object found: %w", ErrMalformedResponse)
	}

	// Score decodes through a float so "75.0" style values survive.
	var decoded struct {
		Score         *float64      `json:"score"`
		CorrectPoints []string      `json:"correct_points"`
		MissedPoints  []MissedPoint `json:"missed_points"`
		Inaccuracies  []Inaccuracy  `json:"inaccuracies"`
		Suggestions   []string      `json:"suggestions"`
		Summary       string        `json:"summary"`
	}
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, fmt.Errorf("decode analysis: %v: %w", err, ErrMalformedResponse)
	}

	if decoded.Score == nil {
		return nil, &SchemaViolationError{Field: "score", Reason: "missing"}
	}
	if strings.TrimSpace(decoded.Summary) == "" {
		return nil, &SchemaViolationError{Field: "summary", Reason: "missing"}
	}

	draft := &AnalysisDraft{
		Score:         clampScore(int(*decoded.Score + 0.5)),
		CorrectPoints: decoded.CorrectPoints,
		MissedPoints:  decoded.MissedPoints,
		Inaccuracies:  decoded.Inaccuracies,
		Suggestions:   decoded.Suggestions,
		Summary:       decoded.Summary,
	}
	if draft.CorrectPoints == nil {
		draft.CorrectPoints = []string{}
	}
	if draft.MissedPoints == nil {
		draft.MissedPoints = []MissedPoint{}
	}
	if draft.Inaccuracies == nil {
		draft.Inaccuracies = []Inaccuracy{}
	}
	if draft.Suggestions == nil {
		draft.Suggestions = []string{}
	}
	return draft, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ParseVerdict interprets a grading response as a boolean. Only a confidently
// affirmative first word grades true; anything ambiguous grades false.
func ParseVerdict(raw string) bool {
	text := strings.ToLower(strings.TrimSpace(raw))
	text = strings.Trim(text, "\"'`*.,!: ")
	if text == "" {
		return false
	}
	first := text
	if idx := strings.IndexAny(text, " \t\n.,!:"); idx >= 0 {
		first = text[:idx]
	}
	switch first {
	case "yes", "correct", "true":
		return true
	}
	return false
}
