package llm

import (
	"fmt"
	"strings"
)

// System prompts pin the model to JSON-only output for each task.
const (
	QuizSystemPrompt = `You are an expert educator creating study questions.
Your task is to generate high-quality questions that test understanding and recall of the provided notes.
Always respond with valid JSON only, no markdown formatting.`

	RecallSystemPrompt = `You are an expert educator analyzing a student's recall attempt.
Compare what they remembered against the original notes and provide detailed, constructive feedback.
Always respond with valid JSON only, no markdown formatting.`

	GradingSystemPrompt = `You are an expert educator grading a student's answer to a study question.
Judge semantic equivalence, not wording. Respond with a single word: "yes" if the answer is correct, "no" if it is not.`
)

const truncationMarker = "\n\n[... notes truncated ...]"

// truncateNotes bounds combined note text to maxChars. Content is cut from the
// end and a marker appended so the model knows material is missing.
func truncateNotes(notes string, maxChars int) (string, bool) {
	if maxChars <= 0 || len(notes) <= maxChars {
		return notes, false
	}
	cut := maxChars - len(truncationMarker)
	if cut < 0 {
		cut = 0
	}
	return notes[:cut] + truncationMarker, true
}

// BuildQuizPrompt assembles the question-generation prompt. Returns the prompt
// and whether the note text was truncated to fit maxChars.
func BuildQuizPrompt(notes string, numQuestions int, questionType, customInstructions string, maxChars int) (string, bool) {
	var typeInstruction string
	switch questionType {
	case "mcq":
		typeInstruction = "Generate only multiple choice questions with 4 options each."
	case "free_response":
		typeInstruction = "Generate only free-response/open-ended questions."
	default:
		typeInstruction = "Generate a mix of multiple choice and free-response questions."
	}

	customSection := ""
	if strings.TrimSpace(customInstructions) != "" {
		customSection = fmt.Sprintf("\n\nADDITIONAL INSTRUCTIONS FROM USER:\n%s\n", strings.TrimSpace(customInstructions))
	}

	notes, truncated := truncateNotes(notes, maxChars)

	prompt := fmt.Sprintf(`Based on the following notes, generate exactly %d study questions.
%s
%s
NOTES:
%s

Respond with a JSON array of questions in this exact format:
[
  {
    "question_type": "mcq",
    "question_text": "What is...",
    "options": ["A) Option 1", "B) Option 2", "C) Option 3", "D) Option 4"],
    "correct_answer": "A) Option 1",
    "explanation": "This is correct because..."
  },
  {
    "question_type": "free_response",
    "question_text": "Explain how...",
    "options": null,
    "correct_answer": "The expected answer covers...",
    "explanation": "Key points to include are..."
  }
]

Return ONLY the JSON array, no other text.`, numQuestions, typeInstruction, customSection, notes)

	return prompt, truncated
}

// BuildRecallPrompt assembles the recall-analysis prompt
func BuildRecallPrompt(notes, userRecall string, maxChars int) (string, bool) {
	notes, truncated := truncateNotes(notes, maxChars)

	prompt := fmt.Sprintf(`Compare the student's recall attempt against the original notes and analyze their understanding.

ORIGINAL NOTES:
%s

STUDENT'S RECALL ATTEMPT:
%s

Analyze their recall and respond with JSON in this exact format:
{
  "score": 75,
  "correct_points": [
    "The student correctly remembered that...",
    "They accurately recalled..."
  ],
  "missed_points": [
    {
      "topic": "Topic they missed",
      "explanation": "The notes mentioned that... This is important because..."
    }
  ],
  "inaccuracies": [
    {
      "what_they_said": "Student's inaccurate statement",
      "correction": "The correct information is...",
      "explanation": "This matters because..."
    }
  ],
  "suggestions": [
    "To improve retention, consider...",
    "Focus more on..."
  ],
  "summary": "Overall assessment of their recall performance..."
}

The score should be a percentage (0-100) based on how much of the key information they recalled correctly.
Return ONLY the JSON object, no other text.`, notes, userRecall)

	return prompt, truncated
}

// BuildGradingPrompt assembles the free-response grading prompt
func BuildGradingPrompt(questionText, correctAnswer, explanation, userAnswer string) string {
	explanationSection := ""
	if strings.TrimSpace(explanation) != "" {
		explanationSection = fmt.Sprintf("\nGRADING NOTES:\n%s\n", explanation)
	}

	return fmt.Sprintf(`QUESTION:
%s

EXPECTED ANSWER:
%s
%s
STUDENT'S ANSWER:
%s

Is the student's answer correct? Respond with a single word: "yes" or "no".`, questionText, correctAnswer, explanationSection, userAnswer)
}
