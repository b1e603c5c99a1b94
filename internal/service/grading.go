package service

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/util"
)

// QuestionResult is returned per question once a quiz has been submitted.
type QuestionResult struct {
	QuestionID    int             `json:"questionId"`
	IsCorrect     bool            `json:"isCorrect"`
	UserAnswer    json.RawMessage `json:"userAnswer"`
	CorrectAnswer json.RawMessage `json:"correctAnswer"`
	Explanation   string          `json:"explanation,omitempty"`
	Points        int             `json:"points"`
}

// GradeAnswer reports whether answer matches the question's key.
//
// Multiple choice accepts a JSON integer or a string holding one, and the index
// must be in range. Fill-blank compares lowercased, trimmed text; numbers are
// compared by their literal. True/false accepts a bool or "true"/"false".
// Essays and unknown types are never graded correct.
func GradeAnswer(q model.Question, answer json.RawMessage) bool {
	raw := bytes.TrimSpace(answer)
	if len(raw) == 0 || string(raw) == "null" {
		return false
	}

	switch q.Type {
	case model.MultipleChoice:
		var key int
		if err := json.Unmarshal(q.Correct, &key); err != nil {
			return false
		}
		idx, ok := choiceIndex(raw)
		return ok && idx >= 0 && idx < len(q.Options) && idx == key

	case model.FillBlank:
		key, ok := textAnswer(bytes.TrimSpace(q.Correct))
		if !ok {
			return false
		}
		given, ok := textAnswer(raw)
		return ok && normalizeText(given) == normalizeText(key)

	case model.TrueFalse:
		var key bool
		if err := json.Unmarshal(q.Correct, &key); err != nil {
			return false
		}
		given, ok := boolAnswer(raw)
		return ok && given == key
	}
	return false
}

func choiceIndex(raw []byte) (int, bool) {
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func textAnswer(raw []byte) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	switch {
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", false
		}
		return n.String(), true
	}
	return "", false
}

func boolAnswer(raw []byte) (bool, bool) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// gradeQuiz grades every question of the quiz. answers is keyed by the
// question id in decimal.
func gradeQuiz(questions []model.Question, answers map[string]json.RawMessage) ([]model.AttemptAnswer, []QuestionResult, int) {
	attemptAnswers := make([]model.AttemptAnswer, 0, len(questions))
	results := make([]QuestionResult, 0, len(questions))
	correct := 0

	for _, q := range questions {
		answer := answers[strconv.Itoa(q.ID)]
		isCorrect := GradeAnswer(q, answer)
		if isCorrect {
			correct++
		}

		attemptAnswers = append(attemptAnswers, model.AttemptAnswer{
			QuestionID: q.ID,
			Answer:     answer,
			IsCorrect:  isCorrect,
		})
		results = append(results, QuestionResult{
			QuestionID:    q.ID,
			IsCorrect:     isCorrect,
			UserAnswer:    answer,
			CorrectAnswer: q.Correct,
			Explanation:   q.Explanation,
			Points:        q.Points,
		})
	}
	return attemptAnswers, results, correct
}

// Score is round(100 * correct / total), or 0 for an empty quiz.
func Score(correct, total int) int {
	return util.Percent(correct, total)
}
