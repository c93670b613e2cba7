package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadedDocument is a decoded upload. It is consumed once by the extractor.
type UploadedDocument struct {
	Bytes    []byte
	Name     string
	MIMEType string
}

// Format resolves the decoder format for the document.
func (d UploadedDocument) Format() DocumentFormat {
	return ResolveFormat(d.Name, d.MIMEType)
}

// ScoreNotProvided is rendered for a score the caller left out.
const ScoreNotProvided = "N/D"

// Score is an evaluator rating passed through to the prompt unvalidated.
// It accepts a JSON number or string and keeps its literal text.
type Score struct {
	raw string
}

// NewScore builds a Score from its textual form.
func NewScore(s string) Score {
	return Score{raw: strings.TrimSpace(s)}
}

// UnmarshalJSON keeps numbers verbatim and unquotes strings; null is empty.
func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		s.raw = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s.raw = strings.TrimSpace(str)
		return nil
	}
	s.raw = string(data)
	return nil
}

// MarshalJSON writes the score back as its literal text.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.IsSet() {
		return []byte("null"), nil
	}
	if json.Valid([]byte(s.raw)) {
		return []byte(s.raw), nil
	}
	return json.Marshal(s.raw)
}

// IsSet reports whether the caller supplied a value.
func (s Score) IsSet() bool {
	return s.raw != ""
}

func (s Score) String() string {
	if !s.IsSet() {
		return ScoreNotProvided
	}
	return s.raw
}

// EvaluationScores holds the three evaluator ratings, nominally 1-10.
type EvaluationScores struct {
	Clarity     Score `json:"c1"`
	Feasibility Score `json:"c2"`
	Compliance  Score `json:"c3"`
}

// EvaluationRequest carries everything one evaluation needs.
type EvaluationRequest struct {
	RequestID   string
	PPO         UploadedDocument
	Precedent   *UploadedDocument
	Scores      EvaluationScores
	NotifyEmail string
}

// References holds the extracted text of every reference role.
type References map[ReferenceRole]string

// EvaluationReport is the model output returned to the caller unmodified.
type EvaluationReport struct {
	ID        uuid.UUID     `json:"id"`
	Text      string        `json:"text"`
	ModelUsed string        `json:"model_used"`
	Duration  time.Duration `json:"duration"`
}
