package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Classifier status values.
// The classifier reports one of these; anything else is treated as a
// safe-equivalent status by Classify.
const (
	StatusScam             = "SCAM"
	StatusLikelyScam       = "Likely Scam"
	StatusSuspicious       = "Suspicious"
	StatusNeedsMoreContext = "Needs More Context"
	StatusLikelySafe       = "Likely Safe"
)

// RiskUncertain is the risk level sentinel that marks an inconclusive result.
const RiskUncertain = "Uncertain"

// DefaultHighlightReason is shown when the classifier omits a reason.
const DefaultHighlightReason = "Flagged by model"

// Answer is the user's reply to a follow-up question.
type Answer string

const (
	// AnswerYes is an affirmative answer.
	AnswerYes Answer = "yes"
	// AnswerNo is a negative answer.
	AnswerNo Answer = "no"
)

// ErrInvalidAnswer is returned by ParseAnswer for anything but yes/no.
var ErrInvalidAnswer = errors.New("invalid answer: must be yes or no")

// ParseAnswer converts user input into an Answer.
// It accepts yes/no and the single-letter forms y/n, case-insensitively.
func ParseAnswer(s string) (Answer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y":
		return AnswerYes, nil
	case "no", "n":
		return AnswerNo, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAnswer, s)
	}
}

// ScanRequest is the body of a classification call.
type ScanRequest struct {
	// Message is the text to classify. It must be non-empty after trimming.
	Message string `json:"message"`

	// FollowupAnswers maps question IDs to answers.
	// Unanswered questions are absent rather than empty.
	FollowupAnswers map[string]Answer `json:"followup_answers,omitempty"`

	// FollowupSubmitted marks a refinement round.
	FollowupSubmitted bool `json:"followup_submitted,omitempty"`
}

// FollowupQuestion is a yes/no question the classifier asks when it is unsure.
type FollowupQuestion struct {
	// ID is unique within one result.
	ID string `json:"id"`

	// Text is the question shown to the user.
	Text string `json:"text"`
}

// Highlight is a term the classifier considers suspicious.
//
// On the wire the classifier sends highlights as 3-tuples
// ["term", impact, "reason"]; the object form is accepted as well.
type Highlight struct {
	Term   string  `json:"term"`
	Impact float64 `json:"impact"`
	Reason string  `json:"reason"`
}

// UnmarshalJSON decodes either the tuple or the object form.
func (h *Highlight) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		type plain Highlight
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("invalid highlight: %w", err)
		}
		*h = Highlight(p)
		return nil
	}

	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("invalid highlight tuple: %w", err)
	}
	if len(tuple) == 0 {
		return errors.New("invalid highlight tuple: empty")
	}

	var out Highlight
	if err := json.Unmarshal(tuple[0], &out.Term); err != nil {
		return fmt.Errorf("invalid highlight term: %w", err)
	}
	if len(tuple) > 1 {
		if err := json.Unmarshal(tuple[1], &out.Impact); err != nil {
			return fmt.Errorf("invalid highlight impact: %w", err)
		}
	}
	if len(tuple) > 2 {
		// A null reason is the same as a missing one.
		_ = json.Unmarshal(tuple[2], &out.Reason) //nolint:errcheck // reason is optional
	}

	*h = out
	return nil
}

// MarshalJSON encodes the highlight in the classifier's tuple form.
func (h Highlight) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{h.Term, h.Impact, h.Reason})
}

// ReasonOrDefault returns the reason, or DefaultHighlightReason when empty.
func (h Highlight) ReasonOrDefault() string {
	if strings.TrimSpace(h.Reason) == "" {
		return DefaultHighlightReason
	}
	return h.Reason
}

// ScanResult is the classifier's assessment of one message.
//
// A ScanResult is treated as immutable once produced: refinement yields a
// new ScanResult that replaces the previous one, it never edits it. Use
// Clone when a copy with independent slices is needed.
type ScanResult struct {
	// Message is the classified text echoed back by the classifier.
	Message string `json:"message"`

	// Status is one of the Status* constants or a safe-equivalent value.
	Status string `json:"status"`

	// Probability is the scam probability in percent, always within [0,100].
	Probability int `json:"probability"`

	// RiskLevel is the classifier's risk band; RiskUncertain is a sentinel.
	RiskLevel string `json:"risk_level"`

	// ScamType is a short human-readable category.
	ScamType string `json:"scam_type"`

	// Highlights are the flagged terms, in classifier order.
	Highlights []Highlight `json:"highlights"`

	// ScamGoal describes what the scam wants.
	ScamGoal string `json:"scam_goal"`

	// WhatToDo lists immediate actions.
	WhatToDo string `json:"what_to_do"`

	// HowToAvoid lists prevention tips.
	HowToAvoid string `json:"how_to_avoid"`

	// IsUncertain is set when the classifier wants more context.
	IsUncertain bool `json:"is_uncertain"`

	// FollowupQuestions are asked when IsUncertain is set.
	FollowupQuestions []FollowupQuestion `json:"followup_questions"`
}

// UnmarshalJSON decodes a ScanResult, tolerating a null or fractional
// probability and clamping it into [0,100].
func (r *ScanResult) UnmarshalJSON(data []byte) error {
	type plain ScanResult
	aux := struct {
		*plain
		Probability *float64 `json:"probability"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Probability = 0
	if aux.Probability != nil {
		r.Probability = ClampProbability(*aux.Probability)
	}
	return nil
}

// ClampProbability rounds p to the nearest integer and clamps it into [0,100].
func ClampProbability(p float64) int {
	if math.IsNaN(p) {
		return 0
	}
	v := int(math.Round(p))
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// Clone returns a deep copy of the result.
func (r ScanResult) Clone() ScanResult {
	out := r
	if r.Highlights != nil {
		out.Highlights = append([]Highlight(nil), r.Highlights...)
	}
	if r.FollowupQuestions != nil {
		out.FollowupQuestions = append([]FollowupQuestion(nil), r.FollowupQuestions...)
	}
	return out
}

// HasFollowup reports whether the result carries questions to ask.
func (r ScanResult) HasFollowup() bool {
	return len(r.FollowupQuestions) > 0
}

// Question returns the follow-up question with the given ID.
func (r ScanResult) Question(id string) (FollowupQuestion, bool) {
	for _, q := range r.FollowupQuestions {
		if q.ID == id {
			return q, true
		}
	}
	return FollowupQuestion{}, false
}
