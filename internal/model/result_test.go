package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// TestScanResultUnmarshal tests decoding of the classifier payload.
func TestScanResultUnmarshal(t *testing.T) {
	t.Parallel()

	t.Run("decodes tuple highlights and follow-up questions", func(t *testing.T) {
		t.Parallel()

		payload := `{
			"message": "You have won a $1000 prize! Click here",
			"status": "Likely Scam",
			"probability": 87,
			"risk_level": "High",
			"scam_type": "Lottery / Prize Scam",
			"highlights": [["prize", 0.41, "lottery scam term"], ["click here", 0.33, "urgency term"]],
			"is_uncertain": false,
			"followup_questions": [{"id": "q1", "text": "Did sender ask for payment?"}]
		}`

		var r ScanResult
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if r.Probability != 87 {
			t.Errorf("expected probability 87, got %d", r.Probability)
		}
		if len(r.Highlights) != 2 {
			t.Fatalf("expected 2 highlights, got %d", len(r.Highlights))
		}
		if r.Highlights[1].Term != "click here" || r.Highlights[1].Impact != 0.33 || r.Highlights[1].Reason != "urgency term" {
			t.Errorf("unexpected highlight: %+v", r.Highlights[1])
		}
		q, ok := r.Question("q1")
		if !ok || q.Text != "Did sender ask for payment?" {
			t.Errorf("expected question q1, got %+v (found=%v)", q, ok)
		}
	})

	t.Run("accepts object highlights", func(t *testing.T) {
		t.Parallel()

		var r ScanResult
		err := json.Unmarshal([]byte(`{"highlights":[{"term":"otp","impact":0.9,"reason":"never share"}]}`), &r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(r.Highlights) != 1 || r.Highlights[0].Term != "otp" {
			t.Errorf("unexpected highlights: %+v", r.Highlights)
		}
	})

	t.Run("tuple without reason uses default", func(t *testing.T) {
		t.Parallel()

		var r ScanResult
		if err := json.Unmarshal([]byte(`{"highlights":[["cash", 0.2]]}`), &r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := r.Highlights[0].ReasonOrDefault(); got != DefaultHighlightReason {
			t.Errorf("expected default reason, got %q", got)
		}
	})

	t.Run("null probability decodes to zero", func(t *testing.T) {
		t.Parallel()

		var r ScanResult
		if err := json.Unmarshal([]byte(`{"probability": null, "status": null}`), &r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Probability != 0 {
			t.Errorf("expected 0, got %d", r.Probability)
		}
	})

	t.Run("probability is clamped", func(t *testing.T) {
		t.Parallel()

		var r ScanResult
		if err := json.Unmarshal([]byte(`{"probability": 140.2}`), &r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Probability != 100 {
			t.Errorf("expected 100, got %d", r.Probability)
		}
		if err := json.Unmarshal([]byte(`{"probability": -3}`), &r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Probability != 0 {
			t.Errorf("expected 0, got %d", r.Probability)
		}
	})

	t.Run("rejects malformed highlight", func(t *testing.T) {
		t.Parallel()

		var r ScanResult
		if err := json.Unmarshal([]byte(`{"highlights":[[]]}`), &r); err == nil {
			t.Error("expected error for empty tuple")
		}
		if err := json.Unmarshal([]byte(`{"highlights":[[1, 2, 3]]}`), &r); err == nil {
			t.Error("expected error for numeric term")
		}
	})
}

// TestScanRequestMarshal tests the request body shape.
func TestScanRequestMarshal(t *testing.T) {
	t.Parallel()

	t.Run("plain request omits follow-up fields", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(ScanRequest{Message: "hello"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `{"message":"hello"}` {
			t.Errorf("unexpected body: %s", data)
		}
	})

	t.Run("refinement carries answers and flag", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(ScanRequest{
			Message:           "hello",
			FollowupAnswers:   map[string]Answer{"q1": AnswerYes},
			FollowupSubmitted: true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"message":"hello","followup_answers":{"q1":"yes"},"followup_submitted":true}`
		if string(data) != want {
			t.Errorf("got %s, want %s", data, want)
		}
	})
}

// TestHighlightMarshal tests that highlights encode as tuples.
func TestHighlightMarshal(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Highlight{Term: "prize", Impact: 0.41, Reason: "lottery"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `["prize",0.41,"lottery"]` {
		t.Errorf("unexpected encoding: %s", data)
	}
}

// TestScanResultClone tests that clones do not share slices.
func TestScanResultClone(t *testing.T) {
	t.Parallel()

	orig := ScanResult{
		Highlights:        []Highlight{{Term: "a"}},
		FollowupQuestions: []FollowupQuestion{{ID: "q1"}},
	}
	c := orig.Clone()
	c.Highlights[0].Term = "changed"
	c.FollowupQuestions[0].ID = "q9"

	if orig.Highlights[0].Term != "a" || orig.FollowupQuestions[0].ID != "q1" {
		t.Error("clone shares backing arrays with the original")
	}
}

// TestParseAnswer tests answer parsing.
func TestParseAnswer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Answer
		wantErr bool
	}{
		{"yes", AnswerYes, false},
		{" Y ", AnswerYes, false},
		{"NO", AnswerNo, false},
		{"n", AnswerNo, false},
		{"maybe", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAnswer(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidAnswer) {
				t.Errorf("ParseAnswer(%q): expected ErrInvalidAnswer, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseAnswer(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

// TestMessageDigest tests digest stability.
func TestMessageDigest(t *testing.T) {
	t.Parallel()

	a := MessageDigest("Your OTP is 123456")
	b := MessageDigest("Your OTP is 123456")
	if a != b {
		t.Error("digest is not stable")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if strings.Contains(a, "123456") {
		t.Error("digest leaks message content")
	}
	if len(ShortDigest("x")) != 12 {
		t.Error("short digest should be 12 characters")
	}
	if RuneLength("héllo") != 5 {
		t.Error("RuneLength should count characters")
	}
}
