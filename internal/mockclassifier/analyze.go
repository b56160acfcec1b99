package mockclassifier

import (
	"strings"

	"github.com/nao1215/scamscan/internal/model"
)

// Probability bands in percent.
const (
	uncertainLow  = 35
	uncertainHigh = 65
	scamThreshold = 80

	// answerPenalty is added per answer that differs from the safe answer.
	answerPenalty = 0.08

	// maxAdjusted caps a refined probability.
	maxAdjusted = 0.99
)

// Question is a follow-up question with the answer that lowers the risk.
type Question struct {
	model.FollowupQuestion
	SafeAnswer model.Answer
}

// Questions are the follow-up questions attached to uncertain results.
var Questions = []Question{
	{model.FollowupQuestion{ID: "q1", Text: "Did YOU initiate this contact/transaction?"}, model.AnswerYes},
	{model.FollowupQuestion{ID: "q2", Text: "Do you personally know the sender?"}, model.AnswerYes},
	{model.FollowupQuestion{ID: "q3", Text: "Does the message ask for OTP, PIN, or password?"}, model.AnswerNo},
	{model.FollowupQuestion{ID: "q4", Text: "Does it contain a link you are asked to click?"}, model.AnswerNo},
}

// followupQuestions returns the wire form of Questions.
func followupQuestions() []model.FollowupQuestion {
	out := make([]model.FollowupQuestion, 0, len(Questions))
	for _, q := range Questions {
		out = append(out, q.FollowupQuestion)
	}
	return out
}

// AdjustProbability raises p by a fixed penalty for every answer that
// differs from the safe answer of its question. Unknown IDs and blank
// answers are ignored.
func AdjustProbability(p float64, answers map[string]model.Answer) float64 {
	for _, q := range Questions {
		ans := model.Answer(strings.ToLower(strings.TrimSpace(string(answers[q.ID]))))
		if ans != "" && ans != q.SafeAnswer {
			p += answerPenalty
		}
	}
	return min(p, maxAdjusted)
}

// scamTypes are checked in order; the first rule with a matching phrase wins.
var scamTypes = []struct {
	name    string
	phrases []string
}{
	{"OTP / Verification Code Hijack", []string{"otp", "verification code", "login code"}},
	{"KYC / Account Verification Phishing", []string{"kyc", "account suspended", "verify your account"}},
	{"Recruitment / Task Scam", []string{"job", "hiring", "work from home", "task", "commission", "salary per day"}},
	{"Delivery / Logistics Phishing", []string{"delivery", "parcel", "shipment", "customs", "courier"}},
	{"Refund / Cashback Scam", []string{"refund", "cashback"}},
	{"Lottery / Prize Scam", []string{"won", "lottery", "prize", "claim"}},
}

// DefaultScamType is returned when no scam type rule matches.
const DefaultScamType = "General Scam / Phishing"

// ScamType guesses the kind of scam from substrings of message.
func ScamType(message string) string {
	lower := strings.ToLower(message)
	for _, st := range scamTypes {
		for _, p := range st.phrases {
			if strings.Contains(lower, p) {
				return st.name
			}
		}
	}
	return DefaultScamType
}

// band maps a probability to its status and risk level.
func band(probability int, refinement bool) (status, riskLevel string, uncertain bool) {
	switch {
	case probability >= uncertainLow && probability <= uncertainHigh && !refinement:
		return model.StatusNeedsMoreContext, model.RiskUncertain, true
	case probability >= scamThreshold:
		return model.StatusScam, model.SeverityVeryHigh, false
	case probability >= uncertainHigh:
		return model.StatusLikelyScam, model.SeverityHigh, false
	case probability >= uncertainLow:
		return model.StatusSuspicious, model.SeverityMedium, false
	default:
		return model.StatusLikelySafe, model.SeverityLow, false
	}
}

// advice returns the fallback explanation texts for a status.
func advice(status string) (goal, whatToDo, howToAvoid string) {
	switch model.ClassifyStatus(status, "") {
	case model.VerdictThreat:
		return "Likely trying to steal money, account access, or personal/banking information.",
			"Do NOT click links or share OTP/PIN/CVV. Verify using official app/website or known phone number.",
			"Slow down, check domain/sender, avoid urgency pressure, never share OTPs."
	case model.VerdictUncertain:
		return "Cannot determine intent confidently. Please answer the questions below.",
			"Answer the follow-up questions so we can refine the analysis.",
			"When in doubt, do not click links or share personal information."
	default:
		return "No strong scam intent detected from ML signals.",
			"No immediate action required, but stay cautious with unexpected links or requests.",
			"Verify unknown senders and avoid sharing sensitive details."
	}
}

// Analyze classifies req with m. The message is expected to be non-empty.
func (m Model) Analyze(req model.ScanRequest) model.ScanResult {
	message := strings.TrimSpace(req.Message)
	p, highlights := m.Score(message)

	if req.FollowupSubmitted && len(req.FollowupAnswers) > 0 {
		p = AdjustProbability(p, req.FollowupAnswers)
	}
	probability := model.ClampProbability(p * 100)

	status, riskLevel, uncertain := band(probability, req.FollowupSubmitted)
	goal, whatToDo, howToAvoid := advice(status)

	result := model.ScanResult{
		Message:           message,
		Status:            status,
		Probability:       probability,
		RiskLevel:         riskLevel,
		ScamType:          ScamType(message),
		Highlights:        highlights,
		ScamGoal:          goal,
		WhatToDo:          whatToDo,
		HowToAvoid:        howToAvoid,
		IsUncertain:       uncertain,
		FollowupQuestions: []model.FollowupQuestion{},
	}
	if uncertain {
		result.FollowupQuestions = followupQuestions()
	}

	return result
}
