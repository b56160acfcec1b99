package model

import "fmt"

// Verdict is the bucket a ScanResult falls into.
// It is the single source of truth for every label, color and counter.
type Verdict int

const (
	// VerdictSafe means no strong scam intent was detected.
	VerdictSafe Verdict = iota

	// VerdictThreat means the classifier flagged the message as a scam,
	// a likely scam, or suspicious.
	VerdictThreat

	// VerdictUncertain means the classifier needs more context.
	VerdictUncertain
)

// threatStatuses are the statuses that map to VerdictThreat.
var threatStatuses = map[string]bool{
	StatusScam:       true,
	StatusLikelyScam: true,
	StatusSuspicious: true,
}

// Classify maps a result to its verdict. The rules are checked in order and
// the first match wins:
//  1. Uncertain when status is "Needs More Context" or risk level is "Uncertain"
//  2. Threat when status is SCAM, Likely Scam or Suspicious
//  3. Safe otherwise
func Classify(r ScanResult) Verdict {
	return ClassifyStatus(r.Status, r.RiskLevel)
}

// ClassifyStatus applies the Classify rules to a bare (status, riskLevel) pair.
func ClassifyStatus(status, riskLevel string) Verdict {
	if status == StatusNeedsMoreContext || riskLevel == RiskUncertain {
		return VerdictUncertain
	}
	if threatStatuses[status] {
		return VerdictThreat
	}
	return VerdictSafe
}

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case VerdictSafe:
		return "Safe"
	case VerdictThreat:
		return "Threat"
	case VerdictUncertain:
		return "Uncertain"
	default:
		return "Unknown"
	}
}

// Label returns the upper-case stamp shown on gauges and verdict boxes.
func (v Verdict) Label() string {
	switch v {
	case VerdictThreat:
		return "THREAT"
	case VerdictUncertain:
		return "UNCERTAIN"
	default:
		return "SAFE"
	}
}

// Emoji returns the marker used in chat-style output.
func (v Verdict) Emoji() string {
	switch v {
	case VerdictThreat:
		return "🚨"
	case VerdictUncertain:
		return "⚠️"
	default:
		return "✅"
	}
}

// Title returns the headline of the verdict box.
func (v Verdict) Title() string {
	switch v {
	case VerdictThreat:
		return "HIGH RISK — LIKELY SCAM"
	case VerdictUncertain:
		return "UNCERTAIN — NEEDS CONTEXT"
	default:
		return "LOW RISK — APPEARS SAFE"
	}
}

// Description returns the one-sentence explanation below the title.
func (v Verdict) Description() string {
	switch v {
	case VerdictThreat:
		return "This message matches patterns strongly associated with scam techniques."
	case VerdictUncertain:
		return "Answer the follow-up questions to refine the probability."
	default:
		return "No strong scam intent detected, but always remain cautious."
	}
}

// Severity bands derived from the probability, shown as a metric card.
const (
	SeverityVeryHigh = "Very High"
	SeverityHigh     = "High"
	SeverityMedium   = "Medium"
	SeverityLow      = "Low"
)

// SeverityBand returns the severity band of a probability in percent.
func SeverityBand(probability int) string {
	switch {
	case probability >= 80:
		return SeverityVeryHigh
	case probability >= 65:
		return SeverityHigh
	case probability >= 35:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// StatusLine returns the one-line outcome printed after the progress steps,
// e.g. "🚨 Likely Scam — Risk 87%".
func StatusLine(r ScanResult) string {
	switch Classify(r) {
	case VerdictUncertain:
		return fmt.Sprintf("⚠ UNCERTAIN — Risk %d%%", r.Probability)
	case VerdictThreat:
		return fmt.Sprintf("🚨 %s — Risk %d%%", r.Status, r.Probability)
	default:
		return fmt.Sprintf("✓ %s — Risk %d%%", r.Status, r.Probability)
	}
}
