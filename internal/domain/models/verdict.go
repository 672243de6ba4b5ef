package models

// Label identifies one category in the fixed scam/harassment taxonomy.
// The taxonomy is closed: every label the service can ever emit is declared
// here, and Taxonomy() preserves declaration order.
type Label string

const (
	LabelBankImpersonation Label = "bank impersonation scam"
	LabelJobScam           Label = "job scam"
	LabelOTPFraud          Label = "OTP or KYC fraud"
	LabelExtortion         Label = "threat based extortion"
	LabelSexualHarassment  Label = "sexual harassment"
)

// Taxonomy returns all category labels in declaration order. The returned
// slice is a fresh copy; callers may not mutate the taxonomy.
func Taxonomy() []Label {
	return []Label{
		LabelBankImpersonation,
		LabelJobScam,
		LabelOTPFraud,
		LabelExtortion,
		LabelSexualHarassment,
	}
}

// TaxonomyStrings returns the taxonomy as plain strings, the shape the
// zero-shot classifier expects for its candidate label list.
func TaxonomyStrings() []string {
	labels := Taxonomy()
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = string(l)
	}
	return out
}

// RiskLevel is the coarse risk tier derived from a confidence score
type RiskLevel string

const (
	RiskLevelHigh   RiskLevel = "HIGH"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelLow    RiskLevel = "LOW"
)

// DecisionSource records which signal(s) produced the final label
type DecisionSource string

const (
	DecisionSourceML        DecisionSource = "ml"
	DecisionSourceRuleAndML DecisionSource = "rule + ml"
)

// Verdict is the outcome of one fusion pass over a piece of content.
// It is constructed once by the fusion engine and never mutated afterwards.
type Verdict struct {
	PatternDetected Label          `json:"pattern_detected"`
	RiskLevel       RiskLevel      `json:"risk_level"`
	Confidence      float64        `json:"confidence"` // rounded to 3 decimals
	RulesTriggered  []Label        `json:"rules_triggered"`
	DecisionSource  DecisionSource `json:"decision_source"`
	Analysis        string         `json:"analysis"`

	// Set only on the screenshot / voice surfaces
	ExtractedText   string `json:"extracted_text,omitempty"`
	TranscribedText string `json:"transcribed_text,omitempty"`
}

// ClassifierResult is the ranked output of the zero-shot classifier.
// Labels and Scores are aligned by index and sorted descending by score.
type ClassifierResult struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Top returns the highest-ranked label and its score
func (r ClassifierResult) Top() (string, float64) {
	if len(r.Labels) == 0 || len(r.Scores) == 0 {
		return "", 0
	}
	return r.Labels[0], r.Scores[0]
}
