package detection

import (
	"regexp"
	"strings"

	"suraksha-api/internal/domain/models"
)

// rule associates one taxonomy label with its pattern fragments. A label is
// hit as soon as any one of its patterns matches; remaining patterns for
// that label are not evaluated.
type rule struct {
	label    models.Label
	sources  []string
	patterns []*regexp.Regexp
}

// RuleMatcher scans normalized text against a fixed table of regex patterns
// grouped by taxonomy label. It is a deterministic, explainable signal with
// no scoring: matched labels come back in table order, not match order.
type RuleMatcher struct {
	rules []rule
}

// ruleTable is the fixed pattern table. Patterns are deliberately broad
// substrings tuned for high precision on real scam phrasing, including
// Hinglish messages ("link par click karo").
var ruleTable = []struct {
	label    models.Label
	patterns []string
}{
	{models.LabelBankImpersonation, []string{
		`bank`, `account.*block`, `upi`, `verify`, `link`,
	}},
	{models.LabelJobScam, []string{
		`job`, `work from home`, `registration fee`, `easy money`,
	}},
	{models.LabelOTPFraud, []string{
		`otp`, `kyc`, `verification code`,
	}},
	{models.LabelExtortion, []string{
		`if you don't`, `otherwise`, `leak`, `expose`, `pay`,
	}},
	{models.LabelSexualHarassment, []string{
		`send photo`, `explicit`, `sleep with`, `touch`,
	}},
}

// NewRuleMatcher compiles the fixed rule table. Pattern compilation failures
// are programmer errors and panic at construction.
func NewRuleMatcher() *RuleMatcher {
	m := &RuleMatcher{}
	for _, entry := range ruleTable {
		r := rule{label: entry.label, sources: entry.patterns}
		for _, p := range entry.patterns {
			r.patterns = append(r.patterns, regexp.MustCompile(p))
		}
		m.rules = append(m.rules, r)
	}
	return m
}

// Match returns the labels whose patterns match the given text, in table
// order. The input is lowercased; no other preprocessing is applied. A text
// with no matches yields an empty, non-nil slice.
func (m *RuleMatcher) Match(text string) []models.Label {
	text = strings.ToLower(text)
	hits := make([]models.Label, 0)

	for _, r := range m.rules {
		for _, p := range r.patterns {
			if p.MatchString(text) {
				hits = append(hits, r.label)
				break
			}
		}
	}

	return hits
}

// RuleCategory describes one label's pattern set for the patterns endpoint
type RuleCategory struct {
	Label    models.Label `json:"label"`
	Patterns []string     `json:"patterns"`
}

// Categories returns the rule table grouped by label, in table order
func (m *RuleMatcher) Categories() []RuleCategory {
	out := make([]RuleCategory, 0, len(m.rules))
	for _, r := range m.rules {
		out = append(out, RuleCategory{
			Label:    r.label,
			Patterns: append([]string(nil), r.sources...),
		})
	}
	return out
}
