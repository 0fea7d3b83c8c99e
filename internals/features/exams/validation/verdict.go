// file: internals/features/exams/validation/verdict.go
package validation

import (
	"strings"

	ruleModel "examplanner_backend/internals/features/exams/rules/model"
)

const (
	SeverityHard = "hard"
	SeveritySoft = "soft"

	MessageOK = "OK"
)

// Verdict is the stable answer shape consumed by the UI.
type Verdict struct {
	IsValid  bool    `json:"is_valid"`
	Severity *string `json:"severity"`
	Message  string  `json:"message"`
}

func (v Verdict) IsHard() bool { return v.Severity != nil && *v.Severity == SeverityHard }
func (v Verdict) IsSoft() bool { return v.Severity != nil && *v.Severity == SeveritySoft }

// conflicts accumulates messages per severity, dropping repeats but keeping
// first-seen order.
type conflicts struct {
	hard []string
	soft []string
	seen map[ruleModel.Severity]map[string]struct{}
}

func newConflicts() *conflicts {
	return &conflicts{seen: map[ruleModel.Severity]map[string]struct{}{
		ruleModel.SeverityHard: {},
		ruleModel.SeveritySoft: {},
	}}
}

func (c *conflicts) add(sev ruleModel.Severity, msg string) {
	if sev != ruleModel.SeverityHard {
		sev = ruleModel.SeveritySoft
	}
	if _, dup := c.seen[sev][msg]; dup {
		return
	}
	c.seen[sev][msg] = struct{}{}
	if sev == ruleModel.SeverityHard {
		c.hard = append(c.hard, msg)
	} else {
		c.soft = append(c.soft, msg)
	}
}

func (c *conflicts) hardf(msg string) { c.add(ruleModel.SeverityHard, msg) }
func (c *conflicts) softf(msg string) { c.add(ruleModel.SeveritySoft, msg) }

func (c *conflicts) verdict() Verdict {
	switch {
	case len(c.hard) > 0:
		s := SeverityHard
		return Verdict{IsValid: false, Severity: &s, Message: strings.Join(c.hard, " | ")}
	case len(c.soft) > 0:
		s := SeveritySoft
		return Verdict{IsValid: true, Severity: &s, Message: strings.Join(c.soft, " | ")}
	default:
		return Verdict{IsValid: true, Severity: nil, Message: MessageOK}
	}
}
