package message

import "github.com/hupe1980/teammesh/role"

// CodeReview requests a review or reports its outcome. Approved is tri-state:
// nil while the review is pending, then true or false once decided.
type CodeReview struct {
	Envelope

	ReviewID       string
	PullRequestURL string
	FilesChanged   []string
	LinesAdded     int
	LinesRemoved   int

	// ReviewType is one of standard, security, performance, architecture.
	ReviewType string
	// Urgency is one of critical, high, normal, low.
	Urgency string

	Approved    *bool
	IssuesFound []string
	Suggestions []string
}

// NewCodeReview creates a code review message from sender.
func NewCodeReview(sender role.AgentRole) *CodeReview {
	m := &CodeReview{Envelope: newEnvelope(TypeCodeReview, sender)}
	m.ReviewType = "standard"
	m.Urgency = "normal"
	return m
}

// Validate checks the review's own fields.
func (m *CodeReview) Validate() ValidationResult {
	result := Valid()

	if m.ReviewID == "" {
		result.AddError("review_id is required")
	}
	if len(m.FilesChanged) == 0 {
		result.AddWarning("no files specified for review")
	}
	if m.LinesAdded+m.LinesRemoved > 500 {
		result.AddWarning("large changeset may require additional review time")
	}
	if m.Approved != nil && !*m.Approved && len(m.IssuesFound) == 0 {
		result.AddWarning("review rejected but no issues specified")
	}

	return result
}
