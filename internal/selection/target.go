package selection

import (
	"slices"
	"strings"
)

// NoTargetText is shown in the prompt while no target is resolved. It is
// never substituted into a composed message.
const NoTargetText = "no target selected"

// Candidate is an addressable participant in the session's context.
type Candidate struct {
	ID          string
	DisplayName string
}

// CandidateList is the ordered set of participants a target may be picked from.
type CandidateList []Candidate

// Lookup returns the candidate with the given id.
func (l CandidateList) Lookup(id string) (Candidate, bool) {
	i := slices.IndexFunc(l, func(c Candidate) bool { return c.ID == id })
	if i < 0 {
		return Candidate{}, false
	}
	return l[i], true
}

// Target is the resolved recipient of a composed message. It is one of Member
// or FreeText; a nil Target means no target.
type Target interface {
	isTarget()
	// Text is the form substituted into a message: a mention for members,
	// the literal string for free text.
	Text() string
}

// Member is a target picked from the CandidateList. Only the id is kept; the
// display name stays owned by the list.
type Member struct {
	ID string
}

// FreeText is a target typed into the secondary dialog.
type FreeText string

func (Member) isTarget()   {}
func (FreeText) isTarget() {}

// Text renders the member as a platform mention.
func (m Member) Text() string { return "<@" + m.ID + ">" }

// Text returns the literal target string.
func (f FreeText) Text() string { return string(f) }

// DisplayText renders t for the prompt.
func DisplayText(t Target) string {
	if t == nil {
		return NoTargetText
	}
	return t.Text()
}

// Resolver holds at most one resolved target. Setting a member clears any
// free text and vice versa.
type Resolver struct {
	target Target
}

// SelectMember resolves the target to the candidate with the given id. Ids
// that are not in candidates leave the target unchanged and report false.
func (r *Resolver) SelectMember(candidates CandidateList, id string) bool {
	c, ok := candidates.Lookup(id)
	if !ok {
		return false
	}
	r.target = Member{ID: c.ID}
	return true
}

// SetFreeText resolves the target to text. Blank input leaves the target
// unchanged and reports false.
func (r *Resolver) SetFreeText(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	r.target = FreeText(text)
	return true
}

// Target returns the resolved target, or nil.
func (r *Resolver) Target() Target {
	return r.target
}
