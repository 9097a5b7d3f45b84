package suggestion

import (
	"errors"
	"math"
	"time"
)

// Suggestion lifecycle statuses. Applied and dismissed are terminal with
// respect to user action.
const (
	StatusPending   = "pending"
	StatusReviewed  = "reviewed"
	StatusApplied   = "applied"
	StatusDismissed = "dismissed"
)

var (
	ErrAlreadyReviewed  = errors.New("suggestion has already been reviewed")
	ErrAlreadyApplied   = errors.New("plan has already been applied")
	ErrAlreadyDismissed = errors.New("suggestion has already been dismissed")
	ErrDismissed        = errors.New("suggestion was dismissed and cannot be applied")
)

// Status derives the lifecycle status from the suggestion's flags.
func (s *Suggestion) Status() string {
	switch {
	case s.Dismissed:
		return StatusDismissed
	case s.Applied:
		return StatusApplied
	case s.Reviewed:
		return StatusReviewed
	default:
		return StatusPending
	}
}

// MarkReviewed records a mentor's review decision. Accepting clears any
// dismissal; declining dismisses the suggestion.
func (s *Suggestion) MarkReviewed(by, notes string, accept bool, now time.Time) error {
	if s.Reviewed {
		return ErrAlreadyReviewed
	}

	s.Reviewed = true
	s.ReviewedAt = Timestamp{now}
	if by == "" {
		by = "UNKNOWN_MENTOR"
	}
	s.ReviewedBy = by
	s.ReviewNotes = notes

	if accept {
		s.Accepted = true
		s.Dismissed = false
	} else {
		s.Accepted = false
		s.Dismissed = true
	}
	return nil
}

// Apply commits the student to the plan, anchoring progress at now.
func (s *Suggestion) Apply(now time.Time) error {
	if s.Dismissed {
		return ErrDismissed
	}
	if s.Applied {
		return ErrAlreadyApplied
	}

	s.Applied = true
	s.AppliedAt = Timestamp{now}
	return nil
}

// Dismiss marks the suggestion as rejected by the student or mentor.
func (s *Suggestion) Dismiss(reason string, now time.Time) error {
	if s.Applied {
		return ErrAlreadyApplied
	}
	if s.Dismissed {
		return ErrAlreadyDismissed
	}

	s.Dismissed = true
	s.DismissReason = reason
	return nil
}

// DaysRemaining returns how many whole days are left until the plan's last
// scheduled date, never negative. A missing or unparseable last date counts
// as an expired plan.
func (s *Suggestion) DaysRemaining(now time.Time) int {
	if !s.HasPlan() {
		return 0
	}

	last, err := time.Parse("2006-01-02", s.Plan[len(s.Plan)-1].Date)
	if err != nil {
		return 0
	}

	left := int(math.Ceil(last.Sub(now).Hours() / 24))
	if left < 0 {
		return 0
	}
	return left
}

// IsActive reports whether the plan is accepted, not dismissed and not yet
// past its last scheduled day.
func (s *Suggestion) IsActive(now time.Time) bool {
	if s.Dismissed || !s.Accepted {
		return false
	}
	return s.DaysRemaining(now) > 0
}
