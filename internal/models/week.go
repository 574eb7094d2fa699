package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Week is a per-user record of one planning week.
type Week struct {
	UserID              string     `json:"user_id"`
	WeekID              string     `json:"week_id"`
	PlanningCompletedAt *time.Time `json:"planning_completed_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// WeekReview holds one user's review of one week. The review counts as done
// iff ReviewedAt is set; rating and note are optional on their own.
type WeekReview struct {
	UserID     string     `json:"user_id"`
	WeekID     string     `json:"week_id"`
	Rating     *int       `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Note       string     `json:"note,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
}

// Reviewed reports whether this week has been reviewed by its owner.
func (r WeekReview) Reviewed() bool {
	return r.ReviewedAt != nil
}

// Validate enforces the 1-5 rating bound. Out-of-range ratings are a caller
// error and are never coerced.
func (r WeekReview) Validate() error {
	return validate.Struct(r)
}

// Goal is a longer-horizon objective a weekly task can link to.
type Goal struct {
	ID        string    `json:"id"`
	Title     string    `json:"title" validate:"required"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (g Goal) Validate() error {
	return validate.Struct(g)
}

// StreakResult is derived, never persisted.
type StreakResult struct {
	Count       int  `json:"count"`
	WithPartner bool `json:"with_partner"`
	// Milestone is the newly reached, not-yet-celebrated milestone, or nil.
	Milestone *int `json:"milestone,omitempty"`
}
