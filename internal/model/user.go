package model

import (
	"strings"
	"time"
)

// Plan identifies a subscription tier.
type Plan string

const (
	PlanMonthly  Plan = "monthly"
	PlanLifetime Plan = "lifetime"
)

// Plans lists the supported tiers in display order.
var Plans = []Plan{PlanMonthly, PlanLifetime}

// ParsePlan normalizes s and reports whether it names a supported plan.
func ParsePlan(s string) (Plan, bool) {
	p := Plan(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PlanMonthly, PlanLifetime:
		return p, true
	}
	return "", false
}

// User represents a row of the `users` table.  The json tags are omitted
// because the struct never leaves the server; handlers respond with
// UserView instead.
//
// Fields:
//
//	ID           – primary key assigned by the store.
//	Email        – unique, lower-cased login key.
//	Name         – optional display name.
//	PasswordHash – bcrypt hash of the password.
//	IsPaid       – set once a plan has been purchased.
//	Plan         – purchased tier; nil until IsPaid is true.
type User struct {
	ID           int64
	Email        string
	Name         *string
	PasswordHash string
	IsPaid       bool
	Plan         *Plan
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserView is the subset of User that may be returned to a client.
type UserView struct {
	ID     int64   `json:"id"`
	Name   *string `json:"name"`
	Email  string  `json:"email"`
	IsPaid bool    `json:"isPaid"`
	Plan   *Plan   `json:"plan"`
}

// View projects u to its client-safe form.
func (u User) View() UserView {
	return UserView{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		IsPaid: u.IsPaid,
		Plan:   u.Plan,
	}
}
