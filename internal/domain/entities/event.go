package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Event struct {
	ID                     uint
	DraftKey               uuid.UUID // identity of the creation dialog's draft, makes the insert idempotent
	Title                  string
	Description            *string
	Location               *string
	StartDate              *time.Time
	EndDate                *time.Time
	IsPublished            bool
	IsCancelled            bool
	AllowOnSitePayment     bool
	FullPaymentAmount      *decimal.Decimal
	AdvancePaymentAmount   *decimal.Decimal
	AdvancePaymentDeadline *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// IsComplete reports whether the event carries everything publication
// requires: title, description, start and end dates.
func (e *Event) IsComplete() bool {
	return e.Title != "" && e.Description != nil && e.StartDate != nil && e.EndDate != nil
}

// DefaultAdvanceDeadline is the "day before the event" shortcut offered in
// the payment-terms dialog. The second return is false until a start date is
// known.
func (e *Event) DefaultAdvanceDeadline() (time.Time, bool) {
	if e.StartDate == nil {
		return time.Time{}, false
	}
	return e.StartDate.Add(-24 * time.Hour), true
}

// AdvanceAvailable reports whether the pay-in-advance path may still be
// offered at the given moment.
func (e *Event) AdvanceAvailable(now time.Time) bool {
	return e.AdvancePaymentAmount != nil && e.AdvancePaymentDeadline != nil && now.Before(*e.AdvancePaymentDeadline)
}
