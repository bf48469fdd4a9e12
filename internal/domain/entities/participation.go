package entities

import "time"

// Participation binds one member to one event and carries the payment
// status. It references member and event by id only; one row per
// (member, event) pair.
type Participation struct {
	ID                  uint
	EventID             uint
	MemberID            uint
	Status              string
	IsPaid              bool
	Comment             *string
	GuestsCount         int
	DietaryRestrictions *string
	JoinedAt            time.Time
	UpdatedAt           time.Time
}
