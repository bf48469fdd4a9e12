package entities

import "time"

// Member is created lazily on first contact with a join flow.
type Member struct {
	ID         uint
	TelegramID int64
	FirstName  string
	LastName   string
	Username   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayName prefers the real name, falling back to the @username.
func (m *Member) DisplayName() string {
	switch {
	case m.FirstName != "" && m.LastName != "":
		return m.FirstName + " " + m.LastName
	case m.FirstName != "":
		return m.FirstName
	case m.Username != "":
		return "@" + m.Username
	}
	return ""
}
