package entities

// ClubInfo is the free-text "about the club" record. The latest row wins.
type ClubInfo struct {
	ID          uint
	Description string
}
