package auth

// Checker is a pure membership test against the configured admin allow-list.
// The list is fixed at construction and never mutated afterwards.
type Checker struct {
	admins map[int64]struct{}
}

func NewChecker(adminIDs []int64) *Checker {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Checker{admins: admins}
}

func (c *Checker) IsAdmin(telegramID int64) bool {
	_, ok := c.admins[telegramID]
	return ok
}

// AdminIDs returns the allow-list, used to fan out payment notifications.
func (c *Checker) AdminIDs() []int64 {
	ids := make([]int64, 0, len(c.admins))
	for id := range c.admins {
		ids = append(ids, id)
	}
	return ids
}
