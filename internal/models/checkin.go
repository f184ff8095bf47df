package models

import "time"

// Checkin is a single stay in a room. A record is "open" while
// CheckedOutAt is nil; closing it (checkout) is the only mutation it
// ever sees. The store enforces at most one open record per user.
type Checkin struct {
	ID             string     `json:"id"`
	UserRegisterNo int64      `json:"user"`
	Room           string     `json:"room"`
	CheckedInAt    time.Time  `json:"checkedInAt"`
	CheckedOutAt   *time.Time `json:"checkedOutAt"`
}

// Open reports whether the stay is still in progress.
func (c Checkin) Open() bool {
	return c.CheckedOutAt == nil
}
