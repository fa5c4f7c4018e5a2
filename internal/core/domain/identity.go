package domain

import "time"

// Identity is the acting session's (user id, role). A nil *Identity means anonymous.
type Identity struct {
	UserID    string
	Role      Role
	SessionID string
	ExpiresAt time.Time
}

// Anonymous reports whether no session is attached.
func (i *Identity) Anonymous() bool { return i == nil || i.UserID == "" }
