package attendance

import "time"

// Attendance is one check-in/check-out session. The summary subsystem only
// counts distinct check-in dates; mobile capture fields live elsewhere.
type Attendance struct {
	ID        string
	UserID    string
	CheckIn   time.Time
	CheckOut  *time.Time
	CreatedAt time.Time
}
