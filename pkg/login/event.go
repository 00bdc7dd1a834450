package login

import "time"

// Session client topics.
const (
	EventLogin  = "login"
	EventLogout = "logout"
)

// Event is delivered to handlers of a Status and of the Api.
type Event struct {
	LoginID string
	State   State
	Token   string
	// Err carries the error detail of an ERROR transition.
	Err error
	At  time.Time
}
