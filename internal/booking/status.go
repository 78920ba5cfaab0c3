package booking

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusCancelled  Status = "CANCELLED"
	StatusCompleted  Status = "COMPLETED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
)

var knownStatuses = map[Status]bool{
	StatusPending:    true,
	StatusConfirmed:  true,
	StatusCancelled:  true,
	StatusCompleted:  true,
	StatusCheckedIn:  true,
	StatusCheckedOut: true,
}

// Valid reports whether s is one of the lifecycle states. Transitions between
// states are not restricted: any known status may replace any other.
func (s Status) Valid() bool { return knownStatuses[s] }
