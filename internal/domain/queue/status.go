package queue

// Status is the admission state of a queue entry.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusAssigned  Status = "assigned"
	StatusCancelled Status = "cancelled"
)

var statusTransitions = map[Status][]Status{
	StatusQueued:    {StatusAssigned, StatusCancelled},
	StatusAssigned:  {StatusCancelled},
	StatusCancelled: {},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsActive reports whether the entry still holds the visitor's single slot.
func (s Status) IsActive() bool {
	return s == StatusQueued || s == StatusAssigned
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
