package types

import "fmt"

// Priority represents the priority of a local action
type Priority string

const (
	PriorityQuick        Priority = "Quick"
	PriorityScheduled    Priority = "Scheduled"
	PriorityFirst        Priority = "1st Priority"
	PrioritySecond       Priority = "2nd Priority"
	PriorityThird        Priority = "3rd Priority"
	PrioritySomedayMaybe Priority = "Someday Maybe"
	PriorityErrand       Priority = "Errand"
	PriorityRemember     Priority = "Remember"
	PriorityWatch        Priority = "Watch"
)

// AllPriorities returns all valid priorities
func AllPriorities() []Priority {
	return []Priority{
		PriorityQuick,
		PriorityScheduled,
		PriorityFirst,
		PrioritySecond,
		PriorityThird,
		PrioritySomedayMaybe,
		PriorityErrand,
		PriorityRemember,
		PriorityWatch,
	}
}

// IsValid checks if the priority is valid
func (p Priority) IsValid() bool {
	switch p {
	case PriorityQuick,
		PriorityScheduled,
		PriorityFirst,
		PrioritySecond,
		PriorityThird,
		PrioritySomedayMaybe,
		PriorityErrand,
		PriorityRemember,
		PriorityWatch:
		return true
	default:
		return false
	}
}

// String returns the string representation of the priority
func (p Priority) String() string {
	return string(p)
}

// ParsePriority parses a string into a Priority
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority: %s", s)
	}
	return p, nil
}
