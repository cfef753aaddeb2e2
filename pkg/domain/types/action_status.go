package types

import "fmt"

// ActionStatus represents the status of a local action
type ActionStatus string

const (
	ActionStatusActive    ActionStatus = "ACTIVE"
	ActionStatusCompleted ActionStatus = "COMPLETED"
	ActionStatusCancelled ActionStatus = "CANCELLED"
	ActionStatusDeleted   ActionStatus = "DELETED"
)

// AllActionStatuses returns all valid action statuses
func AllActionStatuses() []ActionStatus {
	return []ActionStatus{
		ActionStatusActive,
		ActionStatusCompleted,
		ActionStatusCancelled,
		ActionStatusDeleted,
	}
}

// IsValid checks if the action status is valid
func (s ActionStatus) IsValid() bool {
	switch s {
	case ActionStatusActive,
		ActionStatusCompleted,
		ActionStatusCancelled,
		ActionStatusDeleted:
		return true
	default:
		return false
	}
}

// String returns the string representation of the action status
func (s ActionStatus) String() string {
	return string(s)
}

// ParseActionStatus parses a string into an ActionStatus
func ParseActionStatus(s string) (ActionStatus, error) {
	status := ActionStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid action status: %s", s)
	}
	return status, nil
}
