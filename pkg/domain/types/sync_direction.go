package types

import "fmt"

// SyncDirection is the direction a workflow synchronizes in
type SyncDirection string

const (
	SyncDirectionPush          SyncDirection = "push"
	SyncDirectionPull          SyncDirection = "pull"
	SyncDirectionBidirectional SyncDirection = "bidirectional"
)

// AllSyncDirections returns all valid sync directions
func AllSyncDirections() []SyncDirection {
	return []SyncDirection{
		SyncDirectionPush,
		SyncDirectionPull,
		SyncDirectionBidirectional,
	}
}

// IsValid checks if the sync direction is valid
func (d SyncDirection) IsValid() bool {
	switch d {
	case SyncDirectionPush, SyncDirectionPull, SyncDirectionBidirectional:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sync direction
func (d SyncDirection) String() string {
	return string(d)
}

// ParseSyncDirection parses a string into a SyncDirection
func ParseSyncDirection(s string) (SyncDirection, error) {
	d := SyncDirection(s)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid sync direction: %s", s)
	}
	return d, nil
}
