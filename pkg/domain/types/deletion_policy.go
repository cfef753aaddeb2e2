package types

import "fmt"

// DeletionPolicy controls what the pull engine does with local actions
// whose external record vanished
type DeletionPolicy string

const (
	// DeletionPolicyMarkDeleted transitions the local action to DELETED
	DeletionPolicyMarkDeleted DeletionPolicy = "mark_deleted"

	// DeletionPolicyArchive transitions the local action to CANCELLED,
	// keeping it visible in archived views
	DeletionPolicyArchive DeletionPolicy = "archive"

	// DeletionPolicyIgnore leaves the local action untouched
	DeletionPolicyIgnore DeletionPolicy = "ignore"
)

// AllDeletionPolicies returns all valid deletion policies
func AllDeletionPolicies() []DeletionPolicy {
	return []DeletionPolicy{
		DeletionPolicyMarkDeleted,
		DeletionPolicyArchive,
		DeletionPolicyIgnore,
	}
}

// IsValid checks if the deletion policy is valid
func (p DeletionPolicy) IsValid() bool {
	switch p {
	case DeletionPolicyMarkDeleted, DeletionPolicyArchive, DeletionPolicyIgnore:
		return true
	default:
		return false
	}
}

// String returns the string representation of the deletion policy
func (p DeletionPolicy) String() string {
	return string(p)
}

// ParseDeletionPolicy parses a string into a DeletionPolicy
func ParseDeletionPolicy(s string) (DeletionPolicy, error) {
	p := DeletionPolicy(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid deletion policy: %s", s)
	}
	return p, nil
}
