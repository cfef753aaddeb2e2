package types

import "fmt"

// ConflictPolicy declares which side wins when both sides changed since
// the last sync. Arbitration happens at run granularity: the engine that
// runs second applies its side's values.
type ConflictPolicy string

const (
	ConflictPolicyLocalWins  ConflictPolicy = "local_wins"
	ConflictPolicyRemoteWins ConflictPolicy = "remote_wins"
)

// AllConflictPolicies returns all valid conflict policies
func AllConflictPolicies() []ConflictPolicy {
	return []ConflictPolicy{
		ConflictPolicyLocalWins,
		ConflictPolicyRemoteWins,
	}
}

// IsValid checks if the conflict policy is valid
func (p ConflictPolicy) IsValid() bool {
	switch p {
	case ConflictPolicyLocalWins, ConflictPolicyRemoteWins:
		return true
	default:
		return false
	}
}

// String returns the string representation of the conflict policy
func (p ConflictPolicy) String() string {
	return string(p)
}

// ParseConflictPolicy parses a string into a ConflictPolicy
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	p := ConflictPolicy(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid conflict policy: %s", s)
	}
	return p, nil
}
