package types

import "fmt"

// SyncStrategy determines how a sync invocation sequences the pull and
// push engines for a project
type SyncStrategy string

const (
	// SyncStrategyManual runs push only
	SyncStrategyManual SyncStrategy = "manual"

	// SyncStrategyAutoPullThenPush runs pull best-effort, then push
	SyncStrategyAutoPullThenPush SyncStrategy = "auto_pull_then_push"

	// SyncStrategyNotionCanonical treats Notion as the canonical source
	SyncStrategyNotionCanonical SyncStrategy = "notion_canonical"

	// SyncStrategyMondayCanonical treats Monday as the canonical source
	SyncStrategyMondayCanonical SyncStrategy = "monday_canonical"
)

// AllSyncStrategies returns all valid sync strategies
func AllSyncStrategies() []SyncStrategy {
	return []SyncStrategy{
		SyncStrategyManual,
		SyncStrategyAutoPullThenPush,
		SyncStrategyNotionCanonical,
		SyncStrategyMondayCanonical,
	}
}

// IsValid checks if the sync strategy is valid
func (s SyncStrategy) IsValid() bool {
	switch s {
	case SyncStrategyManual,
		SyncStrategyAutoPullThenPush,
		SyncStrategyNotionCanonical,
		SyncStrategyMondayCanonical:
		return true
	default:
		return false
	}
}

// RunsPull reports whether the strategy runs the pull engine before push
func (s SyncStrategy) RunsPull() bool {
	return s != SyncStrategyManual
}

// CanonicalProvider returns the provider declared canonical by the
// strategy, if any
func (s SyncStrategy) CanonicalProvider() (Provider, bool) {
	switch s {
	case SyncStrategyNotionCanonical:
		return ProviderNotion, true
	case SyncStrategyMondayCanonical:
		return ProviderMonday, true
	default:
		return "", false
	}
}

// String returns the string representation of the sync strategy
func (s SyncStrategy) String() string {
	return string(s)
}

// ParseSyncStrategy parses a string into a SyncStrategy
func ParseSyncStrategy(s string) (SyncStrategy, error) {
	strategy := SyncStrategy(s)
	if !strategy.IsValid() {
		return "", fmt.Errorf("invalid sync strategy: %s", s)
	}
	return strategy, nil
}
