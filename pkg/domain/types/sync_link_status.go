package types

import "fmt"

// SyncLinkStatus represents the state of a link between a local action
// and its external record
type SyncLinkStatus string

const (
	// SyncLinkSynced means the action and the external record are linked
	// and the last sync of this item succeeded
	SyncLinkSynced SyncLinkStatus = "synced"

	// SyncLinkFailed means the last attempt to sync this item failed;
	// the item is eligible for retry on the next push
	SyncLinkFailed SyncLinkStatus = "failed"

	// SyncLinkDeletedRemotely means the external record vanished after
	// being synced; terminal for push outside overwrite mode
	SyncLinkDeletedRemotely SyncLinkStatus = "deleted_remotely"
)

// AllSyncLinkStatuses returns all valid sync link statuses
func AllSyncLinkStatuses() []SyncLinkStatus {
	return []SyncLinkStatus{
		SyncLinkSynced,
		SyncLinkFailed,
		SyncLinkDeletedRemotely,
	}
}

// IsValid checks if the sync link status is valid
func (s SyncLinkStatus) IsValid() bool {
	switch s {
	case SyncLinkSynced, SyncLinkFailed, SyncLinkDeletedRemotely:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sync link status
func (s SyncLinkStatus) String() string {
	return string(s)
}

// ParseSyncLinkStatus parses a string into a SyncLinkStatus
func ParseSyncLinkStatus(s string) (SyncLinkStatus, error) {
	status := SyncLinkStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid sync link status: %s", s)
	}
	return status, nil
}
