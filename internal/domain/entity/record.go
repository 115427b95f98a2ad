package entity

import "time"

// SyncState tells whether a locally held record has been confirmed by the store
type SyncState string

const (
	SyncStateSynced    SyncState = "synced"
	SyncStatePending   SyncState = "pending"
	SyncStateLocalOnly SyncState = "local_only"
)

// Record is implemented by every entity kept in a controller's record set
type Record interface {
	RecordID() string
	ModifiedAt() time.Time
}
