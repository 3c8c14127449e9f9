package models

// SyncAction is the ledger operation an intent describes.
type SyncAction string

const (
	SyncActionCreate SyncAction = "create"
	SyncActionUpdate SyncAction = "update"
	SyncActionDelete SyncAction = "delete"
)

// SyncStatus is the lifecycle state of a sync intent.
type SyncStatus string

const (
	SyncStatusPending SyncStatus = "pending"
	SyncStatusApplied SyncStatus = "applied"
	SyncStatusFailed  SyncStatus = "failed"
)

// LedgerSyncIntent is the durable outbox row for shadow-transaction
// synchronization. An intent is written before the shadow transaction is
// touched, then marked applied or failed. Failed intents keep the serialized
// payload so the step can be retried later, and their count is the system's
// drift metric.
type LedgerSyncIntent struct {
	Base
	UserID     uint              `gorm:"not null;index" json:"user_id"`
	SourceType TransactionOrigin `gorm:"not null;index:idx_sync_intents_source" json:"source_type"`
	SourceID   uint              `gorm:"not null;index:idx_sync_intents_source" json:"source_id"`
	Action     SyncAction        `gorm:"not null" json:"action"`
	Payload    string            `gorm:"type:text" json:"payload"`
	Status     SyncStatus        `gorm:"not null;default:pending;index" json:"status"`
	Attempts   int               `gorm:"not null;default:0" json:"attempts"`
	LastError  string            `json:"last_error,omitempty"`
}
