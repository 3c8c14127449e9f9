package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"moneta/internal/logger"
	"moneta/internal/models"
)

// ErrShadowDrift indicates that a shadow transaction expected to exist could
// not be found. It is recorded on the sync intent and logged, never returned
// to callers: the source-record operation is authoritative and completes
// regardless of sync outcome.
var ErrShadowDrift = errors.New("shadow transaction not found")

// ledgerSyncService mirrors every investment/subscription cash outflow as a
// single expense transaction keyed by (origin_type, origin_id). The origin
// reference makes locating the shadow entry an indexed lookup, so sync can
// never mutate or delete a user-entered transaction, and two sources sharing
// amount, date and category stay unambiguous.
//
// Each step is a saga over two tables with no shared transaction: the intent
// row is written first, then the ledger write is applied and the intent marked
// applied or failed. Concurrent updates to the same source record are not
// serialized; both sync steps target the same shadow row, so the outcome is
// last-writer-wins with no detection of the race.
type ledgerSyncService struct {
	db *gorm.DB
}

// NewLedgerSyncService creates a new LedgerSyncer.
func NewLedgerSyncService(db *gorm.DB) LedgerSyncer {
	return &ledgerSyncService{db: db}
}

// SyncCreate records a shadow expense transaction for a newly created source
// record. Best-effort: failures are logged and kept on the intent row.
func (s *ledgerSyncService) SyncCreate(userID uint, source models.TransactionOrigin, sourceID uint, fields ShadowFields) {
	intent := s.recordIntent(userID, source, sourceID, models.SyncActionCreate, &fields)
	if intent == nil {
		return
	}
	s.applyAndMark(intent)
}

// SyncUpdate brings the shadow transaction in line with the source record's
// new field values. A missing shadow entry is drift: logged and recorded,
// while the source update stands.
func (s *ledgerSyncService) SyncUpdate(userID uint, source models.TransactionOrigin, sourceID uint, fields ShadowFields) {
	intent := s.recordIntent(userID, source, sourceID, models.SyncActionUpdate, &fields)
	if intent == nil {
		return
	}
	s.applyAndMark(intent)
}

// SyncDelete removes the shadow transaction of a deleted source record.
// Deleting an already-desynced source is a no-op, so the step is idempotent
// from the caller's point of view.
func (s *ledgerSyncService) SyncDelete(userID uint, source models.TransactionOrigin, sourceID uint) {
	intent := s.recordIntent(userID, source, sourceID, models.SyncActionDelete, nil)
	if intent == nil {
		return
	}
	s.applyAndMark(intent)
}

// RetryFailed re-applies up to limit failed intents, oldest first, and
// returns the number repaired.
func (s *ledgerSyncService) RetryFailed(limit int) (int, error) {
	var intents []models.LedgerSyncIntent
	if err := s.db.Where("status = ?", models.SyncStatusFailed).
		Order("id").Limit(limit).Find(&intents).Error; err != nil {
		return 0, err
	}

	repaired := 0
	for i := range intents {
		if s.applyAndMark(&intents[i]) {
			repaired++
		}
	}
	return repaired, nil
}

// DriftStats counts the user's intents per status.
func (s *ledgerSyncService) DriftStats(userID uint) (*SyncDriftStats, error) {
	stats := &SyncDriftStats{}
	for status, target := range map[models.SyncStatus]*int64{
		models.SyncStatusPending: &stats.Pending,
		models.SyncStatusApplied: &stats.Applied,
		models.SyncStatusFailed:  &stats.Failed,
	} {
		if err := s.db.Model(&models.LedgerSyncIntent{}).
			Where("user_id = ? AND status = ?", userID, status).
			Count(target).Error; err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// recordIntent persists the durable outbox row for a sync step. Returns nil
// when even the intent could not be written; at that point the step is lost
// and only the log line remains.
func (s *ledgerSyncService) recordIntent(userID uint, source models.TransactionOrigin, sourceID uint, action models.SyncAction, fields *ShadowFields) *models.LedgerSyncIntent {
	var payload string
	if fields != nil {
		data, err := json.Marshal(fields)
		if err != nil {
			logger.Get().Errorw("failed to marshal sync payload",
				"source_type", source, "source_id", sourceID, "action", action, "error", err)
			return nil
		}
		payload = string(data)
	}

	intent := &models.LedgerSyncIntent{
		UserID:     userID,
		SourceType: source,
		SourceID:   sourceID,
		Action:     action,
		Payload:    payload,
		Status:     models.SyncStatusPending,
	}
	if err := s.db.Create(intent).Error; err != nil {
		logger.Get().Errorw("failed to record sync intent",
			"source_type", source, "source_id", sourceID, "action", action, "error", err)
		return nil
	}
	return intent
}

// applyAndMark runs one intent against the ledger and persists the outcome.
// Returns true when the intent was applied.
func (s *ledgerSyncService) applyAndMark(intent *models.LedgerSyncIntent) bool {
	err := s.apply(intent)

	updates := map[string]interface{}{
		"attempts": gorm.Expr("attempts + 1"),
	}
	if err != nil {
		updates["status"] = models.SyncStatusFailed
		updates["last_error"] = err.Error()
		logger.Get().Warnw("ledger sync step failed",
			"source_type", intent.SourceType,
			"source_id", intent.SourceID,
			"action", intent.Action,
			"error", err,
		)
	} else {
		updates["status"] = models.SyncStatusApplied
		updates["last_error"] = ""
	}

	if mErr := s.db.Model(intent).Updates(updates).Error; mErr != nil {
		logger.Get().Errorw("failed to update sync intent",
			"intent_id", intent.ID, "error", mErr)
	}
	return err == nil
}

// apply executes the ledger write an intent describes.
func (s *ledgerSyncService) apply(intent *models.LedgerSyncIntent) error {
	var fields ShadowFields
	if intent.Payload != "" {
		if err := json.Unmarshal([]byte(intent.Payload), &fields); err != nil {
			return fmt.Errorf("decode sync payload: %w", err)
		}
	}

	switch intent.Action {
	case models.SyncActionCreate:
		return s.applyCreate(intent, &fields)
	case models.SyncActionUpdate:
		return s.applyUpdate(intent, &fields)
	case models.SyncActionDelete:
		return s.applyDelete(intent)
	default:
		return fmt.Errorf("unknown sync action %q", intent.Action)
	}
}

func (s *ledgerSyncService) applyCreate(intent *models.LedgerSyncIntent, fields *ShadowFields) error {
	// A retried create may find the shadow already present; update it in
	// place to keep the at-most-one invariant.
	var existing models.Transaction
	err := s.shadowQuery(intent).First(&existing).Error
	if err == nil {
		return s.db.Model(&existing).Updates(shadowColumns(fields)).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	shadow := &models.Transaction{
		UserID:      intent.UserID,
		Category:    fields.Category,
		Description: fields.Description,
		Amount:      fields.Amount,
		Type:        models.TransactionTypeExpense,
		Date:        fields.Date,
		OriginType:  intent.SourceType,
		OriginID:    &intent.SourceID,
	}
	return s.db.Create(shadow).Error
}

func (s *ledgerSyncService) applyUpdate(intent *models.LedgerSyncIntent, fields *ShadowFields) error {
	res := s.shadowQuery(intent).Updates(shadowColumns(fields))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrShadowDrift
	}
	return nil
}

func (s *ledgerSyncService) applyDelete(intent *models.LedgerSyncIntent) error {
	// RowsAffected 0 means the shadow is already gone; that is the idempotent
	// success case, and the origin key guarantees no unrelated record with the
	// same amount, date and category can be deleted instead.
	return s.shadowQuery(intent).Delete(&models.Transaction{}).Error
}

// shadowQuery scopes to the single shadow transaction of an intent's source.
func (s *ledgerSyncService) shadowQuery(intent *models.LedgerSyncIntent) *gorm.DB {
	return s.db.Model(&models.Transaction{}).Where(
		"user_id = ? AND origin_type = ? AND origin_id = ?",
		intent.UserID, intent.SourceType, intent.SourceID,
	)
}

func shadowColumns(fields *ShadowFields) map[string]interface{} {
	return map[string]interface{}{
		"category":    fields.Category,
		"description": fields.Description,
		"amount":      fields.Amount,
		"date":        fields.Date,
		"type":        models.TransactionTypeExpense,
	}
}
