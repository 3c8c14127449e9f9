package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/logger"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// transactionService handles user-facing ledger operations. Shadow entries
// share the transactions table but are owned by the ledger sync; user edits
// to them are rejected so a stored origin reference can never silently drift
// through this path.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction records a manual ledger entry.
func (s *transactionService) CreateTransaction(
	userID uint,
	category, description string,
	amount int64,
	txType models.TransactionType,
	date time.Time,
) (*models.Transaction, error) {
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Category:    category,
		Description: description,
		Amount:      amount,
		Type:        txType,
		Date:        date,
		OriginType:  models.OriginManual,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// GetUserTransactions returns a paginated list of the user's transactions,
// newest first, with optional filters.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if filter.FromDate != nil {
		base = base.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("date <= ?", *filter.ToDate)
	}
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}
	if filter.MinAmount != nil {
		base = base.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		base = base.Where("amount <= ?", *filter.MaxAmount)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Order("date DESC").Scopes(pagination.Paginate(page)).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID returns a transaction by ID if it belongs to the user.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies field changes to a manual transaction. Shadow
// entries are managed by the ledger sync and cannot be edited here.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, update TransactionUpdate) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.IsShadow() {
		return nil, apperrors.ErrTransactionNotEditable
	}

	updates := make(map[string]interface{})
	if update.Category != nil {
		if *update.Category == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category cannot be empty")
		}
		updates["category"] = *update.Category
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Amount != nil {
		if *update.Amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
		}
		updates["amount"] = *update.Amount
	}
	if update.Type != nil {
		updates["type"] = *update.Type
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return transaction, nil
}

// DeleteTransaction removes a transaction. Deleting a shadow entry is
// permitted but leaves its source record desynced until the next sync step,
// which treats the missing row as observable drift.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if transaction.IsShadow() {
		logger.Get().Warnw("deleting shadow transaction by user request",
			"transaction_id", transaction.ID,
			"origin_type", transaction.OriginType,
			"origin_id", transaction.OriginID,
		)
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
