package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
	"moneta/internal/projection"
)

// investmentService handles investment-related business logic.
type investmentService struct {
	db   *gorm.DB
	sync LedgerSyncer
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(db *gorm.DB, sync LedgerSyncer) InvestmentServicer {
	return &investmentService{db: db, sync: sync}
}

// CreateInvestment validates and persists a new investment, then records its
// shadow expense transaction. The shadow write is best-effort: the investment
// is created even when the sync step fails.
func (s *investmentService) CreateInvestment(
	userID uint,
	category models.InvestmentCategory,
	description string,
	amount int64,
	kind models.InvestmentKind,
	date, startDate time.Time,
	annualReturnRate float64,
	expectedEndDate *time.Time,
) (*models.Investment, error) {
	if !models.ValidInvestmentCategory(category) {
		return nil, apperrors.ErrInvalidCategory
	}
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
	}
	if annualReturnRate < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "annual return rate cannot be negative")
	}
	// An end date before the contribution start is caller error, not a
	// projection to guess at.
	if expectedEndDate != nil && expectedEndDate.Before(startDate) {
		return nil, apperrors.ErrInvalidPeriod
	}

	investment := &models.Investment{
		UserID:           userID,
		Category:         category,
		Description:      description,
		Amount:           amount,
		Kind:             kind,
		Date:             date,
		StartDate:        startDate,
		AnnualReturnRate: annualReturnRate,
		ExpectedEndDate:  expectedEndDate,
	}

	if err := s.db.Create(investment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.sync.SyncCreate(userID, models.OriginInvestment, investment.ID, investmentShadow(investment))

	return investment, nil
}

// GetUserInvestments returns the user's investments, newest first.
func (s *investmentService) GetUserInvestments(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error) {
	page.Defaults()

	base := s.db.Model(&models.Investment{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var investments []models.Investment
	if err := base.Order("date DESC").Scopes(pagination.Paginate(page)).Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(investments, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetInvestmentByID returns an investment by ID if it belongs to the user.
func (s *investmentService) GetInvestmentByID(userID, investmentID uint) (*models.Investment, error) {
	var investment models.Investment
	if err := s.db.Where("id = ? AND user_id = ?", investmentID, userID).First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &investment, nil
}

// UpdateInvestment applies field changes to an investment and brings its
// shadow transaction in line. The investment update is authoritative; a
// failed or drifted shadow update never fails the call.
func (s *investmentService) UpdateInvestment(userID, investmentID uint, update InvestmentUpdate) (*models.Investment, error) {
	investment, err := s.GetInvestmentByID(userID, investmentID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Category != nil {
		if !models.ValidInvestmentCategory(*update.Category) {
			return nil, apperrors.ErrInvalidCategory
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
	if update.Kind != nil {
		updates["kind"] = *update.Kind
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}
	if update.StartDate != nil {
		updates["start_date"] = *update.StartDate
	}
	if update.AnnualReturnRate != nil {
		if *update.AnnualReturnRate < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "annual return rate cannot be negative")
		}
		updates["annual_return_rate"] = *update.AnnualReturnRate
	}
	if update.ExpectedEndDate != nil {
		start := investment.StartDate
		if update.StartDate != nil {
			start = *update.StartDate
		}
		if update.ExpectedEndDate.Before(start) {
			return nil, apperrors.ErrInvalidPeriod
		}
		updates["expected_end_date"] = *update.ExpectedEndDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(investment).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		s.sync.SyncUpdate(userID, models.OriginInvestment, investment.ID, investmentShadow(investment))
	}

	return investment, nil
}

// DeleteInvestment removes an investment and its shadow transaction. The
// shadow delete is idempotent: an already-desynced source never fails here.
func (s *investmentService) DeleteInvestment(userID, investmentID uint) error {
	investment, err := s.GetInvestmentByID(userID, investmentID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(investment).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.sync.SyncDelete(userID, models.OriginInvestment, investment.ID)
	return nil
}

// ProjectInvestment estimates the investment's value at the given time
// (defaulting to now). Lump sums grow from the transaction date, recurring
// contributions from the contribution start date. With a zero return rate the
// result carries HasProjection=false and mirrors the invested amount.
func (s *investmentService) ProjectInvestment(userID, investmentID uint, at *time.Time) (*InvestmentProjection, error) {
	investment, err := s.GetInvestmentByID(userID, investmentID)
	if err != nil {
		return nil, err
	}

	asOf := time.Now()
	if at != nil {
		asOf = *at
	}

	months, invested, projected := projectionAt(investment, asOf)

	return &InvestmentProjection{
		InvestmentID:   investment.ID,
		Months:         months,
		InvestedAmount: invested,
		ProjectedValue: projected,
		HasProjection:  investment.AnnualReturnRate > 0,
		AsOf:           asOf,
	}, nil
}

// GetPortfolio aggregates invested amounts, projected value to date, and
// projected value at each investment's expected end date.
func (s *investmentService) GetPortfolio(userID uint) (*PortfolioSummary, error) {
	var investments []models.Investment
	if err := s.db.Where("user_id = ?", userID).Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	summary := &PortfolioSummary{Investments: len(investments)}

	for i := range investments {
		inv := &investments[i]
		_, invested, projected := projectionAt(inv, now)
		summary.TotalInvested += invested
		summary.CurrentValue += projected

		// Value at the planned end of the investment; only meaningful with a
		// rate and an end date.
		if inv.AnnualReturnRate > 0 && inv.ExpectedEndDate != nil && !inv.ExpectedEndDate.Before(inv.StartDate) {
			_, _, atEnd := projectionAt(inv, *inv.ExpectedEndDate)
			summary.ProjectedAtEnd += atEnd
		}
	}

	return summary, nil
}

// projectionAt computes the elapsed month span, total invested amount, and
// projected value of an investment at the given instant.
func projectionAt(inv *models.Investment, at time.Time) (months int, invested, projected int64) {
	switch inv.Kind {
	case models.InvestmentKindRecurring:
		months = projection.ClampMonths(projection.MonthsBetween(inv.StartDate, at), 0)
		invested = inv.Amount * int64(months)
		projected = projection.RecurringValue(inv.Amount, inv.AnnualReturnRate, months)
	default:
		months = projection.ClampMonths(projection.MonthsBetween(inv.Date, at), 0)
		invested = inv.Amount
		projected = projection.LumpSumValue(inv.Amount, inv.AnnualReturnRate, months)
	}
	return months, invested, projected
}

// investmentShadow maps an investment to the fields its shadow transaction
// mirrors. The description falls back to the category when the user supplied
// none.
func investmentShadow(inv *models.Investment) ShadowFields {
	description := inv.Description
	if description == "" {
		description = fmt.Sprintf("%s investment", inv.Category)
	}
	return ShadowFields{
		Category:    string(inv.Category),
		Description: description,
		Amount:      inv.Amount,
		Date:        inv.Date,
	}
}
