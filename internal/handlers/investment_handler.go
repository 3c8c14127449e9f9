package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
	"moneta/internal/services"
)

// InvestmentHandler handles investment-related requests.
type InvestmentHandler struct {
	investmentService services.InvestmentServicer
	auditService      services.AuditServicer
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(investmentService services.InvestmentServicer, auditService services.AuditServicer) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService, auditService: auditService}
}

// CreateInvestmentRequest represents the request payload for creating an investment.
type CreateInvestmentRequest struct {
	Category         models.InvestmentCategory `json:"category" binding:"required,investment_category"`
	Description      string                    `json:"description" binding:"max=500"`
	Amount           int64                     `json:"amount" binding:"required,gte=0"`
	Kind             models.InvestmentKind     `json:"kind" binding:"required,investment_kind"`
	Date             time.Time                 `json:"date" binding:"required"`
	StartDate        *time.Time                `json:"start_date,omitempty"`
	AnnualReturnRate float64                   `json:"annual_return_rate" binding:"gte=0"`
	ExpectedEndDate  *time.Time                `json:"expected_end_date,omitempty"`
}

// UpdateInvestmentRequest represents the request payload for updating an investment.
type UpdateInvestmentRequest struct {
	Category         *models.InvestmentCategory `json:"category,omitempty" binding:"omitempty,investment_category"`
	Description      *string                    `json:"description,omitempty" binding:"omitempty,max=500"`
	Amount           *int64                     `json:"amount,omitempty" binding:"omitempty,gte=0"`
	Kind             *models.InvestmentKind     `json:"kind,omitempty" binding:"omitempty,investment_kind"`
	Date             *time.Time                 `json:"date,omitempty"`
	StartDate        *time.Time                 `json:"start_date,omitempty"`
	AnnualReturnRate *float64                   `json:"annual_return_rate,omitempty" binding:"omitempty,gte=0"`
	ExpectedEndDate  *time.Time                 `json:"expected_end_date,omitempty"`
}

// CreateInvestment handles creating a new investment.
// @Summary     Create investment
// @Description Create a new investment and its mirrored expense transaction
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateInvestmentRequest true "Investment details"
// @Success     201 {object} models.Investment "Investment created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments [post]
func (h *InvestmentHandler) CreateInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// Recurring plans without an explicit start begin contributing on the
	// transaction date.
	startDate := req.Date
	if req.StartDate != nil {
		startDate = *req.StartDate
	}

	investment, err := h.investmentService.CreateInvestment(
		userID, req.Category, req.Description, req.Amount, req.Kind,
		req.Date, startDate, req.AnnualReturnRate, req.ExpectedEndDate,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_INVESTMENT", "investment", investment.ID, c.ClientIP(),
		map[string]interface{}{"category": string(req.Category), "kind": string(req.Kind), "amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"investment": investment})
}

// GetInvestments handles listing the user's investments.
// @Summary     Get investments
// @Description Get a paginated list of the user's investments
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Investment] "Paginated investments"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments [get]
func (h *InvestmentHandler) GetInvestments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.investmentService.GetUserInvestments(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetInvestment handles retrieving a specific investment.
// @Summary     Get investment by ID
// @Description Get a specific investment by ID
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Investment ID"
// @Success     200 {object} models.Investment "Investment details"
// @Failure     400 {object} ErrorResponse "Invalid investment ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/{id} [get]
func (h *InvestmentHandler) GetInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	investment, err := h.investmentService.GetInvestmentByID(userID, investmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"investment": investment})
}

// UpdateInvestment handles updating an investment.
// @Summary     Update investment
// @Description Update an investment; its mirrored transaction follows
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                      true "Investment ID"
// @Param       request body UpdateInvestmentRequest  true "Field changes"
// @Success     200 {object} models.Investment "Updated investment"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/{id} [put]
func (h *InvestmentHandler) UpdateInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	investment, err := h.investmentService.UpdateInvestment(userID, investmentID, services.InvestmentUpdate{
		Category:         req.Category,
		Description:      req.Description,
		Amount:           req.Amount,
		Kind:             req.Kind,
		Date:             req.Date,
		StartDate:        req.StartDate,
		AnnualReturnRate: req.AnnualReturnRate,
		ExpectedEndDate:  req.ExpectedEndDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_INVESTMENT", "investment", investmentID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"investment": investment})
}

// DeleteInvestment handles deleting an investment.
// @Summary     Delete investment
// @Description Delete an investment and its mirrored transaction
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Investment ID"
// @Success     204 "Investment deleted"
// @Failure     400 {object} ErrorResponse "Invalid investment ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/{id} [delete]
func (h *InvestmentHandler) DeleteInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.investmentService.DeleteInvestment(userID, investmentID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_INVESTMENT", "investment", investmentID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// GetProjection handles retrieving the projected value of an investment.
// @Summary     Get investment projection
// @Description Estimate the value of an investment at a point in time
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path  int    true  "Investment ID"
// @Param       at query string false "Projection instant (RFC 3339, default now)"
// @Success     200 {object} services.InvestmentProjection "Projection"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/{id}/projection [get]
func (h *InvestmentHandler) GetProjection(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var at *time.Time
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid 'at' timestamp"))
			return
		}
		at = &parsed
	}

	projection, err := h.investmentService.ProjectInvestment(userID, investmentID, at)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projection": projection})
}

// GetPortfolio handles retrieving the aggregated portfolio summary.
// @Summary     Get portfolio summary
// @Description Get an aggregated summary across all of the user's investments
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PortfolioSummary "Portfolio summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/portfolio [get]
func (h *InvestmentHandler) GetPortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.investmentService.GetPortfolio(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": summary})
}
