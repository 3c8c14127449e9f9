package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/services"
)

// defaultRetryLimit caps how many failed sync intents one retry call replays.
const defaultRetryLimit = 50

// SyncHandler exposes the ledger sync outbox: drift visibility and retries.
type SyncHandler struct {
	syncService services.LedgerSyncer
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(syncService services.LedgerSyncer) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// GetDrift handles reporting the user's sync outbox state.
// @Summary     Get sync drift
// @Description Count pending, applied, and failed ledger sync intents for the user
// @Tags        sync
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.SyncDriftStats "Outbox counts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sync/drift [get]
func (h *SyncHandler) GetDrift(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.syncService.DriftStats(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"drift": stats})
}

// RetryFailed handles replaying failed sync intents.
// @Summary     Retry failed sync intents
// @Description Replay failed ledger sync intents, oldest first
// @Tags        sync
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Maximum intents to replay (default 50)"
// @Success     200 {object} map[string]int "Number of repaired intents"
// @Failure     400 {object} ErrorResponse "Invalid limit"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sync/retry [post]
func (h *SyncHandler) RetryFailed(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	limit := defaultRetryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid limit"))
			return
		}
		limit = parsed
	}

	repaired, err := h.syncService.RetryFailed(limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"repaired": repaired})
}
