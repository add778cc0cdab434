package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"brz-forbes-portal/internal/service"
)

// LeaderboardHandler обработчик публичного рейтинга
type LeaderboardHandler struct {
	service *service.PortalService
	logger  *logrus.Logger
}

// NewLeaderboardHandler создает новый обработчик рейтинга
func NewLeaderboardHandler(service *service.PortalService, logger *logrus.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: service,
		logger:  logger,
	}
}

// GetLeaderboard возвращает публичный рейтинг
// @Summary Get wealth leaderboard
// @Description Get top-20 bank clients with economic report, charts and podium prizes
// @Tags leaderboard
// @Produce json
// @Success 200 {object} service.LeaderboardView
// @Failure 500 {object} map[string]string
// @Router /api/v1/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	view, err := h.service.Leaderboard(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to build leaderboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get leaderboard"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetAwards возвращает последние записи еженедельного подиума
// @Summary Get recent weekly awards
// @Description Get the most recent weekly podium snapshots
// @Tags leaderboard
// @Produce json
// @Param limit query int false "Maximum number of records" default(12)
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /api/v1/leaderboard/awards [get]
func (h *LeaderboardHandler) GetAwards(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 12
	}

	awards, err := h.service.RecentAwards(c.Request.Context(), limit)
	if err != nil {
		h.logger.Errorf("Failed to get weekly awards: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get awards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"awards": awards})
}
