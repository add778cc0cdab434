package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"brz-forbes-portal/internal/api/middleware"
	"brz-forbes-portal/internal/service"
	"brz-forbes-portal/internal/storages"
)

// PlayerHandler обработчик операций игрока
type PlayerHandler struct {
	service *service.PortalService
	logger  *logrus.Logger
}

// NewPlayerHandler создает новый обработчик игрока
func NewPlayerHandler(service *service.PortalService, logger *logrus.Logger) *PlayerHandler {
	return &PlayerHandler{
		service: service,
		logger:  logger,
	}
}

// WithdrawalRequest запрос на вывод coins
type WithdrawalRequest struct {
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	PixKey       string  `json:"pix_key" binding:"required,min=3,max=140"`
	RequestToken string  `json:"request_token" binding:"omitempty,max=64"`
}

// PurchaseSubmitRequest запрос на покупку позиции каталога
type PurchaseSubmitRequest struct {
	ItemID     int64  `json:"item_id" binding:"required,gt=0"`
	ReceiptURL string `json:"receipt_url" binding:"omitempty,url"`
}

// GetDashboard возвращает дашборд игрока
// @Summary Get player dashboard
// @Description Get account, bank balance, withdrawal history and derived totals
// @Tags player
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.PlayerDashboardView
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/player/dashboard [get]
func (h *PlayerHandler) GetDashboard(c *gin.Context) {
	mtaLogin, err := middleware.GetMTALogin(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	view, err := h.service.PlayerDashboard(c.Request.Context(), mtaLogin)
	if err != nil {
		h.logger.Errorf("Failed to build dashboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get dashboard"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// SubmitWithdrawal создает заявку на вывод coins
// @Summary Submit withdrawal request
// @Description Atomically debit coins and create a pending PIX withdrawal request
// @Tags player
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body WithdrawalRequest true "Withdrawal data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/player/withdrawals [post]
func (h *PlayerHandler) SubmitWithdrawal(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	created, err := h.service.SubmitWithdrawal(c.Request.Context(), userID, req.Amount, req.PixKey, req.RequestToken)
	if err != nil {
		if errors.Is(err, storages.ErrInsufficientFunds) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient coins"})
			return
		}
		h.logger.Errorf("Failed to submit withdrawal: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Withdrawal request submitted",
		"request": created,
	})
}

// GetShop возвращает каталог магазина
// @Summary Get shop catalog
// @Description Get all purchasable catalog items
// @Tags player
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/player/shop [get]
func (h *PlayerHandler) GetShop(c *gin.Context) {
	items, err := h.service.ListShopItems(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to get shop items: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get shop items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// SubmitPurchase создает заявку на покупку
// @Summary Submit purchase request
// @Description Create a pending purchase request for a catalog item
// @Tags player
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body PurchaseSubmitRequest true "Purchase data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/player/purchases [post]
func (h *PlayerHandler) SubmitPurchase(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req PurchaseSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	created, err := h.service.SubmitPurchase(c.Request.Context(), userID, req.ItemID, req.ReceiptURL)
	if err != nil {
		if errors.Is(err, storages.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shop item not found"})
			return
		}
		h.logger.Errorf("Failed to submit purchase: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit purchase"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Purchase request submitted",
		"request": created,
	})
}
