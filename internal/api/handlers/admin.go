package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"brz-forbes-portal/internal/service"
	"brz-forbes-portal/internal/storages"
)

// AdminHandler обработчик административных операций
type AdminHandler struct {
	service *service.PortalService
	logger  *logrus.Logger
}

// NewAdminHandler создает новый административный обработчик
func NewAdminHandler(service *service.PortalService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger,
	}
}

// ResolveRequest решение администратора по заявке
type ResolveRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved denied"`
}

// SetCoinsRequest запрос на выставление счетчика coins
type SetCoinsRequest struct {
	Coins float64 `json:"coins" binding:"gte=0"`
}

// ShopItemRequest запрос на создание позиции каталога
type ShopItemRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"omitempty,oneof=coin item"`
	Value       float64 `json:"value" binding:"omitempty,gte=0"`
	ImageURL    string  `json:"image_url" binding:"omitempty,url"`
	RedirectURL string  `json:"redirect_url" binding:"omitempty,url"`
}

// pathID извлекает числовой идентификатор из параметра пути
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// resolveError переводит ошибку решения в HTTP-ответ
func (h *AdminHandler) resolveError(c *gin.Context, err error, kind string) {
	switch {
	case errors.Is(err, service.ErrDecisionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, storages.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": kind + " not found"})
	default:
		h.logger.Errorf("Failed to resolve %s: %v", kind, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// ListWithdrawals возвращает нерассмотренные заявки на вывод
// @Summary List pending withdrawals
// @Description List pending withdrawal requests filtered by currency type
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param currency query string false "Currency type" Enums(coin, rus) default(coin)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/v1/admin/withdrawals [get]
func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	currency := c.DefaultQuery("currency", storages.CurrencyCoin)

	requests, err := h.service.ListPendingWithdrawals(c.Request.Context(), currency)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// ResolveWithdrawal применяет решение по заявке на вывод
// @Summary Resolve withdrawal request
// @Description Approve or deny a pending withdrawal request
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param request body ResolveRequest true "Decision"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/admin/withdrawals/{id}/resolve [post]
func (h *AdminHandler) ResolveWithdrawal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resolved, err := h.service.ResolveWithdrawal(c.Request.Context(), id, req.Decision)
	if err != nil {
		h.resolveError(c, err, "withdrawal")
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": resolved})
}

// ListPurchases возвращает нерассмотренные заявки на покупку
// @Summary List pending purchases
// @Description List pending purchase requests
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/admin/purchases [get]
func (h *AdminHandler) ListPurchases(c *gin.Context) {
	requests, err := h.service.ListPendingPurchases(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to list purchases: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list purchases"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// ResolvePurchase применяет решение по заявке на покупку
// @Summary Resolve purchase request
// @Description Approve or deny a pending purchase request
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param request body ResolveRequest true "Decision"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/admin/purchases/{id}/resolve [post]
func (h *AdminHandler) ResolvePurchase(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resolved, err := h.service.ResolvePurchase(c.Request.Context(), id, req.Decision)
	if err != nil {
		h.resolveError(c, err, "purchase")
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": resolved})
}

// ListUsers возвращает аккаунты портала
// @Summary List portal accounts
// @Description List site user accounts with optional mta_login search
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param search query string false "Substring filter on mta_login"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListWallets(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.logger.Errorf("Failed to list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// SetUserCoins выставляет счетчик coins аккаунта
// @Summary Set user coins
// @Description Set the coin counter of a portal account
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body SetCoinsRequest true "New coin value"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/admin/users/{id}/coins [put]
func (h *AdminHandler) SetUserCoins(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req SetCoinsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.SetWalletCoins(c.Request.Context(), id, req.Coins); err != nil {
		if errors.Is(err, storages.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Errorf("Failed to set coins: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coins updated"})
}

// ListMembers возвращает заявки на доступ к порталу
// @Summary List pending members
// @Description List portal accounts awaiting administrative approval
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/admin/members [get]
func (h *AdminHandler) ListMembers(c *gin.Context) {
	members, err := h.service.ListPendingMembers(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to list members: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// ResolveMember применяет решение по заявке на доступ
// @Summary Resolve member request
// @Description Approve or deny a pending portal account
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body ResolveRequest true "Decision"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/admin/members/{id}/resolve [post]
func (h *AdminHandler) ResolveMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resolved, err := h.service.ResolveMember(c.Request.Context(), id, req.Decision)
	if err != nil {
		h.resolveError(c, err, "member")
		return
	}

	c.JSON(http.StatusOK, gin.H{"member": resolved})
}

// ListShopItems возвращает каталог магазина
// @Summary List shop items
// @Description List all catalog items
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/admin/shop [get]
func (h *AdminHandler) ListShopItems(c *gin.Context) {
	items, err := h.service.ListShopItems(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to list shop items: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list shop items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateShopItem добавляет позицию каталога
// @Summary Create shop item
// @Description Add a new item to the shop catalog
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ShopItemRequest true "Item data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/v1/admin/shop [post]
func (h *AdminHandler) CreateShopItem(c *gin.Context) {
	var req ShopItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	item := &storages.ShopItem{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Value:       req.Value,
		ImageURL:    req.ImageURL,
		RedirectURL: req.RedirectURL,
	}

	if err := h.service.CreateShopItem(c.Request.Context(), item); err != nil {
		h.logger.Errorf("Failed to create shop item: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// DeleteShopItem удаляет позицию каталога
// @Summary Delete shop item
// @Description Remove an item from the shop catalog
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/admin/shop/{id} [delete]
func (h *AdminHandler) DeleteShopItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteShopItem(c.Request.Context(), id); err != nil {
		if errors.Is(err, storages.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shop item not found"})
			return
		}
		h.logger.Errorf("Failed to delete shop item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete shop item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Shop item deleted"})
}
