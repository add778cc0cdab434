package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"brz-forbes-portal/internal/config"
	"brz-forbes-portal/internal/kafka"
	"brz-forbes-portal/internal/report"
	"brz-forbes-portal/internal/storages"
	"brz-forbes-portal/pkg"
)

// Роли авторизованных пользователей
const (
	RoleAdmin  = "admin"
	RolePlayer = "player"
)

// Ошибки сервисного слоя, которые обработчики переводят в HTTP-статусы
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountPending     = errors.New("account is awaiting administrative approval")
	ErrAccountDenied      = errors.New("account access was denied by administration")
	ErrEmailTaken         = errors.New("email or mta_login already registered")
	ErrDecisionConflict   = errors.New("request already resolved with a different decision")
)

// AuthUser представляет явный объект сессии, выдаваемый при входе
type AuthUser struct {
	ID       int64  `json:"id,omitempty"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	MTALogin string `json:"mta_login,omitempty"`
	Status   string `json:"status,omitempty"`
}

// PortalService сервисный слой для бизнес-логики портала
type PortalService struct {
	storage      storages.Storage
	reportClient *report.Client
	reportCache  *report.Cache
	producer     *kafka.Producer
	logger       *logrus.Logger
	refundOnDeny bool
	prizes       config.AwardsConfig
}

// NewPortalService создает новый экземпляр сервиса
func NewPortalService(
	storage storages.Storage,
	reportClient *report.Client,
	reportCache *report.Cache,
	producer *kafka.Producer,
	logger *logrus.Logger,
	refundOnDeny bool,
	prizes config.AwardsConfig,
) *PortalService {
	return &PortalService{
		storage:      storage,
		reportClient: reportClient,
		reportCache:  reportCache,
		producer:     producer,
		logger:       logger,
		refundOnDeny: refundOnDeny,
		prizes:       prizes,
	}
}

// RegisterUser регистрирует новый аккаунт портала в статусе pending
func (s *PortalService) RegisterUser(ctx context.Context, email, password, mtaLogin, mtaSerial string) error {
	// Хешируем пароль
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Errorf("Failed to hash password: %v", err)
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &storages.SiteUser{
		MTALogin:     mtaLogin,
		MTASerial:    mtaSerial,
		Email:        pkg.NormalizeEmail(email),
		PasswordHash: string(hashedPassword),
	}

	if err := s.storage.CreateSiteUser(ctx, user); err != nil {
		if errors.Is(err, storages.ErrDuplicate) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create site user: %w", err)
	}

	s.logger.Infof("Site user registered: %s (awaiting approval)", mtaLogin)
	return nil
}

// AuthenticateUser аутентифицирует пользователя: сначала как администратора,
// затем как игрока. Аккаунты в статусах pending и denied не допускаются.
func (s *PortalService) AuthenticateUser(ctx context.Context, email, password string) (*AuthUser, error) {
	email = pkg.NormalizeEmail(email)

	// Попытка входа как администратор
	admin, err := s.storage.GetAdminByEmail(ctx, email)
	if err == nil {
		if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) == nil {
			s.logger.Infof("Admin authenticated: %s", email)
			return &AuthUser{ID: admin.ID, Email: admin.Email, Role: RoleAdmin}, nil
		}
		s.logger.Warnf("Failed admin authentication attempt: %s", email)
		return nil, ErrInvalidCredentials
	}
	if !errors.Is(err, storages.ErrNotFound) {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	// Вход как игрок
	user, err := s.storage.GetSiteUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storages.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get site user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Warnf("Failed authentication attempt for user: %s", email)
		return nil, ErrInvalidCredentials
	}

	switch user.Status {
	case storages.StatusPending:
		return nil, ErrAccountPending
	case storages.StatusDenied:
		return nil, ErrAccountDenied
	}

	s.logger.Infof("Site user authenticated: %s", user.MTALogin)
	return &AuthUser{
		ID:       user.ID,
		Email:    user.Email,
		Role:     RolePlayer,
		MTALogin: user.MTALogin,
		Status:   user.Status,
	}, nil
}

// ListPendingMembers возвращает аккаунты, ожидающие решения администратора
func (s *PortalService) ListPendingMembers(ctx context.Context) ([]storages.SiteUser, error) {
	return s.storage.ListSiteUsersByStatus(ctx, storages.StatusPending)
}

// ResolveMember одобряет или отклоняет заявку на доступ. Повторное решение
// с тем же исходом — no-op, с другим — отклоняется.
func (s *PortalService) ResolveMember(ctx context.Context, userID int64, decision string) (*storages.SiteUser, error) {
	if err := pkg.ValidateDecision(decision); err != nil {
		return nil, err
	}

	user, err := s.storage.ResolveSiteUser(ctx, userID, decision)
	if err != nil {
		if errors.Is(err, storages.ErrAlreadyResolved) {
			if user != nil && user.Status == decision {
				return user, nil
			}
			return nil, ErrDecisionConflict
		}
		return nil, fmt.Errorf("failed to resolve member: %w", err)
	}

	return user, nil
}

// ListWallets возвращает аккаунты с фильтром по игровому логину
func (s *PortalService) ListWallets(ctx context.Context, search string) ([]storages.SiteUser, error) {
	return s.storage.ListSiteUsers(ctx, search)
}

// SetWalletCoins выставляет счетчик coins аккаунта (административная операция)
func (s *PortalService) SetWalletCoins(ctx context.Context, userID int64, coins float64) error {
	if coins < 0 {
		return fmt.Errorf("coins must not be negative")
	}

	if err := s.storage.SetSiteUserCoins(ctx, userID, coins); err != nil {
		return fmt.Errorf("failed to set coins: %w", err)
	}

	s.logger.Infof("Admin set coins for user %d: %.2f", userID, coins)
	return nil
}

// CreateShopItem добавляет позицию в каталог магазина
func (s *PortalService) CreateShopItem(ctx context.Context, item *storages.ShopItem) error {
	if item.Name == "" {
		return fmt.Errorf("item name is required")
	}
	if err := pkg.ValidateAmount(item.Price); err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}
	if item.Category == "" {
		item.Category = storages.CurrencyCoin
	}

	return s.storage.CreateShopItem(ctx, item)
}

// ListShopItems возвращает каталог магазина
func (s *PortalService) ListShopItems(ctx context.Context) ([]storages.ShopItem, error) {
	return s.storage.ListShopItems(ctx)
}

// DeleteShopItem удаляет позицию каталога
func (s *PortalService) DeleteShopItem(ctx context.Context, itemID int64) error {
	return s.storage.DeleteShopItem(ctx, itemID)
}

// SubmitPurchase создает заявку на покупку со снапшотом позиции каталога
func (s *PortalService) SubmitPurchase(ctx context.Context, userID, itemID int64, receiptURL string) (*storages.PurchaseRequest, error) {
	user, err := s.storage.GetSiteUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get site user: %w", err)
	}

	item, err := s.storage.GetShopItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shop item: %w", err)
	}

	req := &storages.PurchaseRequest{
		UserID:     user.ID,
		MTALogin:   user.MTALogin,
		ItemID:     item.ID,
		ItemName:   item.Name,
		Amount:     item.Price,
		ReceiptURL: receiptURL,
	}

	if err := s.storage.CreatePurchaseRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create purchase request: %w", err)
	}

	return req, nil
}

// ListPendingPurchases возвращает нерассмотренные заявки на покупку
func (s *PortalService) ListPendingPurchases(ctx context.Context) ([]storages.PurchaseRequest, error) {
	return s.storage.ListPendingPurchases(ctx)
}

// ResolvePurchase одобряет или отклоняет заявку на покупку с той же
// идемпотентностью, что и ResolveWithdrawal
func (s *PortalService) ResolvePurchase(ctx context.Context, requestID int64, decision string) (*storages.PurchaseRequest, error) {
	if err := pkg.ValidateDecision(decision); err != nil {
		return nil, err
	}

	req, err := s.storage.ResolvePurchase(ctx, requestID, decision)
	if err != nil {
		if errors.Is(err, storages.ErrAlreadyResolved) {
			if req != nil && req.Status == decision {
				return req, nil
			}
			return nil, ErrDecisionConflict
		}
		return nil, fmt.Errorf("failed to resolve purchase: %w", err)
	}

	return req, nil
}
