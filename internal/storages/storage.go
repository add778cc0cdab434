package storages

import (
	"context"
	"errors"
)

// Ошибки хранилища, на которые опирается сервисный слой
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("record already exists")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyResolved   = errors.New("request already resolved")
)

// Storage определяет интерфейс для работы с хранилищем данных
type Storage interface {
	// Site user operations
	CreateSiteUser(ctx context.Context, user *SiteUser) error
	GetSiteUserByEmail(ctx context.Context, email string) (*SiteUser, error)
	GetSiteUserByLogin(ctx context.Context, mtaLogin string) (*SiteUser, error)
	GetSiteUserByID(ctx context.Context, userID int64) (*SiteUser, error)
	ListSiteUsers(ctx context.Context, search string) ([]SiteUser, error)
	ListSiteUsersByStatus(ctx context.Context, status string) ([]SiteUser, error)
	SetSiteUserCoins(ctx context.Context, userID int64, coins float64) error
	ResolveSiteUser(ctx context.Context, userID int64, decision string) (*SiteUser, error)

	// Admin operations
	GetAdminByEmail(ctx context.Context, email string) (*Admin, error)

	// Bank client operations
	ListBankClients(ctx context.Context) ([]BankClient, error)
	GetBankClient(ctx context.Context, player string) (*BankClient, error)

	// Withdrawal operations. SubmitWithdrawal атомарно создает pending-заявку
	// и списывает coins в одной транзакции; повтор с тем же request_token
	// возвращает уже созданную заявку.
	SubmitWithdrawal(ctx context.Context, userID int64, req *WithdrawRequest) error
	GetWithdrawRequest(ctx context.Context, requestID int64) (*WithdrawRequest, error)
	ListPendingWithdrawals(ctx context.Context, currencyType string) ([]WithdrawRequest, error)
	ListPlayerWithdrawals(ctx context.Context, player string) ([]WithdrawRequest, error)
	ResolveWithdrawal(ctx context.Context, requestID int64, decision string, refundOnDeny bool) (*WithdrawRequest, error)

	// Shop operations
	CreateShopItem(ctx context.Context, item *ShopItem) error
	ListShopItems(ctx context.Context) ([]ShopItem, error)
	GetShopItem(ctx context.Context, itemID int64) (*ShopItem, error)
	DeleteShopItem(ctx context.Context, itemID int64) error

	// Purchase operations
	CreatePurchaseRequest(ctx context.Context, req *PurchaseRequest) error
	ListPendingPurchases(ctx context.Context) ([]PurchaseRequest, error)
	ResolvePurchase(ctx context.Context, requestID int64, decision string) (*PurchaseRequest, error)

	// Weekly awards
	CreateWeeklyAward(ctx context.Context, award *WeeklyAward) error
	ListWeeklyAwards(ctx context.Context, limit int) ([]WeeklyAward, error)

	// Health check
	Ping(ctx context.Context) error
	Close() error
}
