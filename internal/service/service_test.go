package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"brz-forbes-portal/internal/config"
	"brz-forbes-portal/internal/report"
	"brz-forbes-portal/internal/service"
	"brz-forbes-portal/internal/storages"
)

// MockStorage - мок для Storage с семантикой, повторяющей postgres-слой
type MockStorage struct {
	users       map[int64]*storages.SiteUser
	admins      map[string]*storages.Admin
	clients     []storages.BankClient
	withdrawals map[int64]*storages.WithdrawRequest
	items       map[int64]*storages.ShopItem
	purchases   map[int64]*storages.PurchaseRequest
	awards      map[string]*storages.WeeklyAward
	nextID      int64
}

func NewMockStorage() *MockStorage {
	return &MockStorage{
		users:       make(map[int64]*storages.SiteUser),
		admins:      make(map[string]*storages.Admin),
		withdrawals: make(map[int64]*storages.WithdrawRequest),
		items:       make(map[int64]*storages.ShopItem),
		purchases:   make(map[int64]*storages.PurchaseRequest),
		awards:      make(map[string]*storages.WeeklyAward),
	}
}

func (m *MockStorage) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *MockStorage) CreateSiteUser(ctx context.Context, user *storages.SiteUser) error {
	for _, existing := range m.users {
		if existing.Email == user.Email || existing.MTALogin == user.MTALogin {
			return storages.ErrDuplicate
		}
	}
	user.ID = m.id()
	user.Status = storages.StatusPending
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *MockStorage) GetSiteUserByEmail(ctx context.Context, email string) (*storages.SiteUser, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, storages.ErrNotFound
}

func (m *MockStorage) GetSiteUserByLogin(ctx context.Context, mtaLogin string) (*storages.SiteUser, error) {
	for _, user := range m.users {
		if user.MTALogin == mtaLogin {
			return user, nil
		}
	}
	return nil, storages.ErrNotFound
}

func (m *MockStorage) GetSiteUserByID(ctx context.Context, userID int64) (*storages.SiteUser, error) {
	if user, exists := m.users[userID]; exists {
		return user, nil
	}
	return nil, storages.ErrNotFound
}

func (m *MockStorage) ListSiteUsers(ctx context.Context, search string) ([]storages.SiteUser, error) {
	var result []storages.SiteUser
	for _, user := range m.users {
		result = append(result, *user)
	}
	return result, nil
}

func (m *MockStorage) ListSiteUsersByStatus(ctx context.Context, status string) ([]storages.SiteUser, error) {
	var result []storages.SiteUser
	for _, user := range m.users {
		if user.Status == status {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (m *MockStorage) SetSiteUserCoins(ctx context.Context, userID int64, coins float64) error {
	user, exists := m.users[userID]
	if !exists {
		return storages.ErrNotFound
	}
	user.Coins = coins
	return nil
}

func (m *MockStorage) ResolveSiteUser(ctx context.Context, userID int64, decision string) (*storages.SiteUser, error) {
	user, exists := m.users[userID]
	if !exists {
		return nil, storages.ErrNotFound
	}
	if user.Status != storages.StatusPending {
		return user, storages.ErrAlreadyResolved
	}
	user.Status = decision
	return user, nil
}

func (m *MockStorage) GetAdminByEmail(ctx context.Context, email string) (*storages.Admin, error) {
	if admin, exists := m.admins[email]; exists {
		return admin, nil
	}
	return nil, storages.ErrNotFound
}

func (m *MockStorage) ListBankClients(ctx context.Context) ([]storages.BankClient, error) {
	return m.clients, nil
}

func (m *MockStorage) GetBankClient(ctx context.Context, player string) (*storages.BankClient, error) {
	for i := range m.clients {
		if m.clients[i].Player == player {
			return &m.clients[i], nil
		}
	}
	return nil, storages.ErrNotFound
}

func (m *MockStorage) SubmitWithdrawal(ctx context.Context, userID int64, req *storages.WithdrawRequest) error {
	// Повтор с тем же токеном возвращает уже созданную заявку
	if req.RequestToken != "" {
		for _, existing := range m.withdrawals {
			if existing.RequestToken == req.RequestToken {
				*req = *existing
				return nil
			}
		}
	}

	user, exists := m.users[userID]
	if !exists {
		return storages.ErrNotFound
	}
	if user.Coins < req.Amount {
		return storages.ErrInsufficientFunds
	}

	user.Coins -= req.Amount
	req.ID = m.id()
	req.Player = user.MTALogin
	req.CurrencyType = storages.CurrencyCoin
	req.Status = storages.StatusPending
	req.CreatedAt = time.Now()

	stored := *req
	m.withdrawals[req.ID] = &stored
	return nil
}

func (m *MockStorage) GetWithdrawRequest(ctx context.Context, requestID int64) (*storages.WithdrawRequest, error) {
	if req, exists := m.withdrawals[requestID]; exists {
		return req, nil
	}
	return nil, storages.ErrNotFound
}

func (m *MockStorage) ListPendingWithdrawals(ctx context.Context, currencyType string) ([]storages.WithdrawRequest, error) {
	var result []storages.WithdrawRequest
	for _, req := range m.withdrawals {
		if req.Status == storages.StatusPending && req.CurrencyType == currencyType {
			result = append(result, *req)
		}
	}
	return result, nil
}

func (m *MockStorage) ListPlayerWithdrawals(ctx context.Context, player string) ([]storages.WithdrawRequest, error) {
	var result []storages.WithdrawRequest
	for _, req := range m.withdrawals {
		if req.Player == player {
			result = append(result, *req)
		}
	}
	return result, nil
}

func (m *MockStorage) ResolveWithdrawal(ctx context.Context, requestID int64, decision string, refundOnDeny bool) (*storages.WithdrawRequest, error) {
	req, exists := m.withdrawals[requestID]
	if !exists {
		return nil, storages.ErrNotFound
	}
	if req.Status != storages.StatusPending {
		return req, storages.ErrAlreadyResolved
	}

	req.Status = decision
	now := time.Now()
	req.ResolvedAt = &now

	if decision == storages.StatusDenied && refundOnDeny && req.CurrencyType == storages.CurrencyCoin {
		for _, user := range m.users {
			if user.MTALogin == req.Player {
				user.Coins += req.Amount
			}
		}
	}

	return req, nil
}

func (m *MockStorage) CreateShopItem(ctx context.Context, item *storages.ShopItem) error {
	item.ID = m.id()
	item.CreatedAt = time.Now()
	m.items[item.ID] = item
	return nil
}

func (m *MockStorage) ListShopItems(ctx context.Context) ([]storages.ShopItem, error) {
	var result []storages.ShopItem
	for _, item := range m.items {
		result = append(result, *item)
	}
	return result, nil
}

func (m *MockStorage) GetShopItem(ctx context.Context, itemID int64) (*storages.ShopItem, error) {
	if item, exists := m.items[itemID]; exists {
		return item, nil
	}
	return nil, storages.ErrNotFound
}

func (m *MockStorage) DeleteShopItem(ctx context.Context, itemID int64) error {
	if _, exists := m.items[itemID]; !exists {
		return storages.ErrNotFound
	}
	delete(m.items, itemID)
	return nil
}

func (m *MockStorage) CreatePurchaseRequest(ctx context.Context, req *storages.PurchaseRequest) error {
	req.ID = m.id()
	req.Status = storages.StatusPending
	req.CreatedAt = time.Now()
	m.purchases[req.ID] = req
	return nil
}

func (m *MockStorage) ListPendingPurchases(ctx context.Context) ([]storages.PurchaseRequest, error) {
	var result []storages.PurchaseRequest
	for _, req := range m.purchases {
		if req.Status == storages.StatusPending {
			result = append(result, *req)
		}
	}
	return result, nil
}

func (m *MockStorage) ResolvePurchase(ctx context.Context, requestID int64, decision string) (*storages.PurchaseRequest, error) {
	req, exists := m.purchases[requestID]
	if !exists {
		return nil, storages.ErrNotFound
	}
	if req.Status != storages.StatusPending {
		return req, storages.ErrAlreadyResolved
	}
	req.Status = decision
	now := time.Now()
	req.ResolvedAt = &now
	return req, nil
}

func (m *MockStorage) CreateWeeklyAward(ctx context.Context, award *storages.WeeklyAward) error {
	key := fmt.Sprintf("%s-%d", award.WeekStart.Format("2006-01-02"), award.Rank)
	if _, exists := m.awards[key]; exists {
		return storages.ErrDuplicate
	}
	award.ID = m.id()
	m.awards[key] = award
	return nil
}

func (m *MockStorage) ListWeeklyAwards(ctx context.Context, limit int) ([]storages.WeeklyAward, error) {
	var result []storages.WeeklyAward
	for _, award := range m.awards {
		result = append(result, *award)
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockStorage) Ping(ctx context.Context) error {
	return nil
}

func (m *MockStorage) Close() error {
	return nil
}

// Helpers

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testPrizes() config.AwardsConfig {
	return config.AwardsConfig{PrizeTop1: 25, PrizeTop2: 15, PrizeTop3: 10}
}

func newService(storage *MockStorage, refundOnDeny bool) *service.PortalService {
	return service.NewPortalService(storage, nil, nil, nil, testLogger(), refundOnDeny, testPrizes())
}

func approvedUser(t *testing.T, storage *MockStorage, login string, coins float64) *storages.SiteUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &storages.SiteUser{
		MTALogin:     login,
		MTASerial:    "serial-" + login,
		Email:        login + "@example.com",
		PasswordHash: string(hash),
	}
	if err := storage.CreateSiteUser(context.Background(), user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	user.Status = storages.StatusApproved
	user.Coins = coins
	return user
}

// Tests

func TestRegisterUser(t *testing.T) {
	storage := NewMockStorage()
	svc := newService(storage, false)
	ctx := context.Background()

	if err := svc.RegisterUser(ctx, "Test@Example.com", "password123", "player_one", "abcdef1234567890"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Email нормализуется и статус pending
	user, err := storage.GetSiteUserByEmail(ctx, "test@example.com")
	if err != nil {
		t.Fatalf("Expected user by normalized email, got %v", err)
	}
	if user.Status != storages.StatusPending {
		t.Errorf("Expected pending status, got %s", user.Status)
	}
	if user.PasswordHash == "password123" {
		t.Error("Password must not be stored in plaintext")
	}

	// Дубликат email
	err = svc.RegisterUser(ctx, "test@example.com", "password123", "player_two", "abcdef1234567890")
	if !errors.Is(err, service.ErrEmailTaken) {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticateUser(t *testing.T) {
	storage := NewMockStorage()
	svc := newService(storage, false)
	ctx := context.Background()

	if err := svc.RegisterUser(ctx, "pending@example.com", "password123", "pending_player", "abcdef1234567890"); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	// Аккаунт в статусе pending не допускается
	_, err := svc.AuthenticateUser(ctx, "pending@example.com", "password123")
	if !errors.Is(err, service.ErrAccountPending) {
		t.Errorf("Expected ErrAccountPending, got %v", err)
	}

	// После одобрения вход проходит
	user, _ := storage.GetSiteUserByEmail(ctx, "pending@example.com")
	if _, err := svc.ResolveMember(ctx, user.ID, storages.StatusApproved); err != nil {
		t.Fatalf("Failed to approve member: %v", err)
	}

	auth, err := svc.AuthenticateUser(ctx, "pending@example.com", "password123")
	if err != nil {
		t.Fatalf("Expected successful login, got %v", err)
	}
	if auth.Role != service.RolePlayer || auth.MTALogin != "pending_player" {
		t.Errorf("Unexpected auth user: %+v", auth)
	}

	// Неверный пароль
	_, err = svc.AuthenticateUser(ctx, "pending@example.com", "wrong")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}

	// Несуществующий email
	_, err = svc.AuthenticateUser(ctx, "ghost@example.com", "password123")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateAdmin(t *testing.T) {
	storage := NewMockStorage()
	hash, _ := bcrypt.GenerateFromPassword([]byte("adminpass"), bcrypt.MinCost)
	storage.admins["admin@example.com"] = &storages.Admin{
		ID:           1,
		Email:        "admin@example.com",
		PasswordHash: string(hash),
	}

	svc := newService(storage, false)

	auth, err := svc.AuthenticateUser(context.Background(), "admin@example.com", "adminpass")
	if err != nil {
		t.Fatalf("Expected successful admin login, got %v", err)
	}
	if auth.Role != service.RoleAdmin {
		t.Errorf("Expected admin role, got %s", auth.Role)
	}
}

func TestSubmitWithdrawal(t *testing.T) {
	storage := NewMockStorage()
	svc := newService(storage, false)
	ctx := context.Background()

	user := approvedUser(t, storage, "rich_player", 100)

	req, err := svc.SubmitWithdrawal(ctx, user.ID, 40, "11999998888", "")
	if err != nil {
		t.Fatalf("Expected successful withdrawal, got %v", err)
	}
	if req.Status != storages.StatusPending {
		t.Errorf("Expected pending status, got %s", req.Status)
	}
	if user.Coins != 60 {
		t.Errorf("Expected coins debited to 60, got %f", user.Coins)
	}

	// Недостаточно средств
	_, err = svc.SubmitWithdrawal(ctx, user.ID, 1000, "11999998888", "")
	if !errors.Is(err, storages.ErrInsufficientFunds) {
		t.Errorf("Expected ErrInsufficientFunds, got %v", err)
	}
	if user.Coins != 60 {
		t.Errorf("Failed submission must not debit coins, got %f", user.Coins)
	}

	// Невалидная сумма и пустой PIX отклоняются до записи
	if _, err := svc.SubmitWithdrawal(ctx, user.ID, -5, "11999998888", ""); err == nil {
		t.Error("Expected error for negative amount")
	}
	if _, err := svc.SubmitWithdrawal(ctx, user.ID, 10, "", ""); err == nil {
		t.Error("Expected error for empty pix key")
	}
}

func TestSubmitWithdrawalIdempotentToken(t *testing.T) {
	storage := NewMockStorage()
	svc := newService(storage, false)
	ctx := context.Background()

	user := approvedUser(t, storage, "replay_player", 100)

	first, err := svc.SubmitWithdrawal(ctx, user.ID, 30, "11999998888", "token-1")
	if err != nil {
		t.Fatalf("Expected successful withdrawal, got %v", err)
	}

	// Повтор с тем же токеном не создает вторую заявку и не списывает повторно
	second, err := svc.SubmitWithdrawal(ctx, user.ID, 30, "11999998888", "token-1")
	if err != nil {
		t.Fatalf("Expected idempotent replay, got %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Expected same request ID %d, got %d", first.ID, second.ID)
	}
	if user.Coins != 70 {
		t.Errorf("Replay must not debit coins twice, got %f", user.Coins)
	}
	if len(storage.withdrawals) != 1 {
		t.Errorf("Expected single stored request, got %d", len(storage.withdrawals))
	}
}

func TestResolveWithdrawalIdempotence(t *testing.T) {
	storage := NewMockStorage()
	svc := newService(storage, false)
	ctx := context.Background()

	user := approvedUser(t, storage, "resolve_player", 100)
	req, err := svc.SubmitWithdrawal(ctx, user.ID, 40, "11999998888", "")
	if err != nil {
		t.Fatalf("Failed to submit: %v", err)
	}

	resolved, err := svc.ResolveWithdrawal(ctx, req.ID, storages.StatusApproved)
	if err != nil {
		t.Fatalf("Expected successful resolve, got %v", err)
	}
	if resolved.Status != storages.StatusApproved || resolved.ResolvedAt == nil {
		t.Errorf("Unexpected resolved request: %+v", resolved)
	}

	// Повтор с тем же решением - no-op
	again, err := svc.ResolveWithdrawal(ctx, req.ID, storages.StatusApproved)
	if err != nil {
		t.Fatalf("Expected no-op on same decision, got %v", err)
	}
	if again.Status != storages.StatusApproved {
		t.Errorf("Expected approved status, got %s", again.Status)
	}

	// Повтор с другим решением отклоняется
	_, err = svc.ResolveWithdrawal(ctx, req.ID, storages.StatusDenied)
	if !errors.Is(err, service.ErrDecisionConflict) {
		t.Errorf("Expected ErrDecisionConflict, got %v", err)
	}

	// Невалидное решение
	if _, err := svc.ResolveWithdrawal(ctx, req.ID, "maybe"); err == nil {
		t.Error("Expected error for unsupported decision")
	}
}

func TestWithdrawalDenyKeepsDebit(t *testing.T) {
	storage := NewMockStorage()
	svc := newService(storage, false)
	ctx := context.Background()

	user := approvedUser(t, storage, "deny_player", 100)
	req, err := svc.SubmitWithdrawal(ctx, user.ID, 40, "11999998888", "")
	if err != nil {
		t.Fatalf("Failed to submit: %v", err)
	}
	if user.Coins != 60 {
		t.Fatalf("Expected 60 coins after submission, got %f", user.Coins)
	}

	if _, err := svc.ResolveWithdrawal(ctx, req.ID, storages.StatusDenied); err != nil {
		t.Fatalf("Failed to deny: %v", err)
	}

	// Списание не возвращается при отклонении
	if user.Coins != 60 {
		t.Errorf("Deny must not refund coins by default, got %f", user.Coins)
	}
}

func TestWithdrawalDenyWithRefund(t *testing.T) {
	storage := NewMockStorage()
	svc := newService(storage, true)
	ctx := context.Background()

	user := approvedUser(t, storage, "refund_player", 100)
	req, err := svc.SubmitWithdrawal(ctx, user.ID, 40, "11999998888", "")
	if err != nil {
		t.Fatalf("Failed to submit: %v", err)
	}

	if _, err := svc.ResolveWithdrawal(ctx, req.ID, storages.StatusDenied); err != nil {
		t.Fatalf("Failed to deny: %v", err)
	}

	if user.Coins != 100 {
		t.Errorf("Expected refund to restore 100 coins, got %f", user.Coins)
	}
}

func TestResolveMemberIdempotence(t *testing.T) {
	storage := NewMockStorage()
	svc := newService(storage, false)
	ctx := context.Background()

	if err := svc.RegisterUser(ctx, "member@example.com", "password123", "member_player", "abcdef1234567890"); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}
	user, _ := storage.GetSiteUserByEmail(ctx, "member@example.com")

	if _, err := svc.ResolveMember(ctx, user.ID, storages.StatusApproved); err != nil {
		t.Fatalf("Failed to approve: %v", err)
	}

	if _, err := svc.ResolveMember(ctx, user.ID, storages.StatusApproved); err != nil {
		t.Errorf("Expected no-op on repeated approval, got %v", err)
	}

	_, err := svc.ResolveMember(ctx, user.ID, storages.StatusDenied)
	if !errors.Is(err, service.ErrDecisionConflict) {
		t.Errorf("Expected ErrDecisionConflict, got %v", err)
	}
}

func TestSetWalletCoins(t *testing.T) {
	storage := NewMockStorage()
	svc := newService(storage, false)
	ctx := context.Background()

	user := approvedUser(t, storage, "wallet_player", 10)

	if err := svc.SetWalletCoins(ctx, user.ID, 250); err != nil {
		t.Fatalf("Expected successful update, got %v", err)
	}
	if user.Coins != 250 {
		t.Errorf("Expected 250 coins, got %f", user.Coins)
	}

	if err := svc.SetWalletCoins(ctx, user.ID, -1); err == nil {
		t.Error("Expected error for negative coins")
	}
}

func TestShopAndPurchaseFlow(t *testing.T) {
	storage := NewMockStorage()
	svc := newService(storage, false)
	ctx := context.Background()

	user := approvedUser(t, storage, "buyer_player", 100)

	item := &storages.ShopItem{Name: "VIP Gold", Price: 50}
	if err := svc.CreateShopItem(ctx, item); err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	if item.Category != storages.CurrencyCoin {
		t.Errorf("Expected default coin category, got %s", item.Category)
	}

	// Позиция без имени и с невалидной ценой отклоняются
	if err := svc.CreateShopItem(ctx, &storages.ShopItem{Price: 10}); err == nil {
		t.Error("Expected error for missing name")
	}
	if err := svc.CreateShopItem(ctx, &storages.ShopItem{Name: "x", Price: 0}); err == nil {
		t.Error("Expected error for non-positive price")
	}

	req, err := svc.SubmitPurchase(ctx, user.ID, item.ID, "https://example.com/receipt.png")
	if err != nil {
		t.Fatalf("Failed to submit purchase: %v", err)
	}
	if req.ItemName != "VIP Gold" || req.Amount != 50 || req.MTALogin != "buyer_player" {
		t.Errorf("Purchase must snapshot item data, got %+v", req)
	}

	resolved, err := svc.ResolvePurchase(ctx, req.ID, storages.StatusApproved)
	if err != nil {
		t.Fatalf("Failed to resolve purchase: %v", err)
	}
	if resolved.Status != storages.StatusApproved {
		t.Errorf("Expected approved status, got %s", resolved.Status)
	}

	_, err = svc.ResolvePurchase(ctx, req.ID, storages.StatusDenied)
	if !errors.Is(err, service.ErrDecisionConflict) {
		t.Errorf("Expected ErrDecisionConflict, got %v", err)
	}

	if err := svc.DeleteShopItem(ctx, item.ID); err != nil {
		t.Fatalf("Failed to delete item: %v", err)
	}
	if err := svc.DeleteShopItem(ctx, item.ID); !errors.Is(err, storages.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestLeaderboardView(t *testing.T) {
	storage := NewMockStorage()
	storage.clients = []storages.BankClient{
		{ID: 1, Player: "Carlos", Rus: 500},
		{ID: 2, Player: "Ana", Rus: 900},
	}

	svc := newService(storage, false)

	view, err := svc.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("Failed to build leaderboard: %v", err)
	}

	if len(view.Clients) != 2 || view.Clients[0].Player != "Ana" {
		t.Errorf("Unexpected ranking: %+v", view.Clients)
	}

	// Без клиента генератора отчет деградирует до фиксированного
	if view.Report != report.Fallback() {
		t.Errorf("Expected fallback report, got %+v", view.Report)
	}

	if len(view.Podium) != 3 || view.Podium[0].Prize != 25 || view.Podium[2].Prize != 10 {
		t.Errorf("Unexpected podium: %+v", view.Podium)
	}
}

func TestPlayerDashboard(t *testing.T) {
	storage := NewMockStorage()
	svc := newService(storage, false)
	ctx := context.Background()

	user := approvedUser(t, storage, "dash_player", 100)
	if _, err := svc.SubmitWithdrawal(ctx, user.ID, 20, "11999998888", ""); err != nil {
		t.Fatalf("Failed to submit: %v", err)
	}

	// Банковского счета нет - дашборд все равно собирается
	view, err := svc.PlayerDashboard(ctx, "dash_player")
	if err != nil {
		t.Fatalf("Failed to build dashboard: %v", err)
	}
	if view.Bank != nil {
		t.Errorf("Expected nil bank account, got %+v", view.Bank)
	}
	if len(view.History) != 1 {
		t.Errorf("Expected 1 history entry, got %d", len(view.History))
	}
	if view.Totals.PendingCount != 1 {
		t.Errorf("Expected 1 pending in totals, got %d", view.Totals.PendingCount)
	}

	storage.clients = append(storage.clients, storages.BankClient{ID: 1, Player: "dash_player", Rus: 777})
	view, err = svc.PlayerDashboard(ctx, "dash_player")
	if err != nil {
		t.Fatalf("Failed to build dashboard: %v", err)
	}
	if view.Bank == nil || view.Bank.Rus != 777 {
		t.Errorf("Expected bank account with 777 rus, got %+v", view.Bank)
	}
}

func TestSnapshotWeeklyAwards(t *testing.T) {
	storage := NewMockStorage()
	storage.clients = []storages.BankClient{
		{ID: 1, Player: "first", Rus: 900},
		{ID: 2, Player: "second", Rus: 800},
		{ID: 3, Player: "third", Rus: 700},
		{ID: 4, Player: "fourth", Rus: 600},
	}

	svc := newService(storage, false)
	ctx := context.Background()
	now := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC) // среда

	if err := svc.SnapshotWeeklyAwards(ctx, now); err != nil {
		t.Fatalf("Failed to snapshot: %v", err)
	}
	if len(storage.awards) != 3 {
		t.Fatalf("Expected 3 awards, got %d", len(storage.awards))
	}

	// Повторный запуск той же недели не дублирует записи
	if err := svc.SnapshotWeeklyAwards(ctx, now.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("Repeated snapshot must not fail: %v", err)
	}
	if len(storage.awards) != 3 {
		t.Errorf("Expected 3 awards after repeat, got %d", len(storage.awards))
	}

	// Следующая неделя создает новые записи
	if err := svc.SnapshotWeeklyAwards(ctx, now.AddDate(0, 0, 7)); err != nil {
		t.Fatalf("Failed to snapshot next week: %v", err)
	}
	if len(storage.awards) != 6 {
		t.Errorf("Expected 6 awards, got %d", len(storage.awards))
	}

	awards, err := svc.RecentAwards(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to list awards: %v", err)
	}
	if len(awards) != 6 {
		t.Errorf("Expected 6 listed awards, got %d", len(awards))
	}
}
