package storages

import "time"

// SiteUser представляет аккаунт игрока на портале
type SiteUser struct {
	ID           int64     `db:"id"`
	MTALogin     string    `db:"mta_login"`
	MTASerial    string    `db:"mta_serial"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Status       string    `db:"status"` // pending, approved, denied
	Coins        float64   `db:"coins"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Admin представляет администратора портала
type Admin struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// BankClient представляет банковский счет игрока на игровом сервере.
// Баланс rus авторитетен на стороне игры, портал его только читает.
type BankClient struct {
	ID        int64     `db:"id"`
	Player    string    `db:"player"`
	Rus       float64   `db:"rus"`
	Job       string    `db:"job"`
	UpdatedAt time.Time `db:"updated_at"`
}

// WithdrawRequest представляет заявку на вывод средств через PIX
type WithdrawRequest struct {
	ID           int64      `db:"id"`
	Player       string     `db:"player"`
	Amount       float64    `db:"amount"`
	PixKey       string     `db:"pix_key"`
	CurrencyType string     `db:"currency_type"` // coin, rus
	Status       string     `db:"status"`        // pending, approved, denied
	RequestToken string     `db:"request_token"`
	CreatedAt    time.Time  `db:"created_at"`
	ResolvedAt   *time.Time `db:"resolved_at"`
}

// ShopItem представляет позицию каталога магазина
type ShopItem struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Price       float64   `db:"price"`
	ImageURL    string    `db:"image_url"`
	RedirectURL string    `db:"redirect_url"`
	Category    string    `db:"category"` // coin, item
	Value       float64   `db:"value"`
	CreatedAt   time.Time `db:"created_at"`
}

// PurchaseRequest представляет заявку на покупку из каталога
type PurchaseRequest struct {
	ID         int64      `db:"id"`
	UserID     int64      `db:"user_id"`
	MTALogin   string     `db:"mta_login"`
	ItemID     int64      `db:"item_id"`
	ItemName   string     `db:"item_name"`
	Amount     float64    `db:"amount"`
	ReceiptURL string     `db:"receipt_url"`
	Status     string     `db:"status"` // pending, approved, denied
	CreatedAt  time.Time  `db:"created_at"`
	ResolvedAt *time.Time `db:"resolved_at"`
}

// WeeklyAward представляет запись еженедельного подиума
type WeeklyAward struct {
	ID        int64     `db:"id"`
	WeekStart time.Time `db:"week_start"`
	Rank      int       `db:"rank"`
	Player    string    `db:"player"`
	Wealth    float64   `db:"wealth"`
	Prize     float64   `db:"prize"`
	CreatedAt time.Time `db:"created_at"`
}

// RequestStatus определяет статусы заявок (вывод, покупка, доступ)
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDenied   = "denied"
)

// CurrencyType определяет валюты заявок на вывод
const (
	CurrencyCoin = "coin"
	CurrencyRus  = "rus"
)
