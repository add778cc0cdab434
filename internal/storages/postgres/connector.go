package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Config содержит конфигурацию для подключения к PostgreSQL
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PostgresStorage реализует интерфейс Storage для PostgreSQL
type PostgresStorage struct {
	db     *sql.DB
	logger *logrus.Logger
}

// New создает новое подключение к PostgreSQL
func New(cfg *Config, logger *logrus.Logger) (*PostgresStorage, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настройка пула соединений
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Проверка подключения
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Successfully connected to PostgreSQL")

	storage := &PostgresStorage{
		db:     db,
		logger: logger,
	}

	// Инициализация схемы БД
	if err := storage.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// initSchema создает необходимые таблицы, если они не существуют
func (s *PostgresStorage) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS site_users (
		id SERIAL PRIMARY KEY,
		mta_login VARCHAR(50) UNIQUE NOT NULL,
		mta_serial VARCHAR(64) NOT NULL,
		email VARCHAR(100) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		coins NUMERIC(20, 2) NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CHECK (coins >= 0)
	);

	CREATE TABLE IF NOT EXISTS admins (
		id SERIAL PRIMARY KEY,
		email VARCHAR(100) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS bank_clients (
		id SERIAL PRIMARY KEY,
		player VARCHAR(50) UNIQUE NOT NULL,
		rus NUMERIC(20, 2) NOT NULL DEFAULT 0,
		job VARCHAR(100),
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS withdraw_requests (
		id SERIAL PRIMARY KEY,
		player VARCHAR(50) NOT NULL,
		amount NUMERIC(20, 2) NOT NULL,
		pix_key VARCHAR(140) NOT NULL,
		currency_type VARCHAR(10) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		request_token VARCHAR(64) NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		resolved_at TIMESTAMP,
		CHECK (amount > 0)
	);

	CREATE TABLE IF NOT EXISTS shop_items (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		price NUMERIC(20, 2) NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		redirect_url TEXT NOT NULL DEFAULT '',
		category VARCHAR(10) NOT NULL DEFAULT 'coin',
		value NUMERIC(20, 2) NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS purchase_requests (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES site_users(id) ON DELETE CASCADE,
		mta_login VARCHAR(50) NOT NULL,
		item_id INTEGER NOT NULL,
		item_name VARCHAR(100) NOT NULL,
		amount NUMERIC(20, 2) NOT NULL,
		receipt_url TEXT NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		resolved_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS weekly_awards (
		id SERIAL PRIMARY KEY,
		week_start DATE NOT NULL,
		rank INTEGER NOT NULL,
		player VARCHAR(50) NOT NULL,
		wealth NUMERIC(20, 2) NOT NULL,
		prize NUMERIC(20, 2) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(week_start, rank)
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_withdraw_requests_token ON withdraw_requests(request_token) WHERE request_token <> '';
	CREATE INDEX IF NOT EXISTS idx_site_users_email ON site_users(email);
	CREATE INDEX IF NOT EXISTS idx_site_users_status ON site_users(status);
	CREATE INDEX IF NOT EXISTS idx_bank_clients_rus ON bank_clients(rus DESC);
	CREATE INDEX IF NOT EXISTS idx_withdraw_requests_player ON withdraw_requests(player);
	CREATE INDEX IF NOT EXISTS idx_withdraw_requests_status ON withdraw_requests(status);
	CREATE INDEX IF NOT EXISTS idx_withdraw_requests_created ON withdraw_requests(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_purchase_requests_status ON purchase_requests(status);
	`

	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	s.logger.Info("Database schema initialized")
	return nil
}

// Close закрывает соединение с базой данных
func (s *PostgresStorage) Close() error {
	if s.db != nil {
		s.logger.Info("Closing database connection")
		return s.db.Close()
	}
	return nil
}

// Ping проверяет соединение с базой данных
func (s *PostgresStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
