package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"brz-forbes-portal/internal/storages"
)

// uniqueViolation — код ошибки PostgreSQL для нарушения уникальности
const uniqueViolation = "23505"

// CreateSiteUser создает новый аккаунт портала в статусе pending
func (s *PostgresStorage) CreateSiteUser(ctx context.Context, user *storages.SiteUser) error {
	query := `
		INSERT INTO site_users (mta_login, mta_serial, email, password_hash, status, coins, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	now := time.Now()
	err := s.db.QueryRowContext(ctx, query,
		user.MTALogin,
		user.MTASerial,
		user.Email,
		user.PasswordHash,
		storages.StatusPending,
		0.0,
		now,
		now,
	).Scan(&user.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return storages.ErrDuplicate
		}
		s.logger.Errorf("Failed to create site user: %v", err)
		return fmt.Errorf("failed to create site user: %w", err)
	}

	user.Status = storages.StatusPending
	user.CreatedAt = now
	user.UpdatedAt = now

	s.logger.Infof("Created site user: %s (ID: %d)", user.MTALogin, user.ID)
	return nil
}

func (s *PostgresStorage) scanSiteUser(row *sql.Row) (*storages.SiteUser, error) {
	var user storages.SiteUser
	err := row.Scan(
		&user.ID,
		&user.MTALogin,
		&user.MTASerial,
		&user.Email,
		&user.PasswordHash,
		&user.Status,
		&user.Coins,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, storages.ErrNotFound
	}

	if err != nil {
		s.logger.Errorf("Failed to scan site user: %v", err)
		return nil, fmt.Errorf("failed to get site user: %w", err)
	}

	return &user, nil
}

const siteUserColumns = `id, mta_login, mta_serial, email, password_hash, status, coins, created_at, updated_at`

// GetSiteUserByEmail возвращает аккаунт по email
func (s *PostgresStorage) GetSiteUserByEmail(ctx context.Context, email string) (*storages.SiteUser, error) {
	query := `SELECT ` + siteUserColumns + ` FROM site_users WHERE email = $1`
	return s.scanSiteUser(s.db.QueryRowContext(ctx, query, email))
}

// GetSiteUserByLogin возвращает аккаунт по игровому логину MTA
func (s *PostgresStorage) GetSiteUserByLogin(ctx context.Context, mtaLogin string) (*storages.SiteUser, error) {
	query := `SELECT ` + siteUserColumns + ` FROM site_users WHERE mta_login = $1`
	return s.scanSiteUser(s.db.QueryRowContext(ctx, query, mtaLogin))
}

// GetSiteUserByID возвращает аккаунт по ID
func (s *PostgresStorage) GetSiteUserByID(ctx context.Context, userID int64) (*storages.SiteUser, error) {
	query := `SELECT ` + siteUserColumns + ` FROM site_users WHERE id = $1`
	return s.scanSiteUser(s.db.QueryRowContext(ctx, query, userID))
}

// ListSiteUsers возвращает аккаунты с фильтром по mta_login
func (s *PostgresStorage) ListSiteUsers(ctx context.Context, search string) ([]storages.SiteUser, error) {
	query := `
		SELECT ` + siteUserColumns + `
		FROM site_users
		WHERE mta_login ILIKE '%' || $1 || '%'
		ORDER BY mta_login
	`

	return s.querySiteUsers(ctx, query, search)
}

// ListSiteUsersByStatus возвращает аккаунты в указанном статусе
func (s *PostgresStorage) ListSiteUsersByStatus(ctx context.Context, status string) ([]storages.SiteUser, error) {
	query := `
		SELECT ` + siteUserColumns + `
		FROM site_users
		WHERE status = $1
		ORDER BY created_at
	`

	return s.querySiteUsers(ctx, query, status)
}

func (s *PostgresStorage) querySiteUsers(ctx context.Context, query string, args ...interface{}) ([]storages.SiteUser, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Errorf("Failed to query site users: %v", err)
		return nil, fmt.Errorf("failed to query site users: %w", err)
	}
	defer rows.Close()

	var users []storages.SiteUser
	for rows.Next() {
		var user storages.SiteUser
		err := rows.Scan(
			&user.ID,
			&user.MTALogin,
			&user.MTASerial,
			&user.Email,
			&user.PasswordHash,
			&user.Status,
			&user.Coins,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			s.logger.Errorf("Failed to scan site user: %v", err)
			return nil, fmt.Errorf("failed to scan site user: %w", err)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		s.logger.Errorf("Error iterating site users: %v", err)
		return nil, fmt.Errorf("error iterating site users: %w", err)
	}

	return users, nil
}

// SetSiteUserCoins выставляет счетчик coins (административная операция)
func (s *PostgresStorage) SetSiteUserCoins(ctx context.Context, userID int64, coins float64) error {
	query := `
		UPDATE site_users
		SET coins = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, coins, time.Now(), userID)
	if err != nil {
		s.logger.Errorf("Failed to set coins: %v", err)
		return fmt.Errorf("failed to set coins: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return storages.ErrNotFound
	}

	s.logger.Infof("Set coins for site user %d: %.2f", userID, coins)
	return nil
}

// ResolveSiteUser переводит заявку на доступ из pending в терминальный статус.
// Повторный перевод не выполняется: возвращается текущая запись и ErrAlreadyResolved.
func (s *PostgresStorage) ResolveSiteUser(ctx context.Context, userID int64, decision string) (*storages.SiteUser, error) {
	query := `
		UPDATE site_users
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := s.db.ExecContext(ctx, query, decision, time.Now(), userID, storages.StatusPending)
	if err != nil {
		s.logger.Errorf("Failed to resolve site user: %v", err)
		return nil, fmt.Errorf("failed to resolve site user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	user, getErr := s.GetSiteUserByID(ctx, userID)
	if getErr != nil {
		return nil, getErr
	}

	if rowsAffected == 0 {
		return user, storages.ErrAlreadyResolved
	}

	s.logger.Infof("Site user %d resolved: %s", userID, decision)
	return user, nil
}

// GetAdminByEmail возвращает администратора по email
func (s *PostgresStorage) GetAdminByEmail(ctx context.Context, email string) (*storages.Admin, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM admins
		WHERE email = $1
	`

	var admin storages.Admin
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, storages.ErrNotFound
	}

	if err != nil {
		s.logger.Errorf("Failed to get admin by email: %v", err)
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return &admin, nil
}
