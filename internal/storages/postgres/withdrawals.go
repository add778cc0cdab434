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

const withdrawColumns = `id, player, amount, pix_key, currency_type, status, request_token, created_at, resolved_at`

// SubmitWithdrawal атомарно создает pending-заявку на вывод coins и списывает
// сумму со счетчика coins игрока. Вставка и списание выполняются в одной
// serializable-транзакции: заявка без дебета (и наоборот) невозможна.
// Повтор с тем же request_token возвращает уже созданную заявку.
func (s *PostgresStorage) SubmitWithdrawal(ctx context.Context, userID int64, req *storages.WithdrawRequest) error {
	// Защита от повтора: токен уже известен — возвращаем существующую заявку
	if req.RequestToken != "" {
		existing, err := s.getWithdrawalByToken(ctx, req.RequestToken)
		if err == nil {
			*req = *existing
			return nil
		}
		if !errors.Is(err, storages.ErrNotFound) {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		s.logger.Errorf("Failed to begin transaction: %v", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 1. Читаем счет игрока с блокировкой строки
	var mtaLogin string
	var coins float64
	err = tx.QueryRowContext(ctx, `
		SELECT mta_login, coins FROM site_users
		WHERE id = $1
		FOR UPDATE
	`, userID).Scan(&mtaLogin, &coins)

	if err == sql.ErrNoRows {
		return storages.ErrNotFound
	}
	if err != nil {
		s.logger.Errorf("Failed to lock site user: %v", err)
		return fmt.Errorf("failed to get site user: %w", err)
	}

	// 2. Проверяем достаточность средств
	if coins < req.Amount {
		return storages.ErrInsufficientFunds
	}

	// 3. Создаем заявку
	now := time.Now()
	err = tx.QueryRowContext(ctx, `
		INSERT INTO withdraw_requests (player, amount, pix_key, currency_type, status, request_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, mtaLogin, req.Amount, req.PixKey, storages.CurrencyCoin, storages.StatusPending, req.RequestToken, now).Scan(&req.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			// Параллельный повтор с тем же токеном успел раньше
			existing, getErr := s.getWithdrawalByToken(ctx, req.RequestToken)
			if getErr != nil {
				return getErr
			}
			*req = *existing
			return nil
		}
		s.logger.Errorf("Failed to create withdraw request: %v", err)
		return fmt.Errorf("failed to create withdraw request: %w", err)
	}

	// 4. Списываем coins
	_, err = tx.ExecContext(ctx, `
		UPDATE site_users
		SET coins = coins - $1, updated_at = $2
		WHERE id = $3
	`, req.Amount, now, userID)

	if err != nil {
		s.logger.Errorf("Failed to debit coins: %v", err)
		return fmt.Errorf("failed to debit coins: %w", err)
	}

	// 5. Коммитим транзакцию
	if err := tx.Commit(); err != nil {
		s.logger.Errorf("Failed to commit withdrawal: %v", err)
		return fmt.Errorf("failed to commit withdrawal: %w", err)
	}

	req.Player = mtaLogin
	req.CurrencyType = storages.CurrencyCoin
	req.Status = storages.StatusPending
	req.CreatedAt = now
	req.ResolvedAt = nil

	s.logger.Infof("Withdrawal submitted: ID=%d, Player=%s, Amount=%.2f", req.ID, mtaLogin, req.Amount)
	return nil
}

func (s *PostgresStorage) getWithdrawalByToken(ctx context.Context, token string) (*storages.WithdrawRequest, error) {
	query := `SELECT ` + withdrawColumns + ` FROM withdraw_requests WHERE request_token = $1`
	return s.scanWithdrawal(s.db.QueryRowContext(ctx, query, token))
}

// GetWithdrawRequest возвращает заявку по ID
func (s *PostgresStorage) GetWithdrawRequest(ctx context.Context, requestID int64) (*storages.WithdrawRequest, error) {
	query := `SELECT ` + withdrawColumns + ` FROM withdraw_requests WHERE id = $1`
	return s.scanWithdrawal(s.db.QueryRowContext(ctx, query, requestID))
}

func (s *PostgresStorage) scanWithdrawal(row *sql.Row) (*storages.WithdrawRequest, error) {
	var req storages.WithdrawRequest
	err := row.Scan(
		&req.ID,
		&req.Player,
		&req.Amount,
		&req.PixKey,
		&req.CurrencyType,
		&req.Status,
		&req.RequestToken,
		&req.CreatedAt,
		&req.ResolvedAt,
	)

	if err == sql.ErrNoRows {
		return nil, storages.ErrNotFound
	}

	if err != nil {
		s.logger.Errorf("Failed to scan withdraw request: %v", err)
		return nil, fmt.Errorf("failed to get withdraw request: %w", err)
	}

	return &req, nil
}

// ListPendingWithdrawals возвращает нерассмотренные заявки указанной валюты
func (s *PostgresStorage) ListPendingWithdrawals(ctx context.Context, currencyType string) ([]storages.WithdrawRequest, error) {
	query := `
		SELECT ` + withdrawColumns + `
		FROM withdraw_requests
		WHERE status = $1 AND currency_type = $2
		ORDER BY created_at
	`

	return s.queryWithdrawals(ctx, query, storages.StatusPending, currencyType)
}

// ListPlayerWithdrawals возвращает всю историю заявок игрока, новые первыми
func (s *PostgresStorage) ListPlayerWithdrawals(ctx context.Context, player string) ([]storages.WithdrawRequest, error) {
	query := `
		SELECT ` + withdrawColumns + `
		FROM withdraw_requests
		WHERE player = $1
		ORDER BY created_at DESC
	`

	return s.queryWithdrawals(ctx, query, player)
}

func (s *PostgresStorage) queryWithdrawals(ctx context.Context, query string, args ...interface{}) ([]storages.WithdrawRequest, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Errorf("Failed to query withdraw requests: %v", err)
		return nil, fmt.Errorf("failed to query withdraw requests: %w", err)
	}
	defer rows.Close()

	var requests []storages.WithdrawRequest
	for rows.Next() {
		var req storages.WithdrawRequest
		err := rows.Scan(
			&req.ID,
			&req.Player,
			&req.Amount,
			&req.PixKey,
			&req.CurrencyType,
			&req.Status,
			&req.RequestToken,
			&req.CreatedAt,
			&req.ResolvedAt,
		)
		if err != nil {
			s.logger.Errorf("Failed to scan withdraw request: %v", err)
			return nil, fmt.Errorf("failed to scan withdraw request: %w", err)
		}
		requests = append(requests, req)
	}

	if err = rows.Err(); err != nil {
		s.logger.Errorf("Error iterating withdraw requests: %v", err)
		return nil, fmt.Errorf("error iterating withdraw requests: %w", err)
	}

	return requests, nil
}

// ResolveWithdrawal переводит заявку из pending в терминальный статус условным
// обновлением: уже рассмотренная заявка не перезаписывается, возвращается
// текущая запись и ErrAlreadyResolved. При отклонении и включенном refundOnDeny
// списанные coins возвращаются игроку в той же транзакции.
func (s *PostgresStorage) ResolveWithdrawal(ctx context.Context, requestID int64, decision string, refundOnDeny bool) (*storages.WithdrawRequest, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		s.logger.Errorf("Failed to begin transaction: %v", err)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Условный переход pending -> decision
	now := time.Now()
	var req storages.WithdrawRequest
	err = tx.QueryRowContext(ctx, `
		UPDATE withdraw_requests
		SET status = $1, resolved_at = $2
		WHERE id = $3 AND status = $4
		RETURNING `+withdrawColumns+`
	`, decision, now, requestID, storages.StatusPending).Scan(
		&req.ID,
		&req.Player,
		&req.Amount,
		&req.PixKey,
		&req.CurrencyType,
		&req.Status,
		&req.RequestToken,
		&req.CreatedAt,
		&req.ResolvedAt,
	)

	if err == sql.ErrNoRows {
		// Заявка не найдена или уже в терминальном статусе
		current, getErr := s.GetWithdrawRequest(ctx, requestID)
		if getErr != nil {
			return nil, getErr
		}
		return current, storages.ErrAlreadyResolved
	}

	if err != nil {
		s.logger.Errorf("Failed to resolve withdraw request: %v", err)
		return nil, fmt.Errorf("failed to resolve withdraw request: %w", err)
	}

	// Компенсирующий возврат списанных coins
	if decision == storages.StatusDenied && refundOnDeny && req.CurrencyType == storages.CurrencyCoin {
		_, err = tx.ExecContext(ctx, `
			UPDATE site_users
			SET coins = coins + $1, updated_at = $2
			WHERE mta_login = $3
		`, req.Amount, now, req.Player)

		if err != nil {
			s.logger.Errorf("Failed to refund coins: %v", err)
			return nil, fmt.Errorf("failed to refund coins: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Errorf("Failed to commit resolution: %v", err)
		return nil, fmt.Errorf("failed to commit resolution: %w", err)
	}

	s.logger.Infof("Withdrawal resolved: ID=%d, Decision=%s", requestID, decision)
	return &req, nil
}
