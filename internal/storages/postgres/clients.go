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

// ListBankClients возвращает все банковские счета игрового сервера
func (s *PostgresStorage) ListBankClients(ctx context.Context) ([]storages.BankClient, error) {
	query := `
		SELECT id, player, rus, COALESCE(job, ''), updated_at
		FROM bank_clients
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.logger.Errorf("Failed to query bank clients: %v", err)
		return nil, fmt.Errorf("failed to query bank clients: %w", err)
	}
	defer rows.Close()

	var clients []storages.BankClient
	for rows.Next() {
		var client storages.BankClient
		err := rows.Scan(
			&client.ID,
			&client.Player,
			&client.Rus,
			&client.Job,
			&client.UpdatedAt,
		)
		if err != nil {
			s.logger.Errorf("Failed to scan bank client: %v", err)
			return nil, fmt.Errorf("failed to scan bank client: %w", err)
		}
		clients = append(clients, client)
	}

	if err = rows.Err(); err != nil {
		s.logger.Errorf("Error iterating bank clients: %v", err)
		return nil, fmt.Errorf("error iterating bank clients: %w", err)
	}

	return clients, nil
}

// GetBankClient возвращает банковский счет игрока
func (s *PostgresStorage) GetBankClient(ctx context.Context, player string) (*storages.BankClient, error) {
	query := `
		SELECT id, player, rus, COALESCE(job, ''), updated_at
		FROM bank_clients
		WHERE player = $1
	`

	var client storages.BankClient
	err := s.db.QueryRowContext(ctx, query, player).Scan(
		&client.ID,
		&client.Player,
		&client.Rus,
		&client.Job,
		&client.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, storages.ErrNotFound
	}

	if err != nil {
		s.logger.Errorf("Failed to get bank client: %v", err)
		return nil, fmt.Errorf("failed to get bank client: %w", err)
	}

	return &client, nil
}

// CreateWeeklyAward записывает строку подиума. Повтор за ту же неделю и место
// не перезаписывается (UNIQUE week_start+rank), возвращается ErrDuplicate.
func (s *PostgresStorage) CreateWeeklyAward(ctx context.Context, award *storages.WeeklyAward) error {
	query := `
		INSERT INTO weekly_awards (week_start, rank, player, wealth, prize, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	now := time.Now()
	err := s.db.QueryRowContext(ctx, query,
		award.WeekStart,
		award.Rank,
		award.Player,
		award.Wealth,
		award.Prize,
		now,
	).Scan(&award.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return storages.ErrDuplicate
		}
		s.logger.Errorf("Failed to create weekly award: %v", err)
		return fmt.Errorf("failed to create weekly award: %w", err)
	}

	award.CreatedAt = now
	return nil
}

// ListWeeklyAwards возвращает последние записи подиума
func (s *PostgresStorage) ListWeeklyAwards(ctx context.Context, limit int) ([]storages.WeeklyAward, error) {
	query := `
		SELECT id, week_start, rank, player, wealth, prize, created_at
		FROM weekly_awards
		ORDER BY week_start DESC, rank
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		s.logger.Errorf("Failed to query weekly awards: %v", err)
		return nil, fmt.Errorf("failed to query weekly awards: %w", err)
	}
	defer rows.Close()

	var awards []storages.WeeklyAward
	for rows.Next() {
		var award storages.WeeklyAward
		err := rows.Scan(
			&award.ID,
			&award.WeekStart,
			&award.Rank,
			&award.Player,
			&award.Wealth,
			&award.Prize,
			&award.CreatedAt,
		)
		if err != nil {
			s.logger.Errorf("Failed to scan weekly award: %v", err)
			return nil, fmt.Errorf("failed to scan weekly award: %w", err)
		}
		awards = append(awards, award)
	}

	if err = rows.Err(); err != nil {
		s.logger.Errorf("Error iterating weekly awards: %v", err)
		return nil, fmt.Errorf("error iterating weekly awards: %w", err)
	}

	return awards, nil
}
