package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"brz-forbes-portal/internal/storages"
)

// CreateShopItem добавляет позицию в каталог
func (s *PostgresStorage) CreateShopItem(ctx context.Context, item *storages.ShopItem) error {
	query := `
		INSERT INTO shop_items (name, price, image_url, redirect_url, category, value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	now := time.Now()
	err := s.db.QueryRowContext(ctx, query,
		item.Name,
		item.Price,
		item.ImageURL,
		item.RedirectURL,
		item.Category,
		item.Value,
		now,
	).Scan(&item.ID)

	if err != nil {
		s.logger.Errorf("Failed to create shop item: %v", err)
		return fmt.Errorf("failed to create shop item: %w", err)
	}

	item.CreatedAt = now

	s.logger.Infof("Created shop item: %s (ID: %d)", item.Name, item.ID)
	return nil
}

// ListShopItems возвращает каталог, новые позиции первыми
func (s *PostgresStorage) ListShopItems(ctx context.Context) ([]storages.ShopItem, error) {
	query := `
		SELECT id, name, price, image_url, redirect_url, category, value, created_at
		FROM shop_items
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.logger.Errorf("Failed to query shop items: %v", err)
		return nil, fmt.Errorf("failed to query shop items: %w", err)
	}
	defer rows.Close()

	var items []storages.ShopItem
	for rows.Next() {
		var item storages.ShopItem
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Price,
			&item.ImageURL,
			&item.RedirectURL,
			&item.Category,
			&item.Value,
			&item.CreatedAt,
		)
		if err != nil {
			s.logger.Errorf("Failed to scan shop item: %v", err)
			return nil, fmt.Errorf("failed to scan shop item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		s.logger.Errorf("Error iterating shop items: %v", err)
		return nil, fmt.Errorf("error iterating shop items: %w", err)
	}

	return items, nil
}

// GetShopItem возвращает позицию каталога по ID
func (s *PostgresStorage) GetShopItem(ctx context.Context, itemID int64) (*storages.ShopItem, error) {
	query := `
		SELECT id, name, price, image_url, redirect_url, category, value, created_at
		FROM shop_items
		WHERE id = $1
	`

	var item storages.ShopItem
	err := s.db.QueryRowContext(ctx, query, itemID).Scan(
		&item.ID,
		&item.Name,
		&item.Price,
		&item.ImageURL,
		&item.RedirectURL,
		&item.Category,
		&item.Value,
		&item.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, storages.ErrNotFound
	}

	if err != nil {
		s.logger.Errorf("Failed to get shop item: %v", err)
		return nil, fmt.Errorf("failed to get shop item: %w", err)
	}

	return &item, nil
}

// DeleteShopItem удаляет позицию каталога
func (s *PostgresStorage) DeleteShopItem(ctx context.Context, itemID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM shop_items WHERE id = $1`, itemID)
	if err != nil {
		s.logger.Errorf("Failed to delete shop item: %v", err)
		return fmt.Errorf("failed to delete shop item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return storages.ErrNotFound
	}

	s.logger.Infof("Deleted shop item: ID=%d", itemID)
	return nil
}

const purchaseColumns = `id, user_id, mta_login, item_id, item_name, amount, receipt_url, status, created_at, resolved_at`

// CreatePurchaseRequest создает pending-заявку на покупку
func (s *PostgresStorage) CreatePurchaseRequest(ctx context.Context, req *storages.PurchaseRequest) error {
	query := `
		INSERT INTO purchase_requests (user_id, mta_login, item_id, item_name, amount, receipt_url, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	now := time.Now()
	err := s.db.QueryRowContext(ctx, query,
		req.UserID,
		req.MTALogin,
		req.ItemID,
		req.ItemName,
		req.Amount,
		req.ReceiptURL,
		storages.StatusPending,
		now,
	).Scan(&req.ID)

	if err != nil {
		s.logger.Errorf("Failed to create purchase request: %v", err)
		return fmt.Errorf("failed to create purchase request: %w", err)
	}

	req.Status = storages.StatusPending
	req.CreatedAt = now

	s.logger.Infof("Created purchase request: ID=%d, Item=%s, User=%d", req.ID, req.ItemName, req.UserID)
	return nil
}

// ListPendingPurchases возвращает нерассмотренные заявки на покупку
func (s *PostgresStorage) ListPendingPurchases(ctx context.Context) ([]storages.PurchaseRequest, error) {
	query := `
		SELECT ` + purchaseColumns + `
		FROM purchase_requests
		WHERE status = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, storages.StatusPending)
	if err != nil {
		s.logger.Errorf("Failed to query purchase requests: %v", err)
		return nil, fmt.Errorf("failed to query purchase requests: %w", err)
	}
	defer rows.Close()

	var requests []storages.PurchaseRequest
	for rows.Next() {
		var req storages.PurchaseRequest
		err := rows.Scan(
			&req.ID,
			&req.UserID,
			&req.MTALogin,
			&req.ItemID,
			&req.ItemName,
			&req.Amount,
			&req.ReceiptURL,
			&req.Status,
			&req.CreatedAt,
			&req.ResolvedAt,
		)
		if err != nil {
			s.logger.Errorf("Failed to scan purchase request: %v", err)
			return nil, fmt.Errorf("failed to scan purchase request: %w", err)
		}
		requests = append(requests, req)
	}

	if err = rows.Err(); err != nil {
		s.logger.Errorf("Error iterating purchase requests: %v", err)
		return nil, fmt.Errorf("error iterating purchase requests: %w", err)
	}

	return requests, nil
}

// ResolvePurchase переводит заявку на покупку в терминальный статус условным
// обновлением, как ResolveWithdrawal
func (s *PostgresStorage) ResolvePurchase(ctx context.Context, requestID int64, decision string) (*storages.PurchaseRequest, error) {
	now := time.Now()
	var req storages.PurchaseRequest
	err := s.db.QueryRowContext(ctx, `
		UPDATE purchase_requests
		SET status = $1, resolved_at = $2
		WHERE id = $3 AND status = $4
		RETURNING `+purchaseColumns+`
	`, decision, now, requestID, storages.StatusPending).Scan(
		&req.ID,
		&req.UserID,
		&req.MTALogin,
		&req.ItemID,
		&req.ItemName,
		&req.Amount,
		&req.ReceiptURL,
		&req.Status,
		&req.CreatedAt,
		&req.ResolvedAt,
	)

	if err == sql.ErrNoRows {
		current, getErr := s.getPurchaseRequest(ctx, requestID)
		if getErr != nil {
			return nil, getErr
		}
		return current, storages.ErrAlreadyResolved
	}

	if err != nil {
		s.logger.Errorf("Failed to resolve purchase request: %v", err)
		return nil, fmt.Errorf("failed to resolve purchase request: %w", err)
	}

	s.logger.Infof("Purchase resolved: ID=%d, Decision=%s", requestID, decision)
	return &req, nil
}

func (s *PostgresStorage) getPurchaseRequest(ctx context.Context, requestID int64) (*storages.PurchaseRequest, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchase_requests WHERE id = $1`

	var req storages.PurchaseRequest
	err := s.db.QueryRowContext(ctx, query, requestID).Scan(
		&req.ID,
		&req.UserID,
		&req.MTALogin,
		&req.ItemID,
		&req.ItemName,
		&req.Amount,
		&req.ReceiptURL,
		&req.Status,
		&req.CreatedAt,
		&req.ResolvedAt,
	)

	if err == sql.ErrNoRows {
		return nil, storages.ErrNotFound
	}

	if err != nil {
		s.logger.Errorf("Failed to get purchase request: %v", err)
		return nil, fmt.Errorf("failed to get purchase request: %w", err)
	}

	return &req, nil
}
