package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brz-forbes-portal/internal/kafka"
	"brz-forbes-portal/internal/leaderboard"
	"brz-forbes-portal/internal/report"
	"brz-forbes-portal/internal/storages"
	"brz-forbes-portal/pkg"
)

// PodiumPrize представляет строку таблицы еженедельных призов
type PodiumPrize struct {
	Rank  int     `json:"rank"`
	Title string  `json:"title"`
	Prize float64 `json:"prize"`
}

// LeaderboardView агрегированный ответ публичного рейтинга
type LeaderboardView struct {
	Clients       []leaderboard.RankedClient `json:"clients"`
	Report        report.Report              `json:"report"`
	WealthBars    []leaderboard.ChartPoint   `json:"wealth_bars"`
	Concentration leaderboard.Concentration  `json:"concentration"`
	Podium        []PodiumPrize              `json:"podium"`
}

// PlayerDashboardView агрегированный ответ дашборда игрока
type PlayerDashboardView struct {
	SiteUser *storages.SiteUser         `json:"site_user"`
	Bank     *storages.BankClient       `json:"bank,omitempty"`
	History  []storages.WithdrawRequest `json:"history"`
	Totals   leaderboard.DerivedTotals  `json:"totals"`
}

// SubmitWithdrawal проверяет заявку на вывод coins и атомарно проводит ее:
// вставка pending-заявки и списание coins происходят в одной транзакции
// хранилища. Повтор с тем же requestToken возвращает уже созданную заявку.
func (s *PortalService) SubmitWithdrawal(ctx context.Context, userID int64, amount float64, pixKey, requestToken string) (*storages.WithdrawRequest, error) {
	// Валидация до любой записи
	if err := pkg.ValidateAmount(amount); err != nil {
		return nil, err
	}
	if pixKey == "" {
		return nil, fmt.Errorf("pix_key is required")
	}

	req := &storages.WithdrawRequest{
		Amount:       amount,
		PixKey:       pixKey,
		RequestToken: requestToken,
	}

	if err := s.storage.SubmitWithdrawal(ctx, userID, req); err != nil {
		if errors.Is(err, storages.ErrInsufficientFunds) {
			return nil, storages.ErrInsufficientFunds
		}
		return nil, fmt.Errorf("failed to submit withdrawal: %w", err)
	}

	s.sendAuditEvent(ctx, req, kafka.EventSubmitted)

	s.logger.Infof("Withdrawal submitted: Player=%s, Amount=%.2f, PixKey=%s",
		req.Player, req.Amount, pkg.MaskPixKey(req.PixKey))

	return req, nil
}

// ResolveWithdrawal применяет решение администратора. Повторное решение с тем
// же исходом — no-op, с другим исходом — отклоняется без изменения состояния.
func (s *PortalService) ResolveWithdrawal(ctx context.Context, requestID int64, decision string) (*storages.WithdrawRequest, error) {
	if err := pkg.ValidateDecision(decision); err != nil {
		return nil, err
	}

	req, err := s.storage.ResolveWithdrawal(ctx, requestID, decision, s.refundOnDeny)
	if err != nil {
		if errors.Is(err, storages.ErrAlreadyResolved) {
			if req != nil && req.Status == decision {
				return req, nil
			}
			return nil, ErrDecisionConflict
		}
		return nil, fmt.Errorf("failed to resolve withdrawal: %w", err)
	}

	event := kafka.EventApproved
	if decision == storages.StatusDenied {
		event = kafka.EventDenied
	}
	s.sendAuditEvent(ctx, req, event)

	return req, nil
}

// ListPendingWithdrawals возвращает нерассмотренные заявки указанной валюты
func (s *PortalService) ListPendingWithdrawals(ctx context.Context, currencyType string) ([]storages.WithdrawRequest, error) {
	if err := pkg.ValidateCurrency(currencyType); err != nil {
		return nil, err
	}

	return s.storage.ListPendingWithdrawals(ctx, currencyType)
}

// PlayerDashboard собирает дашборд игрока: аккаунт, банковский счет,
// историю заявок и производные итоги, пересчитанные из истории
func (s *PortalService) PlayerDashboard(ctx context.Context, mtaLogin string) (*PlayerDashboardView, error) {
	user, err := s.storage.GetSiteUserByLogin(ctx, mtaLogin)
	if err != nil {
		return nil, fmt.Errorf("failed to get site user: %w", err)
	}

	view := &PlayerDashboardView{SiteUser: user}

	// Банковского счета может не быть: игрок зарегистрирован на портале,
	// но еще не открыл счет в игре
	bank, err := s.storage.GetBankClient(ctx, mtaLogin)
	if err != nil && !errors.Is(err, storages.ErrNotFound) {
		return nil, fmt.Errorf("failed to get bank client: %w", err)
	}
	view.Bank = bank

	history, err := s.storage.ListPlayerWithdrawals(ctx, mtaLogin)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal history: %w", err)
	}
	view.History = history
	view.Totals = leaderboard.DeriveTotals(history, time.Now())

	return view, nil
}

// Leaderboard собирает публичный рейтинг: топ-20 счетов, нарративный отчет
// (из кеша либо от генератора), данные графиков и таблицу призов
func (s *PortalService) Leaderboard(ctx context.Context) (*LeaderboardView, error) {
	clients, err := s.storage.ListBankClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bank clients: %w", err)
	}

	ranked := leaderboard.Rank(clients)

	return &LeaderboardView{
		Clients:       ranked,
		Report:        s.economicReport(ctx, ranked),
		WealthBars:    leaderboard.WealthBars(ranked),
		Concentration: leaderboard.Concentrate(ranked),
		Podium: []PodiumPrize{
			{Rank: 1, Title: "Magnata", Prize: s.prizes.PrizeTop1},
			{Rank: 2, Title: "Barão", Prize: s.prizes.PrizeTop2},
			{Rank: 3, Title: "Elite", Prize: s.prizes.PrizeTop3},
		},
	}, nil
}

// economicReport возвращает отчет из кеша либо запрашивает генератор.
// Сбой генератора наружу не поднимается: вернется фиксированный отчет.
func (s *PortalService) economicReport(ctx context.Context, ranked []leaderboard.RankedClient) report.Report {
	if s.reportCache != nil {
		if cached, ok := s.reportCache.Get(); ok {
			s.logger.Debug("Returning economic report from cache")
			return cached
		}
	}

	if s.reportClient == nil {
		return report.Fallback()
	}

	generated := s.reportClient.Generate(ctx, ranked)
	if s.reportCache != nil {
		s.reportCache.Set(generated)
	}

	return generated
}

// RefreshReport обновляет кеш отчета по текущему рейтингу (фоновая задача)
func (s *PortalService) RefreshReport(ctx context.Context) error {
	clients, err := s.storage.ListBankClients(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bank clients: %w", err)
	}

	ranked := leaderboard.Rank(clients)
	if s.reportClient == nil || s.reportCache == nil {
		return nil
	}

	s.reportCache.Set(s.reportClient.Generate(ctx, ranked))
	s.logger.Debug("Economic report cache refreshed")
	return nil
}

// SnapshotWeeklyAwards фиксирует тройку лидеров недели в weekly_awards.
// Повторный запуск за ту же неделю пропускает уже записанные места.
func (s *PortalService) SnapshotWeeklyAwards(ctx context.Context, now time.Time) error {
	clients, err := s.storage.ListBankClients(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bank clients: %w", err)
	}

	ranked := leaderboard.Rank(clients)
	if len(ranked) == 0 {
		return nil
	}

	weekStart := weekStartUTC(now)
	prizes := []float64{s.prizes.PrizeTop1, s.prizes.PrizeTop2, s.prizes.PrizeTop3}

	for i := 0; i < len(ranked) && i < 3; i++ {
		award := &storages.WeeklyAward{
			WeekStart: weekStart,
			Rank:      i + 1,
			Player:    ranked[i].Player,
			Wealth:    ranked[i].Wealth,
			Prize:     prizes[i],
		}

		if err := s.storage.CreateWeeklyAward(ctx, award); err != nil {
			if errors.Is(err, storages.ErrDuplicate) {
				continue
			}
			return fmt.Errorf("failed to create weekly award: %w", err)
		}

		s.logger.Infof("Weekly award recorded: Rank=%d, Player=%s, Prize=%.2f",
			award.Rank, award.Player, award.Prize)
	}

	return nil
}

// RecentAwards возвращает последние записи подиума
func (s *PortalService) RecentAwards(ctx context.Context, limit int) ([]storages.WeeklyAward, error) {
	return s.storage.ListWeeklyAwards(ctx, limit)
}

// weekStartUTC возвращает понедельник недели, содержащей t (полночь UTC)
func weekStartUTC(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // воскресенье — последний день недели
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -(weekday - 1))
}

// sendAuditEvent отправляет событие аудита, не блокируя основной поток ошибкой
func (s *PortalService) sendAuditEvent(ctx context.Context, req *storages.WithdrawRequest, event string) {
	if s.producer == nil {
		return
	}

	err := s.producer.SendWithdrawalEvent(ctx, kafka.WithdrawalEvent{
		RequestID:    req.ID,
		Player:       req.Player,
		Amount:       req.Amount,
		CurrencyType: req.CurrencyType,
		Event:        event,
	})
	if err != nil {
		s.logger.Warnf("Failed to send Kafka audit event: %v", err)
	}
}
