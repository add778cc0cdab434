package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"brz-forbes-portal/internal/service"
)

// Scheduler управляет фоновыми задачами портала
type Scheduler struct {
	cron    *cron.Cron
	service *service.PortalService
	logger  *logrus.Logger

	reportFailures int
}

// NewScheduler создает планировщик задач (расписание в UTC)
func NewScheduler(portalService *service.PortalService, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		service: portalService,
		logger:  logger,
	}
}

// Start запускает все фоновые задачи
func (s *Scheduler) Start(ctx context.Context, reportRefresh time.Duration) error {
	// Периодическое обновление кеша нарративного отчета
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", reportRefresh), func() {
		if err := s.service.RefreshReport(ctx); err != nil {
			s.reportFailures++
			if s.reportFailures >= 3 {
				s.logger.Errorf("Report refresh failed %d times in a row: %v", s.reportFailures, err)
			} else {
				s.logger.Warnf("Report refresh failed: %v", err)
			}
			return
		}
		s.reportFailures = 0
	})
	if err != nil {
		return fmt.Errorf("failed to schedule report refresh: %w", err)
	}

	// Фиксация подиума каждый понедельник в 00:00 UTC
	_, err = s.cron.AddFunc("0 0 * * 1", func() {
		s.logger.Info("Running weekly awards snapshot")
		if err := s.service.SnapshotWeeklyAwards(ctx, time.Now()); err != nil {
			s.logger.Errorf("Weekly awards snapshot failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule weekly awards: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Background scheduler started")
	return nil
}

// Stop останавливает планировщик, дожидаясь выполняющихся задач
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Background scheduler stopped")
}
