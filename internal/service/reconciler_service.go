package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/oneline-dev/waybridge/internal/config"
	"github.com/oneline-dev/waybridge/internal/repository"
	"github.com/oneline-dev/waybridge/internal/scheduler"
)

// reconcilerService sweeps every stored instance on an interval, correcting
// state that drifted while no one was listing. The on-list poller covers
// active tenants; the sweep covers idle ones.
type reconcilerService struct {
	scheduler *scheduler.Scheduler
	repo      repository.Repository
	instances InstanceService
	logger    *zap.Logger
}

func NewReconcilerService(
	cfg *config.Config,
	repo repository.Repository,
	instances InstanceService,
	logger *zap.Logger,
) ReconcilerService {
	interval := time.Duration(cfg.Reconciler.IntervalMinutes) * time.Minute

	svc := &reconcilerService{
		repo:      repo,
		instances: instances,
		logger:    logger,
	}

	svc.scheduler = scheduler.NewScheduler(logger, interval, svc.sweep)
	return svc
}

func (s *reconcilerService) Start() error {
	ctx := context.Background()
	return s.scheduler.Start(ctx)
}

func (s *reconcilerService) Stop() error {
	return s.scheduler.Stop()
}

func (s *reconcilerService) IsRunning() bool {
	return s.scheduler.IsRunning()
}

func (s *reconcilerService) sweep(ctx context.Context) error {
	instances, err := s.repo.Instance().ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list instances for sweep: %w", err)
	}

	for _, instance := range instances {
		// Per-instance failures are handled inside ReconcileInstance.
		s.instances.ReconcileInstance(ctx, instance)
	}

	s.logger.Info("Reconciliation sweep finished", zap.Int("instances", len(instances)))
	return nil
}
