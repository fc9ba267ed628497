package worker

import (
	"context"
	"errors"
	"time"

	"github.com/lunatickworker/hybridcasino-sub000/internal/config"
	"github.com/lunatickworker/hybridcasino-sub000/internal/logger"
	"github.com/lunatickworker/hybridcasino-sub000/internal/queue"

	"github.com/hibiken/asynq"
)

const defaultSnapshotHour = 4

// Service 异步队列服务
type Service struct {
	name         string
	server       *asynq.Server
	mux          *asynq.ServeMux
	consumer     *Consumer
	snapshotHour int
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, snapshotCfg *config.SettlementConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	snapshotHour := defaultSnapshotHour
	if snapshotCfg != nil && snapshotCfg.SnapshotHour >= 0 && snapshotCfg.SnapshotHour <= 23 {
		snapshotHour = snapshotCfg.SnapshotHour
	}
	return &Service{
		name:         "worker",
		server:       server,
		mux:          mux,
		consumer:     consumer,
		snapshotHour: snapshotHour,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.QueueClient.Enabled() {
		go s.runSnapshotLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runSnapshotLoop 每天固定时刻推送昨日结算快照任务
func (s *Service) runSnapshotLoop(ctx context.Context) {
	if s == nil || s.consumer == nil {
		return
	}
	for {
		wait := untilNextHour(time.Now(), s.snapshotHour)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		if err := s.consumer.QueueClient.EnqueueSettlementSnapshot(queue.SettlementSnapshotPayload{}); err != nil {
			logger.Warnw("worker_snapshot_enqueue_failed", "error", err)
		}
	}
}

func untilNextHour(now time.Time, hour int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
