package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lunatickworker/hybridcasino-sub000/internal/logger"
	"github.com/lunatickworker/hybridcasino-sub000/internal/provider"
	"github.com/lunatickworker/hybridcasino-sub000/internal/queue"
	"github.com/lunatickworker/hybridcasino-sub000/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskSettlementSnapshot, c.handleSettlementSnapshot)
}

func (c *Consumer) handleSettlementSnapshot(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_settlement_snapshot_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.SettlementSnapshotPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_settlement_snapshot_unmarshal_failed", "error", err)
		return err
	}

	from, to, err := resolveSnapshotRange(payload.Date)
	if err != nil {
		logger.Warnw("worker_settlement_snapshot_skip_invalid_date", "date", payload.Date, "error", err)
		return nil
	}
	if c.SettlementService == nil {
		logger.Warnw("worker_settlement_snapshot_skip_service_nil")
		return nil
	}

	rows, err := c.SettlementService.ComputeSettlement(ctx, 0, from, to)
	if err != nil {
		if service.IsConfigurationError(err) {
			// 组织结构损坏必须人工修复，重试没有意义
			logger.Errorw("worker_settlement_snapshot_hierarchy_broken", "from", from, "to", to, "error", err)
			return nil
		}
		logger.Warnw("worker_settlement_snapshot_failed", "from", from, "to", to, "error", err)
		return err
	}
	logger.Infow("worker_settlement_snapshot_done", "from", from, "to", to, "rows", len(rows))
	return nil
}

// resolveSnapshotRange 将 YYYY-MM-DD 转为 UTC 日区间，空则取昨日
func resolveSnapshotRange(date string) (time.Time, time.Time, error) {
	var day time.Time
	if date == "" {
		now := time.Now().UTC()
		day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	} else {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		day = parsed.UTC()
	}
	return day, day.AddDate(0, 0, 1), nil
}
