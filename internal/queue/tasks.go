package queue

import (
	"encoding/json"

	"github.com/lunatickworker/hybridcasino-sub000/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskSettlementSnapshot 每日结算快照任务
	TaskSettlementSnapshot = constants.TaskSettlementSnapshot
)

// SettlementSnapshotPayload 结算快照任务载荷
// Date 为 YYYY-MM-DD，空则取昨日
type SettlementSnapshotPayload struct {
	Date string `json:"date"`
}

// NewSettlementSnapshotTask 创建结算快照任务
func NewSettlementSnapshotTask(payload SettlementSnapshotPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSettlementSnapshot, body), nil
}
