package models

import (
	"time"

	"gorm.io/gorm"
)

// CashEvent 资金流水（会员或代理二选一，代理间调拨同时携带来源代理）
type CashEvent struct {
	ID                    uint           `gorm:"primarykey" json:"id"`                                   // 主键
	AccountID             *uint          `gorm:"index" json:"account_id,omitempty"`                      // 会员账户ID（与代理ID互斥）
	PartnerID             *uint          `gorm:"index" json:"partner_id,omitempty"`                      // 代理ID
	CounterpartyPartnerID *uint          `gorm:"index" json:"counterparty_partner_id,omitempty"`         // 对手方代理ID（仅代理间调拨）
	Kind                  string         `gorm:"type:varchar(32);not null;index" json:"kind"`            // 流水类型（方向由类型决定）
	Amount                Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`    // 金额（非负）
	Status                string         `gorm:"type:varchar(20);not null;index" json:"status"`          // 状态（仅 completed 参与结算）
	Memo                  string         `gorm:"type:varchar(255)" json:"memo"`                          // 备注
	OccurredAt            time.Time      `gorm:"not null;index" json:"occurred_at"`                      // 发生时间
	CreatedAt             time.Time      `json:"created_at"`                                             // 创建时间
	UpdatedAt             time.Time      `json:"updated_at"`                                             // 更新时间
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`                                         // 软删除时间
}

// TableName 指定表名
func (CashEvent) TableName() string {
	return "cash_events"
}
