package models

import "time"

// PointEvent 积分流水（发放/回收）
type PointEvent struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                // 主键
	AccountID  uint      `gorm:"not null;index" json:"account_id"`                    // 会员账户ID
	Kind       string    `gorm:"type:varchar(20);not null;index" json:"kind"`         // 类型（grant/reclaim）
	Amount     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"amount"` // 积分数额
	Memo       string    `gorm:"type:varchar(255)" json:"memo"`                       // 备注
	OccurredAt time.Time `gorm:"not null;index" json:"occurred_at"`                   // 发生时间
	CreatedAt  time.Time `json:"created_at"`                                          // 创建时间
}

// TableName 指定表名
func (PointEvent) TableName() string {
	return "point_events"
}
