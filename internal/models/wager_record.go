package models

import "time"

// WagerRecord 投注记录（外部游戏采集器产生，创建后不可变）
type WagerRecord struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                           // 主键
	AccountID    uint      `gorm:"not null;index:idx_wager_account_time" json:"account_id"`        // 会员账户ID
	GameCategory string    `gorm:"type:varchar(20);not null;index" json:"game_category"`           // 游戏分类（casino/slot）
	BetAmount    Money     `gorm:"type:decimal(20,2);not null;default:0" json:"bet_amount"`        // 投注金额（统计时取绝对值）
	WinAmount    Money     `gorm:"type:decimal(20,2);not null;default:0" json:"win_amount"`        // 派彩金额
	OccurredAt   time.Time `gorm:"not null;index:idx_wager_account_time;index" json:"occurred_at"` // 发生时间
	CreatedAt    time.Time `json:"created_at"`                                                     // 入库时间
}

// TableName 指定表名
func (WagerRecord) TableName() string {
	return "wager_records"
}
