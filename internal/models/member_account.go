package models

import (
	"time"

	"gorm.io/gorm"
)

// MemberAccount 会员账户（挂在直属推荐代理之下，始终为叶子节点）
type MemberAccount struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                       // 主键
	Username          string         `gorm:"type:varchar(64);not null;uniqueIndex" json:"username"`      // 会员账号
	ReferrerPartnerID uint           `gorm:"not null;index" json:"referrer_partner_id"`                  // 直属推荐代理ID
	Balance           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balance"`       // 账户余额
	PointBalance      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"point_balance"` // 积分余额
	CasinoRollingPct  *Money         `gorm:"type:decimal(10,2)" json:"casino_rolling_pct,omitempty"`     // 赌场滚动比例覆盖（空则回退推荐代理）
	CasinoLosingPct   *Money         `gorm:"type:decimal(10,2)" json:"casino_losing_pct,omitempty"`      // 赌场负佣比例覆盖
	SlotRollingPct    *Money         `gorm:"type:decimal(10,2)" json:"slot_rolling_pct,omitempty"`       // 老虎机滚动比例覆盖
	SlotLosingPct     *Money         `gorm:"type:decimal(10,2)" json:"slot_losing_pct,omitempty"`        // 老虎机负佣比例覆盖
	Status            string         `gorm:"type:varchar(20);not null;index" json:"status"`              // 状态
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt         time.Time      `json:"updated_at"`                                                 // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	ReferrerPartner Partner `gorm:"foreignKey:ReferrerPartnerID" json:"referrer_partner,omitempty"` // 推荐代理
}

// TableName 指定表名
func (MemberAccount) TableName() string {
	return "member_accounts"
}
