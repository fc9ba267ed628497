package models

import (
	"time"

	"gorm.io/gorm"
)

// Partner 代理节点（六级组织树，层级自上而下 1-6）
type Partner struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                            // 主键
	Username         string         `gorm:"type:varchar(64);not null;uniqueIndex" json:"username"`           // 代理账号
	Name             string         `gorm:"type:varchar(64);not null;index" json:"name"`                     // 代理名称
	Level            int            `gorm:"not null;index" json:"level"`                                     // 组织层级（1-6，须为父层级+1）
	ParentID         *uint          `gorm:"index" json:"parent_id,omitempty"`                                // 上级代理ID（根节点为空）
	CasinoRollingPct Money          `gorm:"type:decimal(10,2);not null;default:0" json:"casino_rolling_pct"` // 赌场滚动佣金比例（百分比）
	CasinoLosingPct  Money          `gorm:"type:decimal(10,2);not null;default:0" json:"casino_losing_pct"`  // 赌场负佣金比例（百分比）
	SlotRollingPct   Money          `gorm:"type:decimal(10,2);not null;default:0" json:"slot_rolling_pct"`   // 老虎机滚动佣金比例（百分比）
	SlotLosingPct    Money          `gorm:"type:decimal(10,2);not null;default:0" json:"slot_losing_pct"`    // 老虎机负佣金比例（百分比）
	Balance          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balance"`            // 账户余额
	PointBalance     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"point_balance"`      // 积分余额
	Status           string         `gorm:"type:varchar(20);not null;index" json:"status"`                   // 状态
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                                      // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                                  // 软删除时间

	Parent *Partner `gorm:"foreignKey:ParentID" json:"parent,omitempty"` // 上级代理
}

// TableName 指定表名
func (Partner) TableName() string {
	return "partners"
}

// IsRoot 是否为根节点
func (p Partner) IsRoot() bool {
	return p.ParentID == nil || *p.ParentID == 0
}
