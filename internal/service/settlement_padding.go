package service

import (
	"github.com/lunatickworker/hybridcasino-sub000/internal/constants"

	"github.com/shopspring/decimal"
)

// PaddingCutConfig 垫付扣减配置快照
// 计算开始时取一次快照并贯穿整个结算，期间配置变更不影响进行中的计算
type PaddingCutConfig struct {
	GlobalEnabled     bool            `json:"global_enabled"`      // 总开关，关闭时任何层级都不扣减
	EnabledLevels     map[int]bool    `json:"enabled_levels"`      // 启用扣减的组织层级（3-6）
	CutPercentage     decimal.Decimal `json:"cut_percentage"`      // 扣减比例（0-100）
	CasinoCut         bool            `json:"casino_cut"`          // 展示层开关：赌场类扣减
	SlotCut           bool            `json:"slot_cut"`            // 展示层开关：老虎机类扣减
	RollingCutDisplay bool            `json:"rolling_cut_display"` // 展示层开关：滚动佣金按扣减后展示
	Version           int64           `json:"version"`             // 配置版本（保存时间戳），用于结算缓存失效
}

// LevelEnabled 指定层级是否启用扣减
func (c PaddingCutConfig) LevelEnabled(level int) bool {
	if c.EnabledLevels == nil {
		return false
	}
	return c.EnabledLevels[level]
}

// CutRolling 计算垫付扣减额
// 仅在总开关开启且节点层级启用时扣减，否则为 0
// 只返回扣减额，毛滚动佣金由调用方原样保留以便审计
func (c PaddingCutConfig) CutRolling(aggregateRolling decimal.Decimal, nodeLevel int) decimal.Decimal {
	if !c.GlobalEnabled {
		return decimal.Zero
	}
	if nodeLevel < constants.PartnerLevelMin || nodeLevel > constants.PartnerLevelMax {
		return decimal.Zero
	}
	if !c.LevelEnabled(nodeLevel) {
		return decimal.Zero
	}
	if c.CutPercentage.IsZero() || aggregateRolling.IsZero() {
		return decimal.Zero
	}
	return aggregateRolling.Mul(c.CutPercentage).Div(oneHundred).Round(2)
}
