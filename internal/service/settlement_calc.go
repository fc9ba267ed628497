package service

import (
	"github.com/lunatickworker/hybridcasino-sub000/internal/models"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// CommissionRates 单个节点的四项佣金比例（百分比）
type CommissionRates struct {
	CasinoRolling decimal.Decimal
	CasinoLosing  decimal.Decimal
	SlotRolling   decimal.Decimal
	SlotLosing    decimal.Decimal
}

// nonNegativeRate 缺失或负数的比例按 0 处理，不报错
func nonNegativeRate(pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		return decimal.Zero
	}
	return pct
}

// RatesOfPartner 取代理节点的佣金比例
func RatesOfPartner(p models.Partner) CommissionRates {
	return CommissionRates{
		CasinoRolling: nonNegativeRate(p.CasinoRollingPct.Decimal),
		CasinoLosing:  nonNegativeRate(p.CasinoLosingPct.Decimal),
		SlotRolling:   nonNegativeRate(p.SlotRollingPct.Decimal),
		SlotLosing:    nonNegativeRate(p.SlotLosingPct.Decimal),
	}
}

// RatesOfMember 取会员的佣金比例，未覆盖的项回退到推荐代理
func RatesOfMember(m models.MemberAccount, referrer models.Partner) CommissionRates {
	rates := RatesOfPartner(referrer)
	if m.CasinoRollingPct != nil {
		rates.CasinoRolling = nonNegativeRate(m.CasinoRollingPct.Decimal)
	}
	if m.CasinoLosingPct != nil {
		rates.CasinoLosing = nonNegativeRate(m.CasinoLosingPct.Decimal)
	}
	if m.SlotRollingPct != nil {
		rates.SlotRolling = nonNegativeRate(m.SlotRollingPct.Decimal)
	}
	if m.SlotLosingPct != nil {
		rates.SlotLosing = nonNegativeRate(m.SlotLosingPct.Decimal)
	}
	return rates
}

// RollingCommission 滚动佣金 = 投注额 × 比例 / 100，保留 2 位小数
func RollingCommission(bet, pct decimal.Decimal) decimal.Decimal {
	return bet.Mul(nonNegativeRate(pct)).Div(oneHundred).Round(2)
}

// LosingCommission 负佣金 = max(0, 投注额 - 派彩额 - 滚动佣金) × 比例 / 100
// 基数在乘比例前先按类别钳位到 0，会员盈利的类别不产生负基数去冲抵其它类别
func LosingCommission(bet, win, rolling, pct decimal.Decimal) decimal.Decimal {
	base := bet.Sub(win).Sub(rolling)
	if base.IsNegative() {
		return decimal.Zero
	}
	return base.Mul(nonNegativeRate(pct)).Div(oneHundred).Round(2)
}

// CommissionFigures 一个节点在结算区间内的佣金计算结果
type CommissionFigures struct {
	CasinoBet decimal.Decimal
	CasinoWin decimal.Decimal
	SlotBet   decimal.Decimal
	SlotWin   decimal.Decimal

	CasinoRolling decimal.Decimal
	SlotRolling   decimal.Decimal
	CasinoLosing  decimal.Decimal
	SlotLosing    decimal.Decimal
}

// TotalBet 投注额合计
func (f CommissionFigures) TotalBet() decimal.Decimal {
	return f.CasinoBet.Add(f.SlotBet)
}

// TotalWin 派彩额合计
func (f CommissionFigures) TotalWin() decimal.Decimal {
	return f.CasinoWin.Add(f.SlotWin)
}

// TotalRolling 滚动佣金合计
func (f CommissionFigures) TotalRolling() decimal.Decimal {
	return f.CasinoRolling.Add(f.SlotRolling)
}

// TotalLosing 负佣金合计
func (f CommissionFigures) TotalLosing() decimal.Decimal {
	return f.CasinoLosing.Add(f.SlotLosing)
}

// ComputeCommission 按类别分别计算滚动与负佣金后再汇总
// 两个类别各自独立计算，负佣金的钳位发生在类别级而非合计级
func ComputeCommission(casinoBet, casinoWin, slotBet, slotWin decimal.Decimal, rates CommissionRates) CommissionFigures {
	figures := CommissionFigures{
		CasinoBet: casinoBet,
		CasinoWin: casinoWin,
		SlotBet:   slotBet,
		SlotWin:   slotWin,
	}
	figures.CasinoRolling = RollingCommission(casinoBet, rates.CasinoRolling)
	figures.SlotRolling = RollingCommission(slotBet, rates.SlotRolling)
	figures.CasinoLosing = LosingCommission(casinoBet, casinoWin, figures.CasinoRolling, rates.CasinoLosing)
	figures.SlotLosing = LosingCommission(slotBet, slotWin, figures.SlotRolling, rates.SlotLosing)
	return figures
}
