package service

import (
	"strings"

	"github.com/lunatickworker/hybridcasino-sub000/internal/constants"
	"github.com/lunatickworker/hybridcasino-sub000/internal/models"

	"github.com/shopspring/decimal"
)

// SummaryFilter 结算汇总的过滤条件，零值字段表示不过滤
type SummaryFilter struct {
	NodeType string // partner / member
	Level    int    // 指定组织层级
	Keyword  string // 账号或名称模糊匹配
}

// SummaryStats 仪表盘展示用的结算汇总
type SummaryStats struct {
	RowCount     int `json:"row_count"`
	PartnerCount int `json:"partner_count"`
	MemberCount  int `json:"member_count"`

	TotalBet models.Money `json:"total_bet"`
	TotalWin models.Money `json:"total_win"`

	TotalAggregateRolling  models.Money `json:"total_aggregate_rolling"`
	TotalAggregateLosing   models.Money `json:"total_aggregate_losing"`
	TotalIndividualRolling models.Money `json:"total_individual_rolling"`
	TotalIndividualLosing  models.Money `json:"total_individual_losing"`
	TotalPaddingCut        models.Money `json:"total_padding_cut"`
	TotalNetCashDiff       models.Money `json:"total_net_cash_diff"`
}

// Matches 判断结算行是否满足过滤条件
func (f SummaryFilter) Matches(row SettlementRow) bool {
	if f.NodeType != "" && row.NodeType != f.NodeType {
		return false
	}
	if f.Level > 0 && row.Level != f.Level {
		return false
	}
	keyword := strings.ToLower(strings.TrimSpace(f.Keyword))
	if keyword != "" &&
		!strings.Contains(strings.ToLower(row.Username), keyword) &&
		!strings.Contains(strings.ToLower(row.Name), keyword) {
		return false
	}
	return true
}

// ReduceSummary 先过滤后求和，把一组结算行折叠为一条汇总
// 汇总语义由传入的过滤条件完全决定
func ReduceSummary(rows []SettlementRow, filter SummaryFilter) SummaryStats {
	var (
		stats       SummaryStats
		bet, win    decimal.Decimal
		aggRolling  decimal.Decimal
		aggLosing   decimal.Decimal
		indRolling  decimal.Decimal
		indLosing   decimal.Decimal
		paddingCut  decimal.Decimal
		netCashDiff decimal.Decimal
	)

	for _, row := range rows {
		if !filter.Matches(row) {
			continue
		}

		stats.RowCount++
		switch row.NodeType {
		case constants.SettlementNodeTypePartner:
			stats.PartnerCount++
		case constants.SettlementNodeTypeMember:
			stats.MemberCount++
		}

		bet = bet.Add(row.CasinoBet.Decimal).Add(row.SlotBet.Decimal)
		win = win.Add(row.CasinoWin.Decimal).Add(row.SlotWin.Decimal)
		aggRolling = aggRolling.Add(row.AggregateRolling.Decimal)
		aggLosing = aggLosing.Add(row.AggregateLosing.Decimal)
		indRolling = indRolling.Add(row.IndividualRolling.Decimal)
		indLosing = indLosing.Add(row.IndividualLosing.Decimal)
		paddingCut = paddingCut.Add(row.PaddingCutAmount.Decimal)
		netCashDiff = netCashDiff.Add(row.NetCashDiff.Decimal)
	}

	stats.TotalBet = models.NewMoneyFromDecimal(bet)
	stats.TotalWin = models.NewMoneyFromDecimal(win)
	stats.TotalAggregateRolling = models.NewMoneyFromDecimal(aggRolling)
	stats.TotalAggregateLosing = models.NewMoneyFromDecimal(aggLosing)
	stats.TotalIndividualRolling = models.NewMoneyFromDecimal(indRolling)
	stats.TotalIndividualLosing = models.NewMoneyFromDecimal(indLosing)
	stats.TotalPaddingCut = models.NewMoneyFromDecimal(paddingCut)
	stats.TotalNetCashDiff = models.NewMoneyFromDecimal(netCashDiff)
	return stats
}
