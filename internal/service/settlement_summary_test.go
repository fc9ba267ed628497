package service

import (
	"testing"

	"github.com/lunatickworker/hybridcasino-sub000/internal/constants"
	"github.com/lunatickworker/hybridcasino-sub000/internal/models"
)

func summaryTestRows() []SettlementRow {
	money := func(s string) models.Money { return models.NewMoneyFromDecimal(dec(s)) }
	return []SettlementRow{
		{
			NodeType: constants.SettlementNodeTypePartner, NodeID: 1,
			Username: "alpha-hq", Name: "总部", Level: 1,
			CasinoBet: money("1000000"), CasinoWin: money("900000"),
			AggregateRolling: money("12000"), AggregateLosing: money("8800"),
			IndividualRolling: money("2000"), IndividualLosing: money("0"),
			PaddingCutAmount: money("0"), NetCashDiff: money("300000"),
		},
		{
			NodeType: constants.SettlementNodeTypePartner, NodeID: 2,
			Username: "beta-shop", Name: "分站", Level: 3,
			CasinoBet: money("1000000"), CasinoWin: money("900000"),
			AggregateRolling: money("10000"), AggregateLosing: money("8800"),
			IndividualRolling: money("0"), IndividualLosing: money("8800"),
			PaddingCutAmount: money("500"), NetCashDiff: money("200000"),
		},
		{
			NodeType: constants.SettlementNodeTypeMember, NodeID: 7,
			Username: "player01", Name: "player01", Level: constants.PartnerLevelMember,
			CasinoBet: money("1000000"), CasinoWin: money("900000"),
			AggregateRolling: money("10000"), AggregateLosing: money("0"),
			IndividualRolling: money("10000"), IndividualLosing: money("0"),
			PaddingCutAmount: money("0"), NetCashDiff: money("200000"),
		},
	}
}

func TestReduceSummaryNoFilter(t *testing.T) {
	stats := ReduceSummary(summaryTestRows(), SummaryFilter{})

	if stats.RowCount != 3 || stats.PartnerCount != 2 || stats.MemberCount != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.TotalBet.String() != "3000000.00" {
		t.Fatalf("expected total bet 3000000.00, got %s", stats.TotalBet)
	}
	if stats.TotalAggregateRolling.String() != "32000.00" {
		t.Fatalf("expected total aggregate rolling 32000.00, got %s", stats.TotalAggregateRolling)
	}
	if stats.TotalPaddingCut.String() != "500.00" {
		t.Fatalf("expected total padding cut 500.00, got %s", stats.TotalPaddingCut)
	}
	if stats.TotalNetCashDiff.String() != "700000.00" {
		t.Fatalf("expected total net cash 700000.00, got %s", stats.TotalNetCashDiff)
	}
}

func TestReduceSummaryNodeTypeFilter(t *testing.T) {
	stats := ReduceSummary(summaryTestRows(), SummaryFilter{NodeType: constants.SettlementNodeTypeMember})

	if stats.RowCount != 1 || stats.MemberCount != 1 || stats.PartnerCount != 0 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.TotalIndividualRolling.String() != "10000.00" {
		t.Fatalf("expected member individual rolling 10000.00, got %s", stats.TotalIndividualRolling)
	}
}

func TestReduceSummaryLevelFilter(t *testing.T) {
	stats := ReduceSummary(summaryTestRows(), SummaryFilter{Level: 3})

	if stats.RowCount != 1 {
		t.Fatalf("expected 1 row at level 3, got %d", stats.RowCount)
	}
	if stats.TotalPaddingCut.String() != "500.00" {
		t.Fatalf("expected padding cut 500.00, got %s", stats.TotalPaddingCut)
	}
}

func TestReduceSummaryKeywordFilter(t *testing.T) {
	stats := ReduceSummary(summaryTestRows(), SummaryFilter{Keyword: " ALPHA "})
	if stats.RowCount != 1 || stats.PartnerCount != 1 {
		t.Fatalf("keyword should match username case-insensitively: %+v", stats)
	}

	stats = ReduceSummary(summaryTestRows(), SummaryFilter{Keyword: "分站"})
	if stats.RowCount != 1 {
		t.Fatalf("keyword should match name: %+v", stats)
	}

	stats = ReduceSummary(summaryTestRows(), SummaryFilter{Keyword: "nobody"})
	if stats.RowCount != 0 || stats.TotalBet.String() != "0.00" {
		t.Fatalf("no match should yield empty stats: %+v", stats)
	}
}
