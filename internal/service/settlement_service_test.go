package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/lunatickworker/hybridcasino-sub000/internal/config"
	"github.com/lunatickworker/hybridcasino-sub000/internal/constants"
	"github.com/lunatickworker/hybridcasino-sub000/internal/models"
	"github.com/lunatickworker/hybridcasino-sub000/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var (
	settlementTestFrom = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	settlementTestTo   = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	settlementTestAt   = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
)

func setupSettlementTest(t *testing.T) (*SettlementService, *SettingService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:settlement_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(
		&models.Partner{}, &models.MemberAccount{},
		&models.WagerRecord{}, &models.CashEvent{}, &models.PointEvent{},
		&models.Setting{},
	)
	if err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	settingSvc := NewSettingService(repository.NewSettingRepository(db))
	svc := NewSettlementService(
		repository.NewPartnerRepository(db),
		repository.NewMemberRepository(db),
		repository.NewWagerRepository(db),
		repository.NewCashEventRepository(db),
		repository.NewPointEventRepository(db),
		settingSvc,
		&config.SettlementConfig{WorkerCount: 4, RequestTimeoutSeconds: 10},
	)
	return svc, settingSvc, db
}

func createSettlementTestPartner(t *testing.T, db *gorm.DB, username string, level int, parentID *uint, casinoRolling, casinoLosing string) models.Partner {
	t.Helper()

	row := models.Partner{
		Username:         username,
		Name:             username,
		Level:            level,
		ParentID:         parentID,
		CasinoRollingPct: models.NewMoneyFromDecimal(dec(casinoRolling)),
		CasinoLosingPct:  models.NewMoneyFromDecimal(dec(casinoLosing)),
		Status:           constants.PartnerStatusActive,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create partner failed: %v", err)
	}
	return row
}

func createSettlementTestMember(t *testing.T, db *gorm.DB, username string, referrerID uint) models.MemberAccount {
	t.Helper()

	row := models.MemberAccount{
		Username:          username,
		ReferrerPartnerID: referrerID,
		Status:            constants.MemberStatusActive,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create member failed: %v", err)
	}
	return row
}

func createSettlementTestWager(t *testing.T, db *gorm.DB, accountID uint, category, bet, win string) {
	t.Helper()

	row := models.WagerRecord{
		AccountID:    accountID,
		GameCategory: category,
		BetAmount:    models.NewMoneyFromDecimal(dec(bet)),
		WinAmount:    models.NewMoneyFromDecimal(dec(win)),
		OccurredAt:   settlementTestAt,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create wager failed: %v", err)
	}
}

func createSettlementTestCash(t *testing.T, db *gorm.DB, accountID, partnerID *uint, kind, amount, status string) {
	t.Helper()

	row := models.CashEvent{
		AccountID:  accountID,
		PartnerID:  partnerID,
		Kind:       kind,
		Amount:     models.NewMoneyFromDecimal(dec(amount)),
		Status:     status,
		OccurredAt: settlementTestAt,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create cash event failed: %v", err)
	}
}

func findRow(t *testing.T, rows []SettlementRow, nodeType string, nodeID uint) SettlementRow {
	t.Helper()

	for _, row := range rows {
		if row.NodeType == nodeType && row.NodeID == nodeID {
			return row
		}
	}
	t.Fatalf("row %s/%d not found in %d rows", nodeType, nodeID, len(rows))
	return SettlementRow{}
}

func TestComputeSettlementDifferentialAttribution(t *testing.T) {
	svc, _, db := setupSettlementTest(t)

	// P(1.2%) → C(1.0%，负佣 10%) → 会员（无覆盖，回退 C 的比例）
	parent := createSettlementTestPartner(t, db, "p-root", 1, nil, "1.2", "10")
	child := createSettlementTestPartner(t, db, "p-child", 2, &parent.ID, "1.0", "10")
	member := createSettlementTestMember(t, db, "m-leaf", child.ID)

	createSettlementTestWager(t, db, member.ID, constants.GameCategoryCasino, "10000000", "9000000")

	// 已完成入金计入，拒绝的出金必须排除
	createSettlementTestCash(t, db, &member.ID, nil, constants.CashEventKindOnlineDeposit, "200000", constants.CashEventStatusCompleted)
	createSettlementTestCash(t, db, &member.ID, nil, constants.CashEventKindOnlineWithdrawal, "50000", constants.CashEventStatusRejected)
	createSettlementTestCash(t, db, nil, &parent.ID, constants.CashEventKindPartnerFundingIn, "300000", constants.CashEventStatusCompleted)

	rows, err := svc.ComputeSettlement(context.Background(), 0, settlementTestFrom, settlementTestTo)
	if err != nil {
		t.Fatalf("compute settlement failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	memberRow := findRow(t, rows, constants.SettlementNodeTypeMember, member.ID)
	if memberRow.AggregateRolling.String() != "100000.00" {
		t.Fatalf("expected member rolling 100000.00, got %s", memberRow.AggregateRolling)
	}
	if memberRow.AggregateLosing.String() != "90000.00" {
		t.Fatalf("expected member losing 90000.00, got %s", memberRow.AggregateLosing)
	}
	if memberRow.NetCashDiff.String() != "200000.00" {
		t.Fatalf("expected member net cash 200000.00, got %s", memberRow.NetCashDiff)
	}
	if memberRow.HasChildren {
		t.Fatal("member row must be a leaf")
	}

	childRow := findRow(t, rows, constants.SettlementNodeTypePartner, child.ID)
	if childRow.AggregateRolling.String() != "100000.00" {
		t.Fatalf("expected child aggregate rolling 100000.00, got %s", childRow.AggregateRolling)
	}
	if childRow.IndividualRolling.String() != "0.00" {
		t.Fatalf("expected child individual rolling 0.00, got %s", childRow.IndividualRolling)
	}
	// 直属会员的已完成入金计入子代理的净现金差额
	if childRow.NetCashDiff.String() != "200000.00" {
		t.Fatalf("expected child net cash 200000.00, got %s", childRow.NetCashDiff)
	}

	parentRow := findRow(t, rows, constants.SettlementNodeTypePartner, parent.ID)
	if parentRow.AggregateRolling.String() != "120000.00" {
		t.Fatalf("expected parent aggregate rolling 120000.00, got %s", parentRow.AggregateRolling)
	}
	if parentRow.IndividualRolling.String() != "20000.00" {
		t.Fatalf("expected parent individual rolling 20000.00, got %s", parentRow.IndividualRolling)
	}
	// 净现金差额不向上汇聚：父节点只看自身的代理出入金
	if parentRow.NetCashDiff.String() != "300000.00" {
		t.Fatalf("expected parent net cash 300000.00, got %s", parentRow.NetCashDiff)
	}
	if !parentRow.HasChildren {
		t.Fatal("parent row must flag children")
	}
}

func TestComputeSettlementVisibilityScope(t *testing.T) {
	svc, _, db := setupSettlementTest(t)

	parent := createSettlementTestPartner(t, db, "p-top", 1, nil, "1.2", "0")
	child := createSettlementTestPartner(t, db, "p-mid", 2, &parent.ID, "1.0", "0")
	sibling := createSettlementTestPartner(t, db, "p-sibling", 2, &parent.ID, "1.0", "0")
	member := createSettlementTestMember(t, db, "m-scoped", child.ID)
	createSettlementTestWager(t, db, member.ID, constants.GameCategorySlot, "500000", "400000")

	rows, err := svc.ComputeSettlement(context.Background(), child.ID, settlementTestFrom, settlementTestTo)
	if err != nil {
		t.Fatalf("compute settlement failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected caller to see only itself and its member, got %d rows", len(rows))
	}
	for _, row := range rows {
		if row.NodeType == constants.SettlementNodeTypePartner && (row.NodeID == parent.ID || row.NodeID == sibling.ID) {
			t.Fatalf("parent/sibling leaked into scoped result: %+v", row)
		}
	}

	if _, err := svc.ComputeSettlement(context.Background(), 9999, settlementTestFrom, settlementTestTo); !errors.Is(err, ErrPartnerNotFound) {
		t.Fatalf("expected ErrPartnerNotFound for unknown caller, got %v", err)
	}
}

func TestComputeSettlementIdempotent(t *testing.T) {
	svc, _, db := setupSettlementTest(t)

	parent := createSettlementTestPartner(t, db, "p-idem", 1, nil, "1.5", "12")
	member := createSettlementTestMember(t, db, "m-idem", parent.ID)
	createSettlementTestWager(t, db, member.ID, constants.GameCategoryCasino, "3000000", "2500000")
	createSettlementTestCash(t, db, &member.ID, nil, constants.CashEventKindManualDeposit, "80000", constants.CashEventStatusCompleted)

	first, err := svc.ComputeSettlement(context.Background(), 0, settlementTestFrom, settlementTestTo)
	if err != nil {
		t.Fatalf("first compute failed: %v", err)
	}
	second, err := svc.ComputeSettlement(context.Background(), 0, settlementTestFrom, settlementTestTo)
	if err != nil {
		t.Fatalf("second compute failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("settlement must be idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestComputeSettlementCycleIsConfigurationError(t *testing.T) {
	svc, _, db := setupSettlementTest(t)

	a := createSettlementTestPartner(t, db, "p-cycle-a", 2, nil, "1", "0")
	b := createSettlementTestPartner(t, db, "p-cycle-b", 3, &a.ID, "1", "0")
	if err := db.Model(&models.Partner{}).Where("id = ?", a.ID).Update("parent_id", b.ID).Error; err != nil {
		t.Fatalf("wire cycle failed: %v", err)
	}

	rows, err := svc.ComputeSettlement(context.Background(), 0, settlementTestFrom, settlementTestTo)
	if rows != nil {
		t.Fatalf("cycle must not yield partial rows, got %d", len(rows))
	}
	if !errors.Is(err, ErrHierarchyCycle) {
		t.Fatalf("expected ErrHierarchyCycle, got %v", err)
	}
	if !IsConfigurationError(err) {
		t.Fatalf("cycle must classify as configuration error: %v", err)
	}
	if IsRetryable(err) {
		t.Fatalf("configuration error must not be retryable: %v", err)
	}
}

func TestComputeSettlementInvalidDateRange(t *testing.T) {
	svc, _, _ := setupSettlementTest(t)

	_, err := svc.ComputeSettlement(context.Background(), 0, settlementTestTo, settlementTestFrom)
	if !errors.Is(err, ErrDateRangeInvalid) {
		t.Fatalf("expected ErrDateRangeInvalid, got %v", err)
	}

	_, err = svc.ComputeSettlement(context.Background(), 0, time.Time{}, settlementTestTo)
	if !errors.Is(err, ErrDateRangeInvalid) {
		t.Fatalf("expected ErrDateRangeInvalid for zero start, got %v", err)
	}
}

func TestComputeSettlementPaddingCut(t *testing.T) {
	svc, settingSvc, db := setupSettlementTest(t)

	level1 := createSettlementTestPartner(t, db, "p-l1", 1, nil, "1.2", "0")
	level2 := createSettlementTestPartner(t, db, "p-l2", 2, &level1.ID, "1.1", "0")
	level3 := createSettlementTestPartner(t, db, "p-l3", 3, &level2.ID, "1.0", "0")
	member := createSettlementTestMember(t, db, "m-padding", level3.ID)
	createSettlementTestWager(t, db, member.ID, constants.GameCategoryCasino, "10000000", "9000000")

	if _, err := settingSvc.UpdatePaddingCutSetting(PaddingCutConfig{
		GlobalEnabled: true,
		EnabledLevels: map[int]bool{3: true},
		CutPercentage: dec("5"),
	}); err != nil {
		t.Fatalf("update padding setting failed: %v", err)
	}

	rows, err := svc.ComputeSettlement(context.Background(), 0, settlementTestFrom, settlementTestTo)
	if err != nil {
		t.Fatalf("compute settlement failed: %v", err)
	}

	level3Row := findRow(t, rows, constants.SettlementNodeTypePartner, level3.ID)
	if level3Row.PaddingCutAmount.String() != "5000.00" {
		t.Fatalf("expected level-3 cut 5000.00, got %s", level3Row.PaddingCutAmount)
	}
	// 毛滚动佣金保持不变，扣减额单独展示
	if level3Row.AggregateRolling.String() != "100000.00" {
		t.Fatalf("expected gross rolling unchanged at 100000.00, got %s", level3Row.AggregateRolling)
	}

	level2Row := findRow(t, rows, constants.SettlementNodeTypePartner, level2.ID)
	if level2Row.PaddingCutAmount.String() != "0.00" {
		t.Fatalf("expected level-2 cut 0.00, got %s", level2Row.PaddingCutAmount)
	}
	memberRow := findRow(t, rows, constants.SettlementNodeTypeMember, member.ID)
	if memberRow.PaddingCutAmount.String() != "0.00" {
		t.Fatalf("expected member cut 0.00, got %s", memberRow.PaddingCutAmount)
	}
}

func TestComputeSettlementNegativeStoredRateClampedToZero(t *testing.T) {
	svc, _, db := setupSettlementTest(t)

	// 绕过目录服务校验直接落库负数比例，结算仍不得产出负佣金
	partner := createSettlementTestPartner(t, db, "p-neg", 1, nil, "1.0", "-10")
	member := createSettlementTestMember(t, db, "m-neg", partner.ID)
	createSettlementTestWager(t, db, member.ID, constants.GameCategoryCasino, "10000000", "9000000")

	rows, err := svc.ComputeSettlement(context.Background(), 0, settlementTestFrom, settlementTestTo)
	if err != nil {
		t.Fatalf("compute settlement failed: %v", err)
	}

	memberRow := findRow(t, rows, constants.SettlementNodeTypeMember, member.ID)
	if memberRow.AggregateRolling.String() != "100000.00" {
		t.Fatalf("expected member rolling 100000.00, got %s", memberRow.AggregateRolling)
	}
	if memberRow.AggregateLosing.String() != "0.00" {
		t.Fatalf("expected negative losing rate treated as 0, got %s", memberRow.AggregateLosing)
	}
	for _, row := range rows {
		if row.AggregateRolling.IsNegative() || row.AggregateLosing.IsNegative() {
			t.Fatalf("commission must never go negative: node %d rolling=%s losing=%s",
				row.NodeID, row.AggregateRolling, row.AggregateLosing)
		}
	}
}

func TestComputeSettlementNormalizesNegativeWinAmount(t *testing.T) {
	svc, _, db := setupSettlementTest(t)

	partner := createSettlementTestPartner(t, db, "p-abswin", 1, nil, "1.0", "10")
	member := createSettlementTestMember(t, db, "m-abswin", partner.ID)
	// 上游偶发负数记账，派彩额按绝对值统计
	createSettlementTestWager(t, db, member.ID, constants.GameCategoryCasino, "10000000", "-9000000")

	rows, err := svc.ComputeSettlement(context.Background(), 0, settlementTestFrom, settlementTestTo)
	if err != nil {
		t.Fatalf("compute settlement failed: %v", err)
	}

	memberRow := findRow(t, rows, constants.SettlementNodeTypeMember, member.ID)
	if memberRow.CasinoWin.String() != "9000000.00" {
		t.Fatalf("expected casino win summed by magnitude 9000000.00, got %s", memberRow.CasinoWin)
	}
	// 基数 = 10000000 - 9000000 - 100000 = 900000，负佣 10% = 90000
	if memberRow.AggregateLosing.String() != "90000.00" {
		t.Fatalf("expected member losing 90000.00, got %s", memberRow.AggregateLosing)
	}
}
