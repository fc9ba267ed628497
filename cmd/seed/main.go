package main

import (
	"time"

	"github.com/lunatickworker/hybridcasino-sub000/internal/config"
	"github.com/lunatickworker/hybridcasino-sub000/internal/constants"
	"github.com/lunatickworker/hybridcasino-sub000/internal/logger"
	"github.com/lunatickworker/hybridcasino-sub000/internal/models"

	"github.com/shopspring/decimal"
)

// 演示数据：三级代理树 + 会员 + 注单 + 资金流水
// 用于本地联调结算接口
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库连接失败: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	pct := func(v string) models.Money {
		d, err := decimal.NewFromString(v)
		if err != nil {
			stdLog.Fatalf("比例格式错误 %q: %v", v, err)
		}
		return models.NewMoneyFromDecimal(d)
	}

	seedPartner := func(username, name string, parentID *uint, level int, casinoRolling, casinoLosing, slotRolling, slotLosing string) models.Partner {
		var existing models.Partner
		if err := models.DB.Where("username = ?", username).First(&existing).Error; err == nil {
			stdLog.Printf("代理已存在: %s", username)
			return existing
		}
		partner := models.Partner{
			Username:         username,
			Name:             name,
			Level:            level,
			ParentID:         parentID,
			CasinoRollingPct: pct(casinoRolling),
			CasinoLosingPct:  pct(casinoLosing),
			SlotRollingPct:   pct(slotRolling),
			SlotLosingPct:    pct(slotLosing),
			Status:           constants.PartnerStatusActive,
		}
		if err := models.DB.Create(&partner).Error; err != nil {
			stdLog.Fatalf("创建代理 %s 失败: %v", username, err)
		}
		stdLog.Printf("创建代理: %s (level %d)", username, level)
		return partner
	}

	hq := seedPartner("hq", "总部", nil, 1, "1.4", "12", "1.4", "12")
	branch := seedPartner("branch-east", "东区分站", &hq.ID, 2, "1.2", "11", "1.2", "11")
	shop := seedPartner("shop-01", "一号门店", &branch.ID, 3, "1.0", "10", "1.0", "10")

	seedMember := func(username string, referrerID uint) models.MemberAccount {
		var existing models.MemberAccount
		if err := models.DB.Where("username = ?", username).First(&existing).Error; err == nil {
			stdLog.Printf("会员已存在: %s", username)
			return existing
		}
		member := models.MemberAccount{
			Username:          username,
			ReferrerPartnerID: referrerID,
			Status:            constants.MemberStatusActive,
		}
		if err := models.DB.Create(&member).Error; err != nil {
			stdLog.Fatalf("创建会员 %s 失败: %v", username, err)
		}
		stdLog.Printf("创建会员: %s", username)
		return member
	}

	player1 := seedMember("player01", shop.ID)
	player2 := seedMember("player02", shop.ID)
	player3 := seedMember("player03", branch.ID)

	var wagerCount int64
	models.DB.Model(&models.WagerRecord{}).Count(&wagerCount)
	if wagerCount > 0 {
		stdLog.Printf("注单已存在，共 %d 条，跳过", wagerCount)
		return
	}

	yesterday := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)
	amount := func(v string) models.Money {
		d, err := decimal.NewFromString(v)
		if err != nil {
			stdLog.Fatalf("金额格式错误 %q: %v", v, err)
		}
		return models.NewMoneyFromDecimal(d)
	}

	wagers := []models.WagerRecord{
		{AccountID: player1.ID, GameCategory: constants.GameCategoryCasino, BetAmount: amount("10000000"), WinAmount: amount("9000000"), OccurredAt: yesterday.Add(10 * time.Hour)},
		{AccountID: player1.ID, GameCategory: constants.GameCategorySlot, BetAmount: amount("2000000"), WinAmount: amount("2100000"), OccurredAt: yesterday.Add(12 * time.Hour)},
		{AccountID: player2.ID, GameCategory: constants.GameCategoryCasino, BetAmount: amount("5000000"), WinAmount: amount("4200000"), OccurredAt: yesterday.Add(14 * time.Hour)},
		{AccountID: player3.ID, GameCategory: constants.GameCategorySlot, BetAmount: amount("3000000"), WinAmount: amount("2500000"), OccurredAt: yesterday.Add(16 * time.Hour)},
	}
	if err := models.DB.CreateInBatches(wagers, 200).Error; err != nil {
		stdLog.Fatalf("写入注单失败: %v", err)
	}
	stdLog.Printf("写入注单: %d 条", len(wagers))

	cashEvents := []models.CashEvent{
		{AccountID: &player1.ID, Kind: constants.CashEventKindOnlineDeposit, Amount: amount("2000000"), Status: constants.CashEventStatusCompleted, OccurredAt: yesterday.Add(9 * time.Hour)},
		{AccountID: &player1.ID, Kind: constants.CashEventKindOnlineWithdrawal, Amount: amount("500000"), Status: constants.CashEventStatusCompleted, OccurredAt: yesterday.Add(18 * time.Hour)},
		{AccountID: &player2.ID, Kind: constants.CashEventKindOnlineDeposit, Amount: amount("1000000"), Status: constants.CashEventStatusCompleted, OccurredAt: yesterday.Add(11 * time.Hour)},
		{AccountID: &player2.ID, Kind: constants.CashEventKindOnlineWithdrawal, Amount: amount("800000"), Status: constants.CashEventStatusRejected, OccurredAt: yesterday.Add(19 * time.Hour)},
		{PartnerID: &branch.ID, Kind: constants.CashEventKindPartnerFundingIn, Amount: amount("5000000"), Status: constants.CashEventStatusCompleted, OccurredAt: yesterday.Add(8 * time.Hour)},
	}
	if err := models.DB.CreateInBatches(cashEvents, 200).Error; err != nil {
		stdLog.Fatalf("写入资金流水失败: %v", err)
	}
	stdLog.Printf("写入资金流水: %d 条", len(cashEvents))

	pointEvents := []models.PointEvent{
		{AccountID: player1.ID, Kind: constants.PointEventKindGrant, Amount: amount("50000"), OccurredAt: yesterday.Add(10 * time.Hour)},
		{AccountID: player3.ID, Kind: constants.PointEventKindGrant, Amount: amount("30000"), OccurredAt: yesterday.Add(15 * time.Hour)},
		{AccountID: player3.ID, Kind: constants.PointEventKindReclaim, Amount: amount("10000"), OccurredAt: yesterday.Add(20 * time.Hour)},
	}
	if err := models.DB.CreateInBatches(pointEvents, 200).Error; err != nil {
		stdLog.Fatalf("写入积分流水失败: %v", err)
	}
	stdLog.Printf("写入积分流水: %d 条", len(pointEvents))

	stdLog.Printf("演示数据就绪")
}
