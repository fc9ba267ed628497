package repository

import (
	"time"

	"github.com/lunatickworker/hybridcasino-sub000/internal/constants"
	"github.com/lunatickworker/hybridcasino-sub000/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WagerTotals 按游戏类别汇总的投注额与派彩额
type WagerTotals struct {
	CasinoBet decimal.Decimal
	CasinoWin decimal.Decimal
	SlotBet   decimal.Decimal
	SlotWin   decimal.Decimal
}

// IsZero 汇总是否为空
func (t WagerTotals) IsZero() bool {
	return t.CasinoBet.IsZero() && t.CasinoWin.IsZero() && t.SlotBet.IsZero() && t.SlotWin.IsZero()
}

// WagerRepository 注单数据访问接口
type WagerRepository interface {
	SumByAccounts(accountIDs []uint, from, to time.Time) (WagerTotals, error)
	List(filter WagerListFilter) ([]models.WagerRecord, int64, error)
	Create(record *models.WagerRecord) error
	CreateBatch(records []models.WagerRecord) error
}

// GormWagerRepository GORM 注单仓储
type GormWagerRepository struct {
	db *gorm.DB
}

// NewWagerRepository 创建注单仓储
func NewWagerRepository(db *gorm.DB) *GormWagerRepository {
	return &GormWagerRepository{db: db}
}

type wagerSumRow struct {
	CasinoBet decimal.Decimal
	CasinoWin decimal.Decimal
	SlotBet   decimal.Decimal
	SlotWin   decimal.Decimal
}

// SumByAccounts 汇总一批账户在 [from, to) 内的注单
// 投注额与派彩额都取绝对值，上游来源偶有负数记账
func (r *GormWagerRepository) SumByAccounts(accountIDs []uint, from, to time.Time) (WagerTotals, error) {
	if len(accountIDs) == 0 {
		return WagerTotals{}, nil
	}

	var row wagerSumRow
	err := r.db.Model(&models.WagerRecord{}).
		Select(
			"COALESCE(SUM(CASE WHEN game_category = ? THEN ABS(bet_amount) ELSE 0 END), 0) AS casino_bet, "+
				"COALESCE(SUM(CASE WHEN game_category = ? THEN ABS(win_amount) ELSE 0 END), 0) AS casino_win, "+
				"COALESCE(SUM(CASE WHEN game_category = ? THEN ABS(bet_amount) ELSE 0 END), 0) AS slot_bet, "+
				"COALESCE(SUM(CASE WHEN game_category = ? THEN ABS(win_amount) ELSE 0 END), 0) AS slot_win",
			constants.GameCategoryCasino, constants.GameCategoryCasino,
			constants.GameCategorySlot, constants.GameCategorySlot,
		).
		Where("account_id IN ?", accountIDs).
		Where("occurred_at >= ? AND occurred_at < ?", from, to).
		Scan(&row).Error
	if err != nil {
		return WagerTotals{}, err
	}
	return WagerTotals{
		CasinoBet: row.CasinoBet,
		CasinoWin: row.CasinoWin,
		SlotBet:   row.SlotBet,
		SlotWin:   row.SlotWin,
	}, nil
}

// List 分页查询注单
func (r *GormWagerRepository) List(filter WagerListFilter) ([]models.WagerRecord, int64, error) {
	query := r.db.Model(&models.WagerRecord{})
	if filter.AccountID > 0 {
		query = query.Where("account_id = ?", filter.AccountID)
	}
	if filter.GameCategory != "" {
		query = query.Where("game_category = ?", filter.GameCategory)
	}
	if filter.OccurredFrom != nil {
		query = query.Where("occurred_at >= ?", *filter.OccurredFrom)
	}
	if filter.OccurredTo != nil {
		query = query.Where("occurred_at < ?", *filter.OccurredTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	records := make([]models.WagerRecord, 0)
	err := applyPagination(query.Order("occurred_at DESC, id DESC"), filter.Page, filter.PageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Create 写入一条注单
func (r *GormWagerRepository) Create(record *models.WagerRecord) error {
	if record == nil {
		return nil
	}
	return r.db.Create(record).Error
}

// CreateBatch 批量写入注单
func (r *GormWagerRepository) CreateBatch(records []models.WagerRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.CreateInBatches(records, 200).Error
}
