package repository

import (
	"time"

	"github.com/lunatickworker/hybridcasino-sub000/internal/constants"
	"github.com/lunatickworker/hybridcasino-sub000/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashTotals 按事件类别汇总的现金流入流出
type CashTotals struct {
	OnlineDeposit     decimal.Decimal
	OnlineWithdrawal  decimal.Decimal
	ManualDeposit     decimal.Decimal
	ManualWithdrawal  decimal.Decimal
	PartnerFundingIn  decimal.Decimal
	PartnerFundingOut decimal.Decimal
}

// NetDiff 净现金差额：流入合计 - 流出合计
func (t CashTotals) NetDiff() decimal.Decimal {
	in := t.OnlineDeposit.Add(t.ManualDeposit).Add(t.PartnerFundingIn)
	out := t.OnlineWithdrawal.Add(t.ManualWithdrawal).Add(t.PartnerFundingOut)
	return in.Sub(out)
}

// CashEventRepository 现金事件数据访问接口
type CashEventRepository interface {
	SumCompleted(accountIDs []uint, partnerIDs []uint, from, to time.Time) (CashTotals, error)
	List(filter CashEventListFilter) ([]models.CashEvent, int64, error)
	Create(event *models.CashEvent) error
	UpdateStatus(id uint, status string) error
}

// GormCashEventRepository GORM 现金事件仓储
type GormCashEventRepository struct {
	db *gorm.DB
}

// NewCashEventRepository 创建现金事件仓储
func NewCashEventRepository(db *gorm.DB) *GormCashEventRepository {
	return &GormCashEventRepository{db: db}
}

type cashSumRow struct {
	Kind  string
	Total decimal.Decimal
}

// SumCompleted 汇总 [from, to) 内已完成的现金事件
// 只统计已完成状态；拒绝与待处理不计入净现金差额
func (r *GormCashEventRepository) SumCompleted(accountIDs []uint, partnerIDs []uint, from, to time.Time) (CashTotals, error) {
	if len(accountIDs) == 0 && len(partnerIDs) == 0 {
		return CashTotals{}, nil
	}

	query := r.db.Model(&models.CashEvent{}).
		Select("kind, COALESCE(SUM(amount), 0) AS total").
		Where("status = ?", constants.CashEventStatusCompleted).
		Where("occurred_at >= ? AND occurred_at < ?", from, to)

	switch {
	case len(accountIDs) > 0 && len(partnerIDs) > 0:
		query = query.Where("account_id IN ? OR partner_id IN ?", accountIDs, partnerIDs)
	case len(accountIDs) > 0:
		query = query.Where("account_id IN ?", accountIDs)
	default:
		query = query.Where("partner_id IN ?", partnerIDs)
	}

	rows := make([]cashSumRow, 0)
	if err := query.Group("kind").Scan(&rows).Error; err != nil {
		return CashTotals{}, err
	}

	var totals CashTotals
	for _, row := range rows {
		switch row.Kind {
		case constants.CashEventKindOnlineDeposit:
			totals.OnlineDeposit = row.Total
		case constants.CashEventKindOnlineWithdrawal:
			totals.OnlineWithdrawal = row.Total
		case constants.CashEventKindManualDeposit:
			totals.ManualDeposit = row.Total
		case constants.CashEventKindManualWithdrawal:
			totals.ManualWithdrawal = row.Total
		case constants.CashEventKindPartnerFundingIn:
			totals.PartnerFundingIn = row.Total
		case constants.CashEventKindPartnerFundingOut:
			totals.PartnerFundingOut = row.Total
		}
	}
	return totals, nil
}

// List 分页查询现金事件
func (r *GormCashEventRepository) List(filter CashEventListFilter) ([]models.CashEvent, int64, error) {
	query := r.db.Model(&models.CashEvent{})
	if filter.AccountID > 0 {
		query = query.Where("account_id = ?", filter.AccountID)
	}
	if filter.PartnerID > 0 {
		query = query.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
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

	events := make([]models.CashEvent, 0)
	err := applyPagination(query.Order("occurred_at DESC, id DESC"), filter.Page, filter.PageSize).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// Create 写入一条现金事件
func (r *GormCashEventRepository) Create(event *models.CashEvent) error {
	if event == nil {
		return nil
	}
	return r.db.Create(event).Error
}

// UpdateStatus 变更事件状态
func (r *GormCashEventRepository) UpdateStatus(id uint, status string) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.CashEvent{}).Where("id = ?", id).Update("status", status).Error
}
