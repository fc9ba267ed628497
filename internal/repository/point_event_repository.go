package repository

import (
	"time"

	"github.com/lunatickworker/hybridcasino-sub000/internal/constants"
	"github.com/lunatickworker/hybridcasino-sub000/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PointTotals 积分发放与回收汇总
type PointTotals struct {
	Granted   decimal.Decimal
	Reclaimed decimal.Decimal
}

// PointEventRepository 积分事件数据访问接口
type PointEventRepository interface {
	SumByAccounts(accountIDs []uint, from, to time.Time) (PointTotals, error)
	List(filter PointEventListFilter) ([]models.PointEvent, int64, error)
	Create(event *models.PointEvent) error
}

// GormPointEventRepository GORM 积分事件仓储
type GormPointEventRepository struct {
	db *gorm.DB
}

// NewPointEventRepository 创建积分事件仓储
func NewPointEventRepository(db *gorm.DB) *GormPointEventRepository {
	return &GormPointEventRepository{db: db}
}

// SumByAccounts 汇总一批账户在 [from, to) 内的积分流水
func (r *GormPointEventRepository) SumByAccounts(accountIDs []uint, from, to time.Time) (PointTotals, error) {
	if len(accountIDs) == 0 {
		return PointTotals{}, nil
	}

	var row struct {
		Granted   decimal.Decimal
		Reclaimed decimal.Decimal
	}
	err := r.db.Model(&models.PointEvent{}).
		Select(
			"COALESCE(SUM(CASE WHEN kind = ? THEN amount ELSE 0 END), 0) AS granted, "+
				"COALESCE(SUM(CASE WHEN kind = ? THEN amount ELSE 0 END), 0) AS reclaimed",
			constants.PointEventKindGrant, constants.PointEventKindReclaim,
		).
		Where("account_id IN ?", accountIDs).
		Where("occurred_at >= ? AND occurred_at < ?", from, to).
		Scan(&row).Error
	if err != nil {
		return PointTotals{}, err
	}
	return PointTotals{Granted: row.Granted, Reclaimed: row.Reclaimed}, nil
}

// List 分页查询积分事件
func (r *GormPointEventRepository) List(filter PointEventListFilter) ([]models.PointEvent, int64, error) {
	query := r.db.Model(&models.PointEvent{})
	if filter.AccountID > 0 {
		query = query.Where("account_id = ?", filter.AccountID)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
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

	events := make([]models.PointEvent, 0)
	err := applyPagination(query.Order("occurred_at DESC, id DESC"), filter.Page, filter.PageSize).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// Create 写入一条积分事件
func (r *GormPointEventRepository) Create(event *models.PointEvent) error {
	if event == nil {
		return nil
	}
	return r.db.Create(event).Error
}
