package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lunatickworker/hybridcasino-sub000/internal/models"

	"gorm.io/gorm"
)

// PartnerRepository 代理数据访问接口
type PartnerRepository interface {
	GetByID(id uint) (*models.Partner, error)
	GetByUsername(username string) (*models.Partner, error)
	ListAll() ([]models.Partner, error)
	ListByParent(parentID uint) ([]models.Partner, error)
	List(filter PartnerListFilter) ([]models.Partner, int64, error)
	Create(partner *models.Partner) error
	Update(partner *models.Partner) error
}

// GormPartnerRepository GORM 代理仓储
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository 创建代理仓储
func NewPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// GetByID 按ID获取代理
func (r *GormPartnerRepository) GetByID(id uint) (*models.Partner, error) {
	if id == 0 {
		return nil, nil
	}
	var partner models.Partner
	if err := r.db.First(&partner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &partner, nil
}

// GetByUsername 按账号获取代理
func (r *GormPartnerRepository) GetByUsername(username string) (*models.Partner, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return nil, nil
	}
	var partner models.Partner
	if err := r.db.Where("username = ?", trimmed).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &partner, nil
}

// ListAll 获取全部代理（构建层级索引用）
func (r *GormPartnerRepository) ListAll() ([]models.Partner, error) {
	partners := make([]models.Partner, 0)
	if err := r.db.Order("id ASC").Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

// ListByParent 获取直属下级代理
func (r *GormPartnerRepository) ListByParent(parentID uint) ([]models.Partner, error) {
	partners := make([]models.Partner, 0)
	if err := r.db.Where("parent_id = ?", parentID).Order("id ASC").Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

// List 分页查询代理列表
func (r *GormPartnerRepository) List(filter PartnerListFilter) ([]models.Partner, int64, error) {
	query := r.db.Model(&models.Partner{})
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		op := likeOperator(r.db)
		query = query.Where(fmt.Sprintf("username %s ? OR name %s ?", op, op), like, like)
	}
	if filter.Level > 0 {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.ParentID > 0 {
		query = query.Where("parent_id = ?", filter.ParentID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	partners := make([]models.Partner, 0)
	err := applyPagination(query.Order("level ASC, id ASC"), filter.Page, filter.PageSize).
		Find(&partners).Error
	if err != nil {
		return nil, 0, err
	}
	return partners, total, nil
}

// Create 创建代理
func (r *GormPartnerRepository) Create(partner *models.Partner) error {
	if partner == nil {
		return nil
	}
	return r.db.Create(partner).Error
}

// Update 更新代理
func (r *GormPartnerRepository) Update(partner *models.Partner) error {
	if partner == nil || partner.ID == 0 {
		return nil
	}
	return r.db.Save(partner).Error
}
