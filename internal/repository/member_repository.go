package repository

import (
	"errors"
	"strings"

	"github.com/lunatickworker/hybridcasino-sub000/internal/models"

	"gorm.io/gorm"
)

// MemberRepository 会员数据访问接口
type MemberRepository interface {
	GetByID(id uint) (*models.MemberAccount, error)
	ListAll() ([]models.MemberAccount, error)
	ListByReferrer(partnerID uint) ([]models.MemberAccount, error)
	List(filter MemberListFilter) ([]models.MemberAccount, int64, error)
	Create(member *models.MemberAccount) error
	Update(member *models.MemberAccount) error
}

// GormMemberRepository GORM 会员仓储
type GormMemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository 创建会员仓储
func NewMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// GetByID 按ID获取会员
func (r *GormMemberRepository) GetByID(id uint) (*models.MemberAccount, error) {
	if id == 0 {
		return nil, nil
	}
	var member models.MemberAccount
	if err := r.db.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// ListAll 获取全部会员（构建层级索引用）
func (r *GormMemberRepository) ListAll() ([]models.MemberAccount, error) {
	members := make([]models.MemberAccount, 0)
	if err := r.db.Order("id ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListByReferrer 获取某代理直属会员
func (r *GormMemberRepository) ListByReferrer(partnerID uint) ([]models.MemberAccount, error) {
	if partnerID == 0 {
		return []models.MemberAccount{}, nil
	}
	members := make([]models.MemberAccount, 0)
	if err := r.db.Where("referrer_partner_id = ?", partnerID).Order("id ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// List 分页查询会员列表
func (r *GormMemberRepository) List(filter MemberListFilter) ([]models.MemberAccount, int64, error) {
	query := r.db.Model(&models.MemberAccount{})
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		query = query.Where("username "+likeOperator(r.db)+" ?", "%"+keyword+"%")
	}
	if filter.ReferrerPartnerID > 0 {
		query = query.Where("referrer_partner_id = ?", filter.ReferrerPartnerID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	members := make([]models.MemberAccount, 0)
	err := applyPagination(query.Order("id ASC"), filter.Page, filter.PageSize).
		Find(&members).Error
	if err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

// Create 创建会员
func (r *GormMemberRepository) Create(member *models.MemberAccount) error {
	if member == nil {
		return nil
	}
	return r.db.Create(member).Error
}

// Update 更新会员
func (r *GormMemberRepository) Update(member *models.MemberAccount) error {
	if member == nil || member.ID == 0 {
		return nil
	}
	return r.db.Save(member).Error
}
