package repository

import (
	"errors"
	"time"

	"github.com/lunatickworker/hybridcasino-sub000/internal/models"

	"gorm.io/gorm"
)

// AdminRepository 运营账号数据访问接口
type AdminRepository interface {
	GetByID(id uint) (*models.Admin, error)
	GetByUsername(username string) (*models.Admin, error)
	Create(admin *models.Admin) error
	UpdatePassword(id uint, passwordHash string) error
	BumpTokenVersion(id uint) error
	TouchLastLogin(id uint) error
}

// GormAdminRepository GORM 运营账号仓储
type GormAdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository 创建运营账号仓储
func NewAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// GetByID 按ID获取账号
func (r *GormAdminRepository) GetByID(id uint) (*models.Admin, error) {
	if id == 0 {
		return nil, nil
	}
	var admin models.Admin
	if err := r.db.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// GetByUsername 按账号名获取账号
func (r *GormAdminRepository) GetByUsername(username string) (*models.Admin, error) {
	if username == "" {
		return nil, nil
	}
	var admin models.Admin
	if err := r.db.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// Create 创建账号
func (r *GormAdminRepository) Create(admin *models.Admin) error {
	if admin == nil {
		return nil
	}
	return r.db.Create(admin).Error
}

// UpdatePassword 更新密码哈希并递增 Token 版本
func (r *GormAdminRepository) UpdatePassword(id uint, passwordHash string) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Admin{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"token_version": gorm.Expr("token_version + 1"),
	}).Error
}

// BumpTokenVersion 递增 Token 版本，使已签发令牌全部失效
func (r *GormAdminRepository) BumpTokenVersion(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Admin{}).Where("id = ?", id).
		Update("token_version", gorm.Expr("token_version + 1")).Error
}

// TouchLastLogin 记录最后登录时间
func (r *GormAdminRepository) TouchLastLogin(id uint) error {
	if id == 0 {
		return nil
	}
	now := time.Now()
	return r.db.Model(&models.Admin{}).Where("id = ?", id).Update("last_login_at", &now).Error
}
