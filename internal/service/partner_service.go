package service

import (
	"fmt"
	"strings"

	"github.com/lunatickworker/hybridcasino-sub000/internal/constants"
	"github.com/lunatickworker/hybridcasino-sub000/internal/models"
	"github.com/lunatickworker/hybridcasino-sub000/internal/repository"

	"github.com/shopspring/decimal"
)

// PartnerService 代理组织目录服务
type PartnerService struct {
	partnerRepo repository.PartnerRepository
	memberRepo  repository.MemberRepository
}

// NewPartnerService 创建代理目录服务
func NewPartnerService(partnerRepo repository.PartnerRepository, memberRepo repository.MemberRepository) *PartnerService {
	return &PartnerService{
		partnerRepo: partnerRepo,
		memberRepo:  memberRepo,
	}
}

// CreatePartnerInput 创建代理的输入
type CreatePartnerInput struct {
	Username         string
	Name             string
	ParentID         *uint
	CasinoRollingPct models.Money
	CasinoLosingPct  models.Money
	SlotRollingPct   models.Money
	SlotLosingPct    models.Money
}

// CreatePartner 创建代理节点
// 层级由上级决定：根节点为 1，否则为上级层级加一，超出 6 级拒绝
func (s *PartnerService) CreatePartner(input CreatePartnerInput) (*models.Partner, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	existing, err := s.partnerRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPartnerUsernameTaken
	}

	level := constants.PartnerLevelMin
	if input.ParentID != nil && *input.ParentID != 0 {
		parent, err := s.partnerRepo.GetByID(*input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fmt.Errorf("parent %d: %w", *input.ParentID, ErrPartnerNotFound)
		}
		level = parent.Level + 1
		if level > constants.PartnerLevelMax {
			return nil, fmt.Errorf("%w: 上级已是 %d 级", ErrPartnerLevelExceeded, parent.Level)
		}
	}

	rates := []models.Money{input.CasinoRollingPct, input.CasinoLosingPct, input.SlotRollingPct, input.SlotLosingPct}
	for _, rate := range rates {
		if err := validateRate(rate.Decimal); err != nil {
			return nil, err
		}
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = username
	}

	partner := &models.Partner{
		Username:         username,
		Name:             name,
		Level:            level,
		ParentID:         input.ParentID,
		CasinoRollingPct: input.CasinoRollingPct,
		CasinoLosingPct:  input.CasinoLosingPct,
		SlotRollingPct:   input.SlotRollingPct,
		SlotLosingPct:    input.SlotLosingPct,
		Status:           constants.PartnerStatusActive,
	}
	if err := s.partnerRepo.Create(partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// UpdatePartnerRatesInput 更新代理佣金比例的输入，空字段表示不修改
type UpdatePartnerRatesInput struct {
	CasinoRollingPct *models.Money
	CasinoLosingPct  *models.Money
	SlotRollingPct   *models.Money
	SlotLosingPct    *models.Money
}

// UpdatePartnerRates 更新代理佣金比例
func (s *PartnerService) UpdatePartnerRates(partnerID uint, input UpdatePartnerRatesInput) (*models.Partner, error) {
	partner, err := s.partnerRepo.GetByID(partnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, fmt.Errorf("partner %d: %w", partnerID, ErrPartnerNotFound)
	}

	apply := func(dest *models.Money, src *models.Money) error {
		if src == nil {
			return nil
		}
		if err := validateRate(src.Decimal); err != nil {
			return err
		}
		*dest = *src
		return nil
	}
	if err := apply(&partner.CasinoRollingPct, input.CasinoRollingPct); err != nil {
		return nil, err
	}
	if err := apply(&partner.CasinoLosingPct, input.CasinoLosingPct); err != nil {
		return nil, err
	}
	if err := apply(&partner.SlotRollingPct, input.SlotRollingPct); err != nil {
		return nil, err
	}
	if err := apply(&partner.SlotLosingPct, input.SlotLosingPct); err != nil {
		return nil, err
	}

	if err := s.partnerRepo.Update(partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// UpdatePartnerStatus 启用或停用代理
func (s *PartnerService) UpdatePartnerStatus(partnerID uint, status string) (*models.Partner, error) {
	if status != constants.PartnerStatusActive && status != constants.PartnerStatusDisabled {
		return nil, fmt.Errorf("%w: %q", ErrStatusInvalid, status)
	}
	partner, err := s.partnerRepo.GetByID(partnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, fmt.Errorf("partner %d: %w", partnerID, ErrPartnerNotFound)
	}
	partner.Status = status
	if err := s.partnerRepo.Update(partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// GetPartner 获取代理详情
func (s *PartnerService) GetPartner(partnerID uint) (*models.Partner, error) {
	partner, err := s.partnerRepo.GetByID(partnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, fmt.Errorf("partner %d: %w", partnerID, ErrPartnerNotFound)
	}
	return partner, nil
}

// ListPartners 分页查询代理列表
func (s *PartnerService) ListPartners(filter repository.PartnerListFilter) ([]models.Partner, int64, error) {
	return s.partnerRepo.List(filter)
}

// CreateMemberInput 创建会员的输入
type CreateMemberInput struct {
	Username          string
	ReferrerPartnerID uint
	CasinoRollingPct  *models.Money
	CasinoLosingPct   *models.Money
	SlotRollingPct    *models.Money
	SlotLosingPct     *models.Money
}

// CreateMember 创建会员账户，必须挂在已存在的代理之下
func (s *PartnerService) CreateMember(input CreateMemberInput) (*models.MemberAccount, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	referrer, err := s.partnerRepo.GetByID(input.ReferrerPartnerID)
	if err != nil {
		return nil, err
	}
	if referrer == nil {
		return nil, fmt.Errorf("referrer %d: %w", input.ReferrerPartnerID, ErrPartnerNotFound)
	}

	overrides := []*models.Money{input.CasinoRollingPct, input.CasinoLosingPct, input.SlotRollingPct, input.SlotLosingPct}
	for _, rate := range overrides {
		if rate == nil {
			continue
		}
		if err := validateRate(rate.Decimal); err != nil {
			return nil, err
		}
	}

	member := &models.MemberAccount{
		Username:          username,
		ReferrerPartnerID: referrer.ID,
		CasinoRollingPct:  input.CasinoRollingPct,
		CasinoLosingPct:   input.CasinoLosingPct,
		SlotRollingPct:    input.SlotRollingPct,
		SlotLosingPct:     input.SlotLosingPct,
		Status:            constants.MemberStatusActive,
	}
	if err := s.memberRepo.Create(member); err != nil {
		return nil, err
	}
	return member, nil
}

// ListMembers 分页查询会员列表
func (s *PartnerService) ListMembers(filter repository.MemberListFilter) ([]models.MemberAccount, int64, error) {
	return s.memberRepo.List(filter)
}

// validateRate 佣金比例须落在 0-100 之间
func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(oneHundred) {
		return fmt.Errorf("%w: %s", ErrRateOutOfRange, rate.String())
	}
	return nil
}
