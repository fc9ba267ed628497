package service

import (
	"fmt"
	"time"

	"github.com/lunatickworker/hybridcasino-sub000/internal/constants"
	"github.com/lunatickworker/hybridcasino-sub000/internal/models"
	"github.com/lunatickworker/hybridcasino-sub000/internal/repository"
)

// LedgerService 现金与积分流水服务
// 流水只追加不修改，结算引擎只读取 completed 状态的现金事件
type LedgerService struct {
	partnerRepo repository.PartnerRepository
	memberRepo  repository.MemberRepository
	cashRepo    repository.CashEventRepository
	pointRepo   repository.PointEventRepository
	wagerRepo   repository.WagerRepository
}

// NewLedgerService 创建流水服务
func NewLedgerService(
	partnerRepo repository.PartnerRepository,
	memberRepo repository.MemberRepository,
	cashRepo repository.CashEventRepository,
	pointRepo repository.PointEventRepository,
	wagerRepo repository.WagerRepository,
) *LedgerService {
	return &LedgerService{
		partnerRepo: partnerRepo,
		memberRepo:  memberRepo,
		cashRepo:    cashRepo,
		pointRepo:   pointRepo,
		wagerRepo:   wagerRepo,
	}
}

var validCashEventKinds = map[string]bool{
	constants.CashEventKindOnlineDeposit:     true,
	constants.CashEventKindOnlineWithdrawal:  true,
	constants.CashEventKindManualDeposit:     true,
	constants.CashEventKindManualWithdrawal:  true,
	constants.CashEventKindPartnerFundingIn:  true,
	constants.CashEventKindPartnerFundingOut: true,
}

// RecordCashEventInput 记一笔现金事件的输入
// AccountID 与 PartnerID 二选一：会员侧事件挂账户，代理出入金挂代理
type RecordCashEventInput struct {
	AccountID             *uint
	PartnerID             *uint
	CounterpartyPartnerID *uint
	Kind                  string
	Amount                models.Money
	Status                string
	Memo                  string
	OccurredAt            time.Time
}

// RecordCashEvent 记一笔现金事件
func (s *LedgerService) RecordCashEvent(input RecordCashEventInput) (*models.CashEvent, error) {
	if !validCashEventKinds[input.Kind] {
		return nil, fmt.Errorf("%w: 事件类型 %q", ErrStatusInvalid, input.Kind)
	}
	hasAccount := input.AccountID != nil && *input.AccountID != 0
	hasPartner := input.PartnerID != nil && *input.PartnerID != 0
	if hasAccount == hasPartner {
		return nil, fmt.Errorf("%w: 账户与代理须二选一", ErrStatusInvalid)
	}
	if input.Amount.IsNegative() || input.Amount.IsZero() {
		return nil, fmt.Errorf("%w: 金额必须为正", ErrStatusInvalid)
	}

	if hasAccount {
		member, err := s.memberRepo.GetByID(*input.AccountID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, fmt.Errorf("member %d: %w", *input.AccountID, ErrNotFound)
		}
	} else {
		partner, err := s.partnerRepo.GetByID(*input.PartnerID)
		if err != nil {
			return nil, err
		}
		if partner == nil {
			return nil, fmt.Errorf("partner %d: %w", *input.PartnerID, ErrPartnerNotFound)
		}
	}

	status := input.Status
	switch status {
	case "":
		status = constants.CashEventStatusCompleted
	case constants.CashEventStatusCompleted, constants.CashEventStatusRejected, constants.CashEventStatusPending:
	default:
		return nil, fmt.Errorf("%w: 事件状态 %q", ErrStatusInvalid, status)
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	event := &models.CashEvent{
		AccountID:             input.AccountID,
		PartnerID:             input.PartnerID,
		CounterpartyPartnerID: input.CounterpartyPartnerID,
		Kind:                  input.Kind,
		Amount:                input.Amount,
		Status:                status,
		Memo:                  input.Memo,
		OccurredAt:            occurredAt,
	}
	if err := s.cashRepo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

// ResolveCashEvent 审核待处理的现金事件
func (s *LedgerService) ResolveCashEvent(eventID uint, approve bool) error {
	status := constants.CashEventStatusRejected
	if approve {
		status = constants.CashEventStatusCompleted
	}
	return s.cashRepo.UpdateStatus(eventID, status)
}

// ListCashEvents 分页查询现金事件
func (s *LedgerService) ListCashEvents(filter repository.CashEventListFilter) ([]models.CashEvent, int64, error) {
	return s.cashRepo.List(filter)
}

// RecordPointEventInput 记一笔积分流水的输入
type RecordPointEventInput struct {
	AccountID  uint
	Kind       string
	Amount     models.Money
	Memo       string
	OccurredAt time.Time
}

// RecordPointEvent 记一笔积分发放或回收
func (s *LedgerService) RecordPointEvent(input RecordPointEventInput) (*models.PointEvent, error) {
	if input.Kind != constants.PointEventKindGrant && input.Kind != constants.PointEventKindReclaim {
		return nil, fmt.Errorf("%w: 积分类型 %q", ErrStatusInvalid, input.Kind)
	}
	if input.Amount.IsNegative() || input.Amount.IsZero() {
		return nil, fmt.Errorf("%w: 金额必须为正", ErrStatusInvalid)
	}
	member, err := s.memberRepo.GetByID(input.AccountID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, fmt.Errorf("member %d: %w", input.AccountID, ErrNotFound)
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	event := &models.PointEvent{
		AccountID:  input.AccountID,
		Kind:       input.Kind,
		Amount:     input.Amount,
		Memo:       input.Memo,
		OccurredAt: occurredAt,
	}
	if err := s.pointRepo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

// ListPointEvents 分页查询积分流水
func (s *LedgerService) ListPointEvents(filter repository.PointEventListFilter) ([]models.PointEvent, int64, error) {
	return s.pointRepo.List(filter)
}

// IngestWagerInput 注单采集输入
type IngestWagerInput struct {
	AccountID    uint
	GameCategory string
	BetAmount    models.Money
	WinAmount    models.Money
	OccurredAt   time.Time
}

// IngestWagers 批量写入注单
// 上游采集源偶发负数金额，入库时统一取绝对值
func (s *LedgerService) IngestWagers(inputs []IngestWagerInput) (int, error) {
	records := make([]models.WagerRecord, 0, len(inputs))
	for _, input := range inputs {
		if input.AccountID == 0 {
			continue
		}
		if input.GameCategory != constants.GameCategoryCasino && input.GameCategory != constants.GameCategorySlot {
			return 0, fmt.Errorf("%w: 游戏分类 %q", ErrStatusInvalid, input.GameCategory)
		}
		occurredAt := input.OccurredAt
		if occurredAt.IsZero() {
			occurredAt = time.Now()
		}
		records = append(records, models.WagerRecord{
			AccountID:    input.AccountID,
			GameCategory: input.GameCategory,
			BetAmount:    models.NewMoneyFromDecimal(input.BetAmount.Abs()),
			WinAmount:    models.NewMoneyFromDecimal(input.WinAmount.Abs()),
			OccurredAt:   occurredAt,
		})
	}
	if err := s.wagerRepo.CreateBatch(records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ListWagers 分页查询注单
func (s *LedgerService) ListWagers(filter repository.WagerListFilter) ([]models.WagerRecord, int64, error) {
	return s.wagerRepo.List(filter)
}
