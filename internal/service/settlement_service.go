package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lunatickworker/hybridcasino-sub000/internal/cache"
	"github.com/lunatickworker/hybridcasino-sub000/internal/config"
	"github.com/lunatickworker/hybridcasino-sub000/internal/constants"
	"github.com/lunatickworker/hybridcasino-sub000/internal/logger"
	"github.com/lunatickworker/hybridcasino-sub000/internal/models"
	"github.com/lunatickworker/hybridcasino-sub000/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// SettlementRow 单个节点在结算区间内的结算结果
// 整行按需派生，重算时整行替换，从不就地修改
type SettlementRow struct {
	NodeType    string    `json:"node_type"`              // partner / member
	NodeID      uint      `json:"node_id"`                // 代理ID或会员ID
	Username    string    `json:"username"`               // 账号
	Name        string    `json:"name"`                   // 名称
	Level       int       `json:"level"`                  // 组织层级（会员为 0）
	ParentID    *uint     `json:"parent_id,omitempty"`    // 上级代理ID
	HasChildren bool      `json:"has_children"`           // 是否存在下级
	RangeStart  time.Time `json:"range_start"`            // 结算区间起（含）
	RangeEnd    time.Time `json:"range_end"`              // 结算区间止（不含）

	CasinoBet models.Money `json:"casino_bet"` // 子树赌场投注额
	CasinoWin models.Money `json:"casino_win"` // 子树赌场派彩额
	SlotBet   models.Money `json:"slot_bet"`   // 子树老虎机投注额
	SlotWin   models.Money `json:"slot_win"`   // 子树老虎机派彩额

	AggregateCasinoRolling models.Money `json:"aggregate_casino_rolling"` // 赌场滚动佣金（按本节点比例）
	AggregateSlotRolling   models.Money `json:"aggregate_slot_rolling"`   // 老虎机滚动佣金
	AggregateCasinoLosing  models.Money `json:"aggregate_casino_losing"`  // 赌场负佣金
	AggregateSlotLosing    models.Money `json:"aggregate_slot_losing"`    // 老虎机负佣金

	AggregateRolling  models.Money `json:"aggregate_rolling"`  // 滚动佣金合计（毛额）
	AggregateLosing   models.Money `json:"aggregate_losing"`   // 负佣金合计
	IndividualRolling models.Money `json:"individual_rolling"` // 本层独享滚动佣金（合计减直接下级合计）
	IndividualLosing  models.Money `json:"individual_losing"`  // 本层独享负佣金
	PaddingCutAmount  models.Money `json:"padding_cut_amount"` // 垫付扣减额（与毛额并列展示）
	NetCashDiff       models.Money `json:"net_cash_diff"`      // 净现金差额（仅直属账户，不向上汇聚）

	Balance        models.Money `json:"balance"`         // 当前余额
	PointBalance   models.Money `json:"point_balance"`   // 当前积分余额
	PointGranted   models.Money `json:"point_granted"`   // 区间内积分发放
	PointReclaimed models.Money `json:"point_reclaimed"` // 区间内积分回收
}

// SettlementService 结算引擎
type SettlementService struct {
	partnerRepo    repository.PartnerRepository
	memberRepo     repository.MemberRepository
	wagerRepo      repository.WagerRepository
	cashRepo       repository.CashEventRepository
	pointRepo      repository.PointEventRepository
	settingService *SettingService

	workerCount    int
	requestTimeout time.Duration
	cacheTTL       time.Duration
}

// NewSettlementService 创建结算引擎
func NewSettlementService(
	partnerRepo repository.PartnerRepository,
	memberRepo repository.MemberRepository,
	wagerRepo repository.WagerRepository,
	cashRepo repository.CashEventRepository,
	pointRepo repository.PointEventRepository,
	settingService *SettingService,
	cfg *config.SettlementConfig,
) *SettlementService {
	s := &SettlementService{
		partnerRepo:    partnerRepo,
		memberRepo:     memberRepo,
		wagerRepo:      wagerRepo,
		cashRepo:       cashRepo,
		pointRepo:      pointRepo,
		settingService: settingService,
		workerCount:    8,
		requestTimeout: 30 * time.Second,
		cacheTTL:       5 * time.Minute,
	}
	if cfg != nil {
		if cfg.WorkerCount > 0 {
			s.workerCount = cfg.WorkerCount
		}
		if cfg.RequestTimeoutSeconds > 0 {
			s.requestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
		}
		s.cacheTTL = time.Duration(cfg.CacheTTLSeconds) * time.Second
	}
	return s
}

// ComputeSettlement 计算可见子树在 [from, to) 区间的全部结算行
// callerPartnerID 为 0 表示不限组织范围（超级管理员）
// 同一输入与同一配置版本下重复调用结果完全一致
func (s *SettlementService) ComputeSettlement(ctx context.Context, callerPartnerID uint, from, to time.Time) ([]SettlementRow, error) {
	if from.IsZero() || to.IsZero() || !from.Before(to) {
		return nil, fmt.Errorf("%w: [%s, %s)", ErrDateRangeInvalid, from.Format(time.RFC3339), to.Format(time.RFC3339))
	}

	paddingCfg, err := s.settingService.GetPaddingCutSetting()
	if err != nil {
		return nil, fmt.Errorf("load padding cut config: %v: %w", err, ErrSettlementDataUnavailable)
	}

	cacheKey := cache.SettlementRowsKey(callerPartnerID, from, to, paddingCfg.Version)
	cached := make([]SettlementRow, 0)
	if hit, cacheErr := cache.GetSettlementRows(ctx, cacheKey, &cached); cacheErr != nil {
		logger.Warnw("settlement_cache_read_failed", "key", cacheKey, "error", cacheErr)
	} else if hit {
		return cached, nil
	}

	partners, err := s.partnerRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("load partners: %v: %w", err, ErrSettlementDataUnavailable)
	}
	members, err := s.memberRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("load members: %v: %w", err, ErrSettlementDataUnavailable)
	}

	// 组织树解析失败是配置级故障，原样上抛，不产出部分结果
	idx, err := BuildHierarchyIndex(partners, members)
	if err != nil {
		return nil, err
	}

	scopeRoots, err := ResolveVisibleRoots(idx, callerPartnerID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	rows, err := s.computeRows(ctx, idx, scopeRoots, paddingCfg, from, to)
	if err != nil {
		return nil, err
	}

	if s.cacheTTL > 0 {
		if cacheErr := cache.SetSettlementRows(context.WithoutCancel(ctx), cacheKey, rows, s.cacheTTL); cacheErr != nil {
			logger.Warnw("settlement_cache_write_failed", "key", cacheKey, "error", cacheErr)
		}
	}
	return rows, nil
}

// leafFigures 叶子级汇总的原始数据
type leafFigures struct {
	wagers repository.WagerTotals
	cash   repository.CashTotals
	points repository.PointTotals
}

// partnerAcc 折叠过程中代理节点的累计状态
type partnerAcc struct {
	pooled  repository.WagerTotals
	figures CommissionFigures
	cash    repository.CashTotals
	points  repository.PointTotals

	childRolling decimal.Decimal // 直接下级（代理+直属会员）滚动佣金合计
	childLosing  decimal.Decimal // 直接下级负佣金合计
}

func (s *SettlementService) computeRows(ctx context.Context, idx *HierarchyIndex, scopeRoots []uint, paddingCfg PaddingCutConfig, from, to time.Time) ([]SettlementRow, error) {
	visible := make([]uint, 0, idx.PartnerCount())
	var collect func(partnerID uint)
	collect = func(partnerID uint) {
		visible = append(visible, partnerID)
		for _, child := range idx.DirectChildrenOf(partnerID) {
			collect(child)
		}
	}
	for _, root := range scopeRoots {
		collect(root)
	}

	memberLeaf := make(map[uint]*leafFigures)
	partnerCash := make(map[uint]*repository.CashTotals)
	for _, partnerID := range visible {
		partnerCash[partnerID] = &repository.CashTotals{}
		for _, m := range idx.DirectMembersOf(partnerID) {
			memberLeaf[m.ID] = &leafFigures{}
		}
	}

	// 叶子级汇总无数据依赖，按配置并发度并行执行
	// 单个叶子查询失败按零值处理并告警，超时则整体失败
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerCount)
	for _, partnerID := range visible {
		partnerID := partnerID
		dest := partnerCash[partnerID]
		memberIDs := memberAccountIDs(idx.DirectMembersOf(partnerID))
		g.Go(func() error {
			totals, err := s.cashRepo.SumCompleted(memberIDs, []uint{partnerID}, from, to)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warnw("settlement_partner_cash_failed", "partner_id", partnerID, "error", err)
				return nil
			}
			*dest = totals
			return nil
		})

		for _, m := range idx.DirectMembersOf(partnerID) {
			memberID := m.ID
			leaf := memberLeaf[memberID]
			g.Go(func() error {
				return s.fetchMemberLeaf(gctx, memberID, leaf, from, to)
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("leaf aggregation: %v: %w", err, ErrSettlementDataUnavailable)
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("settlement timed out: %w", ErrSettlementDataUnavailable)
	}

	// 自底向上折叠：子节点先于父节点，父节点用汇聚投注量按自身比例计佣
	accs := make(map[uint]*partnerAcc, len(visible))
	var fold func(partnerID uint) *partnerAcc
	fold = func(partnerID uint) *partnerAcc {
		node := idx.NodeByID(partnerID)
		acc := &partnerAcc{cash: *partnerCash[partnerID]}

		for _, m := range idx.DirectMembersOf(partnerID) {
			leaf := memberLeaf[m.ID]
			acc.pooled = addWagerTotals(acc.pooled, leaf.wagers)
			acc.points.Granted = acc.points.Granted.Add(leaf.points.Granted)
			acc.points.Reclaimed = acc.points.Reclaimed.Add(leaf.points.Reclaimed)

			memberFigures := ComputeCommission(
				leaf.wagers.CasinoBet, leaf.wagers.CasinoWin,
				leaf.wagers.SlotBet, leaf.wagers.SlotWin,
				RatesOfMember(m, node.Partner),
			)
			acc.childRolling = acc.childRolling.Add(memberFigures.TotalRolling())
			acc.childLosing = acc.childLosing.Add(memberFigures.TotalLosing())
		}

		for _, childID := range idx.DirectChildrenOf(partnerID) {
			child := fold(childID)
			acc.pooled = addWagerTotals(acc.pooled, child.pooled)
			acc.childRolling = acc.childRolling.Add(child.figures.TotalRolling())
			acc.childLosing = acc.childLosing.Add(child.figures.TotalLosing())
		}

		acc.figures = ComputeCommission(
			acc.pooled.CasinoBet, acc.pooled.CasinoWin,
			acc.pooled.SlotBet, acc.pooled.SlotWin,
			RatesOfPartner(node.Partner),
		)
		accs[partnerID] = acc
		return acc
	}
	for _, root := range scopeRoots {
		fold(root)
	}

	// 先序输出：代理行在前，直属会员行随后，再进入下级子树
	rows := make([]SettlementRow, 0, len(visible)+idx.MemberCount())
	var emit func(partnerID uint)
	emit = func(partnerID uint) {
		node := idx.NodeByID(partnerID)
		acc := accs[partnerID]
		rows = append(rows, s.buildPartnerRow(node, acc, paddingCfg, from, to))
		for _, m := range idx.DirectMembersOf(partnerID) {
			rows = append(rows, s.buildMemberRow(m, node.Partner, memberLeaf[m.ID], from, to))
		}
		for _, child := range idx.DirectChildrenOf(partnerID) {
			emit(child)
		}
	}
	for _, root := range scopeRoots {
		emit(root)
	}
	return rows, nil
}

func (s *SettlementService) fetchMemberLeaf(ctx context.Context, memberID uint, dest *leafFigures, from, to time.Time) error {
	accountIDs := []uint{memberID}

	wagers, err := s.wagerRepo.SumByAccounts(accountIDs, from, to)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warnw("settlement_member_wagers_failed", "member_id", memberID, "error", err)
		wagers = repository.WagerTotals{}
	}
	cash, err := s.cashRepo.SumCompleted(accountIDs, nil, from, to)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warnw("settlement_member_cash_failed", "member_id", memberID, "error", err)
		cash = repository.CashTotals{}
	}
	points, err := s.pointRepo.SumByAccounts(accountIDs, from, to)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warnw("settlement_member_points_failed", "member_id", memberID, "error", err)
		points = repository.PointTotals{}
	}

	dest.wagers = wagers
	dest.cash = cash
	dest.points = points
	return nil
}

func (s *SettlementService) buildPartnerRow(node *HierarchyNode, acc *partnerAcc, paddingCfg PaddingCutConfig, from, to time.Time) SettlementRow {
	p := node.Partner
	figures := acc.figures

	aggregateRolling := figures.TotalRolling()
	aggregateLosing := figures.TotalLosing()

	return SettlementRow{
		NodeType:    constants.SettlementNodeTypePartner,
		NodeID:      p.ID,
		Username:    p.Username,
		Name:        p.Name,
		Level:       p.Level,
		ParentID:    p.ParentID,
		HasChildren: len(node.ChildIdxs) > 0 || len(node.MemberIdxs) > 0,
		RangeStart:  from,
		RangeEnd:    to,

		CasinoBet: models.NewMoneyFromDecimal(figures.CasinoBet),
		CasinoWin: models.NewMoneyFromDecimal(figures.CasinoWin),
		SlotBet:   models.NewMoneyFromDecimal(figures.SlotBet),
		SlotWin:   models.NewMoneyFromDecimal(figures.SlotWin),

		AggregateCasinoRolling: models.NewMoneyFromDecimal(figures.CasinoRolling),
		AggregateSlotRolling:   models.NewMoneyFromDecimal(figures.SlotRolling),
		AggregateCasinoLosing:  models.NewMoneyFromDecimal(figures.CasinoLosing),
		AggregateSlotLosing:    models.NewMoneyFromDecimal(figures.SlotLosing),

		AggregateRolling:  models.NewMoneyFromDecimal(aggregateRolling),
		AggregateLosing:   models.NewMoneyFromDecimal(aggregateLosing),
		IndividualRolling: models.NewMoneyFromDecimal(aggregateRolling.Sub(acc.childRolling)),
		IndividualLosing:  models.NewMoneyFromDecimal(aggregateLosing.Sub(acc.childLosing)),
		PaddingCutAmount:  models.NewMoneyFromDecimal(paddingCfg.CutRolling(aggregateRolling, p.Level)),
		NetCashDiff:       models.NewMoneyFromDecimal(acc.cash.NetDiff()),

		Balance:        p.Balance,
		PointBalance:   p.PointBalance,
		PointGranted:   models.NewMoneyFromDecimal(acc.points.Granted),
		PointReclaimed: models.NewMoneyFromDecimal(acc.points.Reclaimed),
	}
}

func (s *SettlementService) buildMemberRow(m models.MemberAccount, referrer models.Partner, leaf *leafFigures, from, to time.Time) SettlementRow {
	figures := ComputeCommission(
		leaf.wagers.CasinoBet, leaf.wagers.CasinoWin,
		leaf.wagers.SlotBet, leaf.wagers.SlotWin,
		RatesOfMember(m, referrer),
	)

	referrerID := m.ReferrerPartnerID
	return SettlementRow{
		NodeType:    constants.SettlementNodeTypeMember,
		NodeID:      m.ID,
		Username:    m.Username,
		Name:        m.Username,
		Level:       constants.PartnerLevelMember,
		ParentID:    &referrerID,
		HasChildren: false,
		RangeStart:  from,
		RangeEnd:    to,

		CasinoBet: models.NewMoneyFromDecimal(figures.CasinoBet),
		CasinoWin: models.NewMoneyFromDecimal(figures.CasinoWin),
		SlotBet:   models.NewMoneyFromDecimal(figures.SlotBet),
		SlotWin:   models.NewMoneyFromDecimal(figures.SlotWin),

		AggregateCasinoRolling: models.NewMoneyFromDecimal(figures.CasinoRolling),
		AggregateSlotRolling:   models.NewMoneyFromDecimal(figures.SlotRolling),
		AggregateCasinoLosing:  models.NewMoneyFromDecimal(figures.CasinoLosing),
		AggregateSlotLosing:    models.NewMoneyFromDecimal(figures.SlotLosing),

		AggregateRolling:  models.NewMoneyFromDecimal(figures.TotalRolling()),
		AggregateLosing:   models.NewMoneyFromDecimal(figures.TotalLosing()),
		IndividualRolling: models.NewMoneyFromDecimal(figures.TotalRolling()),
		IndividualLosing:  models.NewMoneyFromDecimal(figures.TotalLosing()),
		PaddingCutAmount:  models.ZeroMoney(),
		NetCashDiff:       models.NewMoneyFromDecimal(leaf.cash.NetDiff()),

		Balance:        m.Balance,
		PointBalance:   m.PointBalance,
		PointGranted:   models.NewMoneyFromDecimal(leaf.points.Granted),
		PointReclaimed: models.NewMoneyFromDecimal(leaf.points.Reclaimed),
	}
}

func addWagerTotals(a, b repository.WagerTotals) repository.WagerTotals {
	return repository.WagerTotals{
		CasinoBet: a.CasinoBet.Add(b.CasinoBet),
		CasinoWin: a.CasinoWin.Add(b.CasinoWin),
		SlotBet:   a.SlotBet.Add(b.SlotBet),
		SlotWin:   a.SlotWin.Add(b.SlotWin),
	}
}

func memberAccountIDs(members []models.MemberAccount) []uint {
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	return ids
}

// IsConfigurationError 是否为组织配置类故障（不可重试）
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrHierarchyCycle) || errors.Is(err, ErrHierarchyBrokenParent)
}

// IsRetryable 是否为可重试的临时故障
func IsRetryable(err error) bool {
	return errors.Is(err, ErrSettlementDataUnavailable)
}
