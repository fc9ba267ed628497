package constants

// 代理组织层级常量（1 为系统层，6 为末级代理，会员挂在代理之下）
const (
	PartnerLevelMin = 1
	PartnerLevelMax = 6

	// PartnerLevelMember 会员行的展示层级标记（非组织层级）
	PartnerLevelMember = 0
)

// 代理状态常量
const (
	PartnerStatusActive   = "active"
	PartnerStatusDisabled = "disabled"
)

// 会员状态常量
const (
	MemberStatusActive   = "active"
	MemberStatusDisabled = "disabled"
)

// 游戏分类常量
const (
	GameCategoryCasino = "casino"
	GameCategorySlot   = "slot"
)

// 资金流水类型常量
const (
	CashEventKindOnlineDeposit     = "online_deposit"
	CashEventKindOnlineWithdrawal  = "online_withdrawal"
	CashEventKindManualDeposit     = "manual_deposit"
	CashEventKindManualWithdrawal  = "manual_withdrawal"
	CashEventKindPartnerFundingIn  = "partner_funding_in"
	CashEventKindPartnerFundingOut = "partner_funding_out"
)

// 资金流水状态常量（结算仅统计 completed）
const (
	CashEventStatusCompleted = "completed"
	CashEventStatusRejected  = "rejected"
	CashEventStatusPending   = "pending"
)

// 积分流水类型常量
const (
	PointEventKindGrant   = "grant"
	PointEventKindReclaim = "reclaim"
)

// 结算行节点类型常量
const (
	SettlementNodeTypePartner = "partner"
	SettlementNodeTypeMember  = "member"
)

// 设置键常量
const (
	SettingKeyPaddingCutConfig = "padding_cut_config"
	SettingKeySiteConfig       = "site_config"
)

// 队列与任务常量
const (
	QueueDefault = "default"

	TaskSettlementSnapshot = "settlement:snapshot"
)

// 缓存键前缀常量
const (
	CacheKeySettlementPrefix = "settlement"
	CacheKeyAdminAuthPrefix  = "admin_auth"
)
