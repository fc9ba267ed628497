package service

import "errors"

// 业务层统一错误，处理器据此映射响应码
var (
	// ErrNotFound 资源不存在
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials 账号或密码错误
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidPassword 原密码不正确
	ErrInvalidPassword = errors.New("invalid password")
	// ErrWeakPassword 密码不符合强度策略
	ErrWeakPassword = errors.New("weak password")
	// ErrAccountDisabled 账号已停用
	ErrAccountDisabled = errors.New("account disabled")
	// ErrPartnerNotFound 代理节点不存在
	ErrPartnerNotFound = errors.New("partner not found")
	// ErrPartnerUsernameTaken 代理账号已被占用
	ErrPartnerUsernameTaken = errors.New("partner username already taken")
	// ErrPartnerLevelExceeded 超出组织层级上限
	ErrPartnerLevelExceeded = errors.New("partner level exceeded")
	// ErrRateOutOfRange 佣金比例超出 0-100
	ErrRateOutOfRange = errors.New("commission rate out of range")
	// ErrUsernameRequired 账号不能为空
	ErrUsernameRequired = errors.New("username required")
	// ErrStatusInvalid 状态取值非法
	ErrStatusInvalid = errors.New("invalid status")

	// ErrHierarchyCycle 组织树存在环，属配置级故障，不可重试
	ErrHierarchyCycle = errors.New("hierarchy contains a cycle")
	// ErrHierarchyBrokenParent 上级代理指向不存在的节点
	ErrHierarchyBrokenParent = errors.New("hierarchy parent reference is broken")

	// ErrSettlementDataUnavailable 结算数据暂不可用，可重试
	ErrSettlementDataUnavailable = errors.New("settlement data unavailable")
	// ErrDateRangeInvalid 结算区间非法
	ErrDateRangeInvalid = errors.New("date range invalid")
	// ErrPaddingConfigInvalid 垫付扣减配置非法
	ErrPaddingConfigInvalid = errors.New("padding cut config invalid")

	// ErrVisibilityDenied 请求的节点不在调用方可见范围内
	ErrVisibilityDenied = errors.New("node outside visibility scope")
)
