package repository

import "time"

// PartnerListFilter 查询代理列表的过滤条件
type PartnerListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Level    int
	ParentID uint
	Status   string
}

// MemberListFilter 查询会员列表的过滤条件
type MemberListFilter struct {
	Page              int
	PageSize          int
	Keyword           string
	ReferrerPartnerID uint
	Status            string
}

// CashEventListFilter 查询资金流水列表的过滤条件
type CashEventListFilter struct {
	Page         int
	PageSize     int
	AccountID    uint
	PartnerID    uint
	Kind         string
	Status       string
	OccurredFrom *time.Time
	OccurredTo   *time.Time
}

// PointEventListFilter 查询积分流水列表的过滤条件
type PointEventListFilter struct {
	Page         int
	PageSize     int
	AccountID    uint
	Kind         string
	OccurredFrom *time.Time
	OccurredTo   *time.Time
}

// WagerListFilter 查询投注记录列表的过滤条件
type WagerListFilter struct {
	Page         int
	PageSize     int
	AccountID    uint
	GameCategory string
	OccurredFrom *time.Time
	OccurredTo   *time.Time
}
