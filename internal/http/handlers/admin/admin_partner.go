package admin

import (
	"errors"
	"strconv"

	"github.com/lunatickworker/hybridcasino-sub000/internal/http/response"
	"github.com/lunatickworker/hybridcasino-sub000/internal/models"
	"github.com/lunatickworker/hybridcasino-sub000/internal/repository"
	"github.com/lunatickworker/hybridcasino-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

func parsePathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "ID 非法", err)
		return 0, false
	}
	return uint(id), true
}

// CreatePartnerRequest 创建代理请求
type CreatePartnerRequest struct {
	Username         string       `json:"username" binding:"required"`
	Name             string       `json:"name"`
	ParentID         *uint        `json:"parent_id"`
	CasinoRollingPct models.Money `json:"casino_rolling_pct"`
	CasinoLosingPct  models.Money `json:"casino_losing_pct"`
	SlotRollingPct   models.Money `json:"slot_rolling_pct"`
	SlotLosingPct    models.Money `json:"slot_losing_pct"`
}

// CreatePartner 创建代理节点
func (h *Handler) CreatePartner(c *gin.Context) {
	if !requireSuper(c) {
		return
	}
	var req CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	partner, err := h.PartnerService.CreatePartner(service.CreatePartnerInput{
		Username:         req.Username,
		Name:             req.Name,
		ParentID:         req.ParentID,
		CasinoRollingPct: req.CasinoRollingPct,
		CasinoLosingPct:  req.CasinoLosingPct,
		SlotRollingPct:   req.SlotRollingPct,
		SlotLosingPct:    req.SlotLosingPct,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameRequired),
			errors.Is(err, service.ErrRateOutOfRange),
			errors.Is(err, service.ErrPartnerLevelExceeded):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrPartnerUsernameTaken):
			respondError(c, response.CodeConflict, "代理账号已存在", nil)
		case errors.Is(err, service.ErrPartnerNotFound):
			respondError(c, response.CodeNotFound, "上级代理不存在", nil)
		default:
			respondError(c, response.CodeInternal, "创建失败", err)
		}
		return
	}
	response.Success(c, partner)
}

// GetAdminPartners 查询代理列表
func (h *Handler) GetAdminPartners(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	level, _ := strconv.Atoi(c.Query("level"))
	parentID, _ := strconv.ParseUint(c.Query("parent_id"), 10, 64)

	partners, total, err := h.PartnerService.ListPartners(repository.PartnerListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  c.Query("keyword"),
		Level:    level,
		ParentID: uint(parentID),
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, partners, pagination)
}

// GetAdminPartner 查询代理详情
func (h *Handler) GetAdminPartner(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	partner, err := h.PartnerService.GetPartner(id)
	if err != nil {
		if errors.Is(err, service.ErrPartnerNotFound) {
			respondError(c, response.CodeNotFound, "代理不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	response.Success(c, partner)
}

// UpdatePartnerRatesRequest 更新代理佣金比例请求，空字段表示不修改
type UpdatePartnerRatesRequest struct {
	CasinoRollingPct *models.Money `json:"casino_rolling_pct"`
	CasinoLosingPct  *models.Money `json:"casino_losing_pct"`
	SlotRollingPct   *models.Money `json:"slot_rolling_pct"`
	SlotLosingPct    *models.Money `json:"slot_losing_pct"`
}

// UpdatePartnerRates 更新代理佣金比例
func (h *Handler) UpdatePartnerRates(c *gin.Context) {
	if !requireSuper(c) {
		return
	}
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	var req UpdatePartnerRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	partner, err := h.PartnerService.UpdatePartnerRates(id, service.UpdatePartnerRatesInput{
		CasinoRollingPct: req.CasinoRollingPct,
		CasinoLosingPct:  req.CasinoLosingPct,
		SlotRollingPct:   req.SlotRollingPct,
		SlotLosingPct:    req.SlotLosingPct,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRateOutOfRange):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrPartnerNotFound):
			respondError(c, response.CodeNotFound, "代理不存在", nil)
		default:
			respondError(c, response.CodeInternal, "保存失败", err)
		}
		return
	}
	response.Success(c, partner)
}

// UpdatePartnerStatusRequest 更新代理状态请求
type UpdatePartnerStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePartnerStatus 启用或停用代理
func (h *Handler) UpdatePartnerStatus(c *gin.Context) {
	if !requireSuper(c) {
		return
	}
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	var req UpdatePartnerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	partner, err := h.PartnerService.UpdatePartnerStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStatusInvalid):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrPartnerNotFound):
			respondError(c, response.CodeNotFound, "代理不存在", nil)
		default:
			respondError(c, response.CodeInternal, "保存失败", err)
		}
		return
	}
	response.Success(c, partner)
}

// CreateMemberRequest 创建会员请求
type CreateMemberRequest struct {
	Username          string        `json:"username" binding:"required"`
	ReferrerPartnerID uint          `json:"referrer_partner_id" binding:"required"`
	CasinoRollingPct  *models.Money `json:"casino_rolling_pct"`
	CasinoLosingPct   *models.Money `json:"casino_losing_pct"`
	SlotRollingPct    *models.Money `json:"slot_rolling_pct"`
	SlotLosingPct     *models.Money `json:"slot_losing_pct"`
}

// CreateMember 创建会员账户
func (h *Handler) CreateMember(c *gin.Context) {
	if !requireSuper(c) {
		return
	}
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	member, err := h.PartnerService.CreateMember(service.CreateMemberInput{
		Username:          req.Username,
		ReferrerPartnerID: req.ReferrerPartnerID,
		CasinoRollingPct:  req.CasinoRollingPct,
		CasinoLosingPct:   req.CasinoLosingPct,
		SlotRollingPct:    req.SlotRollingPct,
		SlotLosingPct:     req.SlotLosingPct,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameRequired), errors.Is(err, service.ErrRateOutOfRange):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrPartnerNotFound):
			respondError(c, response.CodeNotFound, "推荐代理不存在", nil)
		default:
			respondError(c, response.CodeInternal, "创建失败", err)
		}
		return
	}
	response.Success(c, member)
}

// GetAdminMembers 查询会员列表
func (h *Handler) GetAdminMembers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	referrerID, _ := strconv.ParseUint(c.Query("referrer_partner_id"), 10, 64)

	members, total, err := h.PartnerService.ListMembers(repository.MemberListFilter{
		Page:              page,
		PageSize:          pageSize,
		Keyword:           c.Query("keyword"),
		ReferrerPartnerID: uint(referrerID),
		Status:            c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, members, pagination)
}
