package admin

import (
	"errors"
	"strconv"
	"time"

	"github.com/lunatickworker/hybridcasino-sub000/internal/http/response"
	"github.com/lunatickworker/hybridcasino-sub000/internal/models"
	"github.com/lunatickworker/hybridcasino-sub000/internal/repository"
	"github.com/lunatickworker/hybridcasino-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

func parseOccurredRange(c *gin.Context) (*time.Time, *time.Time, bool) {
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(settlementDateLayout, raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "起始日期格式错误", err)
			return nil, nil, false
		}
		from = &parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(settlementDateLayout, raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "截止日期格式错误", err)
			return nil, nil, false
		}
		end := parsed.AddDate(0, 0, 1)
		to = &end
	}
	return from, to, true
}

// CreateCashEventRequest 记录资金流水请求
type CreateCashEventRequest struct {
	AccountID  *uint        `json:"account_id"`
	PartnerID  *uint        `json:"partner_id"`
	Kind       string       `json:"kind" binding:"required"`
	Amount     models.Money `json:"amount"`
	Status     string       `json:"status"`
	Memo       string       `json:"memo"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// CreateCashEvent 记录资金流水
func (h *Handler) CreateCashEvent(c *gin.Context) {
	var req CreateCashEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	event, err := h.LedgerService.RecordCashEvent(service.RecordCashEventInput{
		AccountID:  req.AccountID,
		PartnerID:  req.PartnerID,
		Kind:       req.Kind,
		Amount:     req.Amount,
		Status:     req.Status,
		Memo:       req.Memo,
		OccurredAt: req.OccurredAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStatusInvalid):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrPartnerNotFound):
			respondError(c, response.CodeNotFound, "账户或代理不存在", nil)
		default:
			respondError(c, response.CodeInternal, "保存失败", err)
		}
		return
	}
	response.Success(c, event)
}

// ResolveCashEventRequest 审核资金流水请求
type ResolveCashEventRequest struct {
	Approve bool `json:"approve"`
}

// ResolveCashEvent 审核待处理的资金流水
func (h *Handler) ResolveCashEvent(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	var req ResolveCashEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	if err := h.LedgerService.ResolveCashEvent(id, req.Approve); err != nil {
		respondError(c, response.CodeInternal, "保存失败", err)
		return
	}
	response.SuccessWithMsg(c, "已处理", nil)
}

// GetCashEvents 查询资金流水列表
func (h *Handler) GetCashEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	accountID, _ := strconv.ParseUint(c.Query("account_id"), 10, 64)
	partnerID, _ := strconv.ParseUint(c.Query("partner_id"), 10, 64)
	from, to, ok := parseOccurredRange(c)
	if !ok {
		return
	}

	events, total, err := h.LedgerService.ListCashEvents(repository.CashEventListFilter{
		Page:         page,
		PageSize:     pageSize,
		AccountID:    uint(accountID),
		PartnerID:    uint(partnerID),
		Kind:         c.Query("kind"),
		Status:       c.Query("status"),
		OccurredFrom: from,
		OccurredTo:   to,
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
	response.SuccessWithPage(c, events, pagination)
}

// CreatePointEventRequest 记录积分流水请求
type CreatePointEventRequest struct {
	AccountID  uint         `json:"account_id" binding:"required"`
	Kind       string       `json:"kind" binding:"required"`
	Amount     models.Money `json:"amount"`
	Memo       string       `json:"memo"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// CreatePointEvent 记录积分发放或回收
func (h *Handler) CreatePointEvent(c *gin.Context) {
	var req CreatePointEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	event, err := h.LedgerService.RecordPointEvent(service.RecordPointEventInput{
		AccountID:  req.AccountID,
		Kind:       req.Kind,
		Amount:     req.Amount,
		Memo:       req.Memo,
		OccurredAt: req.OccurredAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStatusInvalid):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "会员不存在", nil)
		default:
			respondError(c, response.CodeInternal, "保存失败", err)
		}
		return
	}
	response.Success(c, event)
}

// GetPointEvents 查询积分流水列表
func (h *Handler) GetPointEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	accountID, _ := strconv.ParseUint(c.Query("account_id"), 10, 64)
	from, to, ok := parseOccurredRange(c)
	if !ok {
		return
	}

	events, total, err := h.LedgerService.ListPointEvents(repository.PointEventListFilter{
		Page:         page,
		PageSize:     pageSize,
		AccountID:    uint(accountID),
		Kind:         c.Query("kind"),
		OccurredFrom: from,
		OccurredTo:   to,
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
	response.SuccessWithPage(c, events, pagination)
}

// IngestWagersRequest 注单采集请求
type IngestWagersRequest struct {
	Records []IngestWagerRecord `json:"records" binding:"required"`
}

// IngestWagerRecord 单条注单
type IngestWagerRecord struct {
	AccountID    uint         `json:"account_id"`
	GameCategory string       `json:"game_category"`
	BetAmount    models.Money `json:"bet_amount"`
	WinAmount    models.Money `json:"win_amount"`
	OccurredAt   time.Time    `json:"occurred_at"`
}

// IngestWagers 批量采集注单
func (h *Handler) IngestWagers(c *gin.Context) {
	var req IngestWagersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	inputs := make([]service.IngestWagerInput, 0, len(req.Records))
	for _, record := range req.Records {
		inputs = append(inputs, service.IngestWagerInput{
			AccountID:    record.AccountID,
			GameCategory: record.GameCategory,
			BetAmount:    record.BetAmount,
			WinAmount:    record.WinAmount,
			OccurredAt:   record.OccurredAt,
		})
	}

	count, err := h.LedgerService.IngestWagers(inputs)
	if err != nil {
		if errors.Is(err, service.ErrStatusInvalid) {
			respondError(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "保存失败", err)
		return
	}
	response.Success(c, gin.H{"ingested": count})
}

// GetWagers 查询注单列表
func (h *Handler) GetWagers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	accountID, _ := strconv.ParseUint(c.Query("account_id"), 10, 64)
	from, to, ok := parseOccurredRange(c)
	if !ok {
		return
	}

	wagers, total, err := h.LedgerService.ListWagers(repository.WagerListFilter{
		Page:         page,
		PageSize:     pageSize,
		AccountID:    uint(accountID),
		GameCategory: c.Query("game_category"),
		OccurredFrom: from,
		OccurredTo:   to,
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
	response.SuccessWithPage(c, wagers, pagination)
}
