package admin

import (
	"strconv"
	"time"

	"github.com/lunatickworker/hybridcasino-sub000/internal/http/response"
	"github.com/lunatickworker/hybridcasino-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

const settlementDateLayout = "2006-01-02"

// parseSettlementRange 解析结算区间
// from/to 均为 YYYY-MM-DD，含首日、含末日（内部转为右开区间）
func parseSettlementRange(c *gin.Context) (time.Time, time.Time, bool) {
	fromRaw := c.Query("from")
	toRaw := c.Query("to")
	if fromRaw == "" || toRaw == "" {
		respondError(c, response.CodeBadRequest, "必须指定结算起止日期", nil)
		return time.Time{}, time.Time{}, false
	}
	from, err := time.Parse(settlementDateLayout, fromRaw)
	if err != nil {
		respondError(c, response.CodeBadRequest, "起始日期格式错误", err)
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(settlementDateLayout, toRaw)
	if err != nil {
		respondError(c, response.CodeBadRequest, "截止日期格式错误", err)
		return time.Time{}, time.Time{}, false
	}
	return from, to.AddDate(0, 0, 1), true
}

// resolveSettlementCaller 解析本次结算的可见根节点
// 超管可通过 partner_id 查看任意子树，普通账号固定为绑定节点
func resolveSettlementCaller(c *gin.Context) (uint, bool) {
	isSuper, partnerID, ok := getAdminScope(c)
	if !ok {
		return 0, false
	}
	if !isSuper {
		return partnerID, true
	}
	if raw := c.Query("partner_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "代理 ID 非法", err)
			return 0, false
		}
		return uint(id), true
	}
	return 0, true
}

func parseSummaryFilter(c *gin.Context) service.SummaryFilter {
	level, _ := strconv.Atoi(c.Query("level"))
	return service.SummaryFilter{
		NodeType: c.Query("node_type"),
		Level:    level,
		Keyword:  c.Query("keyword"),
	}
}

func filterSettlementRows(rows []service.SettlementRow, filter service.SummaryFilter) []service.SettlementRow {
	if filter.NodeType == "" && filter.Level <= 0 && filter.Keyword == "" {
		return rows
	}
	filtered := make([]service.SettlementRow, 0, len(rows))
	for _, row := range rows {
		if filter.Matches(row) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func (h *Handler) computeScopedSettlement(c *gin.Context) ([]service.SettlementRow, bool) {
	from, to, ok := parseSettlementRange(c)
	if !ok {
		return nil, false
	}
	caller, ok := resolveSettlementCaller(c)
	if !ok {
		return nil, false
	}

	rows, err := h.SettlementService.ComputeSettlement(c.Request.Context(), caller, from, to)
	if err != nil {
		switch {
		case service.IsConfigurationError(err):
			respondError(c, response.CodeInternal, "组织结构配置损坏，请联系运维", err)
		case service.IsRetryable(err):
			respondError(c, response.CodeUnavailable, "结算数据暂不可用，请稍后重试", err)
		default:
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		}
		return nil, false
	}
	return rows, true
}

// GetSettlement 查询结算表
func (h *Handler) GetSettlement(c *gin.Context) {
	rows, ok := h.computeScopedSettlement(c)
	if !ok {
		return
	}
	rows = filterSettlementRows(rows, parseSummaryFilter(c))

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	page, pageSize = normalizePagination(page, pageSize)

	total := int64(len(rows))
	start := (page - 1) * pageSize
	if start > len(rows) {
		start = len(rows)
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, rows[start:end], pagination)
}

// GetSettlementSummary 查询结算汇总
func (h *Handler) GetSettlementSummary(c *gin.Context) {
	rows, ok := h.computeScopedSettlement(c)
	if !ok {
		return
	}
	response.Success(c, service.ReduceSummary(rows, parseSummaryFilter(c)))
}
