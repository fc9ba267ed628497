package admin

import (
	"errors"

	"github.com/lunatickworker/hybridcasino-sub000/internal/constants"
	"github.com/lunatickworker/hybridcasino-sub000/internal/http/response"
	"github.com/lunatickworker/hybridcasino-sub000/internal/queue"
	"github.com/lunatickworker/hybridcasino-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetPaddingCutSettings 获取垫付扣减配置
func (h *Handler) GetPaddingCutSettings(c *gin.Context) {
	setting, err := h.SettingService.GetPaddingCutSetting()
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	result := service.PaddingCutSettingToMap(setting)
	result["version"] = setting.Version
	response.Success(c, result)
}

// UpdatePaddingCutSettingsRequest 更新垫付扣减配置请求
type UpdatePaddingCutSettingsRequest struct {
	GlobalEnabled     bool   `json:"global_enabled"`
	EnabledLevels     []int  `json:"enabled_levels"`
	CutPercentage     string `json:"cut_percentage"`
	CasinoCut         bool   `json:"casino_cut"`
	SlotCut           bool   `json:"slot_cut"`
	RollingCutDisplay bool   `json:"rolling_cut_display"`
}

// UpdatePaddingCutSettings 更新垫付扣减配置
// 保存后配置版本变化，已缓存的结算结果自动失效
func (h *Handler) UpdatePaddingCutSettings(c *gin.Context) {
	if !requireSuper(c) {
		return
	}
	var req UpdatePaddingCutSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	pct := decimal.Zero
	if req.CutPercentage != "" {
		parsed, err := decimal.NewFromString(req.CutPercentage)
		if err != nil {
			respondError(c, response.CodeBadRequest, "扣减比例格式错误", err)
			return
		}
		pct = parsed
	}
	levels := make(map[int]bool, len(req.EnabledLevels))
	for _, level := range req.EnabledLevels {
		levels[level] = true
	}

	saved, err := h.SettingService.UpdatePaddingCutSetting(service.PaddingCutConfig{
		GlobalEnabled:     req.GlobalEnabled,
		EnabledLevels:     levels,
		CutPercentage:     pct,
		CasinoCut:         req.CasinoCut,
		SlotCut:           req.SlotCut,
		RollingCutDisplay: req.RollingCutDisplay,
	})
	if err != nil {
		if errors.Is(err, service.ErrPaddingConfigInvalid) {
			respondError(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "保存失败", err)
		return
	}

	result := service.PaddingCutSettingToMap(saved)
	result["version"] = saved.Version
	response.Success(c, result)
}

// TriggerSettlementSnapshotRequest 手动触发结算快照请求
type TriggerSettlementSnapshotRequest struct {
	Date string `json:"date"` // YYYY-MM-DD，空则取昨日
}

// TriggerSettlementSnapshot 手动触发结算快照任务
func (h *Handler) TriggerSettlementSnapshot(c *gin.Context) {
	if !requireSuper(c) {
		return
	}
	var req TriggerSettlementSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	if !h.QueueClient.Enabled() {
		respondError(c, response.CodeUnavailable, "队列服务未启用", nil)
		return
	}
	if err := h.QueueClient.EnqueueSettlementSnapshot(queue.SettlementSnapshotPayload{Date: req.Date}); err != nil {
		respondError(c, response.CodeInternal, "任务推送失败", err)
		return
	}
	response.SuccessWithMsg(c, "快照任务已推送", nil)
}

// defaultSiteConfig 站点配置默认值，库中未配置的键按默认值返回
func defaultSiteConfig() map[string]interface{} {
	return map[string]interface{}{
		"site_name":           "结算运营后台",
		"currency_symbol":     "₩",
		"settlement_timezone": "UTC",
	}
}

// GetSiteSettings 获取站点配置（合并默认值）
func (h *Handler) GetSiteSettings(c *gin.Context) {
	data, err := h.SettingService.GetSiteConfig(defaultSiteConfig())
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	response.Success(c, data)
}

// UpdateSiteSettings 更新站点配置
func (h *Handler) UpdateSiteSettings(c *gin.Context) {
	if !requireSuper(c) {
		return
	}
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	saved, err := h.SettingService.Update(constants.SettingKeySiteConfig, req)
	if err != nil {
		respondError(c, response.CodeInternal, "保存失败", err)
		return
	}
	response.Success(c, saved.ValueJSON)
}
