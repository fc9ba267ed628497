package service

import (
	"fmt"
	"sort"

	"github.com/lunatickworker/hybridcasino-sub000/internal/constants"
	"github.com/lunatickworker/hybridcasino-sub000/internal/models"

	"github.com/shopspring/decimal"
)

// 垫付扣减可启用的层级区间（参照运营侧 3-6 级代理）
const (
	paddingCutLevelMin = 3
	paddingCutLevelMax = 6
)

// PaddingCutDefaultSetting 默认垫付扣减配置（全部关闭）
func PaddingCutDefaultSetting() PaddingCutConfig {
	return NormalizePaddingCutSetting(PaddingCutConfig{
		GlobalEnabled: false,
		EnabledLevels: map[int]bool{},
		CutPercentage: decimal.Zero,
		CasinoCut:     false,
		SlotCut:       false,
	})
}

// NormalizePaddingCutSetting 归一化垫付扣减配置
func NormalizePaddingCutSetting(setting PaddingCutConfig) PaddingCutConfig {
	setting.CutPercentage = setting.CutPercentage.Round(2)
	if setting.CutPercentage.IsNegative() {
		setting.CutPercentage = decimal.Zero
	}
	if setting.CutPercentage.GreaterThan(oneHundred) {
		setting.CutPercentage = oneHundred
	}

	levels := make(map[int]bool, len(setting.EnabledLevels))
	for level, enabled := range setting.EnabledLevels {
		if !enabled {
			continue
		}
		if level < paddingCutLevelMin || level > paddingCutLevelMax {
			continue
		}
		levels[level] = true
	}
	setting.EnabledLevels = levels
	return setting
}

// ValidatePaddingCutSetting 校验垫付扣减配置
func ValidatePaddingCutSetting(setting PaddingCutConfig) error {
	if setting.CutPercentage.IsNegative() || setting.CutPercentage.GreaterThan(oneHundred) {
		return fmt.Errorf("%w: 扣减比例必须在 0-100 之间", ErrPaddingConfigInvalid)
	}
	for level := range setting.EnabledLevels {
		if level < paddingCutLevelMin || level > paddingCutLevelMax {
			return fmt.Errorf("%w: 层级 %d 不允许配置扣减", ErrPaddingConfigInvalid, level)
		}
	}
	return nil
}

// PaddingCutSettingToMap 将垫付扣减配置转换为 settings 存储结构
func PaddingCutSettingToMap(setting PaddingCutConfig) map[string]interface{} {
	normalized := NormalizePaddingCutSetting(setting)

	levels := make([]int, 0, len(normalized.EnabledLevels))
	for level := range normalized.EnabledLevels {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	return map[string]interface{}{
		"global_enabled":      normalized.GlobalEnabled,
		"enabled_levels":      levels,
		"cut_percentage":      normalized.CutPercentage.StringFixed(2),
		"casino_cut":          normalized.CasinoCut,
		"slot_cut":            normalized.SlotCut,
		"rolling_cut_display": normalized.RollingCutDisplay,
	}
}

func paddingCutSettingFromJSON(raw models.JSON, fallback PaddingCutConfig) PaddingCutConfig {
	result := fallback

	if enabledRaw, ok := raw["global_enabled"]; ok {
		result.GlobalEnabled = parseSettingBool(enabledRaw)
	}
	if levelsRaw, ok := raw["enabled_levels"]; ok {
		levels := make(map[int]bool)
		for _, level := range parseSettingIntList(levelsRaw) {
			levels[level] = true
		}
		result.EnabledLevels = levels
	}
	if pctRaw, ok := raw["cut_percentage"]; ok {
		if parsed, err := parseSettingDecimal(pctRaw); err == nil {
			result.CutPercentage = parsed
		}
	}
	if casinoRaw, ok := raw["casino_cut"]; ok {
		result.CasinoCut = parseSettingBool(casinoRaw)
	}
	if slotRaw, ok := raw["slot_cut"]; ok {
		result.SlotCut = parseSettingBool(slotRaw)
	}
	if displayRaw, ok := raw["rolling_cut_display"]; ok {
		result.RollingCutDisplay = parseSettingBool(displayRaw)
	}

	return NormalizePaddingCutSetting(result)
}

// GetPaddingCutSetting 获取垫付扣减设置（优先 settings，空时回退默认）
// Version 取配置行更新时间戳，结算缓存键依赖该版本实现失效
func (s *SettingService) GetPaddingCutSetting() (PaddingCutConfig, error) {
	fallback := PaddingCutDefaultSetting()
	if s == nil {
		return fallback, nil
	}

	setting, err := s.repo.GetByKey(constants.SettingKeyPaddingCutConfig)
	if err != nil {
		return fallback, err
	}
	if setting == nil {
		return fallback, nil
	}

	config := paddingCutSettingFromJSON(setting.ValueJSON, fallback)
	config.Version = setting.UpdatedAt.Unix()
	return config, nil
}

// UpdatePaddingCutSetting 更新垫付扣减设置，返回带新版本号的配置
func (s *SettingService) UpdatePaddingCutSetting(setting PaddingCutConfig) (PaddingCutConfig, error) {
	normalized := NormalizePaddingCutSetting(setting)
	if err := ValidatePaddingCutSetting(normalized); err != nil {
		return PaddingCutDefaultSetting(), err
	}

	saved, err := s.Update(constants.SettingKeyPaddingCutConfig, PaddingCutSettingToMap(normalized))
	if err != nil {
		return PaddingCutDefaultSetting(), err
	}
	if saved != nil {
		normalized.Version = saved.UpdatedAt.Unix()
	}
	return normalized, nil
}
