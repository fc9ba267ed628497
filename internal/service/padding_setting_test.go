package service

import (
	"errors"
	"testing"
	"time"

	"github.com/lunatickworker/hybridcasino-sub000/internal/constants"
	"github.com/lunatickworker/hybridcasino-sub000/internal/models"

	"github.com/shopspring/decimal"
)

type mockSettingRepo struct {
	store map[string]models.JSON
}

func newMockSettingRepo() *mockSettingRepo {
	return &mockSettingRepo{store: map[string]models.JSON{}}
}

func (m *mockSettingRepo) GetByKey(key string) (*models.Setting, error) {
	value, ok := m.store[key]
	if !ok {
		return nil, nil
	}
	return &models.Setting{Key: key, ValueJSON: value, UpdatedAt: time.Now()}, nil
}

func (m *mockSettingRepo) Upsert(key string, value models.JSON) (*models.Setting, error) {
	m.store[key] = value
	return &models.Setting{Key: key, ValueJSON: value, UpdatedAt: time.Now()}, nil
}

func TestCutRollingDisabledGlobally(t *testing.T) {
	cfg := PaddingCutConfig{
		GlobalEnabled: false,
		EnabledLevels: map[int]bool{3: true},
		CutPercentage: dec("5"),
	}

	if got := cfg.CutRolling(dec("100000"), 3); !got.IsZero() {
		t.Fatalf("expected zero cut when globally disabled, got %s", got)
	}
}

func TestCutRollingLevelMatch(t *testing.T) {
	cfg := PaddingCutConfig{
		GlobalEnabled: true,
		EnabledLevels: map[int]bool{3: true},
		CutPercentage: dec("5"),
	}

	// 5% 扣减作用于 100000 → 5000，毛额由调用方保留
	if got := cfg.CutRolling(dec("100000"), 3); !got.Equal(dec("5000")) {
		t.Fatalf("expected cut 5000, got %s", got)
	}
	if got := cfg.CutRolling(dec("100000"), 4); !got.IsZero() {
		t.Fatalf("expected zero cut for unlisted level, got %s", got)
	}
	// 会员行层级为 0，不参与层级匹配
	if got := cfg.CutRolling(dec("100000"), 0); !got.IsZero() {
		t.Fatalf("expected zero cut for member rows, got %s", got)
	}
}

func TestNormalizePaddingCutSetting(t *testing.T) {
	setting := NormalizePaddingCutSetting(PaddingCutConfig{
		GlobalEnabled: true,
		EnabledLevels: map[int]bool{2: true, 3: true, 7: true},
		CutPercentage: dec("150"),
	})

	if !setting.CutPercentage.Equal(dec("100")) {
		t.Fatalf("expected percentage clamped to 100, got %s", setting.CutPercentage)
	}
	if setting.LevelEnabled(2) || setting.LevelEnabled(7) {
		t.Fatalf("levels outside 3-6 must be dropped: %v", setting.EnabledLevels)
	}
	if !setting.LevelEnabled(3) {
		t.Fatal("level 3 should stay enabled")
	}

	negative := NormalizePaddingCutSetting(PaddingCutConfig{CutPercentage: dec("-3")})
	if !negative.CutPercentage.IsZero() {
		t.Fatalf("expected negative percentage clamped to 0, got %s", negative.CutPercentage)
	}
}

func TestValidatePaddingCutSetting(t *testing.T) {
	err := ValidatePaddingCutSetting(PaddingCutConfig{CutPercentage: dec("120")})
	if !errors.Is(err, ErrPaddingConfigInvalid) {
		t.Fatalf("expected ErrPaddingConfigInvalid, got %v", err)
	}

	err = ValidatePaddingCutSetting(PaddingCutConfig{
		CutPercentage: dec("5"),
		EnabledLevels: map[int]bool{2: true},
	})
	if !errors.Is(err, ErrPaddingConfigInvalid) {
		t.Fatalf("expected ErrPaddingConfigInvalid for level 2, got %v", err)
	}
}

func TestPaddingCutSettingRoundTrip(t *testing.T) {
	svc := NewSettingService(newMockSettingRepo())

	initial, err := svc.GetPaddingCutSetting()
	if err != nil {
		t.Fatalf("get default setting failed: %v", err)
	}
	if initial.GlobalEnabled {
		t.Fatal("default setting must be disabled")
	}

	saved, err := svc.UpdatePaddingCutSetting(PaddingCutConfig{
		GlobalEnabled: true,
		EnabledLevels: map[int]bool{3: true, 5: true},
		CutPercentage: dec("7.5"),
		CasinoCut:     true,
	})
	if err != nil {
		t.Fatalf("update setting failed: %v", err)
	}
	if saved.Version == 0 {
		t.Fatal("expected non-zero version after save")
	}

	loaded, err := svc.GetPaddingCutSetting()
	if err != nil {
		t.Fatalf("reload setting failed: %v", err)
	}
	if !loaded.GlobalEnabled || !loaded.LevelEnabled(3) || !loaded.LevelEnabled(5) {
		t.Fatalf("unexpected reloaded setting: %+v", loaded)
	}
	if !loaded.CutPercentage.Equal(decimal.NewFromFloat(7.5)) {
		t.Fatalf("expected percentage 7.5, got %s", loaded.CutPercentage)
	}
	if !loaded.CasinoCut || loaded.SlotCut {
		t.Fatalf("unexpected category toggles: %+v", loaded)
	}
}

func TestGetSiteConfigMergesDefaults(t *testing.T) {
	repo := newMockSettingRepo()
	svc := NewSettingService(repo)

	defaults := map[string]interface{}{
		"site_name":           "默认站点",
		"settlement_timezone": "UTC",
	}

	// 未配置时原样返回默认值
	data, err := svc.GetSiteConfig(defaults)
	if err != nil {
		t.Fatalf("get site config failed: %v", err)
	}
	if data["site_name"] != "默认站点" || data["settlement_timezone"] != "UTC" {
		t.Fatalf("expected defaults returned, got %v", data)
	}

	// 落库的键覆盖默认值，未落库的键保留默认值
	if _, err := svc.Update(constants.SettingKeySiteConfig, map[string]interface{}{
		"site_name": "亚洲一区",
	}); err != nil {
		t.Fatalf("update site config failed: %v", err)
	}
	data, err = svc.GetSiteConfig(defaults)
	if err != nil {
		t.Fatalf("get site config failed: %v", err)
	}
	if data["site_name"] != "亚洲一区" {
		t.Fatalf("expected stored site_name to override default, got %v", data["site_name"])
	}
	if data["settlement_timezone"] != "UTC" {
		t.Fatalf("expected default timezone preserved, got %v", data["settlement_timezone"])
	}
}
