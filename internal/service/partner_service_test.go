package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lunatickworker/hybridcasino-sub000/internal/constants"
	"github.com/lunatickworker/hybridcasino-sub000/internal/models"
	"github.com/lunatickworker/hybridcasino-sub000/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupPartnerTest(t *testing.T) (*PartnerService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:partner_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Partner{}, &models.MemberAccount{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewPartnerService(repository.NewPartnerRepository(db), repository.NewMemberRepository(db)), db
}

func TestCreatePartnerLevelAssignment(t *testing.T) {
	svc, _ := setupPartnerTest(t)

	root, err := svc.CreatePartner(CreatePartnerInput{Username: "hq", Name: "总部"})
	if err != nil {
		t.Fatalf("create root failed: %v", err)
	}
	if root.Level != constants.PartnerLevelMin {
		t.Fatalf("expected root level %d, got %d", constants.PartnerLevelMin, root.Level)
	}

	child, err := svc.CreatePartner(CreatePartnerInput{Username: "branch", ParentID: &root.ID})
	if err != nil {
		t.Fatalf("create child failed: %v", err)
	}
	if child.Level != root.Level+1 {
		t.Fatalf("expected child level %d, got %d", root.Level+1, child.Level)
	}
	if child.Name != "branch" {
		t.Fatalf("empty name should fall back to username, got %q", child.Name)
	}
}

func TestCreatePartnerLevelCap(t *testing.T) {
	svc, _ := setupPartnerTest(t)

	var parentID *uint
	for i := constants.PartnerLevelMin; i <= constants.PartnerLevelMax; i++ {
		p, err := svc.CreatePartner(CreatePartnerInput{Username: fmt.Sprintf("lv%d", i), ParentID: parentID})
		if err != nil {
			t.Fatalf("create level %d failed: %v", i, err)
		}
		if p.Level != i {
			t.Fatalf("expected level %d, got %d", i, p.Level)
		}
		parentID = &p.ID
	}

	_, err := svc.CreatePartner(CreatePartnerInput{Username: "lv7", ParentID: parentID})
	if !errors.Is(err, ErrPartnerLevelExceeded) {
		t.Fatalf("expected ErrPartnerLevelExceeded below a level-6 parent, got %v", err)
	}
}

func TestCreatePartnerValidation(t *testing.T) {
	svc, _ := setupPartnerTest(t)

	if _, err := svc.CreatePartner(CreatePartnerInput{Username: "  "}); !errors.Is(err, ErrUsernameRequired) {
		t.Fatalf("expected ErrUsernameRequired, got %v", err)
	}

	if _, err := svc.CreatePartner(CreatePartnerInput{
		Username:         "badrate",
		CasinoRollingPct: models.NewMoneyFromDecimal(dec("101")),
	}); !errors.Is(err, ErrRateOutOfRange) {
		t.Fatalf("expected ErrRateOutOfRange, got %v", err)
	}

	if _, err := svc.CreatePartner(CreatePartnerInput{Username: "dup"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.CreatePartner(CreatePartnerInput{Username: "dup"}); !errors.Is(err, ErrPartnerUsernameTaken) {
		t.Fatalf("expected ErrPartnerUsernameTaken, got %v", err)
	}

	missing := uint(9999)
	if _, err := svc.CreatePartner(CreatePartnerInput{Username: "orphan", ParentID: &missing}); !errors.Is(err, ErrPartnerNotFound) {
		t.Fatalf("expected ErrPartnerNotFound for missing parent, got %v", err)
	}
}

func TestUpdatePartnerRates(t *testing.T) {
	svc, _ := setupPartnerTest(t)

	p, err := svc.CreatePartner(CreatePartnerInput{
		Username:         "rates",
		CasinoRollingPct: models.NewMoneyFromDecimal(dec("1.0")),
		CasinoLosingPct:  models.NewMoneyFromDecimal(dec("10")),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	newRolling := models.NewMoneyFromDecimal(dec("1.5"))
	updated, err := svc.UpdatePartnerRates(p.ID, UpdatePartnerRatesInput{CasinoRollingPct: &newRolling})
	if err != nil {
		t.Fatalf("update rates failed: %v", err)
	}
	if updated.CasinoRollingPct.String() != "1.50" {
		t.Fatalf("expected casino rolling 1.50, got %s", updated.CasinoRollingPct)
	}
	// 未传的字段保持不变
	if updated.CasinoLosingPct.String() != "10.00" {
		t.Fatalf("expected casino losing unchanged at 10.00, got %s", updated.CasinoLosingPct)
	}

	negative := models.NewMoneyFromDecimal(dec("-1"))
	if _, err := svc.UpdatePartnerRates(p.ID, UpdatePartnerRatesInput{SlotLosingPct: &negative}); !errors.Is(err, ErrRateOutOfRange) {
		t.Fatalf("expected ErrRateOutOfRange, got %v", err)
	}
}

func TestUpdatePartnerStatus(t *testing.T) {
	svc, _ := setupPartnerTest(t)

	p, err := svc.CreatePartner(CreatePartnerInput{Username: "status"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.UpdatePartnerStatus(p.ID, constants.PartnerStatusDisabled)
	if err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	if updated.Status != constants.PartnerStatusDisabled {
		t.Fatalf("expected disabled status, got %q", updated.Status)
	}

	if _, err := svc.UpdatePartnerStatus(p.ID, "frozen"); !errors.Is(err, ErrStatusInvalid) {
		t.Fatalf("expected ErrStatusInvalid, got %v", err)
	}
}

func TestCreateMember(t *testing.T) {
	svc, _ := setupPartnerTest(t)

	referrer, err := svc.CreatePartner(CreatePartnerInput{Username: "ref"})
	if err != nil {
		t.Fatalf("create referrer failed: %v", err)
	}

	override := models.NewMoneyFromDecimal(dec("0.8"))
	member, err := svc.CreateMember(CreateMemberInput{
		Username:          "player",
		ReferrerPartnerID: referrer.ID,
		CasinoRollingPct:  &override,
	})
	if err != nil {
		t.Fatalf("create member failed: %v", err)
	}
	if member.ReferrerPartnerID != referrer.ID {
		t.Fatalf("expected referrer %d, got %d", referrer.ID, member.ReferrerPartnerID)
	}
	if member.CasinoRollingPct == nil || member.CasinoRollingPct.String() != "0.80" {
		t.Fatalf("expected casino rolling override 0.80, got %v", member.CasinoRollingPct)
	}
	// 未覆盖的比例留空，结算时回退推荐代理
	if member.SlotRollingPct != nil {
		t.Fatalf("expected nil slot rolling override, got %v", member.SlotRollingPct)
	}

	if _, err := svc.CreateMember(CreateMemberInput{Username: "stray", ReferrerPartnerID: 9999}); !errors.Is(err, ErrPartnerNotFound) {
		t.Fatalf("expected ErrPartnerNotFound for missing referrer, got %v", err)
	}

	bad := models.NewMoneyFromDecimal(dec("120"))
	if _, err := svc.CreateMember(CreateMemberInput{
		Username:          "overrate",
		ReferrerPartnerID: referrer.ID,
		SlotLosingPct:     &bad,
	}); !errors.Is(err, ErrRateOutOfRange) {
		t.Fatalf("expected ErrRateOutOfRange, got %v", err)
	}
}
