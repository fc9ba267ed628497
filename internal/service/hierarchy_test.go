package service

import (
	"errors"
	"testing"

	"github.com/lunatickworker/hybridcasino-sub000/internal/constants"
	"github.com/lunatickworker/hybridcasino-sub000/internal/models"
)

func hierarchyTestPartner(id uint, level int, parentID *uint) models.Partner {
	return models.Partner{
		ID:       id,
		Username: "p",
		Name:     "p",
		Level:    level,
		ParentID: parentID,
		Status:   constants.PartnerStatusActive,
	}
}

func hierarchyTestMember(id, referrerID uint) models.MemberAccount {
	return models.MemberAccount{
		ID:                id,
		Username:          "m",
		ReferrerPartnerID: referrerID,
		Status:            constants.MemberStatusActive,
	}
}

func uintPtr(v uint) *uint {
	return &v
}

func TestBuildHierarchyIndexDescendants(t *testing.T) {
	partners := []models.Partner{
		hierarchyTestPartner(1, 1, nil),
		hierarchyTestPartner(2, 2, uintPtr(1)),
		hierarchyTestPartner(3, 2, uintPtr(1)),
		hierarchyTestPartner(4, 3, uintPtr(2)),
	}
	members := []models.MemberAccount{
		hierarchyTestMember(10, 2),
		hierarchyTestMember(11, 4),
	}

	idx, err := BuildHierarchyIndex(partners, members)
	if err != nil {
		t.Fatalf("build index failed: %v", err)
	}

	descendants := idx.DescendantsOf(1)
	if len(descendants) != 3 {
		t.Fatalf("expected 3 descendants of root, got %v", descendants)
	}
	for _, id := range descendants {
		if id == 1 {
			t.Fatalf("descendants must exclude the node itself: %v", descendants)
		}
	}

	if got := idx.DescendantsOf(4); len(got) != 0 {
		t.Fatalf("expected leaf partner to have no descendants, got %v", got)
	}

	children := idx.DirectChildrenOf(1)
	if len(children) != 2 {
		t.Fatalf("expected 2 direct children, got %v", children)
	}
}

func TestBuildHierarchyIndexAccountsUnder(t *testing.T) {
	partners := []models.Partner{
		hierarchyTestPartner(1, 1, nil),
		hierarchyTestPartner(2, 2, uintPtr(1)),
	}
	members := []models.MemberAccount{
		hierarchyTestMember(10, 1),
		hierarchyTestMember(11, 2),
		hierarchyTestMember(12, 2),
	}

	idx, err := BuildHierarchyIndex(partners, members)
	if err != nil {
		t.Fatalf("build index failed: %v", err)
	}

	all := idx.AccountsUnder(1)
	if len(all) != 3 {
		t.Fatalf("expected 3 accounts under root, got %v", all)
	}
	sub := idx.AccountsUnder(2)
	if len(sub) != 2 {
		t.Fatalf("expected 2 accounts under partner 2, got %v", sub)
	}
	if got := idx.DirectMembersOf(1); len(got) != 1 {
		t.Fatalf("expected 1 direct member of root, got %d", len(got))
	}
}

func TestBuildHierarchyIndexCycle(t *testing.T) {
	partners := []models.Partner{
		hierarchyTestPartner(1, 2, uintPtr(2)),
		hierarchyTestPartner(2, 3, uintPtr(1)),
	}

	_, err := BuildHierarchyIndex(partners, nil)
	if err == nil {
		t.Fatal("expected cycle error, got nil")
	}
	if !errors.Is(err, ErrHierarchyCycle) {
		t.Fatalf("expected ErrHierarchyCycle, got %v", err)
	}
}

func TestBuildHierarchyIndexBrokenParent(t *testing.T) {
	partners := []models.Partner{
		hierarchyTestPartner(1, 1, nil),
		hierarchyTestPartner(2, 2, uintPtr(99)),
	}

	_, err := BuildHierarchyIndex(partners, nil)
	if !errors.Is(err, ErrHierarchyBrokenParent) {
		t.Fatalf("expected ErrHierarchyBrokenParent, got %v", err)
	}

	_, err = BuildHierarchyIndex(
		[]models.Partner{hierarchyTestPartner(1, 1, nil)},
		[]models.MemberAccount{hierarchyTestMember(10, 42)},
	)
	if !errors.Is(err, ErrHierarchyBrokenParent) {
		t.Fatalf("expected ErrHierarchyBrokenParent for dangling member, got %v", err)
	}
}

func TestWalkPostOrderChildrenFirst(t *testing.T) {
	partners := []models.Partner{
		hierarchyTestPartner(1, 1, nil),
		hierarchyTestPartner(2, 2, uintPtr(1)),
		hierarchyTestPartner(3, 3, uintPtr(2)),
	}

	idx, err := BuildHierarchyIndex(partners, nil)
	if err != nil {
		t.Fatalf("build index failed: %v", err)
	}

	visited := make(map[uint]bool)
	err = idx.WalkPostOrder(func(node *HierarchyNode) error {
		for _, childID := range idx.DirectChildrenOf(node.Partner.ID) {
			if !visited[childID] {
				t.Fatalf("partner %d visited before child %d", node.Partner.ID, childID)
			}
		}
		visited[node.Partner.ID] = true
		return nil
	})
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if len(visited) != 3 {
		t.Fatalf("expected 3 visited partners, got %d", len(visited))
	}
}

func TestResolveVisibleRootsScope(t *testing.T) {
	partners := []models.Partner{
		hierarchyTestPartner(1, 1, nil),
		hierarchyTestPartner(2, 2, uintPtr(1)),
		hierarchyTestPartner(3, 2, uintPtr(1)),
	}

	idx, err := BuildHierarchyIndex(partners, nil)
	if err != nil {
		t.Fatalf("build index failed: %v", err)
	}

	roots, err := ResolveVisibleRoots(idx, 0)
	if err != nil || len(roots) != 1 || roots[0] != 1 {
		t.Fatalf("expected unrestricted scope to see root 1, got %v (%v)", roots, err)
	}

	roots, err = ResolveVisibleRoots(idx, 2)
	if err != nil || len(roots) != 1 || roots[0] != 2 {
		t.Fatalf("expected caller-scoped root 2, got %v (%v)", roots, err)
	}

	if _, err := ResolveVisibleRoots(idx, 99); !errors.Is(err, ErrPartnerNotFound) {
		t.Fatalf("expected ErrPartnerNotFound, got %v", err)
	}

	if ScopeAllows(idx, 2, 3) {
		t.Fatal("sibling must not be visible")
	}
	if !ScopeAllows(idx, 1, 3) {
		t.Fatal("descendant must be visible")
	}
	if !ScopeAllows(idx, 2, 2) {
		t.Fatal("self must be visible")
	}
}
