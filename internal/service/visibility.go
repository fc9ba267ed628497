package service

import "fmt"

// ResolveVisibleRoots 解析调用方的可见子树根
// callerPartnerID 为 0 表示不限范围，返回全部根节点
// 组织隔离规则：调用方只能看到自身及其下级，平级与上级不可见
func ResolveVisibleRoots(idx *HierarchyIndex, callerPartnerID uint) ([]uint, error) {
	if callerPartnerID == 0 {
		return idx.Roots(), nil
	}
	if !idx.Contains(callerPartnerID) {
		return nil, fmt.Errorf("partner %d: %w", callerPartnerID, ErrPartnerNotFound)
	}
	return []uint{callerPartnerID}, nil
}

// ScopeAllows 目标代理是否处于调用方可见范围内（自身或下级）
func ScopeAllows(idx *HierarchyIndex, callerPartnerID, targetPartnerID uint) bool {
	if callerPartnerID == 0 {
		return idx.Contains(targetPartnerID)
	}
	if callerPartnerID == targetPartnerID {
		return idx.Contains(targetPartnerID)
	}
	for _, id := range idx.DescendantsOf(callerPartnerID) {
		if id == targetPartnerID {
			return true
		}
	}
	return false
}
