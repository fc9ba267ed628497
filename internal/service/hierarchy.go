package service

import (
	"fmt"

	"github.com/lunatickworker/hybridcasino-sub000/internal/models"
)

// HierarchyNode 组织树节点，持有代理行及其直接下级的索引
type HierarchyNode struct {
	Partner      models.Partner
	ParentIdx    int   // 父节点在索引中的下标，根节点为 -1
	ChildIdxs    []int // 直接下级代理的下标
	MemberIdxs   []int // 直属会员的下标
	SubtreeOrder int   // 后序遍历序号
}

// HierarchyIndex 组织树只读索引
// 构建后不再修改，可安全并发读取
type HierarchyIndex struct {
	nodes     []HierarchyNode
	members   []models.MemberAccount
	idxByID   map[uint]int
	rootIdxs  []int
	postOrder []int
}

// BuildHierarchyIndex 从代理与会员全量数据构建组织树索引
// 组织树有环返回 ErrHierarchyCycle；上级指向不存在节点返回 ErrHierarchyBrokenParent
func BuildHierarchyIndex(partners []models.Partner, members []models.MemberAccount) (*HierarchyIndex, error) {
	idx := &HierarchyIndex{
		nodes:   make([]HierarchyNode, len(partners)),
		members: members,
		idxByID: make(map[uint]int, len(partners)),
	}
	for i, p := range partners {
		idx.nodes[i] = HierarchyNode{Partner: p, ParentIdx: -1}
		idx.idxByID[p.ID] = i
	}

	for i := range idx.nodes {
		p := idx.nodes[i].Partner
		if p.IsRoot() {
			idx.rootIdxs = append(idx.rootIdxs, i)
			continue
		}
		parentIdx, ok := idx.idxByID[*p.ParentID]
		if !ok {
			return nil, fmt.Errorf("partner %d parent %d: %w", p.ID, *p.ParentID, ErrHierarchyBrokenParent)
		}
		if parentIdx == i {
			return nil, fmt.Errorf("partner %d is its own parent: %w", p.ID, ErrHierarchyCycle)
		}
		idx.nodes[i].ParentIdx = parentIdx
		idx.nodes[parentIdx].ChildIdxs = append(idx.nodes[parentIdx].ChildIdxs, i)
	}

	for i, m := range members {
		partnerIdx, ok := idx.idxByID[m.ReferrerPartnerID]
		if !ok {
			return nil, fmt.Errorf("member %d referrer %d: %w", m.ID, m.ReferrerPartnerID, ErrHierarchyBrokenParent)
		}
		idx.nodes[partnerIdx].MemberIdxs = append(idx.nodes[partnerIdx].MemberIdxs, i)
	}

	if err := idx.buildPostOrder(); err != nil {
		return nil, err
	}
	return idx, nil
}

// buildPostOrder 迭代式后序遍历，同时完成环检测
// 遍历结束仍有节点未访问即说明这些节点互相成环
func (idx *HierarchyIndex) buildPostOrder() error {
	visited := make([]bool, len(idx.nodes))
	idx.postOrder = idx.postOrder[:0]

	for _, root := range idx.rootIdxs {
		type frame struct {
			nodeIdx  int
			childPos int
		}
		stack := []frame{{nodeIdx: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			node := &idx.nodes[top.nodeIdx]
			if top.childPos < len(node.ChildIdxs) {
				child := node.ChildIdxs[top.childPos]
				top.childPos++
				stack = append(stack, frame{nodeIdx: child})
				continue
			}
			if visited[top.nodeIdx] {
				return fmt.Errorf("partner %d visited twice: %w", node.Partner.ID, ErrHierarchyCycle)
			}
			visited[top.nodeIdx] = true
			node.SubtreeOrder = len(idx.postOrder)
			idx.postOrder = append(idx.postOrder, top.nodeIdx)
			stack = stack[:len(stack)-1]
		}
	}

	for i, ok := range visited {
		if !ok {
			return fmt.Errorf("partner %d unreachable from any root: %w", idx.nodes[i].Partner.ID, ErrHierarchyCycle)
		}
	}
	return nil
}

// NodeByID 按代理ID取节点，不存在返回 nil
func (idx *HierarchyIndex) NodeByID(partnerID uint) *HierarchyNode {
	i, ok := idx.idxByID[partnerID]
	if !ok {
		return nil
	}
	return &idx.nodes[i]
}

// Contains 代理是否在索引内
func (idx *HierarchyIndex) Contains(partnerID uint) bool {
	_, ok := idx.idxByID[partnerID]
	return ok
}

// Roots 全部根节点的代理ID
func (idx *HierarchyIndex) Roots() []uint {
	ids := make([]uint, 0, len(idx.rootIdxs))
	for _, i := range idx.rootIdxs {
		ids = append(ids, idx.nodes[i].Partner.ID)
	}
	return ids
}

// DirectChildrenOf 直接下级代理ID列表
func (idx *HierarchyIndex) DirectChildrenOf(partnerID uint) []uint {
	i, ok := idx.idxByID[partnerID]
	if !ok {
		return nil
	}
	ids := make([]uint, 0, len(idx.nodes[i].ChildIdxs))
	for _, c := range idx.nodes[i].ChildIdxs {
		ids = append(ids, idx.nodes[c].Partner.ID)
	}
	return ids
}

// DirectMembersOf 直属会员列表
func (idx *HierarchyIndex) DirectMembersOf(partnerID uint) []models.MemberAccount {
	i, ok := idx.idxByID[partnerID]
	if !ok {
		return nil
	}
	out := make([]models.MemberAccount, 0, len(idx.nodes[i].MemberIdxs))
	for _, m := range idx.nodes[i].MemberIdxs {
		out = append(out, idx.members[m])
	}
	return out
}

// DescendantsOf 子树内全部下级代理ID（不含自身）
func (idx *HierarchyIndex) DescendantsOf(partnerID uint) []uint {
	start, ok := idx.idxByID[partnerID]
	if !ok {
		return nil
	}
	ids := make([]uint, 0, 8)
	stack := make([]int, 0, 8)
	stack = append(stack, idx.nodes[start].ChildIdxs...)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ids = append(ids, idx.nodes[i].Partner.ID)
		stack = append(stack, idx.nodes[i].ChildIdxs...)
	}
	return ids
}

// AccountsUnder 子树内全部会员账户ID（含各级代理的直属会员）
func (idx *HierarchyIndex) AccountsUnder(partnerID uint) []uint {
	start, ok := idx.idxByID[partnerID]
	if !ok {
		return nil
	}
	ids := make([]uint, 0, 16)
	stack := []int{start}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, m := range idx.nodes[i].MemberIdxs {
			ids = append(ids, idx.members[m].ID)
		}
		stack = append(stack, idx.nodes[i].ChildIdxs...)
	}
	return ids
}

// WalkPostOrder 以后序遍历回调全部节点（子节点先于父节点）
// 回调返回错误即终止遍历
func (idx *HierarchyIndex) WalkPostOrder(fn func(node *HierarchyNode) error) error {
	for _, i := range idx.postOrder {
		if err := fn(&idx.nodes[i]); err != nil {
			return err
		}
	}
	return nil
}

// PartnerCount 代理节点总数
func (idx *HierarchyIndex) PartnerCount() int {
	return len(idx.nodes)
}

// MemberCount 会员账户总数
func (idx *HierarchyIndex) MemberCount() int {
	return len(idx.members)
}
