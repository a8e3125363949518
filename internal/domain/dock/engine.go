// Package dock implements the pure tree-surgery and geometry algorithms of
// the docking engine: inserting a leaf relative to another, pruning a leaf
// while collapsing empty splits, and inferring docking intent from window
// rectangles. All functions are side-effect free; they return new tree roots
// and share untouched subtrees with their inputs.
package dock

import "github.com/bnema/dockwork/internal/domain/entity"

// Insert places a new leaf relative to the leaf identified by targetID.
//
// For tab docking the matched leaf is returned unchanged: tabbing is a
// relationship-level concept and never alters tree geometry. For every other
// direction the matched leaf is replaced by a split whose axis follows the
// direction; the new leaf takes the first position for left/top and the
// second for right/bottom. Only nodes on the path from the matched leaf to
// the root are reallocated.
//
// Returns the new root and true, or the original root and false when no leaf
// with targetID exists.
func Insert(root *entity.DockNode, targetID, newID string, direction entity.DockDirection, ratio float64) (*entity.DockNode, bool) {
	if root == nil {
		return nil, false
	}

	if root.IsLeaf() {
		if root.ID != targetID {
			return root, false
		}
		if direction == entity.DockTab {
			return root, true
		}
		axis, ok := direction.SplitAxis()
		if !ok {
			return root, false
		}
		newLeaf := entity.NewLeaf(newID)
		if direction.DocksFirst() {
			return entity.NewSplit(axis, ratio, newLeaf, root), true
		}
		return entity.NewSplit(axis, ratio, root, newLeaf), true
	}

	if first, ok := Insert(root.First, targetID, newID, direction, ratio); ok {
		if first == root.First {
			return root, true
		}
		return entity.NewSplit(root.Direction, root.Ratio, first, root.Second), true
	}
	if second, ok := Insert(root.Second, targetID, newID, direction, ratio); ok {
		if second == root.Second {
			return root, true
		}
		return entity.NewSplit(root.Direction, root.Ratio, root.First, second), true
	}
	return root, false
}

// Prune removes the leaf with the given id and collapses any split left with
// a single child, keeping the tree minimal. A split whose subtree changed is
// rebuilt with a re-clamped ratio; untouched subtrees are shared.
//
// Returns the new root (nil when the last leaf was removed) and whether
// anything was pruned.
func Prune(root *entity.DockNode, leafID string) (*entity.DockNode, bool) {
	if root == nil {
		return nil, false
	}

	if root.IsLeaf() {
		if root.ID == leafID {
			return nil, true
		}
		return root, false
	}

	first, prunedFirst := Prune(root.First, leafID)
	second, prunedSecond := Prune(root.Second, leafID)
	pruned := prunedFirst || prunedSecond

	switch {
	case first == nil && second == nil:
		return nil, pruned
	case first == nil:
		return second, pruned
	case second == nil:
		return first, pruned
	case !pruned:
		return root, false
	default:
		return entity.NewSplit(root.Direction, entity.ClampRatio(root.Ratio), first, second), true
	}
}
