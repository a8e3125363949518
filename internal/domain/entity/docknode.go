package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSnapshot is returned when a persisted structure cannot be
// decoded into a valid entity. It is reported at the persistence boundary;
// the tree engine itself never produces it.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// NodeKind discriminates the two dock node variants.
type NodeKind string

const (
	KindLeaf  NodeKind = "leaf"
	KindSplit NodeKind = "split"
)

// SplitDirection indicates the axis a split node divides its space along.
type SplitDirection string

const (
	SplitHorizontal SplitDirection = "horizontal" // first is left, second is right
	SplitVertical   SplitDirection = "vertical"   // first is top, second is bottom
)

// Ratio bounds for a split node. Ratios outside this range are clamped on
// construction and again when decoding persisted trees, so corrupted values
// self-heal instead of failing.
const (
	MinSplitRatio = 0.1
	MaxSplitRatio = 0.9
)

// ClampRatio normalizes a split ratio: non-finite values fall back to 0.5,
// everything else is clamped to [MinSplitRatio, MaxSplitRatio].
func ClampRatio(ratio float64) float64 {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0.5
	}
	if ratio < MinSplitRatio {
		return MinSplitRatio
	}
	if ratio > MaxSplitRatio {
		return MaxSplitRatio
	}
	return ratio
}

// DockNode is a node in the binary docking tree. It is a closed sum type
// discriminated by Kind:
//   - leaf: ID identifies the window occupying this position
//   - split: Direction, Ratio, First and Second describe a binary partition
//
// Nodes are never mutated after construction. Tree operations build new
// nodes along the changed path and share untouched subtrees, so a node may
// appear in several tree versions at once.
type DockNode struct {
	Kind NodeKind

	// Leaf fields
	ID string

	// Split fields
	Direction SplitDirection
	Ratio     float64
	First     *DockNode
	Second    *DockNode
}

// NewLeaf creates a leaf node for the given window id.
func NewLeaf(id string) *DockNode {
	return &DockNode{Kind: KindLeaf, ID: id}
}

// NewSplit creates a split node. The ratio is the fractional share of the
// first child along the split axis and is clamped on construction.
func NewSplit(direction SplitDirection, ratio float64, first, second *DockNode) *DockNode {
	return &DockNode{
		Kind:      KindSplit,
		Direction: direction,
		Ratio:     ClampRatio(ratio),
		First:     first,
		Second:    second,
	}
}

// IsLeaf reports whether this node is a leaf.
func (n *DockNode) IsLeaf() bool {
	return n != nil && n.Kind == KindLeaf
}

// IsSplit reports whether this node is a split.
func (n *DockNode) IsSplit() bool {
	return n != nil && n.Kind == KindSplit
}

// Walk traverses the tree depth-first (node, first, second), calling fn for
// each node. Traversal stops early if fn returns false.
func (n *DockNode) Walk(fn func(*DockNode) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	if n.Kind == KindSplit {
		if !n.First.Walk(fn) {
			return false
		}
		if !n.Second.Walk(fn) {
			return false
		}
	}
	return true
}

// FindLeaf returns the first leaf with the given id in depth-first order,
// or nil if no such leaf exists.
func (n *DockNode) FindLeaf(id string) *DockNode {
	var found *DockNode
	n.Walk(func(node *DockNode) bool {
		if node.IsLeaf() && node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// LeafCount returns the number of leaves in the tree.
func (n *DockNode) LeafCount() int {
	count := 0
	n.Walk(func(node *DockNode) bool {
		if node.IsLeaf() {
			count++
		}
		return true
	})
	return count
}

// LeafIDs returns the ids of all leaves in depth-first order.
func (n *DockNode) LeafIDs() []string {
	var ids []string
	n.Walk(func(node *DockNode) bool {
		if node.IsLeaf() {
			ids = append(ids, node.ID)
		}
		return true
	})
	return ids
}

// ComputePlacements walks the tree and assigns each leaf a rectangle within
// bounds. A split divides its bounds along its axis: the first child receives
// round(total*ratio) units, the second the exact remainder, so the children's
// extents always sum to the parent's.
func (n *DockNode) ComputePlacements(bounds Rect) []Placement {
	var placements []Placement
	n.appendPlacements(bounds, &placements)
	return placements
}

func (n *DockNode) appendPlacements(bounds Rect, out *[]Placement) {
	if n == nil {
		return
	}
	if n.Kind == KindLeaf {
		*out = append(*out, Placement{ID: n.ID, Bounds: bounds})
		return
	}

	ratio := ClampRatio(n.Ratio)
	switch n.Direction {
	case SplitVertical:
		firstShare := math.Round(bounds.Height * ratio)
		n.First.appendPlacements(Rect{
			X: bounds.X, Y: bounds.Y,
			Width: bounds.Width, Height: firstShare,
		}, out)
		n.Second.appendPlacements(Rect{
			X: bounds.X, Y: bounds.Y + firstShare,
			Width: bounds.Width, Height: bounds.Height - firstShare,
		}, out)
	default: // horizontal
		firstShare := math.Round(bounds.Width * ratio)
		n.First.appendPlacements(Rect{
			X: bounds.X, Y: bounds.Y,
			Width: firstShare, Height: bounds.Height,
		}, out)
		n.Second.appendPlacements(Rect{
			X: bounds.X + firstShare, Y: bounds.Y,
			Width: bounds.Width - firstShare, Height: bounds.Height,
		}, out)
	}
}

// dockNodeWire is the persisted shape of a DockNode:
//
//	{"kind":"leaf","id":...} | {"kind":"split","direction","ratio","first","second"}
//
// Ratio is a pointer so an absent value decodes to the 0.5 default rather
// than clamping a zero.
type dockNodeWire struct {
	Kind      NodeKind        `json:"kind"`
	ID        string          `json:"id,omitempty"`
	Direction SplitDirection  `json:"direction,omitempty"`
	Ratio     *float64        `json:"ratio,omitempty"`
	First     json.RawMessage `json:"first,omitempty"`
	Second    json.RawMessage `json:"second,omitempty"`
}

// MarshalJSON encodes the node in its tagged wire shape. The ratio is
// re-clamped on the way out.
func (n *DockNode) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case KindLeaf:
		return json.Marshal(struct {
			Kind NodeKind `json:"kind"`
			ID   string   `json:"id"`
		}{Kind: KindLeaf, ID: n.ID})
	case KindSplit:
		type wireSplit struct {
			Kind      NodeKind       `json:"kind"`
			Direction SplitDirection `json:"direction"`
			Ratio     float64        `json:"ratio"`
			First     *DockNode      `json:"first"`
			Second    *DockNode      `json:"second"`
		}
		return json.Marshal(wireSplit{
			Kind:      KindSplit,
			Direction: n.Direction,
			Ratio:     ClampRatio(n.Ratio),
			First:     n.First,
			Second:    n.Second,
		})
	default:
		return nil, fmt.Errorf("%w: unknown node kind %q", ErrInvalidSnapshot, n.Kind)
	}
}

// UnmarshalJSON decodes the tagged wire shape, re-clamping ratios so
// out-of-range persisted values self-heal instead of failing.
func (n *DockNode) UnmarshalJSON(data []byte) error {
	var wire dockNodeWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	switch wire.Kind {
	case KindLeaf:
		if wire.ID == "" {
			return fmt.Errorf("%w: leaf node missing id", ErrInvalidSnapshot)
		}
		*n = DockNode{Kind: KindLeaf, ID: wire.ID}
		return nil

	case KindSplit:
		if wire.Direction != SplitHorizontal && wire.Direction != SplitVertical {
			return fmt.Errorf("%w: split node has direction %q", ErrInvalidSnapshot, wire.Direction)
		}
		if len(wire.First) == 0 || len(wire.Second) == 0 {
			return fmt.Errorf("%w: split node missing children", ErrInvalidSnapshot)
		}
		first := new(DockNode)
		if err := first.UnmarshalJSON(wire.First); err != nil {
			return err
		}
		second := new(DockNode)
		if err := second.UnmarshalJSON(wire.Second); err != nil {
			return err
		}
		ratio := 0.5
		if wire.Ratio != nil {
			ratio = *wire.Ratio
		}
		*n = DockNode{
			Kind:      KindSplit,
			Direction: wire.Direction,
			Ratio:     ClampRatio(ratio),
			First:     first,
			Second:    second,
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown node kind %q", ErrInvalidSnapshot, wire.Kind)
	}
}
