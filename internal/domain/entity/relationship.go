package entity

// DockDirection indicates where a docked window attaches relative to its
// target. Tab is a relationship-only grouping that never alters tree
// geometry.
type DockDirection string

const (
	DockLeft   DockDirection = "left"
	DockRight  DockDirection = "right"
	DockTop    DockDirection = "top"
	DockBottom DockDirection = "bottom"
	DockTab    DockDirection = "tab"
)

// IsValid reports whether d is one of the five known directions.
func (d DockDirection) IsValid() bool {
	switch d {
	case DockLeft, DockRight, DockTop, DockBottom, DockTab:
		return true
	}
	return false
}

// SplitAxis returns the split axis implied by a docking direction.
// Tab has no axis; ok is false.
func (d DockDirection) SplitAxis() (SplitDirection, bool) {
	switch d {
	case DockLeft, DockRight:
		return SplitHorizontal, true
	case DockTop, DockBottom:
		return SplitVertical, true
	}
	return "", false
}

// DocksFirst reports whether the newly docked window takes the first
// (left/top) position in the resulting split.
func (d DockDirection) DocksFirst() bool {
	return d == DockLeft || d == DockTop
}

// DockingRelationship records that source was docked onto target in the
// given direction.
type DockingRelationship struct {
	SourceWindowID string        `json:"sourceWindowId"`
	TargetWindowID string        `json:"targetWindowId"`
	Direction      DockDirection `json:"direction"`
}

// RelationshipSet stores docking relationships de-duplicated on the
// (source, direction, target) key while preserving insertion order for
// enumeration.
type RelationshipSet struct {
	items []DockingRelationship
	index map[DockingRelationship]struct{}
}

// NewRelationshipSet creates an empty relationship set.
func NewRelationshipSet() *RelationshipSet {
	return &RelationshipSet{index: make(map[DockingRelationship]struct{})}
}

// Add inserts rel unless an identical relationship is already present.
// Returns true if the set grew.
func (s *RelationshipSet) Add(rel DockingRelationship) bool {
	if _, ok := s.index[rel]; ok {
		return false
	}
	s.index[rel] = struct{}{}
	s.items = append(s.items, rel)
	return true
}

// PurgeWindow removes every relationship whose source or target is the
// given window id. Returns the number of relationships removed.
func (s *RelationshipSet) PurgeWindow(id string) int {
	kept := s.items[:0]
	removed := 0
	for _, rel := range s.items {
		if rel.SourceWindowID == id || rel.TargetWindowID == id {
			delete(s.index, rel)
			removed++
			continue
		}
		kept = append(kept, rel)
	}
	s.items = kept
	return removed
}

// Len returns the number of relationships in the set.
func (s *RelationshipSet) Len() int {
	return len(s.items)
}

// All returns the relationships in insertion order. The returned slice is a
// copy; mutating it does not affect the set.
func (s *RelationshipSet) All() []DockingRelationship {
	out := make([]DockingRelationship, len(s.items))
	copy(out, s.items)
	return out
}
