package entity

import "testing"

func TestRelationshipSet_DeduplicatesAndKeepsOrder(t *testing.T) {
	set := NewRelationshipSet()

	first := DockingRelationship{SourceWindowID: "a", TargetWindowID: "b", Direction: DockLeft}
	second := DockingRelationship{SourceWindowID: "c", TargetWindowID: "b", Direction: DockTab}

	if !set.Add(first) {
		t.Error("first Add returned false")
	}
	if !set.Add(second) {
		t.Error("second Add returned false")
	}
	if set.Add(first) {
		t.Error("duplicate Add returned true")
	}
	// Same windows, different direction: distinct key.
	third := DockingRelationship{SourceWindowID: "a", TargetWindowID: "b", Direction: DockRight}
	if !set.Add(third) {
		t.Error("Add with different direction returned false")
	}

	all := set.All()
	if len(all) != 3 {
		t.Fatalf("Len = %d, want 3", len(all))
	}
	if all[0] != first || all[1] != second || all[2] != third {
		t.Errorf("enumeration order = %+v, want insertion order", all)
	}
}

func TestRelationshipSet_PurgeWindow(t *testing.T) {
	set := NewRelationshipSet()
	set.Add(DockingRelationship{SourceWindowID: "a", TargetWindowID: "b", Direction: DockLeft})
	set.Add(DockingRelationship{SourceWindowID: "b", TargetWindowID: "c", Direction: DockTop})
	set.Add(DockingRelationship{SourceWindowID: "c", TargetWindowID: "d", Direction: DockTab})

	if removed := set.PurgeWindow("b"); removed != 2 {
		t.Errorf("PurgeWindow(b) removed %d, want 2", removed)
	}
	if set.Len() != 1 {
		t.Fatalf("Len = %d, want 1", set.Len())
	}
	if set.All()[0].SourceWindowID != "c" {
		t.Errorf("surviving relationship = %+v, want c->d", set.All()[0])
	}

	// A purged relationship can be re-added.
	if !set.Add(DockingRelationship{SourceWindowID: "a", TargetWindowID: "b", Direction: DockLeft}) {
		t.Error("re-adding purged relationship returned false")
	}
}
