package entity

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestClampRatio(t *testing.T) {
	tests := []struct {
		name     string
		ratio    float64
		expected float64
	}{
		{"below minimum", 0.05, 0.1},
		{"above maximum", 0.95, 0.9},
		{"within range", 0.42, 0.42},
		{"at minimum", 0.1, 0.1},
		{"at maximum", 0.9, 0.9},
		{"NaN falls back", math.NaN(), 0.5},
		{"positive infinity falls back", math.Inf(1), 0.5},
		{"negative infinity falls back", math.Inf(-1), 0.5},
		{"zero clamps to minimum", 0, 0.1},
		{"negative clamps to minimum", -3, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampRatio(tt.ratio); got != tt.expected {
				t.Errorf("ClampRatio(%v) = %v, want %v", tt.ratio, got, tt.expected)
			}
		})
	}
}

func TestDockNode_ComputePlacements(t *testing.T) {
	root := NewSplit(SplitHorizontal, 0.5,
		NewLeaf("left"),
		NewSplit(SplitVertical, 0.5,
			NewLeaf("topRight"),
			NewLeaf("bottomRight"),
		),
	)

	placements := root.ComputePlacements(Rect{X: 0, Y: 0, Width: 1000, Height: 800})

	expected := map[string]Rect{
		"left":        {X: 0, Y: 0, Width: 500, Height: 800},
		"topRight":    {X: 500, Y: 0, Width: 500, Height: 400},
		"bottomRight": {X: 500, Y: 400, Width: 500, Height: 400},
	}

	if len(placements) != len(expected) {
		t.Fatalf("got %d placements, want %d", len(placements), len(expected))
	}
	for _, p := range placements {
		want, ok := expected[p.ID]
		if !ok {
			t.Fatalf("unexpected placement id %q", p.ID)
		}
		if p.Bounds != want {
			t.Errorf("placement %q = %+v, want %+v", p.ID, p.Bounds, want)
		}
	}
}

func TestDockNode_ComputePlacements_ExtentsSumExactly(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		total float64
	}{
		{"even split", 0.5, 1000},
		{"odd total", 0.5, 1001},
		{"uneven ratio", 0.333, 997},
		{"clamped ratio", 0.95, 640},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewSplit(SplitHorizontal, tt.ratio, NewLeaf("a"), NewLeaf("b"))
			placements := root.ComputePlacements(Rect{Width: tt.total, Height: 100})

			if len(placements) != 2 {
				t.Fatalf("got %d placements, want 2", len(placements))
			}
			sum := placements[0].Bounds.Width + placements[1].Bounds.Width
			if sum != tt.total {
				t.Errorf("children widths sum to %v, want %v", sum, tt.total)
			}
			if placements[1].Bounds.X != placements[0].Bounds.Right() {
				t.Errorf("second child starts at %v, want %v",
					placements[1].Bounds.X, placements[0].Bounds.Right())
			}
		})
	}
}

func TestDockNode_ComputePlacements_OnePerLeaf(t *testing.T) {
	root := NewSplit(SplitVertical, 0.3,
		NewSplit(SplitHorizontal, 0.6, NewLeaf("a"), NewLeaf("b")),
		NewSplit(SplitHorizontal, 0.5, NewLeaf("c"),
			NewSplit(SplitVertical, 0.5, NewLeaf("d"), NewLeaf("e"))),
	)

	placements := root.ComputePlacements(Rect{Width: 1920, Height: 1080})
	if len(placements) != root.LeafCount() {
		t.Fatalf("got %d placements, want %d", len(placements), root.LeafCount())
	}

	seen := make(map[string]bool)
	for _, p := range placements {
		if seen[p.ID] {
			t.Errorf("duplicate placement id %q", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestDockNode_JSONRoundTrip(t *testing.T) {
	root := NewSplit(SplitHorizontal, 0.25,
		NewLeaf("editor"),
		NewSplit(SplitVertical, 0.75, NewLeaf("terminal"), NewLeaf("logs")),
	)

	first, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded DockNode
	if err := json.Unmarshal(first, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	second, err := json.Marshal(&decoded)
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("round trip not identity:\n first = %s\nsecond = %s", first, second)
	}
}

func TestDockNode_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, n *DockNode)
	}{
		{
			name:  "leaf",
			input: `{"kind":"leaf","id":"main"}`,
			check: func(t *testing.T, n *DockNode) {
				if !n.IsLeaf() || n.ID != "main" {
					t.Errorf("got %+v, want leaf main", n)
				}
			},
		},
		{
			name:  "split ratio self-heals above maximum",
			input: `{"kind":"split","direction":"vertical","ratio":3.5,"first":{"kind":"leaf","id":"a"},"second":{"kind":"leaf","id":"b"}}`,
			check: func(t *testing.T, n *DockNode) {
				if n.Ratio != 0.9 {
					t.Errorf("ratio = %v, want 0.9", n.Ratio)
				}
			},
		},
		{
			name:  "missing ratio defaults to 0.5",
			input: `{"kind":"split","direction":"horizontal","first":{"kind":"leaf","id":"a"},"second":{"kind":"leaf","id":"b"}}`,
			check: func(t *testing.T, n *DockNode) {
				if n.Ratio != 0.5 {
					t.Errorf("ratio = %v, want 0.5", n.Ratio)
				}
			},
		},
		{
			name:    "unknown kind",
			input:   `{"kind":"stack","id":"x"}`,
			wantErr: true,
		},
		{
			name:    "leaf missing id",
			input:   `{"kind":"leaf"}`,
			wantErr: true,
		},
		{
			name:    "split missing children",
			input:   `{"kind":"split","direction":"horizontal","ratio":0.5}`,
			wantErr: true,
		},
		{
			name:    "split with bad direction",
			input:   `{"kind":"split","direction":"diagonal","ratio":0.5,"first":{"kind":"leaf","id":"a"},"second":{"kind":"leaf","id":"b"}}`,
			wantErr: true,
		},
		{
			name:    "nested invalid child",
			input:   `{"kind":"split","direction":"vertical","ratio":0.5,"first":{"kind":"leaf"},"second":{"kind":"leaf","id":"b"}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n DockNode
			err := json.Unmarshal([]byte(tt.input), &n)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidSnapshot) {
					t.Errorf("error = %v, want ErrInvalidSnapshot", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, &n)
			}
		})
	}
}

func TestDockNode_FindLeaf(t *testing.T) {
	root := NewSplit(SplitHorizontal, 0.5,
		NewLeaf("a"),
		NewSplit(SplitVertical, 0.5, NewLeaf("b"), NewLeaf("c")),
	)

	if node := root.FindLeaf("c"); node == nil || node.ID != "c" {
		t.Errorf("FindLeaf(c) = %+v, want leaf c", node)
	}
	if node := root.FindLeaf("missing"); node != nil {
		t.Errorf("FindLeaf(missing) = %+v, want nil", node)
	}
}
