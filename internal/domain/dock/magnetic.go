package dock

import (
	"math"
	"sort"

	"github.com/bnema/dockwork/internal/domain/entity"
)

// DefaultMagneticThreshold is the maximum edge gap, in viewport units, at
// which a dragged window still snaps onto a target.
const DefaultMagneticThreshold = 24.0

// Intent is a resolved magnetic-docking intention: the direction the dragged
// window would dock in, the edge gap that produced it, and the perpendicular
// overlap between the two rectangles.
type Intent struct {
	Direction entity.DockDirection
	Distance  float64
	Overlap   float64
}

// ResolveIntent infers the docking direction for a dragged rectangle against
// a candidate target. Each of the four edges is a candidate when its
// perpendicular overlap is positive and its gap is within the threshold; a
// tab candidate is added when the dragged center lies inside the target.
// Candidates are ranked by ascending distance, ties broken by descending
// overlap; full ties keep source order (left, right, top, bottom, tab).
//
// A threshold <= 0 selects DefaultMagneticThreshold.
func ResolveIntent(dragged, target entity.Rect, threshold float64) (Intent, bool) {
	if threshold <= 0 {
		threshold = DefaultMagneticThreshold
	}

	// Overlap of the y-intervals gates left/right candidates; overlap of the
	// x-intervals gates top/bottom candidates.
	yOverlap := intervalOverlap(dragged.Y, dragged.Bottom(), target.Y, target.Bottom())
	xOverlap := intervalOverlap(dragged.X, dragged.Right(), target.X, target.Right())

	gaps := [4]struct {
		direction entity.DockDirection
		distance  float64
		overlap   float64
	}{
		{entity.DockLeft, math.Abs(dragged.Right() - target.X), yOverlap},
		{entity.DockRight, math.Abs(dragged.X - target.Right()), yOverlap},
		{entity.DockTop, math.Abs(dragged.Bottom() - target.Y), xOverlap},
		{entity.DockBottom, math.Abs(dragged.Y - target.Bottom()), xOverlap},
	}

	var candidates []Intent
	minGap := math.Inf(1)
	for _, g := range gaps {
		if g.distance < minGap {
			minGap = g.distance
		}
		if g.overlap > 0 && g.distance <= threshold {
			candidates = append(candidates, Intent{
				Direction: g.direction,
				Distance:  g.distance,
				Overlap:   g.overlap,
			})
		}
	}

	if cx, cy := dragged.Center(); target.Contains(cx, cy) {
		candidates = append(candidates, Intent{
			Direction: entity.DockTab,
			Distance:  minGap,
			Overlap:   math.Min(yOverlap, xOverlap),
		})
	}

	if len(candidates) == 0 {
		return Intent{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].Overlap > candidates[j].Overlap
	})
	return candidates[0], true
}

// SplitRatio derives a split ratio from the relative sizes of the dragged
// and target rectangles for the resolved direction. The dragged window's
// share is measured along the split axis; tab and degenerate zero-size
// totals yield 0.5. The result is always clamped.
func SplitRatio(direction entity.DockDirection, dragged, target entity.Rect) float64 {
	var share, total float64
	switch direction {
	case entity.DockLeft, entity.DockRight:
		share, total = dragged.Width, dragged.Width+target.Width
	case entity.DockTop, entity.DockBottom:
		share, total = dragged.Height, dragged.Height+target.Height
	default:
		return 0.5
	}
	if total <= 0 {
		return 0.5
	}
	ratio := share / total
	// For right/bottom the target keeps the first position, so its share
	// defines the ratio.
	if !direction.DocksFirst() {
		ratio = 1 - ratio
	}
	return entity.ClampRatio(ratio)
}

func intervalOverlap(aStart, aEnd, bStart, bEnd float64) float64 {
	overlap := math.Min(aEnd, bEnd) - math.Max(aStart, bStart)
	if overlap < 0 {
		return 0
	}
	return overlap
}
