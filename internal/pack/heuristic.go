package pack

import "github.com/Nebulaxin/crunch/internal/options"

// candidate is one scored placement option: a free rectangle, an
// orientation (possibly rotated), and the (primary, secondary) score used
// to rank it against every other candidate. Lower is always better, so
// ContactPointRule's "larger contact wins" is encoded as a negated score.
type candidate struct {
	x, y, w, h         int
	primary, secondary int
}

// findBestFit scans free for the lowest-scoring placement of a w x h
// rectangle (and, if rotate is set, its h x w rotation), per heuristic.
// Ties resolve in scan order: free rects are tried low index to high, and
// within one free rect the unrotated orientation is tried before the
// rotated one, so a later candidate only wins by scoring strictly better.
func findBestFit(free []rect, placed []rect, binW, binH, w, h int, rotate bool, heuristic options.Heuristic) (candidate, bool) {
	var best candidate
	found := false

	tryOrientation := func(f rect, ow, oh int) {
		if f.w < ow || f.h < oh {
			return
		}
		primary, secondary := score(heuristic, f.w, f.h, ow, oh, f.x, f.y, binW, binH, placed)
		if !found || primary < best.primary || (primary == best.primary && secondary < best.secondary) {
			best = candidate{x: f.x, y: f.y, w: ow, h: oh, primary: primary, secondary: secondary}
			found = true
		}
	}

	for _, f := range free {
		tryOrientation(f, w, h)
		if rotate && h != w {
			tryOrientation(f, h, w)
		}
	}

	return best, found
}

func score(h options.Heuristic, freeW, freeH, w, hgt, x, y, binW, binH int, placed []rect) (primary, secondary int) {
	leftoverW := freeW - w
	leftoverH := freeH - hgt

	switch h {
	case options.BestShortSideFit:
		return minInt(leftoverW, leftoverH), maxInt(leftoverW, leftoverH)
	case options.BestLongSideFit:
		return maxInt(leftoverW, leftoverH), minInt(leftoverW, leftoverH)
	case options.BestAreaFit:
		return freeW*freeH - w*hgt, minInt(leftoverW, leftoverH)
	case options.BottomLeftRule:
		return y + hgt, x
	case options.ContactPointRule:
		return -contactScore(x, y, w, hgt, binW, binH, placed), 0
	default:
		return minInt(leftoverW, leftoverH), maxInt(leftoverW, leftoverH)
	}
}

// contactScore sums the shared-edge length between a candidate placement
// and the bin boundary plus every already-placed rectangle.
func contactScore(x, y, w, hgt, binW, binH int, placed []rect) int {
	score := 0
	if x == 0 || x+w == binW {
		score += hgt
	}
	if y == 0 || y+hgt == binH {
		score += w
	}
	for _, p := range placed {
		if p.x == x+w || p.x+p.w == x {
			score += overlap(y, y+hgt, p.y, p.y+p.h)
		}
		if p.y == y+hgt || p.y+p.h == y {
			score += overlap(x, x+w, p.x, p.x+p.w)
		}
	}
	return score
}

func overlap(aLo, aHi, bLo, bHi int) int {
	lo := maxInt(aLo, bLo)
	hi := minInt(aHi, bHi)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// splitFreeRects removes every free rect that intersects placed and
// reinserts the up-to-four sub-rectangles of each (left, right, above,
// below) that remain free.
func splitFreeRects(free []rect, placed rect) []rect {
	out := make([]rect, 0, len(free))
	for _, f := range free {
		if !f.intersects(placed) {
			out = append(out, f)
			continue
		}
		if placed.x > f.x {
			out = append(out, rect{f.x, f.y, placed.x - f.x, f.h})
		}
		if placed.right() < f.right() {
			out = append(out, rect{placed.right(), f.y, f.right() - placed.right(), f.h})
		}
		if placed.y > f.y {
			out = append(out, rect{f.x, f.y, f.w, placed.y - f.y})
		}
		if placed.bottom() < f.bottom() {
			out = append(out, rect{f.x, placed.bottom(), f.w, f.bottom() - placed.bottom()})
		}
	}
	return out
}

// pruneFreeRects removes any free rect fully contained within another.
// This straightforward O(n^2) pairwise sweep is the cost-dominant step of
// the packer and is specified as-is.
func pruneFreeRects(free []rect) []rect {
	for i := 0; i < len(free); i++ {
		for j := i + 1; j < len(free); j++ {
			if free[j].contains(free[i]) {
				free = append(free[:i], free[i+1:]...)
				i--
				break
			}
			if free[i].contains(free[j]) {
				free = append(free[:j], free[j+1:]...)
				j--
			}
		}
	}
	return free
}
