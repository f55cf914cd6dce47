package pack

// rect is an axis-aligned free or placed rectangle in atlas coordinates.
type rect struct {
	x, y, w, h int
}

func (r rect) right() int  { return r.x + r.w }
func (r rect) bottom() int { return r.y + r.h }

// contains reports whether r fully contains other (both directions is the
// caller's job when pruning).
func (r rect) contains(o rect) bool {
	return o.x >= r.x && o.y >= r.y &&
		o.x+o.w <= r.x+r.w && o.y+o.h <= r.y+r.h
}

// intersects reports whether r and o overlap with positive area.
func (r rect) intersects(o rect) bool {
	return r.x < o.x+o.w && r.x+r.w > o.x && r.y < o.y+o.h && r.y+r.h > o.y
}
