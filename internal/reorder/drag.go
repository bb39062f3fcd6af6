package reorder

import "math"

// Rect is an item's on-screen box.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) centerY() float64 { return r.Y + r.Height/2 }

// Item is one draggable entry in list order.
type Item struct {
	ID   string
	Rect Rect
}

// Key is a keyboard input understood by a drag session.
type Key int

const (
	KeyArrowUp Key = iota
	KeyArrowDown
	KeyEscape
)

// DragSession tracks a single drag of one item over a vertical list.
// The zero value is an idle session.
type DragSession struct {
	items     []Item
	container Rect
	active    int
	over      int
	running   bool
	cancelled bool
}

// Start begins dragging activeID. It returns false if the id is not in items.
func (d *DragSession) Start(activeID string, items []Item) bool {
	idx := -1
	for i, it := range items {
		if it.ID == activeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	d.items = append(d.items[:0], items...)
	d.container = bounds(items)
	d.active = idx
	d.over = idx
	d.running = true
	d.cancelled = false
	return true
}

// Active reports whether a drag is in progress.
func (d *DragSession) Active() bool { return d.running }

// Over returns the id of the current drop target, or "" if there is none.
func (d *DragSession) Over() string {
	if !d.running || d.over < 0 {
		return ""
	}
	return d.items[d.over].ID
}

// PointerMove recomputes the drop target for a pointer at (x, y).
// Only the vertical axis is considered; y is clamped to the container.
func (d *DragSession) PointerMove(x, y float64) {
	if !d.running {
		return
	}
	c := d.container
	if x < c.X || x > c.X+c.Width {
		d.over = -1
		return
	}
	y = math.Max(c.Y, math.Min(y, c.Y+c.Height))

	best, bestDist := -1, math.Inf(1)
	for i, it := range d.items {
		if dist := math.Abs(it.Rect.centerY() - y); dist < bestDist {
			best, bestDist = i, dist
		}
	}
	d.over = best
}

// KeyDown moves the drop target with the arrow keys; Escape cancels the drag.
func (d *DragSession) KeyDown(k Key) {
	if !d.running {
		return
	}
	switch k {
	case KeyArrowUp:
		if d.over < 0 {
			d.over = d.active
		}
		if d.over > 0 {
			d.over--
		}
	case KeyArrowDown:
		if d.over < 0 {
			d.over = d.active
		}
		if d.over < len(d.items)-1 {
			d.over++
		}
	case KeyEscape:
		d.cancelled = true
		d.running = false
	}
}

// End finishes the drag and reports the move to perform. ok is false when
// the drag was cancelled, has no target, or would drop the item on itself.
func (d *DragSession) End() (from, to int, ok bool) {
	if d.cancelled {
		d.reset()
		return 0, 0, false
	}
	if !d.running {
		return 0, 0, false
	}
	from, to = d.active, d.over
	d.reset()
	if to < 0 || to == from {
		return 0, 0, false
	}
	return from, to, true
}

func (d *DragSession) reset() {
	d.items = d.items[:0]
	d.container = Rect{}
	d.active, d.over = -1, -1
	d.running = false
	d.cancelled = false
}

func bounds(items []Item) Rect {
	if len(items) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, it := range items {
		r := it.Rect
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.X+r.Width)
		maxY = math.Max(maxY, r.Y+r.Height)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Rows lays out ids as a vertical stack of equal rows, the geometry a terminal list has.
func Rows(ids []string, width, rowHeight float64) []Item {
	items := make([]Item, len(ids))
	for i, id := range ids {
		items[i] = Item{ID: id, Rect: Rect{Y: float64(i) * rowHeight, Width: width, Height: rowHeight}}
	}
	return items
}
