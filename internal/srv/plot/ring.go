package plot

// Ring remembers, per screen column, the height last drawn there.
type Ring struct {
	heights []int
	index   int
}

// NewRing returns a ring with one slot per column, all heights at 0.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{heights: make([]int, capacity)}
}

func (r *Ring) Cap() int { return len(r.heights) }

// Index is the column the next Record writes to.
func (r *Ring) Index() int { return r.index }

// At returns the height last recorded at column i.
func (r *Ring) At(i int) int { return r.heights[i] }

// Record stores h at the current column and advances the write index.
// It returns the column written and the height it held before.
func (r *Ring) Record(h int) (column, previous int) {
	column = r.index
	previous = r.heights[column]
	r.heights[column] = h
	r.index = (r.index + 1) % len(r.heights)
	return column, previous
}
