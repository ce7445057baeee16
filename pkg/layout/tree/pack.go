package tree

// Slot is the grid cell a packer assigns to a node.
type Slot struct {
	ID    string
	Depth int
	Row   int
}

// Packer assigns rows to the nodes of a resolved forest.
//
// Implementations must place every node of f.Order exactly once and must
// keep the depth reported by the forest. Slots are returned in visit order.
type Packer interface {
	Pack(f *Forest) []Slot
}

// DepthPacker packs every depth as an independent vertical stack. Rows are
// numbered by a per-depth counter in depth-first pre-order, children in
// input order.
type DepthPacker struct{}

// Pack implements Packer.
func (DepthPacker) Pack(f *Forest) []Slot {
	slots := make([]Slot, 0, f.Len())
	rows := make(map[int]int, f.MaxDepth()+1)
	visited := make(map[string]bool, f.Len())

	var visit func(id string)
	visit = func(id string) {
		visited[id] = true
		d, _ := f.Depth(id)
		slots = append(slots, Slot{ID: id, Depth: d, Row: rows[d]})
		rows[d]++
		for _, c := range f.Children(id) {
			if !visited[c] {
				visit(c)
			}
		}
	}

	for _, r := range f.Roots {
		if !visited[r] {
			visit(r)
		}
	}
	return slots
}
