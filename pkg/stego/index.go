package stego

// sampleRef points at one sample slot of one vertex.
type sampleRef struct {
	vertex int32
	slot   uint8
}

// spatialIndex buckets samples by quantised colour, current mod value
// and target mod value, so every candidate partner for a sample comes
// out of a handful of map lookups. Cells are stored lazily; with a
// small quantum the full grid would dwarf the live sample count.
type spatialIndex struct {
	cells     map[uint64][]sampleRef
	dim       uint64 // cells per colour axis
	modFactor uint64
	shift     uint
}

func newSpatialIndex(p engineParams) *spatialIndex {
	return &spatialIndex{
		cells:     make(map[uint64][]sampleRef),
		dim:       uint64(255>>p.shift) + 1,
		modFactor: uint64(p.modFactor),
		shift:     p.shift,
	}
}

func (ix *spatialIndex) key(x, y, z int, mod, target uint8) uint64 {
	k := (uint64(x)*ix.dim+uint64(y))*ix.dim + uint64(z)
	return (k*ix.modFactor+uint64(mod))*ix.modFactor + uint64(target)
}

// add registers one sample slot of u under its current colour cell.
// Cell lists keep insertion order, which is vertex positional order.
func (ix *spatialIndex) add(view *sampleView, u *vertex, slot int, target uint8) {
	s := &view.samples[u.samples[slot]]
	k := ix.key(
		int(s.values[0]>>ix.shift),
		int(s.values[1]>>ix.shift),
		int(s.values[2]>>ix.shift),
		s.mod, target)
	ix.cells[k] = append(ix.cells[k], sampleRef{vertex: int32(u.id), slot: uint8(slot)})
}

func (ix *spatialIndex) lookup(x, y, z int, mod, target uint8) []sampleRef {
	return ix.cells[ix.key(x, y, z, mod, target)]
}

// indexBatch registers every sample of every batch vertex under its
// (colour, mod, target) key.
func indexBatch(view *sampleView, batch []*vertex, p engineParams) *spatialIndex {
	ix := newSpatialIndex(p)
	for _, u := range batch {
		for slot, si := range u.samples {
			ix.add(view, u, slot, view.samples[si].target)
		}
	}
	return ix
}

// indexReserves registers reserve samples under the sentinel target 0.
// Reserves have no target of their own; they can supply any mod value a
// leftover needs.
func indexReserves(view *sampleView, reserves []*vertex, p engineParams) *spatialIndex {
	ix := newSpatialIndex(p)
	for _, u := range reserves {
		for slot := range u.samples {
			ix.add(view, u, slot, 0)
		}
	}
	return ix
}
