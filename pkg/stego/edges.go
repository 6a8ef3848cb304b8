package stego

import "context"

// edge is one candidate exchange between a sample of u and a sample of
// v. Applying it swaps exactly those two samples. Edges live in a
// batch-owned arena; vertices hold arena indexes, so the whole graph is
// dropped in one go when the batch ends.
type edge struct {
	u, v   int32
	su, sv uint8
	weight uint16
}

// squaredDistance is the edge weight: the squared Euclidean distance
// between two samples' channel bytes. Within the pairing window the sum
// fits in 16 bits; the clamp only fires in extreme parameter corners.
func squaredDistance(a, b *sample) uint16 {
	sum := 0
	for i := 0; i < bytesPerSample; i++ {
		d := int(a.values[i]) - int(b.values[i])
		sum += d * d
	}
	if sum > 0xFFFF {
		sum = 0xFFFF
	}
	return uint16(sum)
}

// edgeFinder enumerates candidate partners for every sample of a batch.
//
// A partner must hold the mod value the sample wants and want the mod
// value the sample holds, so one swap advances both vertices onto their
// targets. The colour window scan is half-space shaped so each
// unordered edge is produced exactly once: the first axis only widens
// upward, the second only widens upward while the first sits on its
// origin cell, and the origin column filters on vertex id.
type edgeFinder struct {
	p        engineParams
	view     *sampleView
	index    *spatialIndex
	vertices []vertex
	arena    []edge
}

func (f *edgeFinder) run(ctx context.Context, batch []*vertex, tick func()) error {
	step := len(batch) / progressWeight
	for n, u := range batch {
		if ctx.Err() != nil {
			return ErrCancelled
		}
		if tick != nil && step > 0 && n%step == 0 {
			tick()
		}
		for slot, si := range u.samples {
			f.scanSample(u, slot, si)
		}
	}
	return nil
}

func (f *edgeFinder) scanSample(u *vertex, slot, si int) {
	s := &f.view.samples[si]
	x0 := int(s.values[0] >> f.p.shift)
	y0 := int(s.values[1] >> f.p.shift)
	z0 := int(s.values[2] >> f.p.shift)
	dimMax := int(f.index.dim) - 1
	d := f.p.distanceMax >> f.p.shift
	wantMod, wantTarget := s.target, s.mod

	// Origin column (x0, y0): id-filtered, so pairs sharing a column
	// are emitted from the lower id only.
	for z := max(z0-d, 0); z <= min(z0+d, dimMax); z++ {
		for _, ref := range f.index.lookup(x0, y0, z, wantMod, wantTarget) {
			if int(ref.vertex) <= u.id {
				continue
			}
			f.emit(u, slot, s, ref)
		}
	}

	// Rest of the x == x0 plane: y widens upward only.
	for y := y0 + 1; y <= min(y0+d, dimMax); y++ {
		for z := max(z0-d, 0); z <= min(z0+d, dimMax); z++ {
			f.scanCell(u, slot, s, x0, y, z, wantMod, wantTarget)
		}
	}

	// Upper x half: y and z fully symmetric.
	for x := x0 + 1; x <= min(x0+d, dimMax); x++ {
		for y := max(y0-d, 0); y <= min(y0+d, dimMax); y++ {
			for z := max(z0-d, 0); z <= min(z0+d, dimMax); z++ {
				f.scanCell(u, slot, s, x, y, z, wantMod, wantTarget)
			}
		}
	}
}

func (f *edgeFinder) scanCell(u *vertex, slot int, s *sample, x, y, z int, mod, target uint8) {
	for _, ref := range f.index.lookup(x, y, z, mod, target) {
		if int(ref.vertex) == u.id {
			continue
		}
		f.emit(u, slot, s, ref)
	}
}

// emit appends the edge to the arena and registers it on both
// endpoints.
func (f *edgeFinder) emit(u *vertex, slot int, s *sample, ref sampleRef) {
	v := &f.vertices[ref.vertex]
	partner := &f.view.samples[v.samples[ref.slot]]
	id := int32(len(f.arena))
	f.arena = append(f.arena, edge{
		u:      int32(u.id),
		v:      ref.vertex,
		su:     uint8(slot),
		sv:     ref.slot,
		weight: squaredDistance(s, partner),
	})
	u.edges = append(u.edges, id)
	v.edges = append(v.edges, id)
}

// findReserveEdges pairs leftover samples against indexed reserve
// samples. The window is symmetric on every axis: the two sides live in
// different keyspaces, so the half-space trick is unnecessary. A
// reserve qualifies when it currently holds the mod value the leftover
// slot is targeting.
func findReserveEdges(ctx context.Context, view *sampleView, vertices []vertex, leftovers []*vertex, ix *spatialIndex, p engineParams) ([]edge, error) {
	var arena []edge
	dimMax := int(ix.dim) - 1
	d := p.distanceMax >> p.shift
	for _, u := range leftovers {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		for slot, si := range u.samples {
			s := &view.samples[si]
			x0 := int(s.values[0] >> p.shift)
			y0 := int(s.values[1] >> p.shift)
			z0 := int(s.values[2] >> p.shift)
			for x := max(x0-d, 0); x <= min(x0+d, dimMax); x++ {
				for y := max(y0-d, 0); y <= min(y0+d, dimMax); y++ {
					for z := max(z0-d, 0); z <= min(z0+d, dimMax); z++ {
						for _, ref := range ix.lookup(x, y, z, s.target, 0) {
							v := &vertices[ref.vertex]
							partner := &view.samples[v.samples[ref.slot]]
							id := int32(len(arena))
							arena = append(arena, edge{
								u:      int32(u.id),
								v:      ref.vertex,
								su:     uint8(slot),
								sv:     ref.slot,
								weight: squaredDistance(s, partner),
							})
							u.edges = append(u.edges, id)
							v.edges = append(v.edges, id)
						}
					}
				}
			}
		}
	}
	return arena, nil
}
