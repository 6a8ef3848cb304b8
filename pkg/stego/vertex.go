package stego

import "fmt"

// vertex groups samplesPerVertex samples drawn from the seeded
// permutation. Message vertices carry one payload chunk; reserves only
// donate samples during reserve matching.
type vertex struct {
	id        int
	samples   []int // indexes into the sample view; never shared
	value     uint8
	chunk     uint8
	isMessage bool
	isValid   bool
	edges     []int32 // indexes into the current batch's edge arena
}

// refresh recomputes the cached aggregate mod value from the samples.
func (u *vertex) refresh(view *sampleView, mask uint8) {
	sum := 0
	for _, si := range u.samples {
		sum += int(view.samples[si].mod)
	}
	u.value = uint8(sum) & mask
}

// buildVertices draws the permutation and packs consecutive samples
// into vertices. The first len(chunks) vertices become message bearing:
// each of their samples is assigned the same modular delta, so swapping
// any single one with a complementary partner satisfies the whole
// vertex. The rest are reserves.
//
// A message vertex whose value already equals its chunk needs no work
// and is marked consumed immediately.
func buildVertices(view *sampleView, chunks []uint8, p engineParams) ([]vertex, error) {
	capacity := len(view.samples) / p.samplesPerVertex
	if len(chunks) > capacity {
		return nil, fmt.Errorf("%w: need %d vertices, have %d", ErrCarrierTooSmall, len(chunks), capacity)
	}

	perm := newPermuter(p.seed, len(view.samples))
	vertices := make([]vertex, capacity)
	for i := range vertices {
		u := &vertices[i]
		u.id = i
		u.isValid = true
		u.samples = make([]int, p.samplesPerVertex)
		for j := range u.samples {
			u.samples[j] = perm.next()
		}
		u.refresh(view, p.mask)

		if i >= len(chunks) {
			continue // reserve: no target
		}
		u.isMessage = true
		u.chunk = chunks[i]
		delta := uint8(p.modFactor+int(u.chunk)-int(u.value)) & p.mask
		for _, si := range u.samples {
			s := &view.samples[si]
			s.target = (s.mod + delta) & p.mask
		}
		if delta == 0 {
			u.isValid = false
		}
	}
	return vertices, nil
}
