package stego

import "math/rand"

// adjustVertices forces every remaining vertex onto its target by
// bumping one randomly chosen channel byte of one randomly chosen
// sample. When the bump would overflow the byte, the complement is
// subtracted instead; both branches shift the byte sum by the same
// amount modulo modFactor, so adjustment can never fail.
func adjustVertices(view *sampleView, leftovers []*vertex, rng *rand.Rand, p engineParams) {
	for _, u := range leftovers {
		if !u.isValid {
			continue
		}
		s := &view.samples[u.samples[rng.Intn(len(u.samples))]]
		c := rng.Intn(bytesPerSample)
		diff := uint8(p.modFactor-int(s.mod)+int(s.target)) & p.mask
		if int(s.values[c])+int(diff) > 255 {
			s.values[c] -= uint8(p.modFactor) - diff
		} else {
			s.values[c] += diff
		}
		s.recompute(p.mask)
		u.refresh(view, p.mask)
		u.isValid = false
	}
}
