package stego

// Tuning limits. NewEngine clamps out-of-range values instead of
// rejecting them, so a Params built from user flags is always usable.
const (
	minSamplesPerVertex = 1
	maxSamplesPerVertex = 4

	minDistance = 2
	maxDistance = 128

	minQuantum = 1
	maxQuantum = 32

	minBatch = 10_000

	maxReservePasses = 8
)

// progressWeight sets the edge finder's progress step: it ticks once
// every len(batch)/progressWeight vertices, and not at all for batches
// smaller than progressWeight.
const progressWeight = 100

// Params is the tunable surface of the engine. The zero value is not
// useful; start from a preset constructor and override what you need.
type Params struct {
	// SamplesPerVertex is the number of 3-byte samples aggregated into
	// one vertex (1..4). More samples per vertex means fewer carried
	// bits but more candidate partners per vertex.
	SamplesPerVertex int

	// BitsPerVertex is the number of payload bits carried per vertex.
	// Must be 1, 2 or 4; other values are rounded down, except that
	// values below 1 become 1.
	BitsPerVertex int

	// DistanceMax is the largest per-channel colour distance, in raw
	// channel units, considered when pairing samples (2..128).
	DistanceMax int

	// Quantum is the colour quantisation step of the spatial index.
	// Must be a power of two in 1..32; other values are clamped into
	// 1..32 and rounded down to a power of two (7 becomes 4).
	Quantum int

	// VerticesPerMatching bounds how many vertices one matching batch
	// holds (at least 10000). Peak memory scales with this.
	VerticesPerMatching int

	// ReservePasses is how many times leftover vertices are retried
	// against reserve vertices before the adjuster takes over (0..8).
	ReservePasses int

	// Seed drives the sample permutation. Embed and extract must use
	// the same value.
	Seed int64
}

// DefaultParams balances capacity, speed and visual quality.
func DefaultParams() Params {
	return Params{
		SamplesPerVertex:    2,
		BitsPerVertex:       2,
		DistanceMax:         8,
		Quantum:             4,
		VerticesPerMatching: 50_000,
		ReservePasses:       1,
		Seed:                42,
	}
}

// ImperceptibilityParams trades capacity for fewer, better hidden
// changes: wider vertices, one bit each, a generous pairing window and
// an extra reserve pass.
func ImperceptibilityParams() Params {
	return Params{
		SamplesPerVertex:    4,
		BitsPerVertex:       1,
		DistanceMax:         16,
		Quantum:             2,
		VerticesPerMatching: 50_000,
		ReservePasses:       2,
		Seed:                42,
	}
}

// PerformanceParams trades visual quality for speed and capacity.
func PerformanceParams() Params {
	return Params{
		SamplesPerVertex:    1,
		BitsPerVertex:       4,
		DistanceMax:         8,
		Quantum:             8,
		VerticesPerMatching: 150_000,
		ReservePasses:       1,
		Seed:                42,
	}
}

// EffectiveQuantum reports the quantisation step actually used after
// clamping, always a power of two in 1..32.
func (p Params) EffectiveQuantum() int {
	return 1 << clampParams(p).shift
}

// engineParams is the clamped internal form of Params. The quantum is
// held as its exponent because every consumer wants a shift count.
type engineParams struct {
	samplesPerVertex int
	bits             int
	modFactor        int
	mask             uint8
	distanceMax      int
	shift            uint
	batchSize        int
	reservePasses    int
	seed             int64
}

func clampParams(p Params) engineParams {
	bits := 1
	switch {
	case p.BitsPerVertex >= 4:
		bits = 4
	case p.BitsPerVertex >= 2:
		bits = 2
	}

	quantum := clampInt(p.Quantum, minQuantum, maxQuantum)
	shift := uint(0)
	for 1<<(shift+1) <= quantum {
		shift++
	}

	batch := p.VerticesPerMatching
	if batch < minBatch {
		batch = minBatch
	}

	return engineParams{
		samplesPerVertex: clampInt(p.SamplesPerVertex, minSamplesPerVertex, maxSamplesPerVertex),
		bits:             bits,
		modFactor:        1 << bits,
		mask:             uint8(1<<bits - 1),
		distanceMax:      clampInt(p.DistanceMax, minDistance, maxDistance),
		shift:            shift,
		batchSize:        batch,
		reservePasses:    clampInt(p.ReservePasses, 0, maxReservePasses),
		seed:             p.Seed,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
