// Package stego hides payload bytes inside a sampled carrier. Samples
// are grouped into vertices under a seeded permutation; a weighted
// graph links vertices that can trade samples to reach their modular
// targets, and a greedy minimum-weight matching realises most of the
// payload as swaps of near-identical colours. Whatever the matching
// cannot place is forced in by direct adjustment, so an embed always
// round-trips.
package stego

import (
	"context"
	"fmt"
	"math/rand"
)

// Carrier is the minimal surface the engine needs from a cover medium.
// The byte buffer is exclusively borrowed for the duration of a call;
// callers must not touch it concurrently.
type Carrier interface {
	Bytes() []byte
	BytesPerSample() int
}

// Progress is an advisory tick. Updates may be dropped and the channel
// is never closed by the engine.
type Progress struct {
	Stage string
	Done  int
	Total int
}

// Engine embeds and extracts payloads under one clamped parameter set.
// It is not safe for concurrent use.
type Engine struct {
	p        engineParams
	progress chan<- Progress
}

// NewEngine clamps params into range and returns a ready engine.
func NewEngine(params Params) *Engine {
	return &Engine{p: clampParams(params)}
}

// SetProgress attaches an advisory progress channel. Sends never block;
// a full channel drops the update.
func (e *Engine) SetProgress(ch chan<- Progress) { e.progress = ch }

func (e *Engine) tick(stage string, done, total int) {
	if e.progress == nil {
		return
	}
	select {
	case e.progress <- Progress{Stage: stage, Done: done, Total: total}:
	default:
	}
}

// adjustSeedSalt separates the adjuster's random stream from the
// permutation stream while keeping embeds reproducible.
const adjustSeedSalt = 0x5bd1e995

// Embed hides payload inside the carrier buffer. On error the buffer
// may be partially modified and must be discarded.
func (e *Engine) Embed(ctx context.Context, c Carrier, payload []byte) error {
	if c.BytesPerSample() != bytesPerSample {
		return fmt.Errorf("%w: got %d bytes per sample", ErrUnsupportedCarrier, c.BytesPerSample())
	}
	if ctx.Err() != nil {
		return ErrCancelled
	}

	chunks := encodeChunks(frameMessage(payload), e.p.bits)
	view := newSampleView(c.Bytes(), e.p.mask)
	vertices, err := buildVertices(view, chunks, e.p)
	if err != nil {
		return err
	}

	var pending []*vertex // message vertices that still need a swap
	var reserves []*vertex
	for i := range vertices {
		u := &vertices[i]
		switch {
		case u.isMessage && u.isValid:
			pending = append(pending, u)
		case !u.isMessage:
			reserves = append(reserves, u)
		}
	}

	var leftovers []*vertex
	total := len(pending)
	done := 0
	for start := 0; start < len(pending); start += e.p.batchSize {
		if ctx.Err() != nil {
			return ErrCancelled
		}
		batch := pending[start:min(start+e.p.batchSize, len(pending))]
		finder := &edgeFinder{
			p:        e.p,
			view:     view,
			index:    indexBatch(view, batch, e.p),
			vertices: vertices,
		}
		if err := finder.run(ctx, batch, func() { e.tick("matching", done, total) }); err != nil {
			return err
		}
		leftovers = append(leftovers, matchGreedy(view, vertices, finder.arena, batch, e.p.mask)...)
		done += len(batch)
		e.tick("matching", done, total)
	}

	leftovers, err = e.matchReserves(ctx, view, vertices, leftovers, reserves)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(e.p.seed ^ adjustSeedSalt))
	adjustVertices(view, leftovers, rng, e.p)

	view.flush()
	e.tick("done", total, total)
	return nil
}

// matchReserves retries leftover vertices against reserve donors for a
// bounded number of passes. Each pass builds a fresh index over at most
// one batch worth of still-unconsumed reserves, so peak memory stays
// bounded by the batch size.
func (e *Engine) matchReserves(ctx context.Context, view *sampleView, vertices []vertex, leftovers, reserves []*vertex) ([]*vertex, error) {
	for pass := 0; pass < e.p.reservePasses && len(leftovers) > 0; pass++ {
		pool := make([]*vertex, 0, min(len(reserves), e.p.batchSize))
		for _, r := range reserves {
			if !r.isValid {
				continue
			}
			pool = append(pool, r)
			if len(pool) == e.p.batchSize {
				break
			}
		}
		if len(pool) == 0 {
			break
		}
		ix := indexReserves(view, pool, e.p)
		arena, err := findReserveEdges(ctx, view, vertices, leftovers, ix, e.p)
		if err != nil {
			return nil, err
		}
		leftovers = matchGreedy(view, vertices, arena, leftovers, e.p.mask)
	}
	return leftovers, nil
}

// RawCapacity returns the total embeddable bytes including the
// signature and length framing.
func (e *Engine) RawCapacity(c Carrier) int {
	return len(c.Bytes()) / bytesPerSample / e.p.samplesPerVertex * e.p.bits / 8
}

// Capacity returns the user payload bytes the carrier can hold; the
// framing overhead is already subtracted.
func (e *Engine) Capacity(c Carrier) int {
	raw := e.RawCapacity(c)
	if raw <= headerBytes {
		return 0
	}
	return raw - headerBytes
}
