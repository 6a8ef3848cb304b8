package stego

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Extract replays the permutation and reassembles the embedded stream.
// No graph work happens here: each vertex's chunk is just the masked
// sum of its samples' bytes.
func (e *Engine) Extract(c Carrier) ([]byte, error) {
	if c.BytesPerSample() != bytesPerSample {
		return nil, fmt.Errorf("%w: got %d bytes per sample", ErrUnsupportedCarrier, c.BytesPerSample())
	}
	view := newSampleView(c.Bytes(), e.p.mask)
	r := &chunkReader{
		view: view,
		perm: newPermuter(e.p.seed, len(view.samples)),
		p:    e.p,
	}

	head, ok := r.readBytes(headerBytes)
	if !ok || !bytes.Equal(head[:4], signature[:]) {
		return nil, ErrSignatureMismatch
	}
	length := binary.LittleEndian.Uint32(head[4:8])
	if int64(length) > int64(r.remainingBytes()) {
		return nil, fmt.Errorf("%w: %d bytes claimed, %d available", ErrLengthOutOfRange, length, r.remainingBytes())
	}
	payload, ok := r.readBytes(int(length))
	if !ok {
		return nil, fmt.Errorf("%w: carrier ends inside payload", ErrLengthOutOfRange)
	}
	return payload, nil
}

// chunkReader walks vertices in permutation order and yields their mod
// values as the embedded chunk stream.
type chunkReader struct {
	view *sampleView
	perm *permuter
	p    engineParams
	used int // vertices consumed so far
}

func (r *chunkReader) capacityVertices() int {
	return len(r.view.samples) / r.p.samplesPerVertex
}

func (r *chunkReader) remainingBytes() int {
	return (r.capacityVertices() - r.used) * r.p.bits / 8
}

// readBytes reads n bytes worth of chunks, or reports failure when the
// carrier has too few vertices left.
func (r *chunkReader) readBytes(n int) ([]byte, bool) {
	need := n * 8 / r.p.bits
	if r.used+need > r.capacityVertices() {
		return nil, false
	}
	chunks := make([]uint8, need)
	for i := range chunks {
		sum := 0
		for s := 0; s < r.p.samplesPerVertex; s++ {
			smp := &r.view.samples[r.perm.next()]
			sum += int(smp.values[0]) + int(smp.values[1]) + int(smp.values[2])
		}
		chunks[i] = uint8(sum) & r.p.mask
		r.used++
	}
	return decodeChunks(chunks, r.p.bits), true
}
