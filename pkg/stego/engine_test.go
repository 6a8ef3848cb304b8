package stego

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math/rand"
	"testing"
)

type memCarrier struct {
	buf []byte
	bps int
}

func (m *memCarrier) Bytes() []byte       { return m.buf }
func (m *memCarrier) BytesPerSample() int { return m.bps }

func newMemCarrier(size int, seed int64) *memCarrier {
	buf := make([]byte, size)
	rand.New(rand.NewSource(seed)).Read(buf)
	return &memCarrier{buf: buf, bps: bytesPerSample}
}

func TestEmptyPayloadRoundTrip(t *testing.T) {
	car := newMemCarrier(3000, 1)
	eng := NewEngine(DefaultParams())
	if err := eng.Embed(context.Background(), car, nil); err != nil {
		t.Fatalf("embed: %v", err)
	}
	got, err := NewEngine(DefaultParams()).Extract(car)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty payload, got %d bytes", len(got))
	}
}

func TestSingleByteRoundTrip(t *testing.T) {
	car := newMemCarrier(3000, 2)
	eng := NewEngine(DefaultParams())
	if err := eng.Embed(context.Background(), car, []byte{0x5A}); err != nil {
		t.Fatalf("embed: %v", err)
	}
	got, err := NewEngine(DefaultParams()).Extract(car)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !bytes.Equal(got, []byte{0x5A}) {
		t.Fatalf("got %x, want 5a", got)
	}
}

func TestExactCapacityRoundTrip(t *testing.T) {
	car := newMemCarrier(3000, 3)
	eng := NewEngine(DefaultParams())

	// 1000 samples, 500 vertices, 2 bits each: 125 raw bytes.
	if raw := eng.RawCapacity(car); raw != 125 {
		t.Fatalf("raw capacity %d, want 125", raw)
	}
	capacity := eng.Capacity(car)
	if capacity != 117 {
		t.Fatalf("capacity %d, want 117", capacity)
	}

	payload := make([]byte, capacity)
	rand.New(rand.NewSource(4)).Read(payload)
	if err := eng.Embed(context.Background(), car, payload); err != nil {
		t.Fatalf("embed at exact capacity: %v", err)
	}
	got, err := NewEngine(DefaultParams()).Extract(car)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("payload mismatch at exact capacity")
	}
}

func TestOverCapacityFails(t *testing.T) {
	car := newMemCarrier(3000, 5)
	eng := NewEngine(DefaultParams())
	payload := make([]byte, eng.Capacity(car)+1)
	err := eng.Embed(context.Background(), car, payload)
	if !errors.Is(err, ErrCarrierTooSmall) {
		t.Fatalf("expected ErrCarrierTooSmall, got %v", err)
	}
}

func TestWrongSeedFailsSignature(t *testing.T) {
	car := newMemCarrier(3000, 6)
	p := DefaultParams()
	p.Seed = 42
	if err := NewEngine(p).Embed(context.Background(), car, []byte("secret")); err != nil {
		t.Fatalf("embed: %v", err)
	}
	p.Seed = 43
	_, err := NewEngine(p).Extract(car)
	if !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected ErrSignatureMismatch, got %v", err)
	}
}

func TestTinyCarrier(t *testing.T) {
	// 36 bytes: 12 samples, 6 vertices, 12 chunk bits. Not even the
	// signature fits.
	car := newMemCarrier(36, 7)
	eng := NewEngine(DefaultParams())
	if got := eng.Capacity(car); got != 0 {
		t.Fatalf("capacity %d, want 0", got)
	}
	if err := eng.Embed(context.Background(), car, nil); !errors.Is(err, ErrCarrierTooSmall) {
		t.Fatalf("expected ErrCarrierTooSmall for empty payload, got %v", err)
	}

	// 216 bytes: 72 samples, 36 vertices, 9 raw bytes: room for the
	// framing plus exactly one payload byte.
	car = newMemCarrier(216, 8)
	if got := eng.Capacity(car); got != 1 {
		t.Fatalf("capacity %d, want 1", got)
	}
	if err := eng.Embed(context.Background(), car, []byte{0x7E}); err != nil {
		t.Fatalf("embed one byte: %v", err)
	}
	got, err := NewEngine(DefaultParams()).Extract(car)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !bytes.Equal(got, []byte{0x7E}) {
		t.Fatalf("got %x, want 7e", got)
	}
	if err := eng.Embed(context.Background(), newMemCarrier(216, 8), []byte{1, 2}); !errors.Is(err, ErrCarrierTooSmall) {
		t.Fatalf("expected ErrCarrierTooSmall for two bytes, got %v", err)
	}
}

func TestEmbedDeterministic(t *testing.T) {
	a := newMemCarrier(6000, 9)
	b := &memCarrier{buf: append([]byte(nil), a.buf...), bps: bytesPerSample}
	payload := []byte("the same bytes in, the same bytes out")

	if err := NewEngine(DefaultParams()).Embed(context.Background(), a, payload); err != nil {
		t.Fatalf("embed a: %v", err)
	}
	if err := NewEngine(DefaultParams()).Embed(context.Background(), b, payload); err != nil {
		t.Fatalf("embed b: %v", err)
	}
	if !bytes.Equal(a.buf, b.buf) {
		t.Fatal("two embeds with identical inputs produced different carriers")
	}
}

func TestUnsupportedCarrier(t *testing.T) {
	car := &memCarrier{buf: make([]byte, 3000), bps: 4}
	eng := NewEngine(DefaultParams())
	if err := eng.Embed(context.Background(), car, nil); !errors.Is(err, ErrUnsupportedCarrier) {
		t.Fatalf("embed: expected ErrUnsupportedCarrier, got %v", err)
	}
	if _, err := eng.Extract(car); !errors.Is(err, ErrUnsupportedCarrier) {
		t.Fatalf("extract: expected ErrUnsupportedCarrier, got %v", err)
	}
}

func TestEmbedCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewEngine(DefaultParams()).Embed(ctx, newMemCarrier(3000, 10), []byte("x"))
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

// TestLengthOutOfRange plants a frame whose length prefix claims more
// bytes than the carrier holds, bypassing the embed preflight.
func TestLengthOutOfRange(t *testing.T) {
	p := clampParams(DefaultParams())
	car := newMemCarrier(3000, 11)

	head := make([]byte, headerBytes)
	copy(head, signature[:])
	binary.LittleEndian.PutUint32(head[4:8], 1<<20)

	view := newSampleView(car.buf, p.mask)
	vertices, err := buildVertices(view, encodeChunks(head, p.bits), p)
	if err != nil {
		t.Fatalf("buildVertices: %v", err)
	}
	var pending []*vertex
	for i := range vertices {
		if vertices[i].isMessage && vertices[i].isValid {
			pending = append(pending, &vertices[i])
		}
	}
	adjustVertices(view, pending, rand.New(rand.NewSource(1)), p)
	view.flush()

	_, err = NewEngine(DefaultParams()).Extract(car)
	if !errors.Is(err, ErrLengthOutOfRange) {
		t.Fatalf("expected ErrLengthOutOfRange, got %v", err)
	}
}

func TestCapacityTracksParams(t *testing.T) {
	car := newMemCarrier(9000, 12)
	for _, params := range []Params{DefaultParams(), ImperceptibilityParams(), PerformanceParams()} {
		eng := NewEngine(params)
		p := clampParams(params)
		want := len(car.buf) / bytesPerSample / p.samplesPerVertex * p.bits / 8
		if got := eng.RawCapacity(car); got != want {
			t.Fatalf("raw capacity %d, want %d", got, want)
		}
		if got := eng.Capacity(car); got != want-headerBytes {
			t.Fatalf("capacity %d, want %d", got, want-headerBytes)
		}
	}
}

func TestProgressReported(t *testing.T) {
	car := newMemCarrier(30000, 13)
	eng := NewEngine(DefaultParams())
	ch := make(chan Progress, 256)
	eng.SetProgress(ch)
	if err := eng.Embed(context.Background(), car, []byte("progress")); err != nil {
		t.Fatalf("embed: %v", err)
	}
	close(ch)
	saw := false
	for p := range ch {
		if p.Stage == "done" {
			saw = true
		}
	}
	if !saw {
		t.Fatal("no terminal progress update observed")
	}
}
