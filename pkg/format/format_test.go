package format

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func validHeader() *Header {
	return &Header{
		OriginalFilename: "diary.txt",
		Timestamp:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).Unix(),
		Index:            2,
		Total:            5,
		Threshold:        3,
		KeyFragment:      []byte{1, 2, 3},
		CipherSize:       99,
		Compressed:       true,
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	header := validHeader()
	body := []byte("sharded ciphertext")

	blob, err := Encode(header, body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	back, gotBody, err := Decode(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(gotBody, body) {
		t.Fatal("body mismatch")
	}
	if back.OriginalFilename != header.OriginalFilename ||
		back.Index != header.Index ||
		back.Threshold != header.Threshold ||
		!bytes.Equal(back.KeyFragment, header.KeyFragment) {
		t.Fatalf("header mismatch: %+v", back)
	}
	if back.SessionID() != header.SessionID() {
		t.Fatal("session id not stable")
	}
}

func TestSingleCarrierHeader(t *testing.T) {
	h := &Header{OriginalFilename: "a", Timestamp: 1, Index: 1, Total: 1, Threshold: 1}
	if err := h.Validate(); err != nil {
		t.Fatalf("single-carrier header should validate: %v", err)
	}
}

func TestValidateRejectsBadHeaders(t *testing.T) {
	cases := map[string]func(*Header){
		"no filename":     func(h *Header) { h.OriginalFilename = "" },
		"index too large": func(h *Header) { h.Index = 6 },
		"index zero":      func(h *Header) { h.Index = 0 },
		"threshold high":  func(h *Header) { h.Threshold = 9 },
		"threshold low":   func(h *Header) { h.Threshold = 1 },
		"no key fragment": func(h *Header) { h.KeyFragment = nil },
		"no cipher size":  func(h *Header) { h.CipherSize = 0 },
	}
	for name, mutate := range cases {
		h := validHeader()
		mutate(h)
		if err := h.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestDecodeRejectsForeignBlob(t *testing.T) {
	_, _, err := Decode([]byte("definitely not an envelope"))
	if !errors.Is(err, ErrNotEnvelope) {
		t.Fatalf("expected ErrNotEnvelope, got %v", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	blob, err := Encode(validHeader(), []byte("body"))
	if err != nil {
		t.Fatal(err)
	}
	for cut := 1; cut < len(blob); cut += 7 {
		if _, _, err := Decode(blob[:len(blob)-cut]); err == nil {
			t.Fatalf("truncation by %d bytes went unnoticed", cut)
		}
	}
}
