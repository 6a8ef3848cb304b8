package format

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotEnvelope indicates the blob does not start with the envelope
// magic, usually because the carrier held something else entirely.
var ErrNotEnvelope = errors.New("extracted data is not a graphsteg envelope")

// Read parses an envelope produced by Writer and returns the validated
// header plus the body bytes.
func Read(r io.Reader) (*Header, []byte, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNotEnvelope, err)
	}
	if magic != Magic {
		return nil, nil, ErrNotEnvelope
	}

	headerBytes, err := readBlock(r, maxHeaderSize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	header := &Header{}
	if err := json.Unmarshal(headerBytes, header); err != nil {
		return nil, nil, fmt.Errorf("failed to parse header json: %w", err)
	}
	if err := header.Validate(); err != nil {
		return nil, nil, fmt.Errorf("header validation failed: %w", err)
	}

	body, err := readBlock(r, 1<<31-1)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read body: %w", err)
	}
	return header, body, nil
}

// Decode parses an in-memory envelope.
func Decode(blob []byte) (*Header, []byte, error) {
	return Read(bytes.NewReader(blob))
}

// readBlock reads one little-endian length prefix plus that many bytes.
func readBlock(r io.Reader, limit int) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := int(binary.LittleEndian.Uint32(lenBuf[:]))
	if n < 0 || n > limit {
		return nil, fmt.Errorf("block length %d out of range", n)
	}
	block := make([]byte, n)
	if _, err := io.ReadFull(r, block); err != nil {
		return nil, err
	}
	return block, nil
}
