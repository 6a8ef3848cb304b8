package format

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// Writer serialises envelopes: magic, a length-prefixed JSON header,
// then a length-prefixed body.
type Writer struct {
	w io.Writer
}

// NewWriter creates a new Writer around an io.Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write validates the header and emits the envelope.
func (ew *Writer) Write(header *Header, body []byte) error {
	if err := header.Validate(); err != nil {
		return fmt.Errorf("invalid header: %w", err)
	}
	headerBytes, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if _, err := ew.w.Write(Magic[:]); err != nil {
		return fmt.Errorf("failed to write magic: %w", err)
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(headerBytes)))
	if _, err := ew.w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("failed to write header length: %w", err)
	}
	if _, err := ew.w.Write(headerBytes); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(body)))
	if _, err := ew.w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("failed to write body length: %w", err)
	}
	if _, err := ew.w.Write(body); err != nil {
		return fmt.Errorf("failed to write body: %w", err)
	}
	return nil
}

// Encode is the in-memory convenience the pipeline uses before handing
// the envelope to the engine.
func Encode(header *Header, body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewWriter(&buf).Write(header, body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
