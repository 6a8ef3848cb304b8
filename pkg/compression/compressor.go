package compression

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// Compressor defines the contract for payload compression. The
// pipeline shrinks plaintext before encryption; ciphertext itself is
// incompressible.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// Gzip implements Compressor with standard gzip at BestSpeed, which is
// plenty for the payload sizes a carrier can hold.
type Gzip struct{}

func NewGzip() *Gzip {
	return &Gzip{}
}

func (g *Gzip) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Gzip) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("corrupt compressed payload: %w", err)
	}
	defer r.Close()
	return io.ReadAll(r)
}
