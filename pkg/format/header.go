package format

import (
	"errors"
	"fmt"
)

// Magic marks the start of an envelope recovered from a carrier. An
// extracted blob that does not begin with it is not ours.
var Magic = [4]byte{'G', 'S', 'E', 'V'}

// maxHeaderSize caps the JSON header so a corrupt length prefix cannot
// trigger a huge allocation.
const maxHeaderSize = 1 << 20

// Header is the metadata travelling with every embedded payload.
type Header struct {
	// OriginalFilename is the name of the file before concealment.
	OriginalFilename string `json:"originalFilename"`

	// Timestamp is the unix timestamp of the conceal operation. Shards
	// from different sessions are never mixed.
	Timestamp int64 `json:"timestamp"`

	// Index is the shard index (1-based). Always 1 for a
	// single-carrier payload.
	Index int `json:"index"`

	// Total is the number of carriers the payload was spread over.
	Total int `json:"total"`

	// Threshold is the number of carriers required to recover the
	// payload.
	Threshold int `json:"threshold"`

	// KeyFragment is this carrier's Shamir share of the ephemeral AES
	// key. Empty in single-carrier mode, where the key comes from the
	// passphrase.
	KeyFragment []byte `json:"keyFragment,omitempty"`

	// CipherSize is the exact ciphertext length before erasure-coding
	// padding. Zero in single-carrier mode.
	CipherSize int `json:"cipherSize,omitempty"`

	// Compressed records whether the plaintext was gzipped before
	// encryption.
	Compressed bool `json:"compressed"`
}

// Validate checks if the header contains sane values.
func (h *Header) Validate() error {
	if h.OriginalFilename == "" {
		return errors.New("header is missing original filename")
	}
	if h.Total < 1 {
		return fmt.Errorf("invalid carrier total %d", h.Total)
	}
	if h.Index < 1 || h.Index > h.Total {
		return fmt.Errorf("invalid index %d for total %d", h.Index, h.Total)
	}
	if h.Total == 1 {
		if h.Threshold != 1 {
			return fmt.Errorf("invalid threshold %d for a single carrier", h.Threshold)
		}
		return nil
	}
	if h.Threshold < 2 || h.Threshold > h.Total {
		return fmt.Errorf("invalid threshold %d for total %d", h.Threshold, h.Total)
	}
	if len(h.KeyFragment) == 0 {
		return errors.New("header is missing key fragment")
	}
	if h.CipherSize < 1 {
		return errors.New("header is missing cipher size")
	}
	return nil
}

// SessionID groups shards that belong to the same conceal operation.
func (h *Header) SessionID() string {
	return fmt.Sprintf("%s|%d", h.OriginalFilename, h.Timestamp)
}
