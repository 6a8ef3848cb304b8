package sharding

import (
	"bytes"
	"fmt"

	"github.com/klauspost/reedsolomon"
)

// Shard is the slice of ciphertext destined for one carrier.
type Shard struct {
	Index int // 0-based
	Data  []byte
}

// Splitter spreads a payload over Total carriers so that any Threshold
// of them reconstruct it, using Reed-Solomon erasure coding.
type Splitter struct {
	Total     int
	Threshold int
}

func NewSplitter(total, threshold int) (*Splitter, error) {
	if threshold < 1 || threshold > total {
		return nil, fmt.Errorf("threshold %d out of range for %d carriers", threshold, total)
	}
	return &Splitter{Total: total, Threshold: threshold}, nil
}

// Split erasure-codes data into Total shards: Threshold data shards
// plus parity. The library pads the last data shard; Join strips the
// padding with the original size.
func (s *Splitter) Split(data []byte) ([]Shard, error) {
	enc, err := reedsolomon.New(s.Threshold, s.Total-s.Threshold)
	if err != nil {
		return nil, err
	}
	parts, err := enc.Split(data)
	if err != nil {
		return nil, err
	}
	if err := enc.Encode(parts); err != nil {
		return nil, err
	}

	shards := make([]Shard, len(parts))
	for i, p := range parts {
		shards[i] = Shard{Index: i, Data: p}
	}
	return shards, nil
}

// Join reconstructs the original stream from any Threshold shards,
// keyed by their 0-based index.
func (s *Splitter) Join(shards map[int][]byte, originalSize int) ([]byte, error) {
	enc, err := reedsolomon.New(s.Threshold, s.Total-s.Threshold)
	if err != nil {
		return nil, err
	}

	have := make([][]byte, s.Total)
	valid := 0
	for i := 0; i < s.Total; i++ {
		if data, ok := shards[i]; ok {
			have[i] = data
			valid++
		}
	}
	if valid < s.Threshold {
		return nil, fmt.Errorf("not enough shards to reconstruct: have %d, need %d", valid, s.Threshold)
	}

	if err := enc.Reconstruct(have); err != nil {
		return nil, fmt.Errorf("reconstruction failed: %w", err)
	}

	// Concatenate the data shards directly; the library's own Join is
	// ambiguous when the size is unknown.
	var buf bytes.Buffer
	for i := 0; i < s.Threshold; i++ {
		if len(have[i]) == 0 {
			return nil, fmt.Errorf("unexpected empty shard at index %d", i)
		}
		buf.Write(have[i])
	}
	joined := buf.Bytes()

	if originalSize > 0 {
		if len(joined) < originalSize {
			return nil, fmt.Errorf("reconstructed data shorter than expected size")
		}
		joined = joined[:originalSize]
	}
	return joined, nil
}
