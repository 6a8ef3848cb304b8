package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/graphsteg/graphsteg/pkg/carrier"
	"github.com/graphsteg/graphsteg/pkg/compression"
	"github.com/graphsteg/graphsteg/pkg/crypto/encryptor"
	"github.com/graphsteg/graphsteg/pkg/crypto/secrets"
	"github.com/graphsteg/graphsteg/pkg/format"
	"github.com/graphsteg/graphsteg/pkg/shamir"
	"github.com/graphsteg/graphsteg/pkg/sharding"
	"github.com/graphsteg/graphsteg/pkg/stego"
)

// ErrShardedPayload indicates a single-carrier reveal hit one shard of
// a multi-carrier payload.
var ErrShardedPayload = errors.New("carrier holds one shard of a multi-carrier payload; reveal needs the whole set")

// ErrNotEnoughCarriers indicates fewer valid shards were found than the
// recorded threshold.
var ErrNotEnoughCarriers = errors.New("not enough carriers to reconstruct payload")

// effectiveParams resolves the permutation seed: a passphrase overrides
// the configured seed so that embed and extract derive the same value
// from the same secret.
func effectiveParams(params stego.Params, passphrase string) stego.Params {
	if passphrase != "" {
		params.Seed = secrets.DeriveSeed(passphrase)
	}
	return params
}

// Conceal hides the named stream inside a single carrier:
// read, compress, encrypt, wrap the ciphertext in an envelope, embed.
func Conceal(ctx context.Context, in io.Reader, filename string, car carrier.Carrier, passphrase string, params stego.Params, progress chan<- stego.Progress) error {
	plain, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	compressed, err := compression.NewGzip().Compress(plain)
	if err != nil {
		return fmt.Errorf("compression failed: %w", err)
	}

	key := secrets.DeriveKey(passphrase)
	defer key.Destroy()
	cipherText, err := encryptor.NewGCM(key.Bytes()).Encrypt(compressed)
	if err != nil {
		return fmt.Errorf("encryption failed: %w", err)
	}

	header := &format.Header{
		OriginalFilename: filename,
		Timestamp:        time.Now().Unix(),
		Index:            1,
		Total:            1,
		Threshold:        1,
		Compressed:       true,
	}
	blob, err := format.Encode(header, cipherText)
	if err != nil {
		return fmt.Errorf("envelope encoding failed: %w", err)
	}

	eng := stego.NewEngine(effectiveParams(params, passphrase))
	eng.SetProgress(progress)
	if err := eng.Embed(ctx, car, blob); err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}
	return nil
}

// Reveal extracts and opens a single-carrier payload. The returned
// header carries the original filename.
func Reveal(car carrier.Carrier, passphrase string, params stego.Params) (*format.Header, []byte, error) {
	blob, err := stego.NewEngine(effectiveParams(params, passphrase)).Extract(car)
	if err != nil {
		return nil, nil, fmt.Errorf("extraction failed: %w", err)
	}
	header, body, err := format.Decode(blob)
	if err != nil {
		return nil, nil, err
	}
	if header.Total != 1 {
		return header, nil, ErrShardedPayload
	}

	key := secrets.DeriveKey(passphrase)
	defer key.Destroy()
	plain, err := encryptor.NewGCM(key.Bytes()).Decrypt(body)
	if err != nil {
		return nil, nil, fmt.Errorf("decryption failed (integrity check): %w", err)
	}
	if header.Compressed {
		if plain, err = compression.NewGzip().Decompress(plain); err != nil {
			return nil, nil, fmt.Errorf("decompression failed: %w", err)
		}
	}
	return header, plain, nil
}

// ConcealAcross spreads the stream over several carriers. The payload
// is encrypted under an ephemeral random key, erasure-coded into one
// shard per carrier, and each shard travels with a Shamir fragment of
// the key: any threshold carriers recover everything, fewer recover
// nothing.
func ConcealAcross(ctx context.Context, in io.Reader, filename string, carriers []carrier.Carrier, threshold int, passphrase string, params stego.Params, progress chan<- stego.Progress) error {
	total := len(carriers)
	if total < 2 || total > 255 {
		return fmt.Errorf("carrier count %d out of range (2..255)", total)
	}
	if threshold < 2 || threshold > total {
		return fmt.Errorf("threshold %d out of range for %d carriers", threshold, total)
	}

	plain, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	compressed, err := compression.NewGzip().Compress(plain)
	if err != nil {
		return fmt.Errorf("compression failed: %w", err)
	}

	key, err := secrets.NewSecret(32)
	if err != nil {
		return fmt.Errorf("failed to generate ephemeral key: %w", err)
	}
	defer key.Destroy()

	fragments, err := shamir.Split(key.Bytes(), total, threshold)
	if err != nil {
		return fmt.Errorf("failed to split key: %w", err)
	}
	cipherText, err := encryptor.NewGCM(key.Bytes()).Encrypt(compressed)
	if err != nil {
		return fmt.Errorf("encryption failed: %w", err)
	}

	splitter, err := sharding.NewSplitter(total, threshold)
	if err != nil {
		return err
	}
	shards, err := splitter.Split(cipherText)
	if err != nil {
		return fmt.Errorf("sharding failed: %w", err)
	}

	timestamp := time.Now().Unix()
	embedParams := effectiveParams(params, passphrase)
	for i, car := range carriers {
		header := &format.Header{
			OriginalFilename: filename,
			Timestamp:        timestamp,
			Index:            i + 1,
			Total:            total,
			Threshold:        threshold,
			KeyFragment:      fragments[i],
			CipherSize:       len(cipherText),
			Compressed:       true,
		}
		blob, err := format.Encode(header, shards[i].Data)
		if err != nil {
			return fmt.Errorf("envelope encoding failed: %w", err)
		}
		eng := stego.NewEngine(embedParams)
		eng.SetProgress(progress)
		if err := eng.Embed(ctx, car, blob); err != nil {
			return fmt.Errorf("embedding into carrier %d failed: %w", i+1, err)
		}
	}
	return nil
}

// RevealAcross extracts whatever shards the given carriers hold and
// reconstructs the payload once a threshold group from one session is
// present. Carriers that fail to extract are skipped.
func RevealAcross(carriers []carrier.Carrier, passphrase string, params stego.Params) (*format.Header, []byte, error) {
	type shard struct {
		header *format.Header
		body   []byte
	}
	eng := stego.NewEngine(effectiveParams(params, passphrase))

	groups := make(map[string][]shard)
	for _, car := range carriers {
		blob, err := eng.Extract(car)
		if err != nil {
			continue
		}
		header, body, err := format.Decode(blob)
		if err != nil {
			continue
		}
		id := header.SessionID()
		groups[id] = append(groups[id], shard{header: header, body: body})
	}

	var best []shard
	for _, g := range groups {
		if len(g) > len(best) {
			best = g
		}
	}
	if len(best) == 0 {
		return nil, nil, ErrNotEnoughCarriers
	}
	head := best[0].header
	if head.Total == 1 {
		return head, nil, errors.New("single-carrier payload found; use reveal")
	}
	if len(best) < head.Threshold {
		return head, nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughCarriers, len(best), head.Threshold)
	}

	// Duplicate shard files would feed Shamir two points with the same
	// x-coordinate; keep the first of each index.
	fragments := make([][]byte, 0, len(best))
	shardData := make(map[int][]byte, len(best))
	for _, s := range best {
		if _, dup := shardData[s.header.Index-1]; dup {
			continue
		}
		fragments = append(fragments, s.header.KeyFragment)
		shardData[s.header.Index-1] = s.body
	}
	if len(shardData) < head.Threshold {
		return head, nil, fmt.Errorf("%w: have %d distinct shards, need %d", ErrNotEnoughCarriers, len(shardData), head.Threshold)
	}

	keyBytes, err := shamir.Combine(fragments)
	if err != nil {
		return head, nil, fmt.Errorf("failed to combine key fragments: %w", err)
	}
	key := secrets.WrapSecret(keyBytes)
	defer key.Destroy()

	splitter, err := sharding.NewSplitter(head.Total, head.Threshold)
	if err != nil {
		return head, nil, err
	}
	cipherText, err := splitter.Join(shardData, head.CipherSize)
	if err != nil {
		return head, nil, fmt.Errorf("reconstruction failed: %w", err)
	}

	plain, err := encryptor.NewGCM(key.Bytes()).Decrypt(cipherText)
	if err != nil {
		return head, nil, fmt.Errorf("decryption failed (integrity check): %w", err)
	}
	if head.Compressed {
		if plain, err = compression.NewGzip().Decompress(plain); err != nil {
			return head, nil, fmt.Errorf("decompression failed: %w", err)
		}
	}
	return head, plain, nil
}
