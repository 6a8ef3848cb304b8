package stego

import "errors"

// Sentinel errors surfaced by the engine. Callers match with errors.Is;
// no error is retried internally.
var (
	// ErrUnsupportedCarrier indicates the carrier does not expose
	// 3-byte samples.
	ErrUnsupportedCarrier = errors.New("carrier must expose 3-byte samples")

	// ErrCarrierTooSmall indicates the payload needs more vertices than
	// the carrier provides.
	ErrCarrierTooSmall = errors.New("payload too large for carrier")

	// ErrCancelled indicates the embedding was cancelled mid-flight.
	// The carrier buffer may be partially modified and must be
	// discarded.
	ErrCancelled = errors.New("embedding cancelled")

	// ErrSignatureMismatch indicates extraction found no payload
	// signature, usually because the passphrase or seed is wrong.
	ErrSignatureMismatch = errors.New("no payload signature found (wrong passphrase or seed?)")

	// ErrLengthOutOfRange indicates the embedded length prefix claims
	// more bytes than the carrier can hold.
	ErrLengthOutOfRange = errors.New("embedded length exceeds carrier capacity")
)
