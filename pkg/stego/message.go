package stego

import "encoding/binary"

// signature marks the start of an embedded stream. Extraction treats
// its absence as proof of a wrong seed.
var signature = [4]byte{0x47, 0x54, 0x41, 0x6C}

// headerBytes is the fixed embedding overhead: the signature plus a
// little-endian payload length.
const headerBytes = 8

// frameMessage prepends the signature and the payload length.
func frameMessage(payload []byte) []byte {
	msg := make([]byte, headerBytes+len(payload))
	copy(msg, signature[:])
	binary.LittleEndian.PutUint32(msg[4:8], uint32(len(payload)))
	copy(msg[headerBytes:], payload)
	return msg
}

// encodeChunks splits data into bits-wide chunks, least significant
// bits of each byte first. bits divides 8, so no partial chunk is ever
// produced.
func encodeChunks(data []byte, bits int) []uint8 {
	mask := uint8(1<<bits - 1)
	out := make([]uint8, 0, len(data)*(8/bits))
	for _, b := range data {
		for shift := 0; shift < 8; shift += bits {
			out = append(out, (b>>shift)&mask)
		}
	}
	return out
}

// decodeChunks is the inverse of encodeChunks. Trailing chunks that do
// not complete a byte are discarded.
func decodeChunks(chunks []uint8, bits int) []byte {
	perByte := 8 / bits
	mask := uint8(1<<bits - 1)
	out := make([]byte, 0, len(chunks)/perByte)
	for i := 0; i+perByte <= len(chunks); i += perByte {
		var b byte
		for j := 0; j < perByte; j++ {
			b |= (chunks[i+j] & mask) << (j * bits)
		}
		out = append(out, b)
	}
	return out
}
