package carrier

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// ErrNotWav indicates the file is not a readable RIFF/WAVE container.
var ErrNotWav = errors.New("not a RIFF/WAVE file")

// ErrUnsupportedWav indicates the audio format cannot serve as a
// carrier; the engine needs raw 8-bit PCM bytes.
var ErrUnsupportedWav = errors.New("only 8-bit PCM WAV carriers are supported")

// WavCarrier exposes the bytes of an 8-bit PCM data chunk as the sample
// buffer. Three consecutive PCM bytes form one sample; trailing bytes
// that do not complete a sample stay untouched.
type WavCarrier struct {
	raw     []byte
	dataOff int
	dataLen int
}

// LoadWav walks the RIFF chunk list and locates the fmt and data
// chunks.
func LoadWav(path string) (*WavCarrier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wav: %w", err)
	}
	if len(raw) < 12 || string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WAVE" {
		return nil, ErrNotWav
	}

	c := &WavCarrier{raw: raw}
	sawFmt := false
	off := 12
	for off+8 <= len(raw) {
		id := string(raw[off : off+4])
		size := int(binary.LittleEndian.Uint32(raw[off+4 : off+8]))
		body := off + 8
		if size < 0 || body+size > len(raw) {
			return nil, fmt.Errorf("%w: chunk %q overruns file", ErrNotWav, id)
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%w: short fmt chunk", ErrNotWav)
			}
			audioFormat := binary.LittleEndian.Uint16(raw[body : body+2])
			bitsPerSample := binary.LittleEndian.Uint16(raw[body+14 : body+16])
			if audioFormat != 1 || bitsPerSample != 8 {
				return nil, ErrUnsupportedWav
			}
			sawFmt = true
		case "data":
			c.dataOff = body
			c.dataLen = size
		}
		off = body + size
		if size%2 == 1 {
			off++ // RIFF chunks are word aligned
		}
	}
	if !sawFmt || c.dataLen == 0 {
		return nil, fmt.Errorf("%w: missing fmt or data chunk", ErrNotWav)
	}
	return c, nil
}

// Bytes aliases the data chunk inside the file image, so engine writes
// land directly in the output bytes.
func (c *WavCarrier) Bytes() []byte { return c.raw[c.dataOff : c.dataOff+c.dataLen] }

func (c *WavCarrier) BytesPerSample() int { return 3 }

// Save rewrites the whole file with the original header and chunk
// layout.
func (c *WavCarrier) Save(path string) error {
	if err := os.WriteFile(path, c.raw, 0644); err != nil {
		return fmt.Errorf("failed to write wav: %w", err)
	}
	return nil
}
