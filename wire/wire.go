// Package wire moves encoded frequency maps between workers that share
// no memory. Frames are self-delimiting:
//
//	| length (8 bytes, big endian) | payload (length bytes) |
package wire

import (
	"encoding/binary"
	"errors"
	"io"
)

// DefaultMaxFrame caps a single frame at 64 MiB.
const DefaultMaxFrame = 1 << 26

// ErrFrameTooLarge reports a frame beyond the configured maximum, on
// either side of the exchange. This is fatal to the run: an oversized
// contribution cannot be partially received.
var ErrFrameTooLarge = errors.New("wire: frame exceeds maximum size")

// Send writes one frame to w.
func Send(w io.Writer, payload []byte, maxFrame int) error {
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrame
	}
	if len(payload) > maxFrame {
		return ErrFrameTooLarge
	}
	if err := binary.Write(w, binary.BigEndian, uint64(len(payload))); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	return nil
}

// Receive reads one frame from r.
func Receive(r io.Reader, maxFrame int) ([]byte, error) {
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrame
	}
	var length uint64
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, err
	}
	if length > uint64(maxFrame) {
		return nil, ErrFrameTooLarge
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
