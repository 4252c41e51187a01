// Package codec serializes a frequency map into a self-contained byte
// sequence for transport between workers that share no memory. Records
// are length-prefixed binary (varint word length, word bytes, varint
// count), so no byte value is reserved and words containing separator
// or delimiter characters round-trip intact.
package codec

import (
	"errors"

	"google.golang.org/protobuf/encoding/protowire"

	"wordfreq/freqmap"
)

// DefaultMaxPayload caps the encoded size of a single map at 64 MiB.
const DefaultMaxPayload = 1 << 26

// ErrPayloadTooLarge reports an encoded map exceeding the configured
// maximum. This is a fatal condition: no partial output is produced.
var ErrPayloadTooLarge = errors.New("codec: payload exceeds maximum size")

// Encode serializes m. Record order follows the map's internal order and
// carries no meaning. A maxPayload of zero or less applies
// DefaultMaxPayload. An empty map encodes to an empty payload.
func Encode(m *freqmap.Map, maxPayload int) ([]byte, error) {
	if maxPayload <= 0 {
		maxPayload = DefaultMaxPayload
	}
	buf := make([]byte, 0, 16*m.Items())
	overflow := false
	m.Range(func(word string, count uint64) bool {
		buf = protowire.AppendVarint(buf, uint64(len(word)))
		buf = append(buf, word...)
		buf = protowire.AppendVarint(buf, count)
		if len(buf) > maxPayload {
			overflow = true
			return false
		}
		return true
	})
	if overflow {
		return nil, ErrPayloadTooLarge
	}
	return buf, nil
}

// Decode reconstructs a map from an encoded payload. The result is
// identical to inserting each decoded word count times into a fresh map.
//
// Malformed records are recoverable: a record with a zero count or an
// over-bound word length is dropped and decoding continues, and a
// truncated tail ends decoding with whatever parsed cleanly. dropped
// reports how many records were discarded either way. Empty input
// decodes to an empty map. Input larger than maxPayload is fatal.
func Decode(data []byte, maxPayload int) (m *freqmap.Map, dropped int, err error) {
	if maxPayload <= 0 {
		maxPayload = DefaultMaxPayload
	}
	if len(data) > maxPayload {
		return nil, 0, ErrPayloadTooLarge
	}
	m = freqmap.New()
	rest := data
	for len(rest) > 0 {
		wlen, n := protowire.ConsumeVarint(rest)
		if n < 0 || wlen > uint64(len(rest)-n) {
			// Unreadable framing: the remainder cannot be resynced.
			dropped++
			return m, dropped, nil
		}
		rest = rest[n:]
		word := rest[:wlen]
		rest = rest[wlen:]
		count, n := protowire.ConsumeVarint(rest)
		if n < 0 {
			dropped++
			return m, dropped, nil
		}
		rest = rest[n:]
		if wlen == 0 || wlen > freqmap.MaxWordLen || count == 0 {
			dropped++
			continue
		}
		m.Add(string(word), count)
	}
	return m, dropped, nil
}
