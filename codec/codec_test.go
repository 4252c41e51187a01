package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"wordfreq/freqmap"
)

func TestRoundTrip(t *testing.T) {
	m := freqmap.New()
	m.Add("the", 42)
	m.Add("Quick", 7)
	m.Add("fox", 1)
	// Words containing the old text format's separator bytes must
	// survive unchanged under length-prefixed framing.
	m.Add("tricky:word", 3)
	m.Add("line\nbreak", 2)
	m.Add(strings.Repeat("z", freqmap.MaxWordLen), 9)

	data, err := Encode(m, 0)
	require.NoError(t, err)

	got, dropped, err := Decode(data, 0)
	require.NoError(t, err)
	require.Zero(t, dropped)
	require.Equal(t, m.Items(), got.Items())
	m.Range(func(word string, count uint64) bool {
		require.Equal(t, count, got.Count(word), "word %q", word)
		return true
	})
}

func TestEncodeEmptyMap(t *testing.T) {
	data, err := Encode(freqmap.New(), 0)
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestDecodeEmptyInput(t *testing.T) {
	m, dropped, err := Decode(nil, 0)
	require.NoError(t, err)
	require.Zero(t, dropped)
	require.Equal(t, 0, m.Items())
}

func TestEncodePayloadTooLarge(t *testing.T) {
	m := freqmap.New()
	m.Add(strings.Repeat("a", 50), 1)
	m.Add(strings.Repeat("b", 50), 1)

	_, err := Encode(m, 16)
	require.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestDecodePayloadTooLarge(t *testing.T) {
	_, _, err := Decode(make([]byte, 100), 16)
	require.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestDecodeDropsZeroCountRecord(t *testing.T) {
	var buf []byte
	buf = protowire.AppendVarint(buf, 3)
	buf = append(buf, "bad"...)
	buf = protowire.AppendVarint(buf, 0) // zero count: malformed
	buf = protowire.AppendVarint(buf, 4)
	buf = append(buf, "good"...)
	buf = protowire.AppendVarint(buf, 5)

	m, dropped, err := Decode(buf, 0)
	require.NoError(t, err)
	require.Equal(t, 1, dropped)
	require.Equal(t, 1, m.Items())
	require.Equal(t, uint64(5), m.Count("good"))
}

func TestDecodeDropsOversizedWordRecord(t *testing.T) {
	long := strings.Repeat("x", freqmap.MaxWordLen+1)
	var buf []byte
	buf = protowire.AppendVarint(buf, uint64(len(long)))
	buf = append(buf, long...)
	buf = protowire.AppendVarint(buf, 2)
	buf = protowire.AppendVarint(buf, 2)
	buf = append(buf, "ok"...)
	buf = protowire.AppendVarint(buf, 1)

	m, dropped, err := Decode(buf, 0)
	require.NoError(t, err)
	require.Equal(t, 1, dropped)
	require.Equal(t, uint64(1), m.Count("ok"))
}

func TestDecodeTruncatedTail(t *testing.T) {
	m := freqmap.New()
	m.Add("first", 4)
	data, err := Encode(m, 0)
	require.NoError(t, err)

	// Append a record whose declared length overruns the buffer.
	bad := protowire.AppendVarint(append([]byte(nil), data...), 200)
	bad = append(bad, "short"...)

	got, dropped, err := Decode(bad, 0)
	require.NoError(t, err)
	require.Equal(t, 1, dropped)
	require.Equal(t, uint64(4), got.Count("first"))
	require.Equal(t, 1, got.Items())
}

func TestDecodeMatchesRepeatedInsert(t *testing.T) {
	m := freqmap.New()
	m.Add("word", 1000)
	data, err := Encode(m, 0)
	require.NoError(t, err)

	byInsert := freqmap.New()
	for i := 0; i < 1000; i++ {
		byInsert.Insert("word")
	}

	got, _, err := Decode(data, 0)
	require.NoError(t, err)
	require.Equal(t, byInsert.Count("word"), got.Count("word"))
}
