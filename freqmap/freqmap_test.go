package freqmap

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertCaseInsensitiveUniqueness(t *testing.T) {
	m := New()
	m.Insert("Cat")
	m.Insert("cat")
	m.Insert("CAT")

	require.Equal(t, 1, m.Items())
	require.Equal(t, uint64(3), m.Count("cat"))

	// First-seen spelling wins.
	var stored string
	m.Range(func(word string, count uint64) bool {
		stored = word
		return true
	})
	require.Equal(t, "Cat", stored)
}

func TestInsertTruncation(t *testing.T) {
	long := strings.Repeat("x", MaxWordLen+50)
	prefix := long[:MaxWordLen]

	m := New()
	m.Insert(long)
	m.Insert(long)
	m.Insert(prefix)

	// One entry, not three: inserting a bound-exceeding word is the same
	// as inserting its truncated prefix.
	require.Equal(t, 1, m.Items())
	require.Equal(t, uint64(3), m.Count(prefix))
	require.Equal(t, uint64(3), m.Count(long))
}

func TestAddMatchesRepeatedInsert(t *testing.T) {
	a := New()
	b := New()
	a.Add("word", 5)
	for i := 0; i < 5; i++ {
		b.Insert("word")
	}
	requireSameCounts(t, a, b)
}

func TestAddZeroIsNoop(t *testing.T) {
	m := New()
	m.Add("word", 0)
	require.Equal(t, 0, m.Items())
}

func TestCollidingBucketChain(t *testing.T) {
	// Many distinct words force chain walks in shared buckets.
	m := New()
	for i := 0; i < 100000; i++ {
		m.Insert(fmt.Sprintf("word-%d", i))
	}
	require.Equal(t, 100000, m.Items())
	require.Equal(t, uint64(100000), m.Total())
	require.Equal(t, uint64(1), m.Count("word-42"))
}

func TestMergePreservesTotals(t *testing.T) {
	dest := New()
	dest.Insert("the")
	dest.Insert("fox")

	src := New()
	src.Add("THE", 3)
	src.Add("quick", 2)

	dest.Merge(src)

	require.Equal(t, 3, dest.Items())
	require.Equal(t, uint64(4), dest.Count("the"))
	require.Equal(t, uint64(2), dest.Count("quick"))
	require.Equal(t, uint64(1), dest.Count("fox"))
}

func TestMergeNilSource(t *testing.T) {
	m := New()
	m.Insert("a")
	m.Merge(nil)
	require.Equal(t, 1, m.Items())
}

// TestMergeOrderIndependence checks the core contract: any partitioning
// of a word stream, merged in any order and grouping, yields the same
// counts as a single-map scan of the whole stream.
func TestMergeOrderIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	vocab := []string{"alpha", "Beta", "GAMMA", "delta", "alpha", "beta"}
	stream := make([]string, 500)
	for i := range stream {
		stream[i] = vocab[rng.Intn(len(vocab))]
	}

	reference := New()
	for _, w := range stream {
		reference.Insert(w)
	}

	for _, k := range []int{1, 2, 3, 7, len(stream)} {
		t.Run(fmt.Sprintf("parts=%d", k), func(t *testing.T) {
			parts := make([]*Map, k)
			for i := range parts {
				parts[i] = New()
			}
			for i, w := range stream {
				parts[i%k].Insert(w)
			}

			// Merge in reverse order, pairwise into the last map.
			global := New()
			for i := len(parts) - 1; i >= 0; i-- {
				global.Merge(parts[i])
			}
			requireSameCounts(t, reference, global)
		})
	}
}

// requireSameCounts compares two maps as case-folded (word, count) sets,
// ignoring which case variant each preserved.
func requireSameCounts(t *testing.T, want, got *Map) {
	t.Helper()
	require.Equal(t, want.Items(), got.Items())
	want.Range(func(word string, count uint64) bool {
		require.Equal(t, count, got.Count(word), "count mismatch for %q", word)
		return true
	})
}
