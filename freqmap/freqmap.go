// Package freqmap implements the word frequency table shared by all
// aggregation strategies: a chained hash map keyed case-insensitively,
// preserving the first observed spelling of each word.
package freqmap

const (
	// MaxWordLen bounds stored word length in bytes. Longer words are
	// silently truncated on insert, so distinct long words sharing the
	// same first MaxWordLen bytes land in one entry. That is accepted
	// behavior, not a defect.
	MaxWordLen = 100

	numBuckets = 16384
)

// FNV-1a parameters, applied to the lower-cased byte stream so that case
// variants of a word hash to the same bucket.
const (
	fnvOffset uint32 = 2166136261
	fnvPrime  uint32 = 16777619
)

type entry struct {
	word  string
	count uint64
	next  int32
}

// Map counts word occurrences. Keys are unique under ASCII
// case-insensitive comparison; the spelling stored and reported is the
// one first inserted. Chains live in a single entries slice indexed by
// the bucket heads, so a Map owns all of its memory. Not safe for
// concurrent mutation.
type Map struct {
	buckets []int32
	entries []entry
}

// New returns an empty Map.
func New() *Map {
	m := &Map{buckets: make([]int32, numBuckets)}
	for i := range m.buckets {
		m.buckets[i] = -1
	}
	return m
}

// Insert counts one occurrence of word.
func (m *Map) Insert(word string) {
	m.Add(word, 1)
}

// Add counts n occurrences of word in one step. Adding zero is a no-op.
// The word is truncated to MaxWordLen bytes before lookup, matching
// Insert, so Add(w, n) is equivalent to n calls of Insert(w).
func (m *Map) Add(word string, n uint64) {
	if n == 0 {
		return
	}
	if len(word) > MaxWordLen {
		word = word[:MaxWordLen]
	}
	b := hash(word) % numBuckets
	for i := m.buckets[b]; i >= 0; i = m.entries[i].next {
		if foldEqual(m.entries[i].word, word) {
			m.entries[i].count += n
			return
		}
	}
	m.entries = append(m.entries, entry{word: word, count: n, next: m.buckets[b]})
	m.buckets[b] = int32(len(m.entries) - 1)
}

// Items reports the number of distinct words stored.
func (m *Map) Items() int {
	return len(m.entries)
}

// Total reports the sum of all counts.
func (m *Map) Total() uint64 {
	var total uint64
	for i := range m.entries {
		total += m.entries[i].count
	}
	return total
}

// Count returns the count recorded for word, zero if absent.
func (m *Map) Count(word string) uint64 {
	if len(word) > MaxWordLen {
		word = word[:MaxWordLen]
	}
	b := hash(word) % numBuckets
	for i := m.buckets[b]; i >= 0; i = m.entries[i].next {
		if foldEqual(m.entries[i].word, word) {
			return m.entries[i].count
		}
	}
	return 0
}

// Range calls fn for every (word, count) pair until fn returns false.
// Iteration order carries no meaning. A fresh Range always restarts from
// the beginning.
func (m *Map) Range(fn func(word string, count uint64) bool) {
	for i := range m.entries {
		if !fn(m.entries[i].word, m.entries[i].count) {
			return
		}
	}
}

// Merge folds every count of src into m. Merging is associative and
// commutative over any partitioning of the original word stream: any
// merge order and grouping of partial maps produces the same final
// counts. Which case variant survives still depends on insertion order.
// The caller serializes concurrent merges into a shared destination.
func (m *Map) Merge(src *Map) {
	if src == nil {
		return
	}
	for i := range src.entries {
		m.Add(src.entries[i].word, src.entries[i].count)
	}
}

func hash(word string) uint32 {
	h := fnvOffset
	for i := 0; i < len(word); i++ {
		h ^= uint32(lower(word[i]))
		h *= fnvPrime
	}
	return h
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// foldEqual reports ASCII case-insensitive equality. It must agree with
// hash: strings equal under foldEqual hash identically.
func foldEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lower(a[i]) != lower(b[i]) {
			return false
		}
	}
	return true
}
