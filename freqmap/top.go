package freqmap

import "sort"

// Entry is one ranked (word, count) pair.
type Entry struct {
	Word  string
	Count uint64
}

// Top returns the n highest-count entries, descending by count with ties
// broken by ascending case-insensitive word order. The ordering is total:
// two distinct entries never compare equal, because keys are unique under
// case-insensitive comparison. Fewer than n entries are returned when the
// map holds fewer distinct words.
func (m *Map) Top(n int) []Entry {
	if n <= 0 {
		return nil
	}
	ranked := make([]Entry, 0, len(m.entries))
	for i := range m.entries {
		ranked = append(ranked, Entry{Word: m.entries[i].word, Count: m.entries[i].count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return foldLess(ranked[i].Word, ranked[j].Word)
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// foldLess orders words by their ASCII lower-cased form.
func foldLess(a, b string) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		ca, cb := lower(a[i]), lower(b[i])
		if ca != cb {
			return ca < cb
		}
	}
	return len(a) < len(b)
}
