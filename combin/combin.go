// Package combin enumerates the k-element subsets of {0, ..., n-1}.
//
// Subsets are produced lazily in lexicographic order as strictly increasing
// index slices, so every subset appears exactly once. The iterator is not
// restartable; create a new one to enumerate again.
package combin

import "math/big"

// Iterator walks over all k-subsets of n indices.
//
// NOTE: This struct is not safe for concurrent use.
type Iterator struct {
	n, k    int
	indices []int
	started bool
	done    bool
}

// New returns an iterator over the k-subsets of {0, ..., n-1}. If k < 0 or
// k > n there are no subsets and the first call to Next returns false. For
// k = 0 the single empty subset is produced.
func New(n, k int) *Iterator {
	it := &Iterator{n: n, k: k}
	if k < 0 || n < 0 || k > n {
		it.done = true
		return it
	}
	it.indices = make([]int, k)
	for i := range it.indices {
		it.indices[i] = i
	}
	return it
}

// Next advances to the next subset and returns false once all subsets have
// been produced.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		return true
	}

	// Find the rightmost index that can still move right.
	i := it.k - 1
	for i >= 0 && it.indices[i] == it.n-it.k+i {
		i--
	}
	if i < 0 {
		it.done = true
		return false
	}
	it.indices[i]++
	for j := i + 1; j < it.k; j++ {
		it.indices[j] = it.indices[j-1] + 1
	}
	return true
}

// Indices returns the current subset. The slice is reused by the iterator and
// is only valid until the next call to Next; use Copy to keep it.
func (it *Iterator) Indices() []int {
	return it.indices
}

// Copy returns a copy of the current subset.
func (it *Iterator) Copy() []int {
	c := make([]int, len(it.indices))
	copy(c, it.indices)
	return c
}

// Count returns the binomial coefficient C(n, k), which is the number of
// subsets an iterator for n and k produces.
func Count(n, k int) *big.Int {
	if k < 0 || n < 0 || k > n {
		return new(big.Int)
	}
	return new(big.Int).Binomial(int64(n), int64(k))
}

// Less reports whether subset a comes before subset b in lexicographic order.
// Subsets of different lengths compare by their common prefix first.
func Less(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
