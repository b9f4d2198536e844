package detect

import (
	"math/big"
	"sort"

	"github.com/renproject/shamirvote/combin"
)

// Entry is the tally for one candidate secret.
type Entry struct {
	// Secret is the candidate.
	Secret *big.Int
	// Count is the number of subsets that interpolated to Secret.
	Count int
	// Witness is the lexicographically first subset, as positions into the
	// input shares, that interpolated to Secret.
	Witness []int

	// members[i] is true if share i is in any subset that interpolated to
	// Secret.
	members []bool
}

// Members returns the positions of every share that appears in at least one
// subset that interpolated to the secret, in ascending order.
func (e Entry) Members() []int {
	members := make([]int, 0, len(e.members))
	for i, ok := range e.members {
		if ok {
			members = append(members, i)
		}
	}
	return members
}

func (e *Entry) clone() Entry {
	witness := make([]int, len(e.Witness))
	copy(witness, e.Witness)
	members := make([]bool, len(e.members))
	copy(members, e.members)
	return Entry{
		Secret:  new(big.Int).Set(e.Secret),
		Count:   e.Count,
		Witness: witness,
		members: members,
	}
}

// Tally counts how many subsets of n shares interpolate to each candidate
// secret. It is built by a single run and owned by its caller.
//
// NOTE: This struct is not safe for concurrent use. Parallel runs keep one
// tally per worker and Merge them at the end.
type Tally struct {
	n       int
	total   int
	entries map[string]*Entry
}

// NewTally returns an empty tally for subsets of n shares.
func NewTally(n int) *Tally {
	return &Tally{n: n, entries: map[string]*Entry{}}
}

func key(secret *big.Int) string {
	return secret.Text(16)
}

// Add records that the given subset interpolated to secret. Neither argument
// is retained.
func (t *Tally) Add(secret *big.Int, subset []int) {
	t.total++
	k := key(secret)
	e, ok := t.entries[k]
	if !ok {
		witness := make([]int, len(subset))
		copy(witness, subset)
		e = &Entry{
			Secret:  new(big.Int).Set(secret),
			Witness: witness,
			members: make([]bool, t.n),
		}
		t.entries[k] = e
	} else if combin.Less(subset, e.Witness) {
		e.Witness = append(e.Witness[:0], subset...)
	}
	e.Count++
	for _, i := range subset {
		e.members[i] = true
	}
}

// Merge adds the counts of other into t. Merging is commutative and
// associative: the counts are summed, the memberships are joined and the
// smaller witness is kept.
func (t *Tally) Merge(other *Tally) {
	t.total += other.total
	for k, o := range other.entries {
		e, ok := t.entries[k]
		if !ok {
			c := o.clone()
			t.entries[k] = &c
			continue
		}
		e.Count += o.Count
		if combin.Less(o.Witness, e.Witness) {
			e.Witness = append(e.Witness[:0], o.Witness...)
		}
		for i, member := range o.members {
			e.members[i] = e.members[i] || member
		}
	}
}

// N returns the number of shares the subsets are drawn from.
func (t *Tally) N() int { return t.n }

// Len returns the number of distinct candidates.
func (t *Tally) Len() int { return len(t.entries) }

// Total returns the number of subsets recorded.
func (t *Tally) Total() int { return t.total }

// Count returns the number of subsets that interpolated to secret.
func (t *Tally) Count(secret *big.Int) int {
	if e, ok := t.entries[key(secret)]; ok {
		return e.Count
	}
	return 0
}

// Entries returns a copy of every entry, ordered by decreasing count and then
// by increasing secret.
func (t *Tally) Entries() []Entry {
	entries := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		entries = append(entries, e.clone())
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Secret.Cmp(entries[j].Secret) < 0
	})
	return entries
}

// Majority returns the entry with the highest count. Ties are broken in
// favour of the numerically lowest secret so that the choice does not depend
// on map iteration order. It returns false if the tally is empty.
func (t *Tally) Majority() (Entry, bool) {
	var best *Entry
	for _, e := range t.entries {
		if best == nil ||
			e.Count > best.Count ||
			(e.Count == best.Count && e.Secret.Cmp(best.Secret) < 0) {
			best = e
		}
	}
	if best == nil {
		return Entry{}, false
	}
	return best.clone(), true
}
