package models

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ContributorCounts maps a contributor's display name to the number of
// commits attributed to them on a subject.
type ContributorCounts map[string]int

// Total returns the total commit count across all contributors.
func (c ContributorCounts) Total() int {
	var total int
	for _, n := range c {
		total += n
	}
	return total
}

// Ranked returns contributor names sorted by commit count descending, name
// ascending for equal counts. The ordering is deterministic so callers can
// rely on the first element as the plurality owner.
func (c ContributorCounts) Ranked() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if c[names[i]] == c[names[j]] {
			return names[i] < names[j]
		}
		return c[names[i]] > c[names[j]]
	})
	return names
}

// Top returns the top contributor and their commit count. Ties resolve to
// the lexicographically smaller name.
func (c ContributorCounts) Top() (string, int) {
	ranked := c.Ranked()
	if len(ranked) == 0 {
		return "", 0
	}
	return ranked[0], c[ranked[0]]
}

// OwnershipRecord maps a subject (file path or technology tag) to its
// per-contributor commit counts. Records are derived from the commit
// sequence once per analysis run and not independently mutable; for every
// subject the counts sum to the number of distinct commits touching it,
// counted once per commit per contributor.
type OwnershipRecord map[string]ContributorCounts

// Add increments the count for a contributor on a subject.
func (r OwnershipRecord) Add(subject, contributor string) {
	counts, ok := r[subject]
	if !ok {
		counts = make(ContributorCounts)
		r[subject] = counts
	}
	counts[contributor]++
}

// Merge folds a complete sub-record into the receiver. Intended to be
// called from a single coordinating goroutine.
func (r OwnershipRecord) Merge(other OwnershipRecord) {
	for subject, counts := range other {
		dst, ok := r[subject]
		if !ok {
			dst = make(ContributorCounts, len(counts))
			r[subject] = dst
		}
		for name, n := range counts {
			dst[name] += n
		}
	}
}

// Subjects returns the record's subjects in sorted order.
func (r OwnershipRecord) Subjects() []string {
	subjects := make([]string, 0, len(r))
	for s := range r {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	return subjects
}

// OwnershipIndex holds the two ownership aggregations built from the commit
// sequence.
type OwnershipIndex struct {
	// Files maps file path -> contributor -> commit count.
	Files OwnershipRecord `json:"files"`
	// Technologies maps technology tag -> contributor -> commit count.
	Technologies OwnershipRecord `json:"technologies"`
	// ReducedFidelity is true when the index was built from per-file
	// history queries because the commit sequence carried no file lists.
	ReducedFidelity bool `json:"reduced_fidelity,omitempty"`
}

// NewOwnershipIndex creates an empty index.
func NewOwnershipIndex() *OwnershipIndex {
	return &OwnershipIndex{
		Files:        make(OwnershipRecord),
		Technologies: make(OwnershipRecord),
	}
}

// OwnershipStats summarizes how concentrated file ownership is: the
// median and 90th-percentile top-contributor share across all files. A
// median near 1.0 means most files are effectively single-owner.
type OwnershipStats struct {
	MedianTopShare float64 `json:"median_top_share"`
	P90TopShare    float64 `json:"p90_top_share"`
}

// CalculateOwnershipStats computes concentration percentiles over the
// per-file top-contributor ratios. An empty index yields zero stats.
func CalculateOwnershipStats(idx *OwnershipIndex) OwnershipStats {
	if idx == nil {
		return OwnershipStats{}
	}
	shares := make([]float64, 0, len(idx.Files))
	for _, counts := range idx.Files {
		total := counts.Total()
		if total == 0 {
			continue
		}
		_, top := counts.Top()
		shares = append(shares, float64(top)/float64(total))
	}
	if len(shares) == 0 {
		return OwnershipStats{}
	}
	sort.Float64s(shares)
	return OwnershipStats{
		MedianTopShare: stat.Quantile(0.5, stat.Empirical, shares, nil),
		P90TopShare:    stat.Quantile(0.9, stat.Empirical, shares, nil),
	}
}
