package feed

import (
	"slices"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

// Diff compares docs with the previous result set keyed by key. A nil prev
// means there was no previous snapshot, so every doc is added. Added and
// modified changes follow docs order; removed changes are sorted by key.
// It returns the snapshot and the index to pass as prev next time.
func Diff[T any](prev map[string]T, docs []T, key func(T) string, equal func(a, b T) bool) (domain.Snapshot[T], map[string]T) {
	next := make(map[string]T, len(docs))
	snap := domain.Snapshot[T]{Docs: slices.Clone(docs)}
	if snap.Docs == nil {
		snap.Docs = []T{}
	}

	for _, d := range docs {
		k := key(d)
		next[k] = d

		old, ok := prev[k]
		switch {
		case !ok:
			snap.Changes = append(snap.Changes, domain.Change[T]{Kind: domain.ChangeAdded, Doc: d})
		case !equal(old, d):
			snap.Changes = append(snap.Changes, domain.Change[T]{Kind: domain.ChangeModified, Doc: d})
		}
	}

	removed := make([]string, 0)
	for k := range prev {
		if _, ok := next[k]; !ok {
			removed = append(removed, k)
		}
	}
	slices.Sort(removed)
	for _, k := range removed {
		snap.Changes = append(snap.Changes, domain.Change[T]{Kind: domain.ChangeRemoved, Doc: prev[k]})
	}

	return snap, next
}
