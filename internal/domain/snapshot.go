package domain

// Change is a single document change inside a snapshot.
type Change[T any] struct {
	Kind ChangeKind
	Doc  T
}

// Snapshot is the full result set of a live query at one point in time,
// plus the changes relative to the previous snapshot of the same query.
// Consumers should derive state from Docs; Changes are informational.
type Snapshot[T any] struct {
	Docs    []T
	Changes []Change[T]
}
