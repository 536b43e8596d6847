package internal

// link is one edge of the observer/dependency graph (spec.md §3: "an
// observer link from A->B implies B read A during B's most recent tracked
// execution"). It is intrusive: a Node never allocates a set for its
// subs/deps, it threads a doubly linked list through link values instead,
// matching the shape of the scope tree's sibling list.
type link struct {
	dep *Node
	sub *Node

	// depVersion snapshots dep.version at the moment this edge was
	// (re)established, i.e. the version of dep that sub's last run
	// actually consumed. A two-hop-or-further invalidation ("check") is
	// resolved by comparing this against dep's current version instead of
	// unconditionally re-running sub's body.
	depVersion int64

	prevDep *link
	nextDep *link

	prevSub *link
	nextSub *link
}
