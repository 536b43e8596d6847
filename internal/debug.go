package internal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/m1gwings/treedrawer/tree"
)

// DumpScope renders n's scope subtree (spec.md's ownership tree) as an
// ASCII tree, grounded in pumped-go's dependency-graph debug rendering
// (extensions/graph_debug.go in the retrieval pack), generalized from a
// flat dependency map to this package's intrusive child list.
func DumpScope(n *Node) string {
	if n == nil {
		return "(nil scope)"
	}
	t := buildScopeTree(n)
	return t.String()
}

func buildScopeTree(n *Node) *tree.Tree {
	t := tree.NewTree(tree.NodeString(scopeLabel(n)))
	for c := range n.Children() {
		child := buildScopeTree(c)
		addAsChild(t, child)
	}
	return t
}

func scopeLabel(n *Node) string {
	status := ""
	if n.IsDisposed() {
		status = " (disposed)"
	} else if n.Kind != KindScope && n.IsDirty() {
		status = " (dirty)"
	} else if n.Kind != KindScope && n.HasFlag(FlagCheck) {
		status = " (check)"
	}
	return fmt.Sprintf("%s [%s]%s", label(n), kindName(n.Kind), status)
}

func kindName(k Kind) string {
	switch k {
	case KindScope:
		return "scope"
	case KindSource:
		return "source"
	case KindComputed:
		return "computed"
	case KindEffect:
		return "effect"
	default:
		return "node"
	}
}

func addAsChild(parent *tree.Tree, child *tree.Tree) {
	newChild := parent.AddChild(child.Val())
	for _, grandchild := range child.Children() {
		addAsChild(newChild, grandchild)
	}
}

// DumpGraph renders n's current dependency graph (what n transitively
// reads) as an ASCII tree, cutting off repeated nodes to stay finite in
// the presence of diamonds.
func DumpGraph(n *Node) string {
	if n == nil {
		return "(nil node)"
	}
	t := buildDepTree(n, map[*Node]bool{})
	return t.String()
}

func buildDepTree(n *Node, seen map[*Node]bool) *tree.Tree {
	t := tree.NewTree(tree.NodeString(label(n)))
	if seen[n] {
		addAsChild(t, tree.NewTree(tree.NodeString("...")))
		return t
	}
	seen[n] = true

	deps := make([]*Node, 0)
	for d := range n.Deps() {
		deps = append(deps, d)
	}
	sort.Slice(deps, func(i, j int) bool { return label(deps[i]) < label(deps[j]) })

	for _, d := range deps {
		addAsChild(t, buildDepTree(d, seen))
	}
	return t
}

// DumpByHeight lists every node currently queued on h, grouped by height
// (distance from its ultimate sources), the order Drain would visit them
// in. It is purely a diagnostic view: the live scheduler (scheduler.go)
// never drains by height, since spec.md §4.5 requires strict
// enqueue-order processing instead, but height remains a useful view onto
// a graph's shape when debugging why something recomputed, so the
// teacher's PriorityHeap (heap.go) is kept around for exactly this.
func DumpByHeight(h *PriorityHeap) string {
	var sb strings.Builder
	snapshot := make([]*Node, 0)
	h.Drain(func(n *Node) { snapshot = append(snapshot, n) })

	byHeight := map[int][]*Node{}
	for _, n := range snapshot {
		byHeight[n.GetHeight()] = append(byHeight[n.GetHeight()], n)
	}

	heights := make([]int, 0, len(byHeight))
	for height := range byHeight {
		heights = append(heights, height)
	}
	sort.Ints(heights)

	for _, height := range heights {
		names := make([]string, 0, len(byHeight[height]))
		for _, n := range byHeight[height] {
			names = append(names, label(n))
		}
		sort.Strings(names)
		fmt.Fprintf(&sb, "height %d: %s\n", height, strings.Join(names, ", "))
	}
	return sb.String()
}
