package automaton

// SCC is one strongly-connected component: its member nodes in the order
// they are popped off Tarjan's stack (the component's root last).
// TarjanSCC returns the components in reverse topological order.
type SCC struct {
	Members []NodeID
}

// Trivial reports whether the component is a single node with no
// self-loop — i.e. not a genuine cycle. edgesOf must be the same
// adjacency function the SCC was computed with.
func (c SCC) Trivial(edgesOf func(NodeID) []NodeID) bool {
	if len(c.Members) != 1 {
		return false
	}
	node := c.Members[0]
	for _, n := range edgesOf(node) {
		if n == node {
			return false
		}
	}
	return true
}

// TarjanSCC partitions nodes into strongly-connected components using
// Tarjan's single-pass algorithm, with edgesOf supplying each node's
// out-neighbors. It is the generic adjacency-only core that both the
// safety oracle (IsSafety) and package smt's SCC-ranked λ^S optimization
// instantiate, each over Automaton.FlattenSuccessors.
//
// Complexity: O(V + E) time, O(V) extra space for the recursion stack and
// index/lowlink tables.
func TarjanSCC(nodes []NodeID, edgesOf func(NodeID) []NodeID) []SCC {
	t := &tarjanState{
		index:   make(map[NodeID]int, len(nodes)),
		lowlink: make(map[NodeID]int, len(nodes)),
		onStack: make(map[NodeID]bool, len(nodes)),
		edgesOf: edgesOf,
	}

	for _, n := range nodes {
		if _, visited := t.index[n]; !visited {
			t.strongConnect(n)
		}
	}
	return t.sccs
}

type tarjanState struct {
	counter int
	index   map[NodeID]int
	lowlink map[NodeID]int
	onStack map[NodeID]bool
	stack   []NodeID
	edgesOf func(NodeID) []NodeID
	sccs    []SCC
}

func (t *tarjanState) strongConnect(v NodeID) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.edgesOf(v) {
		if _, visited := t.index[w]; !visited {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] != t.index[v] {
		return
	}

	var members []NodeID
	for {
		n := len(t.stack) - 1
		w := t.stack[n]
		t.stack = t.stack[:n]
		t.onStack[w] = false
		members = append(members, w)
		if w == v {
			break
		}
	}
	t.sccs = append(t.sccs, SCC{Members: members})
}
