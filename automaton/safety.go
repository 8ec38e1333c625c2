package automaton

// IsSafety reports whether a accepts a safety property: every rejecting
// node that actually participates in a nontrivial cycle is absorbing
// under the true label, i.e. once control reaches it, it can stay there
// forever without violating the co-Büchi condition.
//
// Ltl-to-automaton translators frequently mark transitional nodes as
// rejecting even though they never recur on any cycle (a translator
// artifact, not a genuine liveness obligation); IsSafety ignores those by
// first restricting to rejecting nodes that belong to a nontrivial
// strongly-connected component (more than one member, or a single
// self-looped member).
func IsSafety(a *Automaton) bool {
	nodes := a.Nodes()
	ids := make([]NodeID, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}

	sccs := TarjanSCC(ids, a.FlattenSuccessors)
	rejectingSCC := rejectingSCCMembership(a, sccs)

	for _, node := range a.RejectingNodes() {
		scc, ok := rejectingSCC[node]
		if !ok {
			// Transitional rejecting node: never recurs, so it imposes no
			// genuine liveness obligation.
			continue
		}
		if !(a.SelfLooped(node) || len(scc) > 1) {
			continue
		}
		if !a.IsAbsorbing(node) {
			return false
		}
	}
	return true
}

// rejectingSCCMembership returns, for every rejecting node that belongs to
// a nontrivial component (size > 1, or a single node with a self-loop),
// the members of that component.
func rejectingSCCMembership(a *Automaton, sccs []SCC) map[NodeID][]NodeID {
	out := make(map[NodeID][]NodeID)
	for _, scc := range sccs {
		nontrivial := len(scc.Members) > 1
		if !nontrivial && len(scc.Members) == 1 {
			nontrivial = a.SelfLooped(scc.Members[0])
		}
		if !nontrivial {
			continue
		}
		for _, n := range scc.Members {
			if a.nodes[n].Rejecting {
				out[n] = scc.Members
			}
		}
	}
	return out
}
