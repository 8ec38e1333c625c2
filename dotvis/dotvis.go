// Package dotvis renders a synthesized model.SystemModel as a Graphviz
// dot graph: one subgraph per template, states labeled with their active
// and inactive outputs, edges labeled with the input assignment and
// guard set that fires them.
package dotvis

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/emicklei/dot"

	"github.com/paramsynth/guardsynth/model"
)

// Graph builds the dot.Graph for sys: a directed graph named "solution"
// containing one clustered subgraph per template, in template-index
// order, each populated with that template's states and transitions.
func Graph(sys *model.SystemModel) *dot.Graph {
	g := dot.NewGraph(dot.Directed)
	g.Attr("label", "solution")

	for _, tm := range sys.Templates {
		addTemplate(g, tm)
	}
	return g
}

// Write renders sys's dot graph to w.
func Write(sys *model.SystemModel, w *os.File) error {
	_, err := fmt.Fprint(w, Graph(sys).String())
	return err
}

// WriteFile renders sys's dot graph to path, creating any missing parent
// directories first (helpers.io.mkdir_p's role in model_to_dot).
func WriteFile(sys *model.SystemModel, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return wrap("WriteFile", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return wrap("WriteFile", err)
	}
	defer f.Close()

	if err := Write(sys, f); err != nil {
		return wrap("WriteFile", err)
	}
	return nil
}

func addTemplate(g *dot.Graph, tm *model.TemplateModel) {
	sub := g.Subgraph(fmt.Sprintf("clusterTemplate_%d", tm.Index), dot.ClusterOption{})
	sub.Attr("label", fmt.Sprintf("T%d", tm.Index))
	sub.Attr("color", "blue")
	sub.Attr("rank", "same")

	nodes := make(map[string]dot.Node, len(tm.States))
	for _, state := range tm.States {
		n := sub.Node(nodeID(tm.Index, state))
		n.Attr("label", formatNodeLabel(state, tm.Outputs))
		nodes[state] = n
	}

	for _, tr := range tm.Transitions {
		from, ok := nodes[tr.From]
		if !ok {
			from = sub.Node(nodeID(tm.Index, tr.From))
		}
		to, ok := nodes[tr.To]
		if !ok {
			to = sub.Node(nodeID(tm.Index, tr.To))
		}
		sub.Edge(from, to).Label(formatTransitionLabel(tr.Inputs, tr.Guard))
	}
}

// nodeID scopes a state name to its owning template so that two
// templates' identically-named states never collide as the same dot
// node.
func nodeID(templateIndex int, state string) string {
	return fmt.Sprintf("T%d_%s", templateIndex, state)
}

// formatNodeLabel renders a state's name followed by its output
// valuation: an active output appears by name, an inactive one prefixed
// with "!" (_format_node_label's "/"-prefix convention, adapted to the
// "!"-prefix this module already uses for negated input atoms).
func formatNodeLabel(state string, outputs map[string]map[string]bool) string {
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		if outputs[name][state] {
			parts = append(parts, name)
		} else {
			parts = append(parts, "!"+name)
		}
	}
	return fmt.Sprintf("%s\n%s", state, strings.Join(parts, ","))
}

// formatTransitionLabel renders a transition's input assignment and
// guard set on two lines (_format_transition_label).
func formatTransitionLabel(inputs []model.InputValue, guard []string) string {
	parts := make([]string, len(inputs))
	for i, in := range inputs {
		if in.Value {
			parts[i] = in.Name
		} else {
			parts[i] = "!" + in.Name
		}
	}
	return fmt.Sprintf("%s\n{%s}", strings.Join(parts, ","), strings.Join(guard, ","))
}
