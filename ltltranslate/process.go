package ltltranslate

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/paramsynth/guardsynth/ast"
	"github.com/paramsynth/guardsynth/automaton"
	"github.com/paramsynth/guardsynth/signal"
)

// ProcessTranslator shells out to an external LTL-to-automaton binary
// (ltl3ba's "-M" multiple-successors mode by default): build a command
// line, run it, parse stdout.
type ProcessTranslator struct {
	// Path is the backend executable. Defaults to "ltl3ba" via
	// NewProcessTranslator.
	Path string
	// Args are extra flags passed before the formula argument. Defaults
	// to []string{"-M", "-f"}.
	Args []string
}

// NewProcessTranslator returns a ProcessTranslator invoking path with the
// default "-M -f <formula>" argument shape. An empty path is rejected
// immediately rather than deferred to the first ToUCW call.
func NewProcessTranslator(path string) (*ProcessTranslator, error) {
	if path == "" {
		return nil, wrap("NewProcessTranslator", ErrEmptyBinaryPath)
	}
	return &ProcessTranslator{Path: path, Args: []string{"-M", "-f"}}, nil
}

// ToUCW negates e, renders it in the backend's input syntax, runs the
// backend under ctx, and parses its textual automaton output.
func (p *ProcessTranslator) ToUCW(ctx context.Context, e ast.Expr) (*automaton.Automaton, error) {
	formula := formatLTL3BA(ast.Not(e))

	args := append(append([]string(nil), p.Args...), formula)
	cmd := exec.CommandContext(ctx, p.Path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, wrap("ToUCW", fmt.Errorf("%s: %s: %w", err, stderr.String(), ErrBackendFailed))
	}

	a, err := parseAutomaton(stdout.String())
	if err != nil {
		return nil, wrap("ToUCW", err)
	}
	return a, nil
}

// formatLTL3BA renders e in the infix syntax ltl3ba's parser accepts:
// "&&"/"||"/"->"/"!" for the boolean connectives, "G"/"F"/"X"/"U" prefix/
// infix temporal operators, fully parenthesized to avoid relying on the
// backend's precedence rules.
func formatLTL3BA(e ast.Expr) string {
	switch v := e.(type) {
	case ast.Bool:
		if v.Value {
			return "true"
		}
		return "false"
	case ast.Sig:
		return v.Signal.String()
	case ast.UnaryOp:
		arg := formatLTL3BA(v.Arg)
		if v.Op == ast.OpNot {
			return fmt.Sprintf("!(%s)", arg)
		}
		return fmt.Sprintf("%s(%s)", v.Op, arg)
	case ast.BinOp:
		op := v.Op
		switch op {
		case ast.OpAnd:
			op = "&&"
		case ast.OpOr:
			op = "||"
		}
		return fmt.Sprintf("(%s %s %s)", formatLTL3BA(v.Arg1), op, formatLTL3BA(v.Arg2))
	default:
		return e.String()
	}
}

// parseAutomaton parses ltl3ba -M's textual automaton dump: one node per
// paragraph, "state <name> [rejecting] [initial]" header line, followed by
// zero or more "  <label> -> <target>[,<target>...]" transition lines
// (multiple comma-separated targets are a single universal successor
// set). A blank line separates nodes.
func parseAutomaton(output string) (*automaton.Automaton, error) {
	a := automaton.New()
	ids := make(map[string]automaton.NodeID)
	nextID := automaton.NodeID(0)

	nodeID := func(name string) automaton.NodeID {
		if id, ok := ids[name]; ok {
			return id
		}
		id := nextID
		ids[name] = id
		nextID++
		return id
	}

	var initial []automaton.NodeID
	var current automaton.NodeID
	haveCurrent := false

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "state ") {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return nil, fmt.Errorf("ltltranslate: malformed state header %q: %w", line, ErrBackendFailed)
			}
			name := fields[1]
			rejecting := containsField(fields[2:], "rejecting")
			isInitial := containsField(fields[2:], "initial")

			current = nodeID(name)
			haveCurrent = true
			a.AddNode(current, rejecting)
			if isInitial {
				initial = append(initial, current)
			}
			continue
		}

		if !haveCurrent {
			return nil, fmt.Errorf("ltltranslate: transition line before any state header: %q: %w", line, ErrBackendFailed)
		}

		label, targets, err := parseTransitionLine(line)
		if err != nil {
			return nil, err
		}
		set := make([]automaton.NodeID, len(targets))
		for i, t := range targets {
			if _, known := ids[t]; !known {
				a.AddNode(nodeID(t), false)
			}
			set[i] = ids[t]
		}
		if err := a.AddTransition(current, label, [][]automaton.NodeID{set}); err != nil {
			return nil, fmt.Errorf("ltltranslate: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ltltranslate: reading backend output: %w", err)
	}

	if len(initial) == 0 {
		return nil, wrap("parseAutomaton", automaton.ErrNoInitialNodes)
	}
	a.SetInitial(initial...)
	return a, nil
}

// parseTransitionLine parses "<label> -> target1,target2", where <label>
// is either "true" (automaton.TrueLabel) or a space-separated list of
// (possibly negated) signal names, e.g. "a !b".
func parseTransitionLine(line string) (automaton.Label, []string, error) {
	parts := strings.SplitN(line, "->", 2)
	if len(parts) != 2 {
		return automaton.Label{}, nil, fmt.Errorf("ltltranslate: malformed transition %q: %w", line, ErrBackendFailed)
	}

	guard := strings.TrimSpace(parts[0])
	targets := strings.Split(strings.TrimSpace(parts[1]), ",")
	for i, t := range targets {
		targets[i] = strings.TrimSpace(t)
	}

	if guard == "true" || guard == "" {
		return automaton.TrueLabel, targets, nil
	}

	assignment := make(map[signal.Signal]bool)
	for _, tok := range strings.Fields(guard) {
		if strings.HasPrefix(tok, "!") {
			assignment[signal.New(tok[1:])] = false
		} else {
			assignment[signal.New(tok)] = true
		}
	}
	return automaton.NewLabel(assignment), targets, nil
}

func containsField(fields []string, want string) bool {
	for _, f := range fields {
		if f == want {
			return true
		}
	}
	return false
}
