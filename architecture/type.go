package architecture

import "fmt"

// GuardType names a guard regime independently of any particular
// Architecture value, for callers (the CLI, the benchmark harness) that
// take the regime as a string and only later know the template count
// New needs.
type GuardType int

const (
	Conjunctive GuardType = iota
	Disjunctive
)

// String renders t using the config/CLI spelling the rest of this module
// expects: "conjunctive_guards"/"disjunctive_guards".
func (t GuardType) String() string {
	switch t {
	case Conjunctive:
		return "conjunctive_guards"
	case Disjunctive:
		return "disjunctive_guards"
	default:
		return "unknown"
	}
}

// ParseGuardType parses one of "conjunctive_guards"/"disjunctive_guards".
func ParseGuardType(s string) (GuardType, error) {
	switch s {
	case "conjunctive_guards":
		return Conjunctive, nil
	case "disjunctive_guards":
		return Disjunctive, nil
	default:
		return 0, wrap(fmt.Sprintf("ParseGuardType(%q)", s), ErrUnknownGuardType)
	}
}

// New builds the Architecture for templateCount templates under t.
func New(t GuardType, templateCount int) *Architecture {
	switch t {
	case Disjunctive:
		return NewDisjunctive(templateCount)
	default:
		return NewConjunctive(templateCount)
	}
}
