package smt

import "fmt"

// SortKind distinguishes the handful of sort shapes this module's
// encodings need: booleans, fixed-width bit-vectors for guard sets, and
// per-template enumerated state sorts (one enumerated sort T_k per
// template with one constructor per state).
type SortKind int

const (
	SortBool SortKind = iota
	SortInt
	SortBitVec
	SortEnum
)

func (k SortKind) String() string {
	switch k {
	case SortBool:
		return "Bool"
	case SortInt:
		return "Int"
	case SortBitVec:
		return "BitVec"
	case SortEnum:
		return "Enum"
	default:
		return "Unknown"
	}
}

// Sort is an opaque, value-typed sort descriptor. Two Sorts compare equal
// iff they describe the same sort (by kind, width, and for enumerated
// sorts, by name and constructor list) — Sort never needs pointer
// identity, matching the value-type idiom this module uses throughout.
type Sort struct {
	Kind         SortKind
	Width        int      // meaningful for SortBitVec
	Name         string   // meaningful for SortEnum
	Constructors []string // meaningful for SortEnum, in declaration order
}

// BoolSort is the shared Boolean sort.
var BoolSort = Sort{Kind: SortBool}

// IntSortValue is the shared (unbounded, mathematical) integer sort used
// for λ^S when the SCC-ranked optimization is not in use.
var IntSortValue = Sort{Kind: SortInt}

// BitVec returns the fixed-width bit-vector sort of the given width.
func BitVec(width int) Sort {
	return Sort{Kind: SortBitVec, Width: width}
}

// Enum returns an enumerated sort with one value per name in
// constructors, in the order given — the Go counterpart of a Z3
// Datatype with one nullary constructor per automaton node or template
// state.
func Enum(name string, constructors []string) Sort {
	cs := make([]string, len(constructors))
	copy(cs, constructors)
	return Sort{Kind: SortEnum, Name: name, Constructors: cs}
}

func (s Sort) String() string {
	switch s.Kind {
	case SortBitVec:
		return fmt.Sprintf("(_ BitVec %d)", s.Width)
	case SortEnum:
		return s.Name
	default:
		return s.Kind.String()
	}
}

// IndexOf returns the declaration index of constructor within an
// enumerated sort, or -1 if it is not one of s's constructors.
func (s Sort) IndexOf(constructor string) int {
	for i, c := range s.Constructors {
		if c == constructor {
			return i
		}
	}
	return -1
}
