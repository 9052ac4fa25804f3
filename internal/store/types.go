package store

import "time"

// Range is a source region in zero-based line/column terms.
type Range struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Contains reports whether a position falls inside the range.
func (r Range) Contains(line, col int) bool {
	if line < r.StartLine || line > r.EndLine {
		return false
	}
	if line == r.StartLine && col < r.StartCol {
		return false
	}
	if line == r.EndLine && col > r.EndCol {
		return false
	}
	return true
}

// Param is one declared parameter persisted in a symbol's metadata.
type Param struct {
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Default string `json:"default,omitempty"`
}

// Metadata is the optional descriptive block attached to a symbol.
type Metadata struct {
	Parameters    []Param  `json:"parameters,omitempty"`
	ReturnType    string   `json:"return_type,omitempty"`
	Documentation string   `json:"documentation,omitempty"`
	Annotations   []string `json:"annotations,omitempty"`
}

// NoArity marks symbols that are not callable (types and fields).
const NoArity = -1

// Symbol is one extracted declaration. Type kinds (class/interface/enum)
// are unique per (branch, fqn, kind); functions and fields share an FQN
// across overloads and are disambiguated by arity.
type Symbol struct {
	ID           int64
	Branch       string
	Name         string
	FQN          string
	ParentFQN    string
	FilePath     string
	Language     string
	Kind         string
	Modifiers    []string
	Range        Range // full declaration span
	NameRange    Range // the name token only, for hover/rename targeting
	Supertype    string
	Interfaces   []string
	Arity        int
	Meta         Metadata
	LastModified time.Time
}

// SuperMapping is a denormalized edge from a symbol to its supertype. At
// extraction time the supertype's FQN is usually unknown (forward
// reference, external library), so the edge starts with the short name
// only and TargetFQN is back-filled once resolution determines it.
type SuperMapping struct {
	ID         int64
	Branch     string
	SymbolFQN  string
	TargetName string
	TargetFQN  string
}

// InterfaceMapping is the same edge shape for implemented interfaces.
type InterfaceMapping struct {
	ID         int64
	Branch     string
	SymbolFQN  string
	TargetName string
	TargetFQN  string
}
