package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// shape holds the per-grammar node type tables the position-based
// capabilities share. The logic of IdentifierAt, CallArguments and TypeAt
// is identical across languages; only these tables differ.
type shape struct {
	identTypes    []string // identifier token node types
	callTypes     []string // call expression node types
	argListTypes  []string // argument list node types
	funcTypes     []string // function-like declaration node types
	typeDeclTypes []string // type declaration node types
}

func (s shape) isIdent(n *sitter.Node) bool {
	for _, t := range s.identTypes {
		if n.Type() == t {
			return true
		}
	}
	return false
}

// identifierAt finds the identifier token at a position and derives its
// qualifier from the enclosing access expression.
func (s shape) identifierAt(root *sitter.Node, src []byte, line, col int) (Identifier, bool) {
	n := nodeAt(root, line, col)
	if n == nil || !s.isIdent(n) {
		return Identifier{}, false
	}
	id := Identifier{Name: n.Content(src)}
	if p := n.Parent(); p != nil {
		id.Qualifier = qualifierBefore(p, n, src)
	}
	return id, true
}

// callArguments locates the call expression enclosing a position and splits
// its argument list into top-level comma-separated pieces.
func (s shape) callArguments(root *sitter.Node, src []byte, line, col int) ([]Argument, bool) {
	n := nodeAt(root, line, col)
	if n == nil {
		return nil, false
	}
	call := ancestorOfType(n, s.callTypes...)
	if call == nil {
		return nil, false
	}
	list := childNodeByType(call, s.argListTypes...)
	if list == nil {
		list = descendantByType(call, s.argListTypes...)
	}
	if list == nil {
		return nil, false
	}
	pieces := splitArguments(insideParens(list, src))
	args := make([]Argument, len(pieces))
	for i, text := range pieces {
		args[i] = Argument{Text: text, Index: i}
	}
	return args, true
}

// typeAt returns the enclosing type declaration's short name paired with
// the enclosing function's parameter list.
func (s shape) typeAt(a Adapter, root *sitter.Node, src []byte, line, col int) (string, []Parameter, bool) {
	n := nodeAt(root, line, col)
	if n == nil {
		return "", nil, false
	}
	owner := ancestorOfType(n, s.typeDeclTypes...)
	if owner == nil {
		return "", nil, false
	}
	name := a.ShortName(owner, src)
	if name == "" {
		return "", nil, false
	}
	if fn := ancestorOfType(n, s.funcTypes...); fn != nil {
		params, ok := a.Parameters(fn, src)
		if ok && params == nil {
			params = []Parameter{}
		}
		return name, params, true
	}
	return name, nil, true
}
