package resolve

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// localResolver searches the current file's own tree: starting from the
// usage, it ascends enclosing scopes (block, function, type, file) and
// returns the first declaration of the name found in each scope's
// immediate declarations. Purely syntactic, no store access.
type localResolver struct{}

func (localResolver) Name() string { return "local" }

func (localResolver) Resolve(_ context.Context, req *Request) (*Location, error) {
	start := sitter.Point{Row: uint32(req.Line), Column: uint32(req.Col)}
	usage := req.Root.NamedDescendantForPointRange(start, start)
	if usage == nil {
		return nil, nil
	}

	for scope := usage.Parent(); scope != nil; scope = scope.Parent() {
		if decl := declarationInScope(scope, usage, req); decl != nil {
			return &Location{
				Path:  req.FilePath,
				Range: nodeRange(decl),
			}, nil
		}
	}
	return nil, nil
}

// declarationInScope scans a scope's immediate children (descending one
// level into parameter lists) for a declaration of the identifier. Nested
// blocks and nested type bodies are not entered; they get their own turn
// as the ascent passes through them.
func declarationInScope(scope, usage *sitter.Node, req *Request) *sitter.Node {
	for i := 0; i < int(scope.NamedChildCount()); i++ {
		child := scope.NamedChild(i)
		t := child.Type()
		if strings.Contains(t, "parameters") {
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if found := declaredName(child.NamedChild(j), usage, req); found != nil {
					return found
				}
			}
			continue
		}
		if found := declaredName(child, usage, req); found != nil {
			return found
		}
	}
	return nil
}

// declaredName returns the identifier token of n when n declares
// req.ident.Name. The usage's own token never counts as its declaration.
func declaredName(n, usage *sitter.Node, req *Request) *sitter.Node {
	if !isDeclarationNode(n.Type()) {
		return nil
	}
	id := identifierNamed(n, req.Source, req.ident.Name, 3)
	if id == nil || samePosition(id, usage) {
		return nil
	}
	return id
}

func isDeclarationNode(t string) bool {
	switch {
	case strings.Contains(t, "declaration"),
		strings.Contains(t, "declarator"),
		strings.Contains(t, "definition"),
		strings.Contains(t, "parameter"):
		return true
	}
	return false
}

// identifierNamed finds a shallow identifier descendant with the exact
// name. Depth is bounded so a declaration's initializer expression does
// not leak matches from deep inside it.
func identifierNamed(n *sitter.Node, src []byte, name string, depth int) *sitter.Node {
	if strings.Contains(n.Type(), "identifier") && n.Content(src) == name {
		return n
	}
	if depth == 0 {
		return nil
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if found := identifierNamed(n.NamedChild(i), src, name, depth-1); found != nil {
			return found
		}
	}
	return nil
}

func samePosition(a, b *sitter.Node) bool {
	return a.StartPoint() == b.StartPoint() && a.EndPoint() == b.EndPoint()
}
