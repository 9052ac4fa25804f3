// Package lang defines the per-language capability set the rest of the
// engine is written against. Each supported language implements Adapter
// once; every other component (extraction, the symbol store, the resolution
// pipeline) only ever sees this interface, so adding a language is a new
// adapter plus a registry entry.
package lang

import (
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// Kind classifies an indexable declaration.
type Kind string

const (
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindFunction  Kind = "function"
	KindField     Kind = "field"
	KindEnum      Kind = "enum"
)

// Parameter is one declared parameter of a function or constructor.
type Parameter struct {
	Name    string
	Type    string
	Default string
}

// Identifier is the name under the cursor plus its qualifier expression,
// if the usage is qualified (e.g. "foo.Bar" at Bar yields {Bar, foo}).
type Identifier struct {
	Name      string
	Qualifier string
}

// Argument is one call-site argument: its exact source text and its
// zero-based position in the argument list.
type Argument struct {
	Text  string
	Index int
}

// Adapter is the capability set each supported language implements.
// Node-taking methods expect nodes from a tree parsed with the adapter's
// grammar together with the exact source the tree was parsed from.
type Adapter interface {
	// Tag returns the canonical language tag ("java", "kotlin", "groovy").
	Tag() string

	// PackageName extracts the declared package of a file, or "".
	PackageName(root *sitter.Node, src []byte) string

	// DeclarationKind classifies a node as an indexable declaration.
	DeclarationKind(n *sitter.Node, src []byte) (Kind, bool)

	// ShortName returns the declared name of a declaration node, or "".
	ShortName(n *sitter.Node, src []byte) string

	// NameNode returns the identifier token node of a declaration, used for
	// the narrow identifier range persisted with a symbol. May return nil.
	NameNode(n *sitter.Node, src []byte) *sitter.Node

	// Supertype returns the extended class name of a declaration, or "".
	Supertype(n *sitter.Node, src []byte) string

	// Interfaces returns the implemented interface names of a declaration.
	Interfaces(n *sitter.Node, src []byte) []string

	// Modifiers returns declaration modifiers (visibility, static, final...).
	Modifiers(n *sitter.Node, src []byte) []string

	// Annotations returns annotation names attached to a declaration.
	Annotations(n *sitter.Node, src []byte) []string

	// Documentation returns the doc comment preceding a declaration, or "".
	Documentation(n *sitter.Node, src []byte) string

	// Parameters returns the declared parameters of a function-like node.
	// ok is false when the node has no parameter list at all.
	Parameters(n *sitter.Node, src []byte) (params []Parameter, ok bool)

	// ReturnType returns the declared return type of a function, or "".
	ReturnType(n *sitter.Node, src []byte) string

	// Imports returns the file's import list with the language's fixed
	// implicit imports prepended, in declaration order, ahead of every
	// explicit import found in source.
	Imports(root *sitter.Node, src []byte) []string

	// ImplicitImports returns the language's fixed implicit-import list.
	ImplicitImports() []string

	// LiteralType maps a literal node to its semantic type name. The
	// absence-of-value literal (null) has no type and yields "".
	LiteralType(n *sitter.Node, src []byte) string

	// IdentifierAt returns the identifier under the given position.
	IdentifierAt(root *sitter.Node, src []byte, line, col int) (Identifier, bool)

	// CallArguments returns the arguments of the call expression enclosing
	// the given position, in source order, one entry per top-level
	// comma-separated argument expression.
	CallArguments(root *sitter.Node, src []byte, line, col int) ([]Argument, bool)

	// TypeAt returns the short name of the type declaration enclosing the
	// position, paired with the parameters of the enclosing function (empty
	// when the enclosing function takes none, nil when the position is not
	// inside a function).
	TypeAt(root *sitter.Node, src []byte, line, col int) (string, []Parameter, bool)

	// Indexable reports whether a node kind is worth persisting as a symbol.
	Indexable(n *sitter.Node) bool
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Adapter{}
)

// Register makes an adapter available under its tag. Called from adapter
// init functions.
func Register(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[a.Tag()] = a
}

// ForLanguage returns the adapter registered for a language tag.
func ForLanguage(tag string) (Adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := registry[tag]
	return a, ok
}

// Tags returns the registered language tags.
func Tags() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	tags := make([]string, 0, len(registry))
	for tag := range registry {
		tags = append(tags, tag)
	}
	return tags
}
