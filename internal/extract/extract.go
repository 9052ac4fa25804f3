// Package extract walks a parsed syntax tree with the file's language
// adapter and produces the symbol rows and inheritance edges the store
// persists. Extraction is purely syntactic: names are qualified from the
// declared package and the enclosing type chain, and supertype targets are
// recorded by short name for later back-filling.
package extract

import (
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/understory-dev/understory/internal/bridge"
	"github.com/understory-dev/understory/internal/lang"
	"github.com/understory-dev/understory/internal/store"
)

// Result holds everything extracted from one file.
type Result struct {
	Package    string
	Symbols    []*store.Symbol
	Supers     []*store.SuperMapping
	Interfaces []*store.InterfaceMapping
}

// File extracts all indexable declarations from a parsed file.
func File(adapter lang.Adapter, root *sitter.Node, src []byte, branch, path string) *Result {
	res := &Result{Package: adapter.PackageName(root, src)}
	ex := &extractor{
		adapter: adapter,
		src:     src,
		branch:  branch,
		path:    path,
		now:     time.Now(),
		res:     res,
	}
	ex.walk(root, res.Package, "")
	return res
}

type extractor struct {
	adapter lang.Adapter
	src     []byte
	branch  string
	path    string
	now     time.Time
	res     *Result
}

// walk descends the tree keeping the FQN of the enclosing declaration.
// pkg stays constant; enclosing grows as type declarations nest.
func (ex *extractor) walk(n *sitter.Node, pkg, enclosing string) {
	next := enclosing
	if ex.adapter.Indexable(n) {
		if sym := ex.symbolFor(n, pkg, enclosing); sym != nil {
			ex.res.Symbols = append(ex.res.Symbols, sym)
			if sym.Kind == string(lang.KindClass) || sym.Kind == string(lang.KindInterface) || sym.Kind == string(lang.KindEnum) {
				next = sym.FQN
				ex.recordEdges(sym)
			}
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ex.walk(n.NamedChild(i), pkg, next)
	}
}

func (ex *extractor) symbolFor(n *sitter.Node, pkg, enclosing string) *store.Symbol {
	kind, ok := ex.adapter.DeclarationKind(n, ex.src)
	if !ok {
		return nil
	}
	name := ex.adapter.ShortName(n, ex.src)
	if name == "" {
		return nil
	}

	fqn := bridge.QualifiedName(pkg, nil, name)
	if enclosing != "" {
		fqn = enclosing + "." + name
	}

	sym := &store.Symbol{
		Branch:    ex.branch,
		Name:      name,
		FQN:       fqn,
		ParentFQN: enclosing,
		FilePath:  ex.path,
		Language:  ex.adapter.Tag(),
		Kind:      string(kind),
		Modifiers: ex.adapter.Modifiers(n, ex.src),
		Range:     nodeRange(n),
		NameRange: nodeRange(n),
		Arity:     store.NoArity,
		Meta: store.Metadata{
			Documentation: ex.adapter.Documentation(n, ex.src),
			Annotations:   ex.adapter.Annotations(n, ex.src),
		},
		LastModified: ex.now,
	}
	if nameNode := ex.adapter.NameNode(n, ex.src); nameNode != nil {
		sym.NameRange = nodeRange(nameNode)
	}

	switch kind {
	case lang.KindClass, lang.KindEnum:
		sym.Supertype = ex.adapter.Supertype(n, ex.src)
		sym.Interfaces = ex.adapter.Interfaces(n, ex.src)
	case lang.KindInterface:
		sym.Interfaces = ex.adapter.Interfaces(n, ex.src)
	case lang.KindFunction:
		if params, ok := ex.adapter.Parameters(n, ex.src); ok {
			sym.Arity = len(params)
			sym.Meta.Parameters = toStoreParams(params)
		} else {
			sym.Arity = 0
		}
		sym.Meta.ReturnType = ex.adapter.ReturnType(n, ex.src)
	case lang.KindField:
		sym.Arity = 0
		sym.Meta.ReturnType = ex.adapter.ReturnType(n, ex.src)
	}
	return sym
}

func (ex *extractor) recordEdges(sym *store.Symbol) {
	if sym.Supertype != "" {
		ex.res.Supers = append(ex.res.Supers, &store.SuperMapping{
			Branch:     ex.branch,
			SymbolFQN:  sym.FQN,
			TargetName: bridge.ShortName(sym.Supertype),
		})
	}
	for _, iface := range sym.Interfaces {
		ex.res.Interfaces = append(ex.res.Interfaces, &store.InterfaceMapping{
			Branch:     ex.branch,
			SymbolFQN:  sym.FQN,
			TargetName: bridge.ShortName(iface),
		})
	}
}

func toStoreParams(params []lang.Parameter) []store.Param {
	out := make([]store.Param, len(params))
	for i, p := range params {
		out[i] = store.Param{Name: p.Name, Type: p.Type, Default: p.Default}
	}
	return out
}

func nodeRange(n *sitter.Node) store.Range {
	return store.Range{
		StartLine: int(n.StartPoint().Row),
		StartCol:  int(n.StartPoint().Column),
		EndLine:   int(n.EndPoint().Row),
		EndCol:    int(n.EndPoint().Column),
	}
}
