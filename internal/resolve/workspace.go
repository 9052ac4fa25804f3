package resolve

import (
	"context"

	"github.com/understory-dev/understory/internal/bridge"
	"github.com/understory-dev/understory/internal/store"
)

// workspaceResolver searches the other languages' partitions of the
// store: a Kotlin file referencing a class written in Java (or vice
// versa) lands here after the same-language Project stage passed. Names
// go through the bridge first so language-level aliases (Kotlin's
// MutableList, Java's boxed primitives) hit the partition that actually
// declares them.
type workspaceResolver struct {
	store *store.Store
}

func (workspaceResolver) Name() string { return "workspace" }

func (r workspaceResolver) Resolve(_ context.Context, req *Request) (*Location, error) {
	names := []string{req.ident.Name}
	if normalized := bridge.NormalizeType(req.Language, req.ident.Name); normalized != req.ident.Name {
		short := bridge.ShortName(normalized)
		if short != req.ident.Name {
			names = append(names, short)
		}
	}

	for _, name := range names {
		symbols, err := r.store.SymbolsByShortName(req.Branch, name, store.ShortNameQuery{
			ExcludeLanguage: req.Language,
		})
		if err != nil {
			return nil, err
		}
		if sym := pickSymbol(symbols, req); sym != nil {
			return &Location{Path: sym.FilePath, Range: sym.NameRange, FQN: sym.FQN}, nil
		}
	}
	return nil, nil
}
