package resolve

import (
	"context"

	"github.com/understory-dev/understory/internal/lang"
	"github.com/understory-dev/understory/internal/store"
)

// projectResolver queries the symbol store for the current branch and
// language. Call usages are disambiguated by arity against the indexed
// overloads.
type projectResolver struct {
	store *store.Store
}

func (projectResolver) Name() string { return "project" }

func (r projectResolver) Resolve(_ context.Context, req *Request) (*Location, error) {
	symbols, err := r.store.SymbolsByShortName(req.Branch, req.ident.Name, store.ShortNameQuery{
		Language: req.Language,
	})
	if err != nil {
		return nil, err
	}
	sym := pickSymbol(symbols, req)
	if sym == nil {
		return nil, nil
	}
	return &Location{Path: sym.FilePath, Range: sym.NameRange, FQN: sym.FQN}, nil
}

// pickSymbol chooses among candidates sharing a short name. A call site
// prefers the function overload whose arity matches the argument count;
// a qualified usage prefers symbols whose parent type matches the
// qualifier's short name.
func pickSymbol(symbols []*store.Symbol, req *Request) *store.Symbol {
	if len(symbols) == 0 {
		return nil
	}

	candidates := symbols
	if req.ident.Qualifier != "" {
		if filtered := filterByParent(symbols, req.ident.Qualifier); len(filtered) > 0 {
			candidates = filtered
		}
	}

	if arity, isCall := callArity(req); isCall {
		for _, sym := range candidates {
			if sym.Kind == string(lang.KindFunction) && sym.Arity == arity {
				return sym
			}
		}
		// No exact overload; any function beats a same-named field.
		for _, sym := range candidates {
			if sym.Kind == string(lang.KindFunction) {
				return sym
			}
		}
	}
	return candidates[0]
}

func filterByParent(symbols []*store.Symbol, qualifier string) []*store.Symbol {
	var out []*store.Symbol
	for _, sym := range symbols {
		if sym.ParentFQN == "" {
			continue
		}
		if endsWithSegment(sym.ParentFQN, qualifier) {
			out = append(out, sym)
		}
	}
	return out
}

func endsWithSegment(fqn, segment string) bool {
	if fqn == segment {
		return true
	}
	n := len(fqn) - len(segment)
	return n > 0 && fqn[n-1] == '.' && fqn[n:] == segment
}
