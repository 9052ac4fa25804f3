package resolve

import (
	"context"

	"github.com/understory-dev/understory/internal/deps"
	"github.com/understory-dev/understory/internal/lang"
)

// externalResolver is the last stage: the project's dependency archives.
// Roots are resolved once per freshness window and parsed lazily through
// the cache, so the first navigation into a dependency pays the parse and
// later ones reuse it.
type externalResolver struct {
	cache *deps.Cache
}

func (externalResolver) Name() string { return "external" }

func (r externalResolver) Resolve(ctx context.Context, req *Request) (*Location, error) {
	if r.cache == nil || req.ProjectRoot == "" {
		return nil, nil
	}
	roots, err := r.cache.Resolve(req.ProjectRoot)
	if err != nil {
		return nil, err
	}

	arity, isCall := callArity(req)
	for _, root := range roots {
		symbols, err := r.cache.GetOrLoad(ctx, root)
		if err != nil {
			// One unreadable archive must not block the rest.
			continue
		}
		for _, sym := range symbols {
			if sym.Name != req.ident.Name {
				continue
			}
			if isCall && sym.Kind == string(lang.KindFunction) && sym.Arity != arity {
				continue
			}
			return &Location{Path: sym.FilePath, Range: sym.NameRange, FQN: sym.FQN}, nil
		}
	}
	return nil, nil
}
