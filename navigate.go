package understory

import (
	"context"
	"fmt"
	"os"

	"github.com/understory-dev/understory/internal/lang"
	"github.com/understory-dev/understory/internal/parser"
	"github.com/understory-dev/understory/internal/resolve"
	"github.com/understory-dev/understory/internal/store"
)

// Definition resolves the identifier at a zero-based (line, col) in path
// to its declaration. Returns resolve.ErrNotFound when the chain
// exhausts; that is the "no definition" answer, not a failure.
func (e *Engine) Definition(ctx context.Context, path string, line, col int) (*resolve.Location, error) {
	req, cleanup, err := e.navigationRequest(ctx, path, line, col)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return e.pipeline.Resolve(ctx, req)
}

// HoverInfo is what an editor shows for the symbol under the cursor.
type HoverInfo struct {
	FQN           string
	Kind          string
	Modifiers     []string
	Parameters    []store.Param
	ReturnType    string
	Documentation string
	Builtin       bool
}

// Hover resolves the identifier at a position and returns its indexed
// metadata. Builtin hits carry only the FQN.
func (e *Engine) Hover(ctx context.Context, path string, line, col int) (*HoverInfo, error) {
	loc, err := e.Definition(ctx, path, line, col)
	if err != nil {
		return nil, err
	}
	if loc.Builtin {
		return &HoverInfo{FQN: loc.FQN, Builtin: true}, nil
	}

	if loc.FQN == "" {
		// Local declarations are not store-backed.
		return &HoverInfo{}, nil
	}
	symbols, err := e.store.SymbolsByFQN(e.branch, loc.FQN)
	if err != nil {
		return nil, err
	}
	var sym *store.Symbol
	if len(symbols) > 0 {
		sym = symbols[0]
	}
	if sym == nil {
		sym, err = e.store.SymbolContaining(e.branch, loc.Path, loc.Range.StartLine, loc.Range.StartCol)
		if err != nil {
			return nil, err
		}
	}
	if sym == nil {
		return &HoverInfo{FQN: loc.FQN}, nil
	}
	return &HoverInfo{
		FQN:           sym.FQN,
		Kind:          sym.Kind,
		Modifiers:     sym.Modifiers,
		Parameters:    sym.Meta.Parameters,
		ReturnType:    sym.Meta.ReturnType,
		Documentation: sym.Meta.Documentation,
	}, nil
}

// TypeAt returns the short name of the type declaration enclosing the
// position, paired with the enclosing function's parameters.
func (e *Engine) TypeAt(ctx context.Context, path string, line, col int) (string, []lang.Parameter, error) {
	tag, ok := parser.LanguageForFile(path)
	if !ok {
		return "", nil, fmt.Errorf("understory: unsupported file: %s", path)
	}
	adapter, ok := lang.ForLanguage(tag)
	if !ok {
		return "", nil, fmt.Errorf("understory: no adapter for %s", tag)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	res, err := parser.Parse(ctx, tag, content)
	if err != nil {
		return "", nil, err
	}
	defer res.Close()

	name, params, ok := adapter.TypeAt(res.Tree.RootNode(), res.Source, line, col)
	if !ok {
		return "", nil, resolve.ErrNotFound
	}
	return name, params, nil
}

// Diagnostics parses a file and returns its syntax errors.
func (e *Engine) Diagnostics(ctx context.Context, path string) ([]parser.Diagnostic, error) {
	tag, ok := parser.LanguageForFile(path)
	if !ok {
		return nil, fmt.Errorf("understory: unsupported file: %s", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res, err := parser.Parse(ctx, tag, content)
	if err != nil {
		return nil, err
	}
	defer res.Close()
	return res.Diagnostics(), nil
}

func (e *Engine) navigationRequest(ctx context.Context, path string, line, col int) (*resolve.Request, func(), error) {
	tag, ok := parser.LanguageForFile(path)
	if !ok {
		return nil, nil, fmt.Errorf("understory: unsupported file: %s", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	res, err := parser.Parse(ctx, tag, content)
	if err != nil {
		return nil, nil, err
	}
	return &resolve.Request{
		Branch:      e.branch,
		ProjectRoot: e.projectRoot,
		FilePath:    path,
		Language:    tag,
		Root:        res.Tree.RootNode(),
		Source:      res.Source,
		Line:        line,
		Col:         col,
	}, res.Close, nil
}
