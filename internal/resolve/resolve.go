// Package resolve implements definition lookup as a fixed-order fallback
// chain: Local, then Project, then Builtin, then Workspace, then External.
// Each stage either produces a location or passes; the chain short-circuits
// on the first hit. Stage order is a contract, not a heuristic — callers
// rely on a local declaration always shadowing a project-level one.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/understory-dev/understory/internal/deps"
	"github.com/understory-dev/understory/internal/lang"
	"github.com/understory-dev/understory/internal/store"
)

// ErrNotFound is returned when every stage passes. It is the "no
// definition" answer, not a failure.
var ErrNotFound = errors.New("definition not found")

// Location is a resolved definition site. Builtin locations are synthetic:
// the declaration lives in the language runtime, not in any indexed file,
// so only the FQN is meaningful.
type Location struct {
	Path    string
	Range   store.Range
	FQN     string
	Builtin bool
}

// Request carries one navigation query through the chain. Root and Source
// must come from the same parse.
type Request struct {
	Branch      string
	ProjectRoot string
	FilePath    string
	Language    string
	Root        *sitter.Node
	Source      []byte
	Line, Col   int

	// Filled by the pipeline before stages run.
	adapter lang.Adapter
	ident   lang.Identifier
}

// Resolver is one stage of the chain. A (nil, nil) return means "pass".
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, req *Request) (*Location, error)
}

// Pipeline executes the fixed resolver chain. It owns no state of its
// own; it queries the store and dependency cache read-only, so requests
// may run fully in parallel.
type Pipeline struct {
	stages []Resolver
	log    *slog.Logger
}

// NewPipeline wires the five stages in their fixed order.
func NewPipeline(st *store.Store, cache *deps.Cache, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		stages: []Resolver{
			localResolver{},
			projectResolver{store: st},
			builtinResolver{},
			workspaceResolver{store: st},
			externalResolver{cache: cache},
		},
		log: log,
	}
}

// Resolve runs the chain and returns the first stage's hit, or
// ErrNotFound when all five pass. Stage errors are absorbed: a failing
// stage degrades to a pass so later stages still get their turn.
func (p *Pipeline) Resolve(ctx context.Context, req *Request) (*Location, error) {
	adapter, ok := lang.ForLanguage(req.Language)
	if !ok {
		return nil, fmt.Errorf("no adapter for language %q", req.Language)
	}
	req.adapter = adapter

	ident, ok := adapter.IdentifierAt(req.Root, req.Source, req.Line, req.Col)
	if !ok {
		return nil, ErrNotFound
	}
	req.ident = ident

	for _, stage := range p.stages {
		loc, err := stage.Resolve(ctx, req)
		if err != nil {
			p.log.Debug("resolver stage failed",
				"stage", stage.Name(), "name", ident.Name, "error", err)
			continue
		}
		if loc != nil {
			p.log.Debug("resolved",
				"stage", stage.Name(), "name", ident.Name, "path", loc.Path)
			return loc, nil
		}
	}
	return nil, ErrNotFound
}

// callArity returns the argument count when the usage is a call site.
func callArity(req *Request) (int, bool) {
	args, ok := req.adapter.CallArguments(req.Root, req.Source, req.Line, req.Col)
	if !ok {
		return 0, false
	}
	return len(args), true
}

func nodeRange(n *sitter.Node) store.Range {
	return store.Range{
		StartLine: int(n.StartPoint().Row),
		StartCol:  int(n.StartPoint().Column),
		EndLine:   int(n.EndPoint().Row),
		EndCol:    int(n.EndPoint().Column),
	}
}
