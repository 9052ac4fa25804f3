// Package parser wraps the tree-sitter incremental parsers for the three
// supported JVM languages behind a bounded-time parse call.
package parser

import (
	"context"
	"errors"
	"fmt"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
)

// Budget is the maximum wall time a single parse may consume. Parses that
// exceed it fail with ErrTimeout instead of blocking the caller.
const Budget = 10000 * time.Microsecond

var (
	// ErrTimeout is returned when a parse exceeds Budget.
	ErrTimeout = errors.New("parser: parse exceeded time budget")
	// ErrUnparseable is returned when the grammar produced no tree at all.
	// A tree containing ERROR nodes is not unparseable; it is returned as a
	// best-effort Result.
	ErrUnparseable = errors.New("parser: source is unparseable")
	// ErrUnsupportedLanguage is returned for unknown language tags.
	ErrUnsupportedLanguage = errors.New("parser: unsupported language")
)

// Result pairs a parsed syntax tree with the exact source it was parsed
// from. Tree offsets are only valid against that source; re-parsing
// produces a new Result, never a mutation of an old one.
type Result struct {
	Tree     *sitter.Tree
	Source   []byte
	Language string
}

// Close releases the underlying tree-sitter tree.
func (r *Result) Close() {
	if r.Tree != nil {
		r.Tree.Close()
	}
}

// Diagnostic describes one syntax error found in a best-effort tree.
type Diagnostic struct {
	Message   string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Diagnostics walks the tree and reports ERROR and missing nodes. Error
// recovery nodes are preserved at parse time, so a partially invalid file
// still yields both symbols and these diagnostics.
func (r *Result) Diagnostics() []Diagnostic {
	var diags []Diagnostic
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "ERROR" || n.IsMissing() {
			msg := "syntax error"
			if n.IsMissing() {
				msg = "missing " + n.Type()
			}
			diags = append(diags, Diagnostic{
				Message:   msg,
				StartLine: int(n.StartPoint().Row),
				StartCol:  int(n.StartPoint().Column),
				EndLine:   int(n.EndPoint().Row),
				EndCol:    int(n.EndPoint().Column),
			})
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	if r.Tree != nil {
		walk(r.Tree.RootNode())
	}
	return diags
}

// Parse parses src with the grammar for lang under the fixed time budget.
// The returned Result is owned by the caller. Parsing is a pure function of
// (lang, src); no state is shared between calls.
func Parse(ctx context.Context, lang string, src []byte) (*Result, error) {
	grammar, ok := GrammarForLanguage(lang)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}

	pctx, cancel := context.WithTimeout(ctx, Budget)
	defer cancel()

	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(grammar)

	tree, err := p.ParseCtx(pctx, nil, src)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || pctx.Err() != nil {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	if tree == nil {
		return nil, ErrUnparseable
	}
	return &Result{Tree: tree, Source: src, Language: lang}, nil
}
