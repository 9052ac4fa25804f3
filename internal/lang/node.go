package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// childNodeByType returns the first direct child whose type matches any of
// the given node types.
func childNodeByType(n *sitter.Node, types ...string) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		for _, t := range types {
			if c.Type() == t {
				return c
			}
		}
	}
	return nil
}

// childByType returns the source text of the first matching direct child.
func childByType(n *sitter.Node, src []byte, types ...string) string {
	c := childNodeByType(n, types...)
	if c == nil {
		return ""
	}
	return c.Content(src)
}

// descendantByType does a depth-first search for the first descendant of a
// matching type, excluding n itself.
func descendantByType(n *sitter.Node, types ...string) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		for _, t := range types {
			if c.Type() == t {
				return c
			}
		}
		if found := descendantByType(c, types...); found != nil {
			return found
		}
	}
	return nil
}

// nodeAt returns the smallest named node covering a zero-based (line, col)
// position.
func nodeAt(root *sitter.Node, line, col int) *sitter.Node {
	if root == nil {
		return nil
	}
	pt := sitter.Point{Row: uint32(line), Column: uint32(col)}
	return root.NamedDescendantForPointRange(pt, pt)
}

// ancestorOfType walks up from n until it reaches a node of one of the
// given types, inclusive of n itself.
func ancestorOfType(n *sitter.Node, types ...string) *sitter.Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		for _, t := range types {
			if cur.Type() == t {
				return cur
			}
		}
	}
	return nil
}

// qualifierBefore extracts the qualifier expression preceding an identifier
// node within its parent: everything from the parent's start up to the
// identifier, with the trailing access operator stripped. Works uniformly
// across "a.b", "a?.b" and "a::b" shapes.
func qualifierBefore(parent, ident *sitter.Node, src []byte) string {
	if parent == nil || ident == nil {
		return ""
	}
	start := parent.StartByte()
	end := ident.StartByte()
	if end <= start || int(end) > len(src) {
		return ""
	}
	q := string(src[start:end])
	q = strings.TrimSpace(q)
	for _, op := range []string{"?.", "::", "."} {
		if strings.HasSuffix(q, op) {
			return strings.TrimSpace(strings.TrimSuffix(q, op))
		}
	}
	return ""
}

// splitArguments splits the interior of an argument list into top-level
// comma-separated pieces. Commas nested inside parentheses, brackets,
// braces or string/char literals never split an argument, so nested calls
// stay intact. Returned texts are the exact source slices, trimmed of
// surrounding whitespace only.
func splitArguments(text string) []string {
	var (
		args    []string
		depth   int
		start   int
		inStr   bool
		strQ    byte
		escaped bool
	)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inStr {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == strQ:
				inStr = false
			}
			continue
		}
		switch ch {
		case '"', '\'':
			inStr = true
			strQ = ch
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(text[start:i]))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		args = append(args, tail)
	}
	return args
}

// insideParens returns the source text between the first '(' and its
// matching ')' of a node, or "" when the node carries no parenthesized
// list.
func insideParens(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	text := n.Content(src)
	open := strings.IndexByte(text, '(')
	if open < 0 {
		return ""
	}
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return text[open+1 : i]
			}
		}
	}
	return text[open+1:]
}

// cleanDocComment strips comment markers from a /** ... */ or /* ... */
// block and returns the trimmed text.
func cleanDocComment(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "/**")
	raw = strings.TrimPrefix(raw, "/*")
	raw = strings.TrimSuffix(raw, "*/")
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// docCommentBefore returns the cleaned doc comment from the named sibling
// immediately preceding n, when that sibling is one of the given comment
// node types and opens with "/**".
func docCommentBefore(n *sitter.Node, src []byte, commentTypes ...string) string {
	prev := n.PrevNamedSibling()
	if prev == nil {
		return ""
	}
	matched := false
	for _, t := range commentTypes {
		if prev.Type() == t {
			matched = true
			break
		}
	}
	if !matched {
		return ""
	}
	raw := prev.Content(src)
	if !strings.HasPrefix(raw, "/**") {
		return ""
	}
	return cleanDocComment(raw)
}

// numericSuffix classifies a numeric literal's text by suffix against a
// suffix→type table, falling back to the given default. Suffix matching is
// longest-first so "uL" wins over "L".
func numericSuffix(text string, suffixes []suffixType, def string) string {
	for _, st := range suffixes {
		if strings.HasSuffix(text, st.suffix) {
			return st.typ
		}
	}
	return def
}

type suffixType struct {
	suffix string
	typ    string
}
