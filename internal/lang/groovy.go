package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// groovyImplicitImports is Groovy's fixed default-import list: six wildcard
// packages plus the two java.math classes, always in this order.
var groovyImplicitImports = []string{
	"java.lang.*",
	"java.util.*",
	"java.io.*",
	"java.net.*",
	"groovy.lang.*",
	"groovy.util.*",
	"java.math.BigInteger",
	"java.math.BigDecimal",
}

type groovyAdapter struct {
	shape shape
}

func init() {
	Register(&groovyAdapter{
		shape: shape{
			identTypes:    []string{"identifier", "type_identifier", "dotted_identifier"},
			callTypes:     []string{"function_call", "method_invocation", "juxt_function_call", "object_creation_expression", "constructor_invocation"},
			argListTypes:  []string{"argument_list", "arguments"},
			funcTypes:     []string{"method_declaration", "function_definition", "function_declaration", "constructor_declaration"},
			typeDeclTypes: []string{"class_definition", "interface_definition", "enum_definition", "trait_definition", "class_declaration"},
		},
	})
}

func (a *groovyAdapter) Tag() string { return "groovy" }

// statementWithKeyword finds a top-level child introduced by the given
// keyword (package/import) and returns its text with the keyword stripped.
// Groovy grammars differ on the node names for these statements, so the
// match is on leading source text rather than node type.
func statementsWithKeyword(root *sitter.Node, src []byte, keyword string) []string {
	var out []string
	for i := 0; i < int(root.NamedChildCount()); i++ {
		c := root.NamedChild(i)
		text := strings.TrimSpace(c.Content(src))
		if !strings.HasPrefix(text, keyword) {
			continue
		}
		rest := strings.TrimPrefix(text, keyword)
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		rest = strings.TrimSuffix(strings.TrimSpace(rest), ";")
		if idx := strings.IndexAny(rest, "\n"); idx >= 0 {
			rest = rest[:idx]
		}
		if idx := strings.Index(rest, " as "); idx >= 0 {
			rest = rest[:idx]
		}
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "static"))
		if rest != "" {
			out = append(out, strings.TrimSpace(rest))
		}
	}
	return out
}

func (a *groovyAdapter) PackageName(root *sitter.Node, src []byte) string {
	pkgs := statementsWithKeyword(root, src, "package")
	if len(pkgs) == 0 {
		return ""
	}
	return pkgs[0]
}

func (a *groovyAdapter) DeclarationKind(n *sitter.Node, src []byte) (Kind, bool) {
	switch n.Type() {
	case "class_definition", "class_declaration":
		// "interface Foo" and "@interface Foo" parse as a class_definition
		// whose keyword token differs.
		if childNodeByType(n, "interface", "@interface") != nil {
			return KindInterface, true
		}
		return KindClass, true
	case "interface_definition", "trait_definition":
		return KindInterface, true
	case "enum_definition":
		return KindEnum, true
	case "method_declaration", "function_definition", "function_declaration", "constructor_declaration":
		return KindFunction, true
	case "field_declaration", "declaration":
		return KindField, true
	}
	return "", false
}

func (a *groovyAdapter) Indexable(n *sitter.Node) bool {
	kind, ok := a.DeclarationKind(n, nil)
	if !ok {
		return false
	}
	// A bare declaration is a field only when it sits directly in a class
	// body. Script-level ("def x = 1" at top level) and method-local
	// declarations are local state, not API surface. Class and method
	// bodies are both closure nodes, so the closure's owner decides.
	if kind == KindField {
		parent := n.Parent()
		if parent == nil {
			return false
		}
		switch parent.Type() {
		case "class_definition", "class_declaration", "class_body":
			return true
		case "closure":
			owner := parent.Parent()
			return owner != nil && (owner.Type() == "class_definition" || owner.Type() == "class_declaration")
		default:
			return false
		}
	}
	return true
}

func (a *groovyAdapter) NameNode(n *sitter.Node, src []byte) *sitter.Node {
	if name := n.ChildByFieldName("name"); name != nil {
		return name
	}
	// Methods carry their declared identifier in the "function" field; the
	// "name" field is only set on type declarations.
	if name := n.ChildByFieldName("function"); name != nil {
		return name
	}
	// A leading identifier may be a declared type ("String greet()",
	// "String name = ..."), so take the last identifier before the
	// parameter list or initializer.
	stop := n.EndByte()
	if params := childNodeByType(n, "parameter_list", "parameters"); params != nil {
		stop = params.StartByte()
	}
	if val := n.ChildByFieldName("value"); val != nil && val.StartByte() < stop {
		stop = val.StartByte()
	}
	if eq := childNodeByType(n, "="); eq != nil && eq.StartByte() < stop {
		stop = eq.StartByte()
	}
	var last *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.StartByte() >= stop {
			break
		}
		switch c.Type() {
		case "identifier", "type_identifier":
			last = c
		}
	}
	return last
}

func (a *groovyAdapter) ShortName(n *sitter.Node, src []byte) string {
	if name := a.NameNode(n, src); name != nil {
		return name.Content(src)
	}
	return ""
}

// inheritanceClauses reads the extends / implements lists from the source
// text between a type declaration's name and its body. The grammar keeps at
// most a single superclass field and has no implements clause at all, so an
// "implements" list fragments the tree and only the raw header is reliable.
func (a *groovyAdapter) inheritanceClauses(n *sitter.Node, src []byte) (super string, ifaces []string) {
	name := a.NameNode(n, src)
	if name == nil {
		return "", nil
	}
	end := n.EndByte()
	if body := n.ChildByFieldName("body"); body != nil {
		end = body.StartByte()
	}
	if int(end) > len(src) || name.EndByte() >= end {
		return "", nil
	}
	header := string(src[name.EndByte():end])
	if idx := strings.IndexByte(header, '{'); idx >= 0 {
		header = header[:idx]
	}

	for _, clause := range splitClauses(header) {
		names := splitArguments(clause.text)
		switch clause.keyword {
		case "extends":
			for _, nm := range names {
				if super == "" {
					super = nm
				} else {
					// Interfaces extending multiple parents.
					ifaces = append(ifaces, nm)
				}
			}
		case "implements":
			ifaces = append(ifaces, names...)
		}
	}
	return super, ifaces
}

type headerClause struct {
	keyword string
	text    string
}

// splitClauses finds the extends / implements keywords at the top nesting
// level of a declaration header and returns the text segment following each.
// Keywords inside generic bounds ("<T extends Number>") do not count.
func splitClauses(header string) []headerClause {
	type marker struct {
		pos, end int
		keyword  string
	}
	var markers []marker
	depth := 0
	for i := 0; i < len(header); i++ {
		switch header[i] {
		case '<', '(', '[':
			depth++
			continue
		case '>', ')', ']':
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth != 0 {
			continue
		}
		for _, kw := range []string{"extends", "implements"} {
			if !strings.HasPrefix(header[i:], kw) {
				continue
			}
			if i > 0 && isWordByte(header[i-1]) {
				continue
			}
			if next := i + len(kw); next < len(header) && isWordByte(header[next]) {
				continue
			}
			markers = append(markers, marker{pos: i, end: i + len(kw), keyword: kw})
			i += len(kw) - 1
			break
		}
	}

	clauses := make([]headerClause, 0, len(markers))
	for j, m := range markers {
		stop := len(header)
		if j+1 < len(markers) {
			stop = markers[j+1].pos
		}
		clauses = append(clauses, headerClause{keyword: m.keyword, text: header[m.end:stop]})
	}
	return clauses
}

func isWordByte(b byte) bool {
	return b == '_' || b == '$' ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

func (a *groovyAdapter) Supertype(n *sitter.Node, src []byte) string {
	super, _ := a.inheritanceClauses(n, src)
	return super
}

func (a *groovyAdapter) Interfaces(n *sitter.Node, src []byte) []string {
	_, ifaces := a.inheritanceClauses(n, src)
	return ifaces
}

// groovyModifierWords mirrors the Java modifier set plus "def".
var groovyModifierWords = map[string]bool{
	"public": true, "protected": true, "private": true,
	"abstract": true, "static": true, "final": true,
	"synchronized": true, "transient": true, "volatile": true,
	"native": true, "strictfp": true, "def": true,
}

func (a *groovyAdapter) Modifiers(n *sitter.Node, src []byte) []string {
	var out []string
	seen := map[string]bool{}
	var scan func(node *sitter.Node, depth int)
	scan = func(node *sitter.Node, depth int) {
		for i := 0; i < int(node.ChildCount()); i++ {
			c := node.Child(i)
			word := c.Content(src)
			if groovyModifierWords[word] && !seen[word] {
				seen[word] = true
				out = append(out, word)
			}
			// Modifiers may be wrapped in a modifiers node one level down.
			if depth == 0 && (c.Type() == "modifiers" || c.Type() == "modifier") {
				scan(c, depth+1)
			}
		}
	}
	scan(n, 0)
	return out
}

func (a *groovyAdapter) Annotations(n *sitter.Node, src []byte) []string {
	var out []string
	var scan func(node *sitter.Node)
	scan = func(node *sitter.Node) {
		for i := 0; i < int(node.NamedChildCount()); i++ {
			c := node.NamedChild(i)
			switch c.Type() {
			case "annotation", "marker_annotation":
				name := strings.TrimSpace(strings.TrimPrefix(c.Content(src), "@"))
				if idx := strings.IndexByte(name, '('); idx >= 0 {
					name = name[:idx]
				}
				if name != "" {
					out = append(out, name)
				}
			case "modifiers":
				scan(c)
			}
		}
	}
	scan(n)
	return out
}

func (a *groovyAdapter) Documentation(n *sitter.Node, src []byte) string {
	return docCommentBefore(n, src, "groovy_doc", "comment", "block_comment")
}

func (a *groovyAdapter) Parameters(n *sitter.Node, src []byte) ([]Parameter, bool) {
	list := childNodeByType(n, "parameter_list", "formal_parameters", "parameters")
	if list == nil {
		return nil, false
	}
	params := []Parameter{}
	for i := 0; i < int(list.NamedChildCount()); i++ {
		p := list.NamedChild(i)
		if !strings.Contains(p.Type(), "parameter") {
			continue
		}
		var param Parameter
		if name := p.ChildByFieldName("name"); name != nil {
			param.Name = name.Content(src)
		} else if ids := namedChildrenOfType(p, "identifier"); len(ids) > 0 {
			// With an explicit type the name is the last identifier:
			// "String name"; an untyped parameter has exactly one.
			param.Name = ids[len(ids)-1].Content(src)
			if len(ids) > 1 {
				param.Type = ids[0].Content(src)
			}
		}
		if param.Type == "" {
			if typ := p.ChildByFieldName("type"); typ != nil {
				param.Type = typ.Content(src)
			} else if typ := childNodeByType(p, "type_identifier", "builtin_type", "type"); typ != nil {
				param.Type = typ.Content(src)
			}
		}
		param.Default = defaultAfter(p, src)
		if param.Default == "" {
			// Some grammar versions keep the default inside the parameter
			// node: "int x = 1".
			text := p.Content(src)
			if idx := strings.IndexByte(text, '='); idx >= 0 {
				param.Default = strings.TrimSpace(text[idx+1:])
			}
		}
		params = append(params, param)
	}
	return params, true
}

// namedChildrenOfType collects direct named children of the given type.
func namedChildrenOfType(n *sitter.Node, typ string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == typ {
			out = append(out, c)
		}
	}
	return out
}

func (a *groovyAdapter) ReturnType(n *sitter.Node, src []byte) string {
	if typ := n.ChildByFieldName("type"); typ != nil {
		return typ.Content(src)
	}
	// "String greet() {...}": the declared type precedes the name node.
	name := a.NameNode(n, src)
	if name == nil {
		return ""
	}
	if typ := childNodeByType(n, "type_identifier", "builtin_type", "type"); typ != nil && typ.EndByte() <= name.StartByte() {
		return typ.Content(src)
	}
	return ""
}

func (a *groovyAdapter) ImplicitImports() []string {
	out := make([]string, len(groovyImplicitImports))
	copy(out, groovyImplicitImports)
	return out
}

func (a *groovyAdapter) Imports(root *sitter.Node, src []byte) []string {
	return append(a.ImplicitImports(), statementsWithKeyword(root, src, "import")...)
}

// groovyNumericTypes are the node types treated as numeric literals across
// groovy grammar versions.
var groovyNumericTypes = map[string]bool{
	"number_literal": true, "number": true, "integer_literal": true,
	"decimal_integer_literal": true, "integer": true, "float_literal": true,
	"decimal_floating_point_literal": true, "decimal": true,
}

func (a *groovyAdapter) LiteralType(n *sitter.Node, src []byte) string {
	text := n.Content(src)
	typ := n.Type()
	switch {
	case groovyNumericTypes[typ]:
		return groovyNumericType(text)
	case typ == "string" || typ == "string_literal" || typ == "gstring":
		return "String"
	case typ == "boolean_literal" || typ == "true" || typ == "false" || text == "true" || text == "false":
		return "Boolean"
	case typ == "null_literal" || typ == "null" || text == "null":
		return ""
	}
	return ""
}

// groovyNumericType classifies a Groovy numeric literal. Plain decimals
// are BigDecimal; plain integers (including hex and binary forms) default
// to Integer; suffixes override. In a hex literal a trailing 'f' or 'd' is
// a digit, not a suffix ("0x1F" is 31), so only g/l/i count there.
func groovyNumericType(text string) string {
	lower := strings.ToLower(text)
	isHex := strings.HasPrefix(lower, "0x")
	isBinary := strings.HasPrefix(lower, "0b")
	hasDot := !isHex && !isBinary && strings.ContainsAny(lower, ".e")

	switch {
	case strings.HasSuffix(lower, "g"):
		if hasDot {
			return "BigDecimal"
		}
		return "BigInteger"
	case strings.HasSuffix(lower, "l"):
		return "Long"
	case strings.HasSuffix(lower, "i"):
		return "Integer"
	case !isHex && strings.HasSuffix(lower, "f"):
		return "Float"
	case !isHex && strings.HasSuffix(lower, "d"):
		return "Double"
	case hasDot:
		return "BigDecimal"
	default:
		return "Integer"
	}
}

func (a *groovyAdapter) IdentifierAt(root *sitter.Node, src []byte, line, col int) (Identifier, bool) {
	return a.shape.identifierAt(root, src, line, col)
}

func (a *groovyAdapter) CallArguments(root *sitter.Node, src []byte, line, col int) ([]Argument, bool) {
	return a.shape.callArguments(root, src, line, col)
}

func (a *groovyAdapter) TypeAt(root *sitter.Node, src []byte, line, col int) (string, []Parameter, bool) {
	return a.shape.typeAt(a, root, src, line, col)
}
