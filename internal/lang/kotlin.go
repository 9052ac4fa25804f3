package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// kotlinImplicitImports is Kotlin's fixed default-import list on the JVM.
var kotlinImplicitImports = []string{
	"kotlin.*",
	"kotlin.annotation.*",
	"kotlin.collections.*",
	"kotlin.comparisons.*",
	"kotlin.io.*",
	"kotlin.ranges.*",
	"kotlin.sequences.*",
	"kotlin.text.*",
	"kotlin.jvm.*",
	"java.lang.*",
}

type kotlinAdapter struct {
	shape shape
}

func init() {
	Register(&kotlinAdapter{
		shape: shape{
			identTypes:    []string{"simple_identifier", "type_identifier", "identifier"},
			callTypes:     []string{"call_expression", "constructor_invocation"},
			argListTypes:  []string{"call_suffix", "value_arguments"},
			funcTypes:     []string{"function_declaration", "secondary_constructor", "primary_constructor"},
			typeDeclTypes: []string{"class_declaration", "interface_declaration", "object_declaration"},
		},
	})
}

func (a *kotlinAdapter) Tag() string { return "kotlin" }

func (a *kotlinAdapter) PackageName(root *sitter.Node, src []byte) string {
	header := childNodeByType(root, "package_header")
	if header == nil {
		return ""
	}
	name := childByType(header, src, "identifier", "qualified_identifier")
	if name == "" {
		name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(header.Content(src)), "package"))
	}
	return strings.TrimSpace(name)
}

// isInterfaceDecl reports whether a class_declaration node uses the
// "interface" keyword rather than "class".
func isInterfaceDecl(n *sitter.Node) bool {
	if n.Type() == "interface_declaration" {
		return true
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.Child(i).Type() {
		case "interface":
			return true
		case "class":
			return false
		}
	}
	return false
}

// hasModifierWord reports whether a declaration's modifier list contains
// the given keyword (e.g. "enum" on an enum class).
func hasModifierWord(n *sitter.Node, src []byte, word string) bool {
	mods := childNodeByType(n, "modifiers")
	if mods == nil {
		return false
	}
	for i := 0; i < int(mods.ChildCount()); i++ {
		if mods.Child(i).Content(src) == word {
			return true
		}
	}
	return false
}

func (a *kotlinAdapter) DeclarationKind(n *sitter.Node, src []byte) (Kind, bool) {
	switch n.Type() {
	case "class_declaration", "interface_declaration":
		if isInterfaceDecl(n) {
			return KindInterface, true
		}
		// "enum class" is a class_declaration carrying an enum modifier.
		if src != nil && hasModifierWord(n, src, "enum") {
			return KindEnum, true
		}
		return KindClass, true
	case "object_declaration":
		return KindClass, true
	case "function_declaration", "secondary_constructor":
		return KindFunction, true
	case "property_declaration", "enum_entry":
		return KindField, true
	}
	return "", false
}

func (a *kotlinAdapter) Indexable(n *sitter.Node) bool {
	_, ok := a.DeclarationKind(n, nil)
	if !ok {
		return false
	}
	// Properties declared inside a function or lambda body are locals, not
	// fields. Class bodies and the top level cut the ancestor walk short.
	if n.Type() == "property_declaration" {
		for p := n.Parent(); p != nil; p = p.Parent() {
			switch p.Type() {
			case "function_body", "lambda_literal":
				return false
			case "class_body", "enum_class_body", "source_file":
				return true
			}
		}
	}
	return true
}

func (a *kotlinAdapter) NameNode(n *sitter.Node, src []byte) *sitter.Node {
	switch n.Type() {
	case "property_declaration":
		if v := descendantByType(n, "variable_declaration"); v != nil {
			return childNodeByType(v, "simple_identifier")
		}
		return nil
	}
	return childNodeByType(n, "type_identifier", "simple_identifier")
}

func (a *kotlinAdapter) ShortName(n *sitter.Node, src []byte) string {
	if name := a.NameNode(n, src); name != nil {
		return name.Content(src)
	}
	return ""
}

// delegationSpecifiers returns the supertype list entries of a class or
// object declaration. A specifier with a constructor invocation is a class
// supertype; a bare user type is an interface.
func delegationSpecifiers(n *sitter.Node, src []byte) (super string, ifaces []string) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "delegation_specifier" {
			continue
		}
		if inv := childNodeByType(c, "constructor_invocation"); inv != nil {
			if ut := childNodeByType(inv, "user_type"); ut != nil && super == "" {
				super = strings.TrimSpace(ut.Content(src))
			}
			continue
		}
		text := strings.TrimSpace(c.Content(src))
		if idx := strings.IndexByte(text, '('); idx >= 0 {
			if super == "" {
				super = strings.TrimSpace(text[:idx])
			}
			continue
		}
		// "by" delegation keeps the interface name only.
		if idx := strings.Index(text, " by "); idx >= 0 {
			text = strings.TrimSpace(text[:idx])
		}
		ifaces = append(ifaces, text)
	}
	return super, ifaces
}

func (a *kotlinAdapter) Supertype(n *sitter.Node, src []byte) string {
	super, _ := delegationSpecifiers(n, src)
	return super
}

func (a *kotlinAdapter) Interfaces(n *sitter.Node, src []byte) []string {
	_, ifaces := delegationSpecifiers(n, src)
	return ifaces
}

// kotlinModifierWords is the set of Kotlin declaration modifiers persisted
// with a symbol.
var kotlinModifierWords = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true,
	"abstract": true, "final": true, "open": true, "sealed": true,
	"override": true, "lateinit": true, "const": true, "inline": true,
	"suspend": true, "operator": true, "infix": true, "data": true,
	"enum": true, "companion": true, "inner": true, "tailrec": true,
}

func (a *kotlinAdapter) Modifiers(n *sitter.Node, src []byte) []string {
	mods := childNodeByType(n, "modifiers")
	if mods == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(mods.ChildCount()); i++ {
		word := mods.Child(i).Content(src)
		if kotlinModifierWords[word] {
			out = append(out, word)
		}
	}
	return out
}

func (a *kotlinAdapter) Annotations(n *sitter.Node, src []byte) []string {
	mods := childNodeByType(n, "modifiers")
	if mods == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(mods.NamedChildCount()); i++ {
		c := mods.NamedChild(i)
		if c.Type() != "annotation" {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(c.Content(src), "@"))
		if idx := strings.IndexByte(name, '('); idx >= 0 {
			name = name[:idx]
		}
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func (a *kotlinAdapter) Documentation(n *sitter.Node, src []byte) string {
	return docCommentBefore(n, src, "multiline_comment", "comment", "block_comment")
}

func (a *kotlinAdapter) Parameters(n *sitter.Node, src []byte) ([]Parameter, bool) {
	list := childNodeByType(n, "function_value_parameters", "class_parameters")
	if list == nil && n.Type() == "class_declaration" {
		if pc := childNodeByType(n, "primary_constructor"); pc != nil {
			list = childNodeByType(pc, "class_parameters")
		}
	}
	if list == nil {
		return nil, false
	}
	params := []Parameter{}
	for i := 0; i < int(list.NamedChildCount()); i++ {
		p := list.NamedChild(i)
		if p.Type() != "parameter" && p.Type() != "class_parameter" {
			continue
		}
		var param Parameter
		if id := childNodeByType(p, "simple_identifier"); id != nil {
			param.Name = id.Content(src)
		}
		if typ := childNodeByType(p, "user_type", "nullable_type", "function_type"); typ != nil {
			param.Type = typ.Content(src)
		}
		// Defaults live in the surrounding list: `x: Int = 1` puts the
		// expression after an "=" sibling of the parameter node.
		param.Default = defaultAfter(p, src)
		params = append(params, param)
	}
	return params, true
}

// defaultAfter returns the default-value expression following a parameter
// node, or "".
func defaultAfter(p *sitter.Node, src []byte) string {
	sib := p.NextSibling()
	for sib != nil && !sib.IsNamed() {
		if sib.Content(src) == "=" {
			if val := sib.NextSibling(); val != nil && val.Content(src) != "," {
				return strings.TrimSpace(val.Content(src))
			}
			return ""
		}
		if sib.Content(src) == "," {
			return ""
		}
		sib = sib.NextSibling()
	}
	return ""
}

func (a *kotlinAdapter) ReturnType(n *sitter.Node, src []byte) string {
	if n.Type() != "function_declaration" {
		return ""
	}
	// The return type is the user type following the parameter list.
	list := childNodeByType(n, "function_value_parameters")
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "user_type", "nullable_type", "function_type":
			if list == nil || c.StartByte() >= list.EndByte() {
				return c.Content(src)
			}
		}
	}
	return ""
}

func (a *kotlinAdapter) ImplicitImports() []string {
	out := make([]string, len(kotlinImplicitImports))
	copy(out, kotlinImplicitImports)
	return out
}

func (a *kotlinAdapter) Imports(root *sitter.Node, src []byte) []string {
	imports := a.ImplicitImports()
	// import_header nodes may sit under an import_list or directly under
	// the source file depending on grammar version.
	collect := func(n *sitter.Node) {
		text := strings.TrimSpace(n.Content(src))
		text = strings.TrimSpace(strings.TrimPrefix(text, "import"))
		if idx := strings.Index(text, " as "); idx >= 0 {
			text = strings.TrimSpace(text[:idx])
		}
		if text != "" {
			imports = append(imports, text)
		}
	}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		c := root.NamedChild(i)
		switch c.Type() {
		case "import_header":
			collect(c)
		case "import_list":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				if h := c.NamedChild(j); h.Type() == "import_header" {
					collect(h)
				}
			}
		}
	}
	return imports
}

// kotlinIntegerSuffixes orders suffix matching longest-first so "uL" wins
// over "L".
var kotlinIntegerSuffixes = []suffixType{
	{"uL", "ULong"}, {"UL", "ULong"}, {"Ul", "ULong"}, {"ul", "ULong"},
	{"u", "UInt"}, {"U", "UInt"},
	{"L", "Long"},
}

func (a *kotlinAdapter) LiteralType(n *sitter.Node, src []byte) string {
	text := n.Content(src)
	switch n.Type() {
	case "integer_literal", "hex_literal", "bin_literal", "unsigned_literal", "long_literal":
		return numericSuffix(text, kotlinIntegerSuffixes, "Int")
	case "real_literal":
		return numericSuffix(text, []suffixType{
			{"f", "Float"}, {"F", "Float"},
		}, "Double")
	case "boolean_literal":
		return "Boolean"
	case "character_literal":
		return "Char"
	case "string_literal", "line_string_literal", "multi_line_string_literal":
		return "String"
	case "null_literal", "null":
		return ""
	}
	switch text {
	case "true", "false":
		return "Boolean"
	case "null":
		return ""
	}
	return ""
}

func (a *kotlinAdapter) IdentifierAt(root *sitter.Node, src []byte, line, col int) (Identifier, bool) {
	return a.shape.identifierAt(root, src, line, col)
}

func (a *kotlinAdapter) CallArguments(root *sitter.Node, src []byte, line, col int) ([]Argument, bool) {
	return a.shape.callArguments(root, src, line, col)
}

func (a *kotlinAdapter) TypeAt(root *sitter.Node, src []byte, line, col int) (string, []Parameter, bool) {
	return a.shape.typeAt(a, root, src, line, col)
}
