package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// javaImplicitImports is Java's fixed implicit-import list: java.lang is in
// scope in every compilation unit without an import statement.
var javaImplicitImports = []string{"java.lang.*"}

type javaAdapter struct {
	shape shape
}

func init() {
	Register(&javaAdapter{
		shape: shape{
			identTypes:    []string{"identifier", "type_identifier"},
			callTypes:     []string{"method_invocation", "object_creation_expression", "explicit_constructor_invocation"},
			argListTypes:  []string{"argument_list"},
			funcTypes:     []string{"method_declaration", "constructor_declaration"},
			typeDeclTypes: []string{"class_declaration", "interface_declaration", "enum_declaration", "record_declaration"},
		},
	})
}

func (a *javaAdapter) Tag() string { return "java" }

func (a *javaAdapter) PackageName(root *sitter.Node, src []byte) string {
	pkg := childNodeByType(root, "package_declaration")
	if pkg == nil {
		return ""
	}
	name := childByType(pkg, src, "scoped_identifier", "identifier")
	return strings.TrimSpace(name)
}

func (a *javaAdapter) DeclarationKind(n *sitter.Node, src []byte) (Kind, bool) {
	switch n.Type() {
	case "class_declaration", "record_declaration":
		return KindClass, true
	case "interface_declaration", "annotation_type_declaration":
		return KindInterface, true
	case "enum_declaration":
		return KindEnum, true
	case "method_declaration", "constructor_declaration":
		return KindFunction, true
	case "field_declaration", "enum_constant":
		return KindField, true
	}
	return "", false
}

func (a *javaAdapter) Indexable(n *sitter.Node) bool {
	_, ok := a.DeclarationKind(n, nil)
	return ok
}

func (a *javaAdapter) NameNode(n *sitter.Node, src []byte) *sitter.Node {
	if n.Type() == "field_declaration" {
		if decl := childNodeByType(n, "variable_declarator"); decl != nil {
			return decl.ChildByFieldName("name")
		}
		return nil
	}
	if name := n.ChildByFieldName("name"); name != nil {
		return name
	}
	return childNodeByType(n, "identifier")
}

func (a *javaAdapter) ShortName(n *sitter.Node, src []byte) string {
	if name := a.NameNode(n, src); name != nil {
		return name.Content(src)
	}
	return ""
}

func (a *javaAdapter) Supertype(n *sitter.Node, src []byte) string {
	// class_declaration carries a "superclass" child: "extends Base".
	sup := childNodeByType(n, "superclass")
	if sup == nil {
		return ""
	}
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(sup.Content(src)), "extends"))
	return strings.TrimSpace(text)
}

func (a *javaAdapter) Interfaces(n *sitter.Node, src []byte) []string {
	// Classes implement via "super_interfaces"; interfaces extend via
	// "extends_interfaces". Both wrap a type_list.
	list := childNodeByType(n, "super_interfaces", "extends_interfaces")
	if list == nil {
		return nil
	}
	typeList := childNodeByType(list, "type_list")
	if typeList == nil {
		typeList = list
	}
	var names []string
	for i := 0; i < int(typeList.NamedChildCount()); i++ {
		names = append(names, strings.TrimSpace(typeList.NamedChild(i).Content(src)))
	}
	return names
}

// javaModifierWords is the closed set of Java declaration modifiers.
var javaModifierWords = map[string]bool{
	"public": true, "protected": true, "private": true,
	"abstract": true, "static": true, "final": true,
	"synchronized": true, "native": true, "strictfp": true,
	"transient": true, "volatile": true, "default": true, "sealed": true,
}

func (a *javaAdapter) Modifiers(n *sitter.Node, src []byte) []string {
	mods := childNodeByType(n, "modifiers")
	if mods == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(mods.ChildCount()); i++ {
		word := mods.Child(i).Content(src)
		if javaModifierWords[word] {
			out = append(out, word)
		}
	}
	return out
}

func (a *javaAdapter) Annotations(n *sitter.Node, src []byte) []string {
	mods := childNodeByType(n, "modifiers")
	if mods == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(mods.NamedChildCount()); i++ {
		c := mods.NamedChild(i)
		if c.Type() == "annotation" || c.Type() == "marker_annotation" {
			if name := c.ChildByFieldName("name"); name != nil {
				out = append(out, name.Content(src))
			}
		}
	}
	return out
}

func (a *javaAdapter) Documentation(n *sitter.Node, src []byte) string {
	return docCommentBefore(n, src, "block_comment", "comment")
}

func (a *javaAdapter) Parameters(n *sitter.Node, src []byte) ([]Parameter, bool) {
	list := n.ChildByFieldName("parameters")
	if list == nil {
		list = childNodeByType(n, "formal_parameters")
	}
	if list == nil {
		return nil, false
	}
	params := []Parameter{}
	for i := 0; i < int(list.NamedChildCount()); i++ {
		p := list.NamedChild(i)
		if p.Type() != "formal_parameter" && p.Type() != "spread_parameter" {
			continue
		}
		var param Parameter
		if name := p.ChildByFieldName("name"); name != nil {
			param.Name = name.Content(src)
		} else if id := childNodeByType(p, "identifier"); id != nil {
			param.Name = id.Content(src)
		}
		if typ := p.ChildByFieldName("type"); typ != nil {
			param.Type = typ.Content(src)
		}
		params = append(params, param)
	}
	return params, true
}

func (a *javaAdapter) ReturnType(n *sitter.Node, src []byte) string {
	if typ := n.ChildByFieldName("type"); typ != nil {
		return typ.Content(src)
	}
	return ""
}

func (a *javaAdapter) ImplicitImports() []string {
	out := make([]string, len(javaImplicitImports))
	copy(out, javaImplicitImports)
	return out
}

func (a *javaAdapter) Imports(root *sitter.Node, src []byte) []string {
	imports := a.ImplicitImports()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		c := root.NamedChild(i)
		if c.Type() != "import_declaration" {
			continue
		}
		text := strings.TrimSpace(c.Content(src))
		text = strings.TrimPrefix(text, "import")
		text = strings.TrimSuffix(strings.TrimSpace(text), ";")
		text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "static"))
		if text != "" {
			imports = append(imports, text)
		}
	}
	return imports
}

func (a *javaAdapter) LiteralType(n *sitter.Node, src []byte) string {
	text := n.Content(src)
	switch n.Type() {
	case "decimal_integer_literal", "hex_integer_literal",
		"binary_integer_literal", "octal_integer_literal":
		return numericSuffix(text, []suffixType{
			{"l", "long"}, {"L", "long"},
		}, "int")
	case "decimal_floating_point_literal", "hex_floating_point_literal":
		return numericSuffix(text, []suffixType{
			{"f", "float"}, {"F", "float"},
			{"d", "double"}, {"D", "double"},
		}, "double")
	case "string_literal", "text_block":
		return "String"
	case "character_literal":
		return "char"
	case "true", "false":
		return "boolean"
	case "null_literal":
		return ""
	}
	return ""
}

func (a *javaAdapter) IdentifierAt(root *sitter.Node, src []byte, line, col int) (Identifier, bool) {
	return a.shape.identifierAt(root, src, line, col)
}

func (a *javaAdapter) CallArguments(root *sitter.Node, src []byte, line, col int) ([]Argument, bool) {
	return a.shape.callArguments(root, src, line, col)
}

func (a *javaAdapter) TypeAt(root *sitter.Node, src []byte, line, col int) (string, []Parameter, bool) {
	return a.shape.typeAt(a, root, src, line, col)
}
