// Package bridge normalizes type references, imports and qualified names
// from the three language adapters into one canonical dotted namespace —
// the JVM package namespace — so the symbol store and resolution pipeline
// never need to know which language produced a given name. This is what
// lets a Kotlin class implementing a Java interface be found from Groovy,
// and vice versa.
package bridge

import "strings"

// kotlinTypes maps Kotlin's aliased runtime types to their canonical JVM
// names.
var kotlinTypes = map[string]string{
	"Any":           "java.lang.Object",
	"Unit":          "void",
	"Nothing":       "java.lang.Void",
	"String":        "java.lang.String",
	"CharSequence":  "java.lang.CharSequence",
	"Int":           "java.lang.Integer",
	"Long":          "java.lang.Long",
	"Short":         "java.lang.Short",
	"Byte":          "java.lang.Byte",
	"Double":        "java.lang.Double",
	"Float":         "java.lang.Float",
	"Boolean":       "java.lang.Boolean",
	"Char":          "java.lang.Character",
	"Throwable":     "java.lang.Throwable",
	"Comparable":    "java.lang.Comparable",
	"List":          "java.util.List",
	"MutableList":   "java.util.List",
	"Set":           "java.util.Set",
	"MutableSet":    "java.util.Set",
	"Map":           "java.util.Map",
	"MutableMap":    "java.util.Map",
	"Iterable":      "java.lang.Iterable",
	"Iterator":      "java.util.Iterator",
	"Collection":    "java.util.Collection",
	"StringBuilder": "java.lang.StringBuilder",
}

// javaPrimitives maps Java primitive type names to their boxed canonical
// forms so primitive and boxed usages land on the same store key.
var javaPrimitives = map[string]string{
	"int":     "java.lang.Integer",
	"long":    "java.lang.Long",
	"short":   "java.lang.Short",
	"byte":    "java.lang.Byte",
	"double":  "java.lang.Double",
	"float":   "java.lang.Float",
	"boolean": "java.lang.Boolean",
	"char":    "java.lang.Character",
}

// kotlinPackages rewrites Kotlin runtime package prefixes to the JVM
// packages backing them.
var kotlinPackages = map[string]string{
	"kotlin.collections": "java.util",
	"kotlin.jvm":         "java.lang",
	"kotlin":             "java.lang",
}

// NormalizeType maps a raw type name as written in one language into the
// canonical dotted namespace. Generic arguments, nullability markers and
// array suffixes are stripped first; unknown unqualified names pass
// through unchanged so short-name lookup still applies.
func NormalizeType(langTag, raw string) string {
	name := stripTypeDecorations(raw)
	if name == "" {
		return ""
	}

	switch langTag {
	case "kotlin":
		if mapped, ok := kotlinTypes[name]; ok {
			return mapped
		}
		if strings.HasPrefix(name, "kotlin.") {
			return normalizeKotlinQualified(name)
		}
	case "java":
		if mapped, ok := javaPrimitives[name]; ok {
			return mapped
		}
	case "groovy":
		if name == "def" {
			return "java.lang.Object"
		}
		if mapped, ok := javaPrimitives[name]; ok {
			return mapped
		}
	}
	return name
}

// NormalizeImport maps a raw import path into the canonical namespace.
// Wildcard suffixes are preserved.
func NormalizeImport(langTag, raw string) string {
	path := strings.TrimSuffix(strings.TrimSpace(raw), ";")
	if path == "" {
		return ""
	}
	if langTag != "kotlin" {
		return path
	}

	wildcard := strings.HasSuffix(path, ".*")
	base := strings.TrimSuffix(path, ".*")
	if wildcard {
		if mapped, ok := kotlinPackages[base]; ok {
			return mapped + ".*"
		}
		return path
	}
	return normalizeKotlinQualified(path)
}

// normalizeKotlinQualified rewrites a fully qualified kotlin.* name: the
// package prefix through kotlinPackages, the final segment through
// kotlinTypes when it is an aliased type.
func normalizeKotlinQualified(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return name
	}
	pkg, short := name[:idx], name[idx+1:]
	if mapped, ok := kotlinTypes[short]; ok {
		if strings.HasPrefix(mapped, "java.") || mapped == "void" {
			return mapped
		}
	}
	if mappedPkg, ok := kotlinPackages[pkg]; ok {
		return mappedPkg + "." + short
	}
	return name
}

// stripTypeDecorations removes generic arguments, nullability markers,
// array suffixes and vararg markers from a raw type expression.
func stripTypeDecorations(raw string) string {
	name := strings.TrimSpace(raw)
	if idx := strings.IndexByte(name, '<'); idx >= 0 {
		name = name[:idx]
	}
	name = strings.TrimSuffix(name, "?")
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
	}
	name = strings.TrimSuffix(name, "...")
	return strings.TrimSpace(name)
}

// QualifiedName joins a package, an optional enclosing type chain and a
// short name into one canonical dotted FQN.
func QualifiedName(pkg string, enclosing []string, short string) string {
	parts := make([]string, 0, len(enclosing)+2)
	if pkg != "" {
		parts = append(parts, pkg)
	}
	parts = append(parts, enclosing...)
	parts = append(parts, short)
	return strings.Join(parts, ".")
}

// ShortName returns the final segment of a dotted qualified name.
func ShortName(fqn string) string {
	if idx := strings.LastIndexByte(fqn, '.'); idx >= 0 {
		return fqn[idx+1:]
	}
	return fqn
}

// PackageOf returns everything before the final segment of a dotted name.
func PackageOf(fqn string) string {
	if idx := strings.LastIndexByte(fqn, '.'); idx >= 0 {
		return fqn[:idx]
	}
	return ""
}

// MatchesWildcard reports whether fqn falls directly under a wildcard
// import entry such as "java.util.*". Exact (non-wildcard) entries match
// only the identical name.
func MatchesWildcard(importEntry, fqn string) bool {
	if strings.HasSuffix(importEntry, ".*") {
		pkg := strings.TrimSuffix(importEntry, ".*")
		return PackageOf(fqn) == pkg
	}
	return importEntry == fqn
}
