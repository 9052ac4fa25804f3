package resolve

import (
	"context"
	"strings"

	"github.com/understory-dev/understory/internal/bridge"
)

// builtinResolver matches the identifier against the language's implicit
// import namespace. Builtins are not source-indexed — nothing in the
// project declares java.lang.String — so a hit is a synthetic location
// carrying only the canonical FQN.
type builtinResolver struct{}

func (builtinResolver) Name() string { return "builtin" }

func (builtinResolver) Resolve(_ context.Context, req *Request) (*Location, error) {
	fqn, ok := builtinFQN(req.Language, req.ident.Name)
	if !ok {
		return nil, nil
	}
	for _, entry := range req.adapter.ImplicitImports() {
		if bridge.MatchesWildcard(entry, fqn) {
			return &Location{FQN: fqn, Builtin: true}, nil
		}
	}
	return nil, nil
}

// jvmBuiltins covers the java.lang names every JVM language sees without
// an import.
var jvmBuiltins = map[string]string{
	"Object":                "java.lang.Object",
	"String":                "java.lang.String",
	"CharSequence":          "java.lang.CharSequence",
	"StringBuilder":         "java.lang.StringBuilder",
	"Integer":               "java.lang.Integer",
	"Long":                  "java.lang.Long",
	"Short":                 "java.lang.Short",
	"Byte":                  "java.lang.Byte",
	"Double":                "java.lang.Double",
	"Float":                 "java.lang.Float",
	"Boolean":               "java.lang.Boolean",
	"Character":             "java.lang.Character",
	"Number":                "java.lang.Number",
	"Math":                  "java.lang.Math",
	"System":                "java.lang.System",
	"Thread":                "java.lang.Thread",
	"Runnable":              "java.lang.Runnable",
	"Iterable":              "java.lang.Iterable",
	"Comparable":            "java.lang.Comparable",
	"Class":                 "java.lang.Class",
	"Void":                  "java.lang.Void",
	"Throwable":             "java.lang.Throwable",
	"Exception":             "java.lang.Exception",
	"RuntimeException":      "java.lang.RuntimeException",
	"IllegalStateException": "java.lang.IllegalStateException",
	"Error":                 "java.lang.Error",
}

// groovyBuiltins adds the namespaces Groovy implicitly imports beyond
// java.lang.
var groovyBuiltins = map[string]string{
	"List":       "java.util.List",
	"Map":        "java.util.Map",
	"Set":        "java.util.Set",
	"ArrayList":  "java.util.ArrayList",
	"HashMap":    "java.util.HashMap",
	"HashSet":    "java.util.HashSet",
	"Iterator":   "java.util.Iterator",
	"Collection": "java.util.Collection",
	"File":       "java.io.File",
	"URL":        "java.net.URL",
	"URI":        "java.net.URI",
	"BigInteger": "java.math.BigInteger",
	"BigDecimal": "java.math.BigDecimal",
	"Closure":    "groovy.lang.Closure",
	"GString":    "groovy.lang.GString",
	"Script":     "groovy.lang.Script",
}

func builtinFQN(langTag, name string) (string, bool) {
	switch langTag {
	case "kotlin":
		// Kotlin aliases resolve through the bridge; a qualified result
		// means the name is a known runtime type.
		normalized := bridge.NormalizeType("kotlin", name)
		if strings.Contains(normalized, ".") {
			return normalized, true
		}
		if fqn, ok := jvmBuiltins[name]; ok {
			return fqn, true
		}
	case "groovy":
		if fqn, ok := groovyBuiltins[name]; ok {
			return fqn, true
		}
		if fqn, ok := jvmBuiltins[name]; ok {
			return fqn, true
		}
	case "java":
		if fqn, ok := jvmBuiltins[name]; ok {
			return fqn, true
		}
	}
	return "", false
}
