package parser

import (
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/groovy"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/kotlin"
)

// extToLanguage maps file extensions to canonical language tags.
var extToLanguage = map[string]string{
	".java":   "java",
	".kt":     "kotlin",
	".kts":    "kotlin",
	".groovy": "groovy",
	".gvy":    "groovy",
	".gradle": "groovy",
}

// langToGrammar maps language tags to tree-sitter Language objects.
// Lazily initialized on first call via sync.Once.
var (
	langToGrammar map[string]*sitter.Language
	grammarsOnce  sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		langToGrammar = map[string]*sitter.Language{
			"java":   java.GetLanguage(),
			"kotlin": kotlin.GetLanguage(),
			"groovy": groovy.GetLanguage(),
		}
	})
}

// LanguageForFile returns the canonical language tag for a file path based
// on its extension. Returns ("", false) if the extension is not recognized.
func LanguageForFile(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := extToLanguage[ext]
	return lang, ok
}

// GrammarForLanguage returns the tree-sitter grammar for a canonical language
// tag. Returns (nil, false) if the language is not supported.
func GrammarForLanguage(lang string) (*sitter.Language, bool) {
	initGrammars()
	l, ok := langToGrammar[lang]
	return l, ok
}

// Languages returns all supported language tags.
func Languages() []string {
	return []string{"java", "kotlin", "groovy"}
}
