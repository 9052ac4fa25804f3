package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageForFile(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"src/Main.java":       "java",
		"src/App.kt":          "kotlin",
		"build.gradle.kts":    "kotlin",
		"scripts/job.groovy":  "groovy",
		"build.gradle":        "groovy",
		"SRC/WEIRD/CASE.JAVA": "java",
	}
	for path, want := range cases {
		got, ok := LanguageForFile(path)
		require.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}

	_, ok := LanguageForFile("main.go")
	assert.False(t, ok)
}

func TestParse_Java(t *testing.T) {
	t.Parallel()
	src := []byte("package com.example;\n\npublic class Greeter {\n  void greet() {}\n}\n")
	res, err := Parse(context.Background(), "java", src)
	require.NoError(t, err)
	defer res.Close()

	require.NotNil(t, res.Tree)
	assert.Equal(t, src, res.Source)
	assert.Equal(t, "program", res.Tree.RootNode().Type())
	assert.Empty(t, res.Diagnostics())
}

func TestParse_UnsupportedLanguage(t *testing.T) {
	t.Parallel()
	_, err := Parse(context.Background(), "fortran", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestParse_BestEffortOnSyntaxError(t *testing.T) {
	t.Parallel()
	// Unbalanced brace: the tree must still come back, carrying ERROR nodes.
	src := []byte("public class Broken {\n  void f( {\n}\n")
	res, err := Parse(context.Background(), "java", src)
	require.NoError(t, err)
	defer res.Close()

	require.NotNil(t, res.Tree)
	assert.True(t, res.Tree.RootNode().HasError())
	assert.NotEmpty(t, res.Diagnostics())
}

func TestParse_NewResultPerCall(t *testing.T) {
	t.Parallel()
	src := []byte("class A {}\n")
	a, err := Parse(context.Background(), "java", src)
	require.NoError(t, err)
	defer a.Close()
	b, err := Parse(context.Background(), "java", src)
	require.NoError(t, err)
	defer b.Close()

	// Re-parsing produces a distinct tree, never a mutation of the first.
	assert.NotSame(t, a.Tree, b.Tree)
}
