package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/understory-dev/understory"
)

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, validateFormat("json"))
	assert.NoError(t, validateFormat("text"))
	assert.Error(t, validateFormat("yaml"))
}

func TestOutputLocation_Text(t *testing.T) {
	var buf bytes.Buffer
	loc := &understory.Location{
		Path:  "src/App.java",
		Range: understory.Range{StartLine: 9, StartCol: 4},
		FQN:   "com.example.App",
	}
	require.NoError(t, outputLocation(&buf, "text", loc))
	assert.Equal(t, "src/App.java:10:5\tcom.example.App\n", buf.String())
}

func TestOutputLocation_Builtin(t *testing.T) {
	var buf bytes.Buffer
	loc := &understory.Location{FQN: "java.lang.String", Builtin: true}
	require.NoError(t, outputLocation(&buf, "text", loc))
	assert.Equal(t, "java.lang.String (builtin)\n", buf.String())
}

func TestOutputLocation_JSON(t *testing.T) {
	var buf bytes.Buffer
	loc := &understory.Location{Path: "src/App.java", FQN: "com.example.App"}
	require.NoError(t, outputLocation(&buf, "json", loc))
	assert.Contains(t, buf.String(), `"com.example.App"`)
}

func TestOutputHover_Text(t *testing.T) {
	var buf bytes.Buffer
	info := &understory.HoverInfo{
		FQN:        "com.example.App.run",
		Kind:       "function",
		Modifiers:  []string{"public"},
		Parameters: []understory.Param{{Name: "name", Type: "String"}},
		ReturnType: "void",
	}
	require.NoError(t, outputHover(&buf, "text", info))
	out := buf.String()
	assert.Contains(t, out, "com.example.App.run")
	assert.Contains(t, out, "(String name)")
	assert.Contains(t, out, "void")
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "settings.gradle"), nil, 0o644))
	nested := filepath.Join(root, "app", "src", "main", "java")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	assert.Equal(t, root, findProjectRoot(nested))
}
