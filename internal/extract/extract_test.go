package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/understory-dev/understory/internal/lang"
	"github.com/understory-dev/understory/internal/parser"
	"github.com/understory-dev/understory/internal/store"
)

func extractFixture(t *testing.T, tag, path, src string) *Result {
	t.Helper()
	res, err := parser.Parse(context.Background(), tag, []byte(src))
	require.NoError(t, err)
	t.Cleanup(res.Close)
	adapter, ok := lang.ForLanguage(tag)
	require.True(t, ok)
	return File(adapter, res.Tree.RootNode(), res.Source, "main", path)
}

const javaFixture = `package com.example.app;

/** Runs scheduled tasks. */
public class Scheduler extends BaseScheduler implements Runnable, AutoCloseable {
    private int interval = 30;

    public void run() {}

    public void schedule(String name, int delay) {}

    static class Slot {
        int index = 0;
    }
}
`

func TestFile_Java(t *testing.T) {
	res := extractFixture(t, "java", "src/Scheduler.java", javaFixture)

	assert.Equal(t, "com.example.app", res.Package)

	byFQN := map[string]*store.Symbol{}
	for _, sym := range res.Symbols {
		byFQN[sym.FQN] = sym
	}

	cls := byFQN["com.example.app.Scheduler"]
	require.NotNil(t, cls)
	assert.Equal(t, "class", cls.Kind)
	assert.Equal(t, "BaseScheduler", cls.Supertype)
	assert.Equal(t, []string{"Runnable", "AutoCloseable"}, cls.Interfaces)
	assert.Contains(t, cls.Modifiers, "public")
	assert.Contains(t, cls.Meta.Documentation, "Runs scheduled tasks")
	assert.Equal(t, store.NoArity, cls.Arity)

	run := byFQN["com.example.app.Scheduler.run"]
	require.NotNil(t, run)
	assert.Equal(t, "function", run.Kind)
	assert.Equal(t, 0, run.Arity)

	schedule := byFQN["com.example.app.Scheduler.schedule"]
	require.NotNil(t, schedule)
	assert.Equal(t, 2, schedule.Arity)
	require.Len(t, schedule.Meta.Parameters, 2)
	assert.Equal(t, "String", schedule.Meta.Parameters[0].Type)
	assert.Equal(t, "name", schedule.Meta.Parameters[0].Name)

	field := byFQN["com.example.app.Scheduler.interval"]
	require.NotNil(t, field)
	assert.Equal(t, "field", field.Kind)
	assert.Equal(t, "com.example.app.Scheduler", field.ParentFQN)
}

func TestFile_Java_NestedTypeChain(t *testing.T) {
	res := extractFixture(t, "java", "src/Scheduler.java", javaFixture)

	byFQN := map[string]*store.Symbol{}
	for _, sym := range res.Symbols {
		byFQN[sym.FQN] = sym
	}
	slot := byFQN["com.example.app.Scheduler.Slot"]
	require.NotNil(t, slot, "nested class gets the enclosing type in its FQN")
	assert.Equal(t, "com.example.app.Scheduler", slot.ParentFQN)

	index := byFQN["com.example.app.Scheduler.Slot.index"]
	require.NotNil(t, index)
	assert.Equal(t, "com.example.app.Scheduler.Slot", index.ParentFQN)
}

func TestFile_Java_Edges(t *testing.T) {
	res := extractFixture(t, "java", "src/Scheduler.java", javaFixture)

	require.Len(t, res.Supers, 1)
	assert.Equal(t, "com.example.app.Scheduler", res.Supers[0].SymbolFQN)
	assert.Equal(t, "BaseScheduler", res.Supers[0].TargetName)
	assert.Empty(t, res.Supers[0].TargetFQN, "targets start unresolved")

	names := make([]string, 0, len(res.Interfaces))
	for _, m := range res.Interfaces {
		names = append(names, m.TargetName)
	}
	assert.ElementsMatch(t, []string{"Runnable", "AutoCloseable"}, names)
}

func TestFile_Kotlin(t *testing.T) {
	src := `package com.example.app

interface Task {
    fun execute(input: String): Int
}

class Worker(val id: Int) : Task {
    override fun execute(input: String): Int = input.length
}
`
	res := extractFixture(t, "kotlin", "src/Worker.kt", src)

	byFQN := map[string]*store.Symbol{}
	for _, sym := range res.Symbols {
		byFQN[sym.FQN] = sym
	}

	task := byFQN["com.example.app.Task"]
	require.NotNil(t, task)
	assert.Equal(t, "interface", task.Kind)

	worker := byFQN["com.example.app.Worker"]
	require.NotNil(t, worker)
	assert.Equal(t, "kotlin", worker.Language)
	assert.Contains(t, worker.Interfaces, "Task")

	execute := byFQN["com.example.app.Worker.execute"]
	require.NotNil(t, execute)
	assert.Equal(t, 1, execute.Arity)
}

func TestFile_Groovy(t *testing.T) {
	src := `package com.example.app

class Pipeline {
    String name = "build"

    def stage(String label) {
        label
    }
}
`
	res := extractFixture(t, "groovy", "src/Pipeline.groovy", src)

	byFQN := map[string]*store.Symbol{}
	for _, sym := range res.Symbols {
		byFQN[sym.FQN] = sym
	}
	require.NotNil(t, byFQN["com.example.app.Pipeline"])
	stage := byFQN["com.example.app.Pipeline.stage"]
	require.NotNil(t, stage)
	assert.Equal(t, 1, stage.Arity)
}

func TestFile_NameRangeNarrowerThanFullRange(t *testing.T) {
	res := extractFixture(t, "java", "src/Scheduler.java", javaFixture)

	for _, sym := range res.Symbols {
		assert.GreaterOrEqual(t, sym.NameRange.StartLine, sym.Range.StartLine, "%s", sym.FQN)
		assert.LessOrEqual(t, sym.NameRange.EndLine, sym.Range.EndLine, "%s", sym.FQN)
	}
}
