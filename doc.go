// Package understory provides go-to-definition, hover, and symbol
// indexing for mixed Java, Kotlin, and Groovy codebases, built on
// tree-sitter and a branch-partitioned SQLite symbol index.
//
// # Pipeline
//
// Understory operates in two phases:
//
//  1. Index: For each source file, parse with tree-sitter under a fixed
//     time budget, extract declarations through the file's language
//     adapter, and persist symbols plus inheritance edges to SQLite.
//     Symbol rows are partitioned by git branch, so switching branches
//     switches partitions without rewriting either one.
//
//  2. Navigate: A definition request runs a fixed resolver chain —
//     Local, Project, Builtin, Workspace, External — and returns the
//     first hit. Local declarations always shadow project-level ones;
//     the Workspace stage crosses language boundaries through a
//     namespace bridge, and the External stage lazily parses dependency
//     archives discovered through the project's build tool.
//
// # Usage
//
// Create an Engine, index a project, then navigate:
//
//	e, err := understory.New("understory.db", "path/to/project")
//	if err != nil { ... }
//	defer e.Close()
//
//	ctx := context.Background()
//	err = e.IndexDirectory(ctx, "path/to/project")
//
//	loc, err := e.Definition(ctx, "src/main/java/App.java", 10, 5)
//	info, err := e.Hover(ctx, "src/main/java/App.java", 10, 5)
//
// # Incremental Indexing
//
// [Engine.IndexFiles] detects unchanged files via content hashing and
// skips them. Distinct files index in parallel; re-extraction of the
// same file is serialized per path. [Engine.Watch] keeps the index
// current as files change on disk. Use [WithLanguages] to restrict
// which languages the Engine processes.
//
// # Languages
//
// Per-language logic lives behind one capability interface in
// internal/lang; Java, Kotlin, and Groovy each implement it once.
// Adding a language is a new adapter plus a grammar registration.
package understory
