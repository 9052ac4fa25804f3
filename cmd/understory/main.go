package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/understory-dev/understory"
)

var (
	flagDB     string
	flagFormat string
	flagBranch string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "understory",
	Short:         "Cross-language definition lookup for JVM codebases",
	Long:          "Understory indexes Java, Kotlin and Groovy sources with tree-sitter into a branch-partitioned SQLite database and answers go-to-definition and hover queries across language boundaries.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default: .understory/index.db relative to project root)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: json|text")
	rootCmd.PersistentFlags().StringVar(&flagBranch, "branch", "", "branch partition (default: checked-out git branch)")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(definitionCmd)
	rootCmd.AddCommand(hoverCmd)
	rootCmd.AddCommand(watchCmd)
}

var (
	flagForce     bool
	flagLanguages string
	flagIgnore    []string
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a project's sources",
	Long:  "Parses supported source files and writes symbols and inheritance edges to the SQLite database. Unchanged files are skipped by content hash.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&flagForce, "force", false, "delete database and reindex from scratch")
	indexCmd.Flags().StringVar(&flagLanguages, "languages", "", "comma-separated language filter (e.g. java,kotlin)")
	indexCmd.Flags().StringArrayVar(&flagIgnore, "ignore", nil, "glob pattern to exclude (repeatable)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()
	root, err := resolveRoot(args)
	if err != nil {
		return err
	}
	dbPath := resolveDBPath(root)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
	}
	if flagForce {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing database for --force: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Cleared database: %s\n", dbPath)
	}

	engine, err := newEngine(dbPath, root)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.IndexDirectory(cmd.Context(), root); err != nil {
		return fmt.Errorf("indexing: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Indexed %s (branch %s) in %s\n",
		root, engine.Branch(), time.Since(start).Round(time.Millisecond))
	return nil
}

var definitionCmd = &cobra.Command{
	Use:   "definition <file> <line> <col>",
	Short: "Resolve the definition of the identifier at a position",
	Args:  cobra.ExactArgs(3),
	RunE:  runDefinition,
}

func runDefinition(cmd *cobra.Command, args []string) error {
	engine, file, line, col, err := openForNavigation(args)
	if err != nil {
		return err
	}
	defer engine.Close()

	loc, err := engine.Definition(cmd.Context(), file, line, col)
	if err != nil {
		return err
	}
	return outputLocation(os.Stdout, flagFormat, loc)
}

var hoverCmd = &cobra.Command{
	Use:   "hover <file> <line> <col>",
	Short: "Show indexed metadata for the identifier at a position",
	Args:  cobra.ExactArgs(3),
	RunE:  runHover,
}

func runHover(cmd *cobra.Command, args []string) error {
	engine, file, line, col, err := openForNavigation(args)
	if err != nil {
		return err
	}
	defer engine.Close()

	info, err := engine.Hover(cmd.Context(), file, line, col)
	if err != nil {
		return err
	}
	return outputHover(os.Stdout, flagFormat, info)
}

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Index a project and re-index as files change",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot(args)
	if err != nil {
		return err
	}
	dbPath := resolveDBPath(root)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return err
	}
	engine, err := newEngine(dbPath, root)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := cmd.Context()
	if err := engine.IndexDirectory(ctx, root); err != nil {
		return fmt.Errorf("initial index: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Watching %s (branch %s)\n", root, engine.Branch())
	if err := engine.Watch(ctx, root); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func newEngine(dbPath, root string) (*understory.Engine, error) {
	var opts []understory.Option
	if flagBranch != "" {
		opts = append(opts, understory.WithBranch(flagBranch))
	}
	if flagLanguages != "" {
		langs := strings.Split(flagLanguages, ",")
		for i := range langs {
			langs[i] = strings.TrimSpace(langs[i])
		}
		opts = append(opts, understory.WithLanguages(langs...))
	}
	if len(flagIgnore) > 0 {
		opts = append(opts, understory.WithIgnore(flagIgnore...))
	}
	engine, err := understory.New(dbPath, root, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	return engine, nil
}

func openForNavigation(args []string) (*understory.Engine, string, int, int, error) {
	file, err := filepath.Abs(args[0])
	if err != nil {
		return nil, "", 0, 0, err
	}
	line, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, "", 0, 0, fmt.Errorf("line must be an integer: %q", args[1])
	}
	col, err := strconv.Atoi(args[2])
	if err != nil {
		return nil, "", 0, 0, fmt.Errorf("col must be an integer: %q", args[2])
	}

	root := findProjectRoot(filepath.Dir(file))
	engine, err := newEngine(resolveDBPath(root), root)
	if err != nil {
		return nil, "", 0, 0, err
	}
	return engine, file, line, col, nil
}

// resolveRoot turns the optional positional path into an absolute project
// root, defaulting to the working directory.
func resolveRoot(args []string) (string, error) {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

// findProjectRoot ascends from dir looking for a VCS or build-tool marker.
func findProjectRoot(dir string) string {
	markers := []string{".git", "settings.gradle", "settings.gradle.kts", "build.gradle", "pom.xml"}
	for d := dir; ; {
		for _, m := range markers {
			if _, err := os.Stat(filepath.Join(d, m)); err == nil {
				return d
			}
		}
		parent := filepath.Dir(d)
		if parent == d {
			return dir
		}
		d = parent
	}
}

func resolveDBPath(root string) string {
	if flagDB != "" {
		return flagDB
	}
	return filepath.Join(root, ".understory", "index.db")
}
