// Package depgraph builds a directed import graph over a scanned Python
// tree: every scanned file is a node, every import that resolves to another
// scanned file is an edge, and unresolved imports are tallied, never
// treated as failures.
package depgraph

import (
	"context"
	"os"
	"path"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/glowstack/gitglow/pkg/pysrc"
	"github.com/glowstack/gitglow/pkg/scanner"
)

const (
	sourceExtension = ".py"
	packageInitFile = "__init__.py"
)

// ResolveImports extracts the raw dotted import targets of one Python file.
// Read or parse failures yield an empty result; a bad file never surfaces
// an error.
func ResolveImports(ctx context.Context, filePath string) []string {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}

	tree, err := pysrc.Parse(ctx, content)
	if err != nil {
		return nil
	}
	defer tree.Close()

	return pysrc.Imports(tree.RootNode(), content)
}

// UnresolvedImport is one import name that resolved to no scanned file,
// with the number of files importing it.
type UnresolvedImport struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// BuildGraph assembles the dependency graph for a scanned tree. Files are
// parsed in parallel; the reduce runs sequentially in scan order so node
// insertion and edge order stay deterministic. The build is total: files
// that cannot be read or parsed contribute no edges but remain nodes.
func BuildGraph(ctx context.Context, tree *scanner.Tree) (*Graph, []UnresolvedImport) {
	imports := collectImports(ctx, tree)

	graph := NewGraph()
	for _, file := range tree.Files {
		graph.AddNode(file.RelPath)
	}

	unresolved := make(map[string]int)

	for idx, file := range tree.Files {
		for _, raw := range imports[idx] {
			target, resolved := resolveTarget(graph, raw)
			if !resolved {
				unresolved[raw]++

				continue
			}

			graph.AddEdge(file.RelPath, target)
		}
	}

	return graph, sortUnresolved(unresolved)
}

// collectImports parses every file concurrently into a slice indexed by the
// file's scan position.
func collectImports(ctx context.Context, tree *scanner.Tree) [][]string {
	imports := make([][]string, len(tree.Files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for idx, file := range tree.Files {
		group.Go(func() error {
			imports[idx] = ResolveImports(groupCtx, file.AbsPath)

			return nil
		})
	}

	// Workers never return errors; parse failures already degraded to
	// zero imports.
	_ = group.Wait()

	return imports
}

// resolveTarget maps a raw dotted import to a scanned file: the module file
// first, the package init file second. Anything else is unresolved.
func resolveTarget(graph *Graph, raw string) (string, bool) {
	rel := strings.ReplaceAll(raw, ".", "/")

	if modulePath := rel + sourceExtension; graph.HasNode(modulePath) {
		return modulePath, true
	}

	if initPath := path.Join(rel, packageInitFile); graph.HasNode(initPath) {
		return initPath, true
	}

	return "", false
}

func sortUnresolved(tally map[string]int) []UnresolvedImport {
	unresolved := make([]UnresolvedImport, 0, len(tally))
	for name, count := range tally {
		unresolved = append(unresolved, UnresolvedImport{Name: name, Count: count})
	}

	sort.Slice(unresolved, func(i, j int) bool {
		if unresolved[i].Count != unresolved[j].Count {
			return unresolved[i].Count > unresolved[j].Count
		}

		return unresolved[i].Name < unresolved[j].Name
	})

	return unresolved
}
