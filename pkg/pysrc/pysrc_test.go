package pysrc

import (
	"context"
	"testing"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseRoot(t *testing.T, source string) (sitter.Node, []byte) {
	t.Helper()

	content := []byte(source)

	tree, err := Parse(context.Background(), content)
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	root := tree.RootNode()
	require.False(t, root.IsNull())

	return root, content
}

func TestImportsFirstEncounterOrderDeduplicated(t *testing.T) {
	t.Parallel()

	root, content := parseRoot(t, `import os
import sys as system
import os.path, json
from collections import OrderedDict
from . import sibling
from .relmod import thing
from ..pkg.mod import other
import os

if True:
    import conditional
`)

	assert.Equal(t, []string{
		"os",
		"sys",
		"os.path",
		"json",
		"collections",
		"relmod",
		"pkg.mod",
		"conditional",
	}, Imports(root, content))
}

func TestImportsEmptySource(t *testing.T) {
	t.Parallel()

	root, content := parseRoot(t, "")

	assert.Empty(t, Imports(root, content))
}

func TestImportsNullRoot(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Imports(sitter.Node{}, nil))
}

func TestFunctionsComplexityAndQualifiedNames(t *testing.T) {
	t.Parallel()

	root, content := parseRoot(t, `def plain():
    return 1


def branchy(x):
    if x > 0 and x < 10:
        return x
    for i in range(3):
        while i:
            i -= 1
    return [y for y in range(3) if y]


class Repo:
    def clone(self):
        try:
            pass
        except ValueError:
            pass
        except KeyError:
            pass

    def helper(self):
        def inner(z):
            return z if z else 0
        return inner
`)

	functions := Functions(root, content)
	require.Len(t, functions, 5)

	assert.Equal(t, Function{Name: "plain", Line: 1, EndLine: 2, Complexity: 1}, functions[0])

	// if + boolean and + for + while + comprehension if.
	assert.Equal(t, Function{Name: "branchy", Line: 5, EndLine: 11, Complexity: 6}, functions[1])

	assert.Equal(t, Function{Name: "Repo.clone", Line: 15, EndLine: 21, Complexity: 3}, functions[2])

	// Nested decisions belong to inner, not helper.
	assert.Equal(t, Function{Name: "Repo.helper", Line: 23, EndLine: 26, Complexity: 1}, functions[3])
	assert.Equal(t, Function{Name: "Repo.inner", Line: 24, EndLine: 25, Complexity: 2}, functions[4])
}

func TestFunctionsDecoratedAndNestedClasses(t *testing.T) {
	t.Parallel()

	root, content := parseRoot(t, `class Outer:
    class Inner:
        @staticmethod
        def build():
            assert True
            return Inner()
`)

	functions := Functions(root, content)
	require.Len(t, functions, 1)

	assert.Equal(t, "Outer.Inner.build", functions[0].Name)
	assert.Equal(t, 4, functions[0].Line)
	assert.Equal(t, 2, functions[0].Complexity)
}

func TestFunctionsMatchAndConditional(t *testing.T) {
	t.Parallel()

	root, content := parseRoot(t, `def dispatch(cmd):
    match cmd:
        case "run":
            return 1
        case "stop":
            return 2
    return 0 if cmd else -1
`)

	functions := Functions(root, content)
	require.Len(t, functions, 1)

	// Two case clauses and one conditional expression.
	assert.Equal(t, 4, functions[0].Complexity)
}

func TestFunctionsEmptySource(t *testing.T) {
	t.Parallel()

	root, content := parseRoot(t, "x = 1\n")

	assert.Empty(t, Functions(root, content))
}

func TestRank(t *testing.T) {
	t.Parallel()

	cases := []struct {
		complexity int
		want       string
	}{
		{1, "A"}, {5, "A"},
		{6, "B"}, {10, "B"},
		{11, "C"}, {20, "C"},
		{21, "D"}, {30, "D"},
		{31, "E"}, {40, "E"},
		{41, "F"}, {100, "F"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Rank(tc.complexity), "complexity %d", tc.complexity)
	}
}
