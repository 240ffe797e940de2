package pysrc

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Function is one Python function or method with its cyclomatic complexity.
type Function struct {
	// Name is qualified by the enclosing classes, e.g. "Repo.clone".
	Name string

	// Line is the 1-based line the definition starts on.
	Line int

	// EndLine is the 1-based line the definition ends on. Decorators are
	// not counted.
	EndLine int

	Complexity int
}

// decisionKinds are the node types that add one point of cyclomatic
// complexity each.
var decisionKinds = map[string]struct{}{
	"if_statement":           {},
	"elif_clause":            {},
	"for_statement":          {},
	"while_statement":        {},
	"except_clause":          {},
	"case_clause":            {},
	"boolean_operator":       {},
	"conditional_expression": {},
	"assert_statement":       {},
	"if_clause":              {},
}

// Functions extracts every function and method under root in source order.
// Nested functions get their own record; their decision points never accrue
// to the enclosing function.
func Functions(root sitter.Node, source []byte) []Function {
	if root.IsNull() {
		return nil
	}

	var (
		functions []Function
		classes   []string
	)

	var walk func(node sitter.Node)
	walk = func(node sitter.Node) {
		switch node.Type() {
		case "class_definition":
			classes = append(classes, nodeText(node.ChildByFieldName("name"), source))

			for idx := range node.NamedChildCount() {
				walk(node.NamedChild(idx))
			}

			classes = classes[:len(classes)-1]

			return
		case "function_definition":
			name := nodeText(node.ChildByFieldName("name"), source)
			if len(classes) > 0 {
				name = strings.Join(classes, ".") + "." + name
			}

			functions = append(functions, Function{
				Name:       name,
				Line:       int(node.StartPoint().Row) + 1,
				EndLine:    int(node.EndPoint().Row) + 1,
				Complexity: 1 + countDecisions(node),
			})
		}

		for idx := range node.NamedChildCount() {
			walk(node.NamedChild(idx))
		}
	}
	walk(root)

	return functions
}

// countDecisions counts decision points under fn without descending into
// nested function definitions.
func countDecisions(fn sitter.Node) int {
	count := 0

	var walk func(node sitter.Node)
	walk = func(node sitter.Node) {
		for idx := range node.NamedChildCount() {
			child := node.NamedChild(idx)
			if child.Type() == "function_definition" {
				continue
			}

			if _, decision := decisionKinds[child.Type()]; decision {
				count++
			}

			walk(child)
		}
	}
	walk(fn)

	return count
}

// Rank buckets a cyclomatic complexity score into the conventional A-F
// maintainability scale.
func Rank(complexity int) string {
	switch {
	case complexity <= 5:
		return "A"
	case complexity <= 10:
		return "B"
	case complexity <= 20:
		return "C"
	case complexity <= 30:
		return "D"
	case complexity <= 40:
		return "E"
	default:
		return "F"
	}
}
