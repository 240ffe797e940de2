package pysrc

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Imports returns the dotted module targets of every import statement under
// root, in first-encounter order, deduplicated. Relative imports contribute
// only their dotted part ("from .pkg.mod import x" yields "pkg.mod"); bare
// relative imports ("from . import x") contribute nothing.
func Imports(root sitter.Node, source []byte) []string {
	if root.IsNull() {
		return nil
	}

	seen := make(map[string]struct{})

	var imports []string

	add := func(target string) {
		if target == "" {
			return
		}

		if _, dup := seen[target]; dup {
			return
		}

		seen[target] = struct{}{}
		imports = append(imports, target)
	}

	var walk func(node sitter.Node)
	walk = func(node sitter.Node) {
		switch node.Type() {
		case "import_statement":
			collectImportTargets(node, source, add)
		case "import_from_statement":
			add(fromImportTarget(node, source))
		}

		for idx := range node.NamedChildCount() {
			walk(node.NamedChild(idx))
		}
	}
	walk(root)

	return imports
}

// collectImportTargets handles "import a.b, c as d": every dotted_name child
// and the name field of every aliased_import child is a target.
func collectImportTargets(node sitter.Node, source []byte, add func(string)) {
	for idx := range node.NamedChildCount() {
		child := node.NamedChild(idx)

		switch child.Type() {
		case "dotted_name":
			add(nodeText(child, source))
		case "aliased_import":
			add(nodeText(child.ChildByFieldName("name"), source))
		}
	}
}

// fromImportTarget extracts the module of a from-import. The module_name
// field is either a dotted_name or a relative_import; for the latter only an
// embedded dotted_name counts.
func fromImportTarget(node sitter.Node, source []byte) string {
	module := node.ChildByFieldName("module_name")
	if module.IsNull() {
		return ""
	}

	switch module.Type() {
	case "dotted_name":
		return nodeText(module, source)
	case "relative_import":
		for idx := range module.NamedChildCount() {
			child := module.NamedChild(idx)
			if child.Type() == "dotted_name" {
				return nodeText(child, source)
			}
		}
	}

	return ""
}
