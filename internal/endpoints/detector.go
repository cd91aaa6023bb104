package endpoints

import (
	"os"
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/qodex-ai/apimesh/internal/lang"
)

// optionalCatchPattern matches catch clauses that omit their binding. Some
// grammars reject this form; rewriting to a throwaway binding lets parsing
// succeed without shifting line numbers.
var optionalCatchPattern = regexp.MustCompile(`catch\s*\{`)

// Detect finds every HTTP endpoint declaration in a file. Each tier's output
// is unioned with the previous tiers under the (method, route, start line)
// identity. Never fails: an unparseable file yields whatever the raw-text
// tier can find, possibly nothing.
func Detect(filePath string) []Record {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}

	dialect := lang.Select(filePath)
	set := newRecordSet()

	tree, parseFailed := parseWithCatchRepair(source, dialect)
	if tree != nil {
		defer tree.Close()
		root := tree.RootNode()

		if dialect.Typed() {
			decorated := decoratorEndpoints(root, source, filePath)
			set.addAll(decorated)
			if len(decorated) == 0 {
				set.addAll(decoratorPatternEndpoints(string(source), filePath))
			}
		}
		set.addAll(structuralCallEndpoints(root, source, filePath))
	}

	if parseFailed {
		set.addAll(patternEndpoints(string(source), filePath))
	}

	return set.records
}

// parseWithCatchRepair parses the source, retrying once with rewritten catch
// clauses when the first parse produced errors. parseFailed reports whether
// the returned tree (or its absence) still contains errors, which switches
// the raw-text tier on.
func parseWithCatchRepair(source []byte, dialect lang.Dialect) (tree *sitter.Tree, parseFailed bool) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(dialect.Language())

	tree = parser.Parse(source, nil)
	if tree != nil && !tree.RootNode().HasError() {
		return tree, false
	}

	if optionalCatchPattern.Match(source) {
		repaired := optionalCatchPattern.ReplaceAll(source, []byte("catch (__apimesh_err) {"))
		repairedTree := parser.Parse(repaired, nil)
		if repairedTree != nil && !repairedTree.RootNode().HasError() {
			if tree != nil {
				tree.Close()
			}
			return repairedTree, false
		}
		if repairedTree != nil {
			repairedTree.Close()
		}
	}

	return tree, true
}

// structuralCallEndpoints matches call expressions of the form
// routeObject.verb(route, ...) on the syntax tree.
func structuralCallEndpoints(root *sitter.Node, source []byte, filePath string) []Record {
	var records []Record
	walkTree(root, func(n *sitter.Node) bool {
		if n.Kind() != "call_expression" {
			return true
		}
		funcNode := n.ChildByFieldName("function")
		if funcNode == nil || funcNode.Kind() != "member_expression" {
			return true
		}
		propertyNode := funcNode.ChildByFieldName("property")
		objectNode := funcNode.ChildByFieldName("object")
		if propertyNode == nil {
			return true
		}
		if kind := propertyNode.Kind(); kind != "property_identifier" && kind != "identifier" {
			return true
		}
		method := strings.ToLower(strings.TrimSpace(nodeText(propertyNode, source)))
		if !httpMethods[method] {
			return true
		}
		if objectNode == nil || !IsRouteObject(nodeText(objectNode, source)) {
			return true
		}

		route := ""
		if argsNode := n.ChildByFieldName("arguments"); argsNode != nil {
			route, _ = firstStringArgument(argsNode, source)
		}

		records = append(records, Record{
			Method:    strings.ToUpper(method),
			Route:     route,
			FilePath:  filePath,
			StartLine: int(n.StartPosition().Row) + 1,
			EndLine:   int(n.EndPosition().Row) + 1,
			Tier:      TierStructural,
		})
		return true
	})
	return records
}

// decoratorEndpoints composes controller-decorated classes with their
// verb-decorated methods. A class without a controller marker contributes
// nothing.
func decoratorEndpoints(root *sitter.Node, source []byte, filePath string) []Record {
	var records []Record
	walkTree(root, func(n *sitter.Node) bool {
		if n.Kind() != "class_declaration" {
			return true
		}

		controllerPrefix, isController := controllerMarker(n, source)
		if !isController {
			return true
		}

		body := n.ChildByFieldName("body")
		if body == nil {
			return true
		}
		for i := uint(0); i < body.NamedChildCount(); i++ {
			member := body.NamedChild(i)
			if kind := member.Kind(); kind != "method_definition" && kind != "public_field_definition" {
				continue
			}
			for _, decorator := range collectDecorators(member) {
				name, arg, hasArg := parseDecorator(decorator, source)
				low := strings.ToLower(name)
				if !httpMethods[low] {
					continue
				}
				path := "/"
				if hasArg {
					path = arg
				}
				records = append(records, Record{
					Method:    strings.ToUpper(low),
					Route:     combineRoutes(controllerPrefix, path),
					FilePath:  filePath,
					StartLine: int(member.StartPosition().Row) + 1,
					EndLine:   int(member.EndPosition().Row) + 1,
					Tier:      TierDecorator,
				})
				break
			}
		}
		return true
	})
	return records
}

// controllerMarker returns the path prefix of a class's @Controller
// decorator, defaulting to "/" when the decorator takes no argument.
func controllerMarker(class *sitter.Node, source []byte) (prefix string, ok bool) {
	for _, decorator := range collectDecorators(class) {
		name, arg, hasArg := parseDecorator(decorator, source)
		if strings.ToLower(name) != "controller" {
			continue
		}
		if hasArg && arg != "" {
			return arg, true
		}
		return "/", true
	}
	return "", false
}

// collectDecorators gathers decorator nodes attached to a declaration,
// including decorators hoisted onto a wrapping export statement.
func collectDecorators(node *sitter.Node) []*sitter.Node {
	var decorators []*sitter.Node
	gather := func(target *sitter.Node) {
		if target == nil {
			return
		}
		for i := uint(0); i < target.ChildCount(); i++ {
			child := target.Child(i)
			if child.Kind() == "decorator" {
				decorators = append(decorators, child)
			}
		}
	}
	gather(node)
	if parent := node.Parent(); parent != nil && parent.Kind() == "export_statement" {
		gather(parent)
	}
	return decorators
}

// parseDecorator extracts the decorator's identifier and its first string or
// template argument. hasArg is false for bare decorators and for template
// literals with interpolation.
func parseDecorator(decorator *sitter.Node, source []byte) (name, arg string, hasArg bool) {
	var expr *sitter.Node
	for i := uint(0); i < decorator.NamedChildCount(); i++ {
		expr = decorator.NamedChild(i)
		break
	}
	if expr == nil {
		return "", "", false
	}

	switch expr.Kind() {
	case "call_expression":
		funcNode := expr.ChildByFieldName("function")
		if funcNode != nil {
			name = nodeText(funcNode, source)
		}
		if argsNode := expr.ChildByFieldName("arguments"); argsNode != nil {
			arg, hasArg = firstStringArgument(argsNode, source)
			if hasArg && arg == "" {
				hasArg = false
			}
		}
		return name, arg, hasArg
	case "identifier", "property_identifier":
		return nodeText(expr, source), "", false
	default:
		return "", "", false
	}
}

// firstStringArgument returns the first string or template-literal argument.
// Templates with interpolation yield ok with an empty value: the route
// exists but cannot be determined statically.
func firstStringArgument(argsNode *sitter.Node, source []byte) (value string, ok bool) {
	for i := uint(0); i < argsNode.NamedChildCount(); i++ {
		child := argsNode.NamedChild(i)
		switch child.Kind() {
		case "string":
			return cleanPathLiteral(nodeText(child, source)), true
		case "template_string":
			text := nodeText(child, source)
			if strings.Contains(text, "${") {
				return "", true
			}
			return cleanPathLiteral(text), true
		}
	}
	return "", false
}

// walkTree recursively visits every node; the visitor returns false to stop
// descending.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkTree(node.Child(i), visitor)
	}
}

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}
