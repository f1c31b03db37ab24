package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder builds the internal AST from a tree-sitter CST
type ASTBuilder struct {
	filename string
	source   []byte
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(filename string, source []byte) *ASTBuilder {
	return &ASTBuilder{
		filename: filename,
		source:   source,
	}
}

// Build builds the AST from a tree-sitter root node
func (b *ASTBuilder) Build(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}
	return b.buildNode(tsNode)
}

// buildNode converts a tree-sitter node to an internal AST node
func (b *ASTBuilder) buildNode(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}

	switch tsNode.Type() {
	case "program":
		return b.buildProgram(tsNode)
	case "import_statement":
		return b.buildImportStatement(tsNode)
	case "export_statement":
		return b.buildExportStatement(tsNode)
	case "function_declaration", "generator_function_declaration":
		return b.buildFunction(tsNode, NodeFunctionDeclaration)
	case "function_expression", "function", "generator_function":
		return b.buildFunction(tsNode, NodeFunctionExpression)
	case "arrow_function":
		return b.buildArrowFunction(tsNode)
	case "class_declaration":
		return b.buildClass(tsNode, NodeClassDeclaration)
	case "class":
		return b.buildClass(tsNode, NodeClassExpression)
	case "class_body":
		return b.buildBody(tsNode, NodeUnknown)
	case "method_definition":
		return b.buildMethodDefinition(tsNode)
	case "field_definition", "public_field_definition":
		return b.buildFieldDefinition(tsNode)
	case "lexical_declaration", "variable_declaration":
		return b.buildVariableDeclaration(tsNode)
	case "variable_declarator":
		return b.buildVariableDeclarator(tsNode)
	case "expression_statement":
		return b.buildExpressionStatement(tsNode)
	case "statement_block":
		return b.buildBody(tsNode, NodeBlockStatement)
	case "if_statement":
		return b.buildIfStatement(tsNode)
	case "for_statement":
		return b.buildForStatement(tsNode)
	case "for_in_statement":
		return b.buildForInStatement(tsNode)
	case "while_statement":
		return b.buildWhileStatement(tsNode)
	case "do_statement":
		return b.buildDoWhileStatement(tsNode)
	case "try_statement":
		return b.buildTryStatement(tsNode)
	case "catch_clause":
		return b.buildCatchClause(tsNode)
	case "finally_clause":
		return b.buildFinallyClause(tsNode)
	case "switch_statement":
		return b.buildSwitchStatement(tsNode)
	case "switch_case", "switch_default":
		return b.buildSwitchCase(tsNode)
	case "return_statement":
		return b.buildArgumentStatement(tsNode, NodeReturnStatement)
	case "throw_statement":
		return b.buildArgumentStatement(tsNode, NodeThrowStatement)
	case "break_statement":
		return b.buildSimple(tsNode, NodeBreakStatement)
	case "continue_statement":
		return b.buildSimple(tsNode, NodeContinueStatement)
	case "labeled_statement":
		return b.buildLabeledStatement(tsNode)
	case "empty_statement":
		return b.buildSimple(tsNode, NodeEmptyStatement)
	case "debugger_statement":
		return b.buildSimple(tsNode, NodeDebuggerStatement)
	case "call_expression":
		return b.buildCallExpression(tsNode)
	case "new_expression":
		return b.buildNewExpression(tsNode)
	case "member_expression":
		return b.buildMemberExpression(tsNode, false)
	case "subscript_expression":
		return b.buildMemberExpression(tsNode, true)
	case "assignment_expression", "augmented_assignment_expression":
		return b.buildAssignmentExpression(tsNode)
	case "binary_expression":
		return b.buildBinaryExpression(tsNode)
	case "unary_expression":
		return b.buildUnaryExpression(tsNode, NodeUnaryExpression)
	case "update_expression":
		return b.buildUnaryExpression(tsNode, NodeUpdateExpression)
	case "ternary_expression":
		return b.buildConditionalExpression(tsNode)
	case "sequence_expression":
		return b.buildSequenceExpression(tsNode)
	case "parenthesized_expression":
		return b.buildParenthesized(tsNode)
	case "array":
		return b.buildArray(tsNode)
	case "object":
		return b.buildObject(tsNode)
	case "pair":
		return b.buildPair(tsNode)
	case "spread_element":
		return b.buildSpread(tsNode)
	case "await_expression":
		return b.buildUnaryLike(tsNode, NodeAwaitExpression)
	case "yield_expression":
		return b.buildUnaryLike(tsNode, NodeYieldExpression)
	case "this":
		return b.buildSimple(tsNode, NodeThisExpression)
	case "template_string":
		return b.buildTemplateString(tsNode)
	case "identifier", "property_identifier", "shorthand_property_identifier",
		"shorthand_property_identifier_pattern", "statement_identifier":
		return b.buildIdentifier(tsNode)
	case "string":
		return b.buildLiteral(tsNode, LiteralString)
	case "number":
		return b.buildLiteral(tsNode, LiteralNumber)
	case "true", "false":
		return b.buildLiteral(tsNode, LiteralBoolean)
	case "null", "undefined":
		return b.buildLiteral(tsNode, LiteralNull)
	case "regex":
		return b.buildLiteral(tsNode, LiteralRegExp)
	default:
		return b.buildGeneric(tsNode)
	}
}

// buildProgram builds the root program node
func (b *ASTBuilder) buildProgram(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeProgram, tsNode)
	b.appendStatements(tsNode, node)
	return node
}

// appendStatements adds every non-trivia child as a body statement
func (b *ASTBuilder) appendStatements(tsNode *sitter.Node, node *Node) {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || b.isTrivia(child) || !child.IsNamed() {
			continue
		}
		if stmt := b.buildNode(child); stmt != nil {
			stmt.Parent = node
			node.Body = append(node.Body, stmt)
		}
	}
}

// buildImportStatement builds an import declaration
func (b *ASTBuilder) buildImportStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeImportDeclaration, tsNode)

	if sourceNode := tsNode.ChildByFieldName("source"); sourceNode != nil {
		node.Source = b.buildNode(sourceNode)
	}

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil {
			continue
		}
		if child.Type() == "import_clause" {
			b.extractImportClause(child, node)
		}
	}
	return node
}

// extractImportClause extracts default, namespace and named specifiers
func (b *ASTBuilder) extractImportClause(clause *sitter.Node, node *Node) {
	for i := 0; i < int(clause.ChildCount()); i++ {
		child := clause.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "identifier":
			// import name from '…'
			spec := b.newNode(NodeImportDefaultSpecifier, child)
			spec.Local = b.buildIdentifier(child)
			node.Specifiers = append(node.Specifiers, spec)
		case "namespace_import":
			// import * as name from '…'
			spec := b.newNode(NodeImportNamespaceSpecifier, child)
			for j := 0; j < int(child.ChildCount()); j++ {
				if gc := child.Child(j); gc != nil && gc.Type() == "identifier" {
					spec.Local = b.buildIdentifier(gc)
				}
			}
			node.Specifiers = append(node.Specifiers, spec)
		case "named_imports":
			// import { a, b as c } from '…'
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(j)
				if gc != nil && gc.Type() == "import_specifier" {
					node.Specifiers = append(node.Specifiers, b.buildImportSpecifier(gc))
				}
			}
		}
	}
}

// buildImportSpecifier builds one named import specifier
func (b *ASTBuilder) buildImportSpecifier(tsNode *sitter.Node) *Node {
	spec := b.newNode(NodeImportSpecifier, tsNode)
	if name := tsNode.ChildByFieldName("name"); name != nil {
		spec.Imported = b.buildIdentifier(name)
	}
	if alias := tsNode.ChildByFieldName("alias"); alias != nil {
		spec.Local = b.buildIdentifier(alias)
	} else if spec.Imported != nil {
		spec.Local = b.buildIdentifier(tsNode.ChildByFieldName("name"))
	}
	return spec
}

// buildExportStatement builds a named, default or star export
func (b *ASTBuilder) buildExportStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeExportNamedDeclaration, tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "default":
			node.Type = NodeExportDefaultDeclaration
		case "*":
			node.Type = NodeExportAllDeclaration
		case "namespace_export":
			// export * as ns from '…'
			node.Type = NodeExportAllDeclaration
			for j := 0; j < int(child.ChildCount()); j++ {
				if gc := child.Child(j); gc != nil && gc.Type() == "identifier" {
					node.Exported = b.buildIdentifier(gc)
				}
			}
		case "export_clause":
			b.extractExportClause(child, node)
		}
	}

	if decl := tsNode.ChildByFieldName("declaration"); decl != nil {
		node.Declaration = b.buildNode(decl)
	}
	if value := tsNode.ChildByFieldName("value"); value != nil {
		node.Declaration = b.buildNode(value)
	}
	if source := tsNode.ChildByFieldName("source"); source != nil {
		node.Source = b.buildNode(source)
	}
	return node
}

// extractExportClause extracts specifiers from export { … }
func (b *ASTBuilder) extractExportClause(clause *sitter.Node, node *Node) {
	for i := 0; i < int(clause.ChildCount()); i++ {
		child := clause.Child(i)
		if child == nil || child.Type() != "export_specifier" {
			continue
		}
		spec := b.newNode(NodeExportSpecifier, child)
		if name := child.ChildByFieldName("name"); name != nil {
			spec.Local = b.buildIdentifier(name)
			spec.Exported = b.buildIdentifier(name)
		}
		if alias := child.ChildByFieldName("alias"); alias != nil {
			spec.Exported = b.buildIdentifier(alias)
		}
		node.Specifiers = append(node.Specifiers, spec)
	}
}

// buildFunction builds function declarations and expressions
func (b *ASTBuilder) buildFunction(tsNode *sitter.Node, kind NodeType) *Node {
	node := b.newNode(kind, tsNode)
	node.Generator = strings.Contains(tsNode.Type(), "generator")
	node.Async = b.hasKeyword(tsNode, "async")
	if name := tsNode.ChildByFieldName("name"); name != nil {
		node.ID = b.buildIdentifier(name)
		node.Name = node.ID.Name
	}
	b.extractParams(tsNode, node)
	if body := tsNode.ChildByFieldName("body"); body != nil {
		node.Value = b.buildNode(body)
	}
	return node
}

// buildArrowFunction builds an arrow function expression
func (b *ASTBuilder) buildArrowFunction(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeArrowFunction, tsNode)
	node.Async = b.hasKeyword(tsNode, "async")
	if param := tsNode.ChildByFieldName("parameter"); param != nil {
		node.Params = append(node.Params, b.buildNode(param))
	}
	b.extractParams(tsNode, node)
	if body := tsNode.ChildByFieldName("body"); body != nil {
		node.Value = b.buildNode(body)
	}
	return node
}

// extractParams collects formal parameters
func (b *ASTBuilder) extractParams(tsNode *sitter.Node, node *Node) {
	params := tsNode.ChildByFieldName("parameters")
	if params == nil {
		return
	}
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(i)
		if child == nil || !child.IsNamed() || b.isTrivia(child) {
			continue
		}
		if p := b.buildNode(child); p != nil {
			node.Params = append(node.Params, p)
		}
	}
}

// buildClass builds class declarations and expressions
func (b *ASTBuilder) buildClass(tsNode *sitter.Node, kind NodeType) *Node {
	node := b.newNode(kind, tsNode)
	if name := tsNode.ChildByFieldName("name"); name != nil {
		node.ID = b.buildIdentifier(name)
		node.Name = node.ID.Name
	}
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.Type() == "class_heritage" {
			for j := 0; j < int(child.ChildCount()); j++ {
				if gc := child.Child(j); gc != nil && gc.IsNamed() {
					node.SuperClass = b.buildNode(gc)
				}
			}
		}
	}
	if body := tsNode.ChildByFieldName("body"); body != nil {
		b.appendStatements(body, node)
	}
	return node
}

// buildMethodDefinition builds a class method
func (b *ASTBuilder) buildMethodDefinition(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeMethodDefinition, tsNode)
	node.Async = b.hasKeyword(tsNode, "async")
	if name := tsNode.ChildByFieldName("name"); name != nil {
		node.Key = b.buildNode(name)
		node.Name = b.content(name)
	}
	b.extractParams(tsNode, node)
	if body := tsNode.ChildByFieldName("body"); body != nil {
		node.Value = b.buildNode(body)
	}
	return node
}

// buildFieldDefinition builds a class field
func (b *ASTBuilder) buildFieldDefinition(tsNode *sitter.Node) *Node {
	node := b.newNode(NodePropertyDefinition, tsNode)
	if name := tsNode.ChildByFieldName("property"); name != nil {
		node.Key = b.buildNode(name)
		node.Name = b.content(name)
	}
	if value := tsNode.ChildByFieldName("value"); value != nil {
		node.Value = b.buildNode(value)
	}
	return node
}

// buildVariableDeclaration builds var/let/const declarations
func (b *ASTBuilder) buildVariableDeclaration(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeVariableDeclaration, tsNode)
	node.Kind = "var"
	if first := tsNode.Child(0); first != nil {
		node.Kind = first.Type() // var, let or const keyword token
	}
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.Type() == "variable_declarator" {
			if d := b.buildVariableDeclarator(child); d != nil {
				d.Parent = node
				node.Declarations = append(node.Declarations, d)
			}
		}
	}
	return node
}

// buildVariableDeclarator builds one declarator
func (b *ASTBuilder) buildVariableDeclarator(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeVariableDeclarator, tsNode)
	if name := tsNode.ChildByFieldName("name"); name != nil {
		node.ID = b.buildNode(name)
		node.Name = b.content(name)
	}
	if value := tsNode.ChildByFieldName("value"); value != nil {
		node.Init = b.buildNode(value)
	}
	return node
}

// buildExpressionStatement wraps an expression as a statement
func (b *ASTBuilder) buildExpressionStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeExpressionStatement, tsNode)
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.IsNamed() && !b.isTrivia(child) {
			node.Argument = b.buildNode(child)
			break
		}
	}
	return node
}

// buildBody builds nodes whose named children form a statement body
func (b *ASTBuilder) buildBody(tsNode *sitter.Node, kind NodeType) *Node {
	node := b.newNode(kind, tsNode)
	b.appendStatements(tsNode, node)
	return node
}

// buildIfStatement builds an if/else statement
func (b *ASTBuilder) buildIfStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeIfStatement, tsNode)
	if cond := tsNode.ChildByFieldName("condition"); cond != nil {
		node.Test = b.buildNode(cond)
	}
	if cons := tsNode.ChildByFieldName("consequence"); cons != nil {
		node.Consequent = b.buildNode(cons)
	}
	if alt := tsNode.ChildByFieldName("alternative"); alt != nil {
		// else_clause wraps the actual statement
		for i := 0; i < int(alt.ChildCount()); i++ {
			if c := alt.Child(i); c != nil && c.IsNamed() {
				node.Alternate = b.buildNode(c)
			}
		}
	}
	return node
}

// buildForStatement builds a C-style for loop
func (b *ASTBuilder) buildForStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeForStatement, tsNode)
	if init := tsNode.ChildByFieldName("initializer"); init != nil {
		node.Init = b.buildNode(init)
	}
	if cond := tsNode.ChildByFieldName("condition"); cond != nil {
		node.Test = b.buildNode(cond)
	}
	if inc := tsNode.ChildByFieldName("increment"); inc != nil {
		node.Update = b.buildNode(inc)
	}
	if body := tsNode.ChildByFieldName("body"); body != nil {
		node.Value = b.buildNode(body)
	}
	return node
}

// buildForInStatement builds for-in and for-of loops
func (b *ASTBuilder) buildForInStatement(tsNode *sitter.Node) *Node {
	kind := NodeForInStatement
	if op := tsNode.ChildByFieldName("operator"); op != nil && b.content(op) == "of" {
		kind = NodeForOfStatement
	}
	node := b.newNode(kind, tsNode)
	if left := tsNode.ChildByFieldName("left"); left != nil {
		node.Left = b.buildNode(left)
	}
	if right := tsNode.ChildByFieldName("right"); right != nil {
		node.Right = b.buildNode(right)
	}
	if body := tsNode.ChildByFieldName("body"); body != nil {
		node.Value = b.buildNode(body)
	}
	return node
}

// buildWhileStatement builds a while loop
func (b *ASTBuilder) buildWhileStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeWhileStatement, tsNode)
	if cond := tsNode.ChildByFieldName("condition"); cond != nil {
		node.Test = b.buildNode(cond)
	}
	if body := tsNode.ChildByFieldName("body"); body != nil {
		node.Value = b.buildNode(body)
	}
	return node
}

// buildDoWhileStatement builds a do-while loop
func (b *ASTBuilder) buildDoWhileStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeDoWhileStatement, tsNode)
	if body := tsNode.ChildByFieldName("body"); body != nil {
		node.Value = b.buildNode(body)
	}
	if cond := tsNode.ChildByFieldName("condition"); cond != nil {
		node.Test = b.buildNode(cond)
	}
	return node
}

// buildTryStatement builds try/catch/finally
func (b *ASTBuilder) buildTryStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeTryStatement, tsNode)
	if body := tsNode.ChildByFieldName("body"); body != nil {
		node.Block = b.buildNode(body)
	}
	if handler := tsNode.ChildByFieldName("handler"); handler != nil {
		node.Handler = b.buildNode(handler)
	}
	if fin := tsNode.ChildByFieldName("finalizer"); fin != nil {
		node.Finalizer = b.buildNode(fin)
	}
	return node
}

// buildCatchClause builds a catch clause
func (b *ASTBuilder) buildCatchClause(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeCatchClause, tsNode)
	if param := tsNode.ChildByFieldName("parameter"); param != nil {
		node.Params = append(node.Params, b.buildNode(param))
	}
	if body := tsNode.ChildByFieldName("body"); body != nil {
		node.Value = b.buildNode(body)
	}
	return node
}

// buildFinallyClause unwraps the finally block
func (b *ASTBuilder) buildFinallyClause(tsNode *sitter.Node) *Node {
	if body := tsNode.ChildByFieldName("body"); body != nil {
		return b.buildNode(body)
	}
	return b.buildBody(tsNode, NodeBlockStatement)
}

// buildSwitchStatement builds a switch statement
func (b *ASTBuilder) buildSwitchStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeSwitchStatement, tsNode)
	if value := tsNode.ChildByFieldName("value"); value != nil {
		node.Discriminant = b.buildNode(value)
	}
	if body := tsNode.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			child := body.Child(i)
			if child != nil && (child.Type() == "switch_case" || child.Type() == "switch_default") {
				node.Body = append(node.Body, b.buildSwitchCase(child))
			}
		}
	}
	return node
}

// buildSwitchCase builds one case or default clause
func (b *ASTBuilder) buildSwitchCase(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeSwitchCase, tsNode)
	if value := tsNode.ChildByFieldName("value"); value != nil {
		node.Test = b.buildNode(value)
	}
	if body := tsNode.ChildByFieldName("body"); body != nil {
		node.Body = append(node.Body, b.buildNode(body))
	} else {
		b.appendStatements(tsNode, node)
	}
	return node
}

// buildArgumentStatement builds return/throw statements
func (b *ASTBuilder) buildArgumentStatement(tsNode *sitter.Node, kind NodeType) *Node {
	node := b.newNode(kind, tsNode)
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.IsNamed() && !b.isTrivia(child) {
			node.Argument = b.buildNode(child)
			break
		}
	}
	return node
}

// buildLabeledStatement builds label: statement
func (b *ASTBuilder) buildLabeledStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeLabeledStatement, tsNode)
	if label := tsNode.ChildByFieldName("label"); label != nil {
		node.Label = b.buildIdentifier(label)
	}
	if body := tsNode.ChildByFieldName("body"); body != nil {
		node.Value = b.buildNode(body)
	}
	return node
}

// buildCallExpression builds call expressions and dynamic imports
func (b *ASTBuilder) buildCallExpression(tsNode *sitter.Node) *Node {
	fn := tsNode.ChildByFieldName("function")
	kind := NodeCallExpression
	if fn != nil && fn.Type() == "import" {
		kind = NodeImportExpression
	}
	node := b.newNode(kind, tsNode)
	if fn != nil && kind == NodeCallExpression {
		node.Callee = b.buildNode(fn)
	}
	node.Pure = b.hasPureAnnotation(int(tsNode.StartByte()))
	b.extractArguments(tsNode, node)
	return node
}

// buildNewExpression builds new expressions
func (b *ASTBuilder) buildNewExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeNewExpression, tsNode)
	if ctor := tsNode.ChildByFieldName("constructor"); ctor != nil {
		node.Callee = b.buildNode(ctor)
	}
	node.Pure = b.hasPureAnnotation(int(tsNode.StartByte()))
	b.extractArguments(tsNode, node)
	return node
}

// extractArguments collects call arguments
func (b *ASTBuilder) extractArguments(tsNode *sitter.Node, node *Node) {
	args := tsNode.ChildByFieldName("arguments")
	if args == nil {
		return
	}
	for i := 0; i < int(args.ChildCount()); i++ {
		child := args.Child(i)
		if child == nil || !child.IsNamed() || b.isTrivia(child) {
			continue
		}
		if a := b.buildNode(child); a != nil {
			node.Arguments = append(node.Arguments, a)
		}
	}
}

// buildMemberExpression builds dot and bracket member access
func (b *ASTBuilder) buildMemberExpression(tsNode *sitter.Node, computed bool) *Node {
	node := b.newNode(NodeMemberExpression, tsNode)
	node.Computed = computed
	if obj := tsNode.ChildByFieldName("object"); obj != nil {
		node.Object = b.buildNode(obj)
	}
	if prop := tsNode.ChildByFieldName("property"); prop != nil {
		node.Property = b.buildNode(prop)
	}
	if idx := tsNode.ChildByFieldName("index"); idx != nil {
		node.Property = b.buildNode(idx)
	}
	return node
}

// buildAssignmentExpression builds plain and augmented assignments
func (b *ASTBuilder) buildAssignmentExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeAssignmentExpression, tsNode)
	if left := tsNode.ChildByFieldName("left"); left != nil {
		node.Left = b.buildNode(left)
	}
	if right := tsNode.ChildByFieldName("right"); right != nil {
		node.Right = b.buildNode(right)
	}
	if op := tsNode.ChildByFieldName("operator"); op != nil {
		node.Operator = b.content(op)
	} else {
		node.Operator = "="
	}
	return node
}

// buildBinaryExpression builds binary and logical expressions
func (b *ASTBuilder) buildBinaryExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeBinaryExpression, tsNode)
	if op := tsNode.ChildByFieldName("operator"); op != nil {
		node.Operator = b.content(op)
	}
	switch node.Operator {
	case "&&", "||", "??":
		node.Type = NodeLogicalExpression
	}
	if left := tsNode.ChildByFieldName("left"); left != nil {
		node.Left = b.buildNode(left)
	}
	if right := tsNode.ChildByFieldName("right"); right != nil {
		node.Right = b.buildNode(right)
	}
	return node
}

// buildUnaryExpression builds unary and update expressions
func (b *ASTBuilder) buildUnaryExpression(tsNode *sitter.Node, kind NodeType) *Node {
	node := b.newNode(kind, tsNode)
	if op := tsNode.ChildByFieldName("operator"); op != nil {
		node.Operator = b.content(op)
	}
	if arg := tsNode.ChildByFieldName("argument"); arg != nil {
		node.Argument = b.buildNode(arg)
	}
	return node
}

// buildConditionalExpression builds ternary expressions
func (b *ASTBuilder) buildConditionalExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeConditionalExpression, tsNode)
	if cond := tsNode.ChildByFieldName("condition"); cond != nil {
		node.Test = b.buildNode(cond)
	}
	if cons := tsNode.ChildByFieldName("consequence"); cons != nil {
		node.Consequent = b.buildNode(cons)
	}
	if alt := tsNode.ChildByFieldName("alternative"); alt != nil {
		node.Alternate = b.buildNode(alt)
	}
	return node
}

// buildSequenceExpression builds comma expressions
func (b *ASTBuilder) buildSequenceExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeSequenceExpression, tsNode)
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.IsNamed() && !b.isTrivia(child) {
			node.Elements = append(node.Elements, b.buildNode(child))
		}
	}
	return node
}

// buildParenthesized unwraps a parenthesized expression
func (b *ASTBuilder) buildParenthesized(tsNode *sitter.Node) *Node {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.IsNamed() && !b.isTrivia(child) {
			return b.buildNode(child)
		}
	}
	return b.newNode(NodeUnknown, tsNode)
}

// buildArray builds array literals
func (b *ASTBuilder) buildArray(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeArrayExpression, tsNode)
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.IsNamed() && !b.isTrivia(child) {
			node.Elements = append(node.Elements, b.buildNode(child))
		}
	}
	return node
}

// buildObject builds object literals
func (b *ASTBuilder) buildObject(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeObjectExpression, tsNode)
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.IsNamed() && !b.isTrivia(child) {
			node.Elements = append(node.Elements, b.buildNode(child))
		}
	}
	return node
}

// buildPair builds one object property
func (b *ASTBuilder) buildPair(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeProperty, tsNode)
	if key := tsNode.ChildByFieldName("key"); key != nil {
		node.Key = b.buildNode(key)
		node.Computed = key.Type() == "computed_property_name"
	}
	if value := tsNode.ChildByFieldName("value"); value != nil {
		node.Value = b.buildNode(value)
	}
	return node
}

// buildSpread builds spread elements
func (b *ASTBuilder) buildSpread(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeSpreadElement, tsNode)
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.IsNamed() && !b.isTrivia(child) {
			node.Argument = b.buildNode(child)
			break
		}
	}
	return node
}

// buildUnaryLike builds await/yield expressions
func (b *ASTBuilder) buildUnaryLike(tsNode *sitter.Node, kind NodeType) *Node {
	node := b.newNode(kind, tsNode)
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.IsNamed() && !b.isTrivia(child) {
			node.Argument = b.buildNode(child)
			break
		}
	}
	return node
}

// buildTemplateString builds template literals, keeping substitutions
func (b *ASTBuilder) buildTemplateString(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeTemplateLiteral, tsNode)
	node.Raw = b.content(tsNode)
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.Type() == "template_substitution" {
			for j := 0; j < int(child.ChildCount()); j++ {
				if gc := child.Child(j); gc != nil && gc.IsNamed() {
					node.Elements = append(node.Elements, b.buildNode(gc))
				}
			}
		}
	}
	return node
}

// buildIdentifier builds an identifier node
func (b *ASTBuilder) buildIdentifier(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeIdentifier, tsNode)
	node.Name = b.content(tsNode)
	return node
}

// buildLiteral builds a literal node
func (b *ASTBuilder) buildLiteral(tsNode *sitter.Node, kind LiteralKind) *Node {
	node := b.newNode(NodeLiteral, tsNode)
	node.LitKind = kind
	node.Raw = b.content(tsNode)
	return node
}

// buildSimple builds a node with no structured children
func (b *ASTBuilder) buildSimple(tsNode *sitter.Node, kind NodeType) *Node {
	return b.newNode(kind, tsNode)
}

// buildGeneric wraps constructs the binder treats opaquely, still
// descending into named children so references inside them are seen
func (b *ASTBuilder) buildGeneric(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeUnknown, tsNode)
	node.Kind = tsNode.Type()
	b.appendStatements(tsNode, node)
	return node
}

// newNode allocates a node with location and byte range filled in
func (b *ASTBuilder) newNode(kind NodeType, tsNode *sitter.Node) *Node {
	node := NewNode(kind)
	node.Location = Location{
		File:      b.filename,
		StartLine: int(tsNode.StartPoint().Row) + 1,
		StartCol:  int(tsNode.StartPoint().Column),
		EndLine:   int(tsNode.EndPoint().Row) + 1,
		EndCol:    int(tsNode.EndPoint().Column),
	}
	node.Start = int(tsNode.StartByte())
	node.End = int(tsNode.EndByte())
	return node
}

// content returns the source text of a node
func (b *ASTBuilder) content(tsNode *sitter.Node) string {
	return tsNode.Content(b.source)
}

// isTrivia reports comment and punctuation nodes
func (b *ASTBuilder) isTrivia(tsNode *sitter.Node) bool {
	switch tsNode.Type() {
	case "comment", "hash_bang_line", ";", ",", "(", ")", "{", "}", "[", "]":
		return true
	}
	return false
}

// hasKeyword reports whether a direct child token matches the keyword
func (b *ASTBuilder) hasKeyword(tsNode *sitter.Node, keyword string) bool {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		if child := tsNode.Child(i); child != nil && child.Type() == keyword {
			return true
		}
	}
	return false
}

// hasPureAnnotation reports a /*@__PURE__*/ or /*#__PURE__*/ comment
// immediately before the byte offset
func (b *ASTBuilder) hasPureAnnotation(start int) bool {
	text := b.source[:min(start, len(b.source))]
	i := len(text)
	for i > 0 && (text[i-1] == ' ' || text[i-1] == '\t' || text[i-1] == '\n' || text[i-1] == '\r') {
		i--
	}
	if i < 4 || string(text[i-2:i]) != "*/" {
		return false
	}
	open := strings.LastIndex(string(text[:i]), "/*")
	if open < 0 {
		return false
	}
	comment := string(text[open:i])
	return strings.Contains(comment, "@__PURE__") || strings.Contains(comment, "#__PURE__")
}
