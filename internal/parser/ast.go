package parser

import "fmt"

// NodeType represents the type of AST node
type NodeType string

// JavaScript/TypeScript AST node types
const (
	// Program and structure
	NodeProgram NodeType = "Program"

	// Module system
	NodeImportDeclaration        NodeType = "ImportDeclaration"
	NodeImportSpecifier          NodeType = "ImportSpecifier"
	NodeImportDefaultSpecifier   NodeType = "ImportDefaultSpecifier"
	NodeImportNamespaceSpecifier NodeType = "ImportNamespaceSpecifier"
	NodeImportExpression         NodeType = "ImportExpression"
	NodeExportNamedDeclaration   NodeType = "ExportNamedDeclaration"
	NodeExportDefaultDeclaration NodeType = "ExportDefaultDeclaration"
	NodeExportAllDeclaration     NodeType = "ExportAllDeclaration"
	NodeExportSpecifier          NodeType = "ExportSpecifier"

	// Declarations
	NodeFunctionDeclaration NodeType = "FunctionDeclaration"
	NodeClassDeclaration    NodeType = "ClassDeclaration"
	NodeVariableDeclaration NodeType = "VariableDeclaration"
	NodeVariableDeclarator  NodeType = "VariableDeclarator"

	// Statements
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodeBlockStatement      NodeType = "BlockStatement"
	NodeIfStatement         NodeType = "IfStatement"
	NodeForStatement        NodeType = "ForStatement"
	NodeForInStatement      NodeType = "ForInStatement"
	NodeForOfStatement      NodeType = "ForOfStatement"
	NodeWhileStatement      NodeType = "WhileStatement"
	NodeDoWhileStatement    NodeType = "DoWhileStatement"
	NodeReturnStatement     NodeType = "ReturnStatement"
	NodeThrowStatement      NodeType = "ThrowStatement"
	NodeTryStatement        NodeType = "TryStatement"
	NodeCatchClause         NodeType = "CatchClause"
	NodeSwitchStatement     NodeType = "SwitchStatement"
	NodeSwitchCase          NodeType = "SwitchCase"
	NodeBreakStatement      NodeType = "BreakStatement"
	NodeContinueStatement   NodeType = "ContinueStatement"
	NodeLabeledStatement    NodeType = "LabeledStatement"
	NodeEmptyStatement      NodeType = "EmptyStatement"
	NodeDebuggerStatement   NodeType = "DebuggerStatement"

	// Expressions
	NodeIdentifier            NodeType = "Identifier"
	NodeLiteral               NodeType = "Literal"
	NodeTemplateLiteral       NodeType = "TemplateLiteral"
	NodeCallExpression        NodeType = "CallExpression"
	NodeNewExpression         NodeType = "NewExpression"
	NodeMemberExpression      NodeType = "MemberExpression"
	NodeAssignmentExpression  NodeType = "AssignmentExpression"
	NodeBinaryExpression      NodeType = "BinaryExpression"
	NodeLogicalExpression     NodeType = "LogicalExpression"
	NodeUnaryExpression       NodeType = "UnaryExpression"
	NodeUpdateExpression      NodeType = "UpdateExpression"
	NodeConditionalExpression NodeType = "ConditionalExpression"
	NodeSequenceExpression    NodeType = "SequenceExpression"
	NodeFunctionExpression    NodeType = "FunctionExpression"
	NodeArrowFunction         NodeType = "ArrowFunctionExpression"
	NodeClassExpression       NodeType = "ClassExpression"
	NodeArrayExpression       NodeType = "ArrayExpression"
	NodeObjectExpression      NodeType = "ObjectExpression"
	NodeProperty              NodeType = "Property"
	NodeSpreadElement         NodeType = "SpreadElement"
	NodeAwaitExpression       NodeType = "AwaitExpression"
	NodeYieldExpression       NodeType = "YieldExpression"
	NodeThisExpression        NodeType = "ThisExpression"
	NodeTaggedTemplate        NodeType = "TaggedTemplateExpression"

	// Class members
	NodeMethodDefinition NodeType = "MethodDefinition"
	NodePropertyDefinition NodeType = "PropertyDefinition"

	// Fallback for constructs the binder treats opaquely
	NodeUnknown NodeType = "Unknown"
)

// Location is a source position range
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String renders the location as file:line:col
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// LiteralKind classifies literal nodes
type LiteralKind string

const (
	LiteralString  LiteralKind = "string"
	LiteralNumber  LiteralKind = "number"
	LiteralBoolean LiteralKind = "boolean"
	LiteralNull    LiteralKind = "null"
	LiteralRegExp  LiteralKind = "regexp"
)

// Node is a tagged AST node. Dispatch is always on Type; the semantic
// fields below are populated per tag and nil otherwise.
type Node struct {
	Type   NodeType
	Parent *Node

	// Location and byte range in the original source
	Location Location
	Start    int
	End      int

	// Identifier / literal payload
	Name    string
	Kind    string      // var, let, const for declarations; operator for unary/update
	LitKind LiteralKind // literal classification
	Raw     string      // raw literal text

	// Structure
	Body         []*Node // Program, BlockStatement, class bodies, switch cases
	Params       []*Node
	Declarations []*Node // VariableDeclaration → declarators
	Specifiers   []*Node // import/export specifiers

	// Edges used by expressions and statements
	ID          *Node // declarator / declaration name
	Init        *Node // declarator initialiser, for-loop init
	Test        *Node
	Update      *Node
	Consequent  *Node
	Alternate   *Node
	Block       *Node // try block
	Handler     *Node // catch clause
	Finalizer   *Node
	Discriminant *Node
	Left        *Node
	Right       *Node
	Operator    string
	Argument    *Node
	Arguments   []*Node
	Callee      *Node
	Object      *Node
	Property    *Node
	Elements    []*Node // array elements, object properties, sequence parts
	Key         *Node
	Value       *Node
	Tag         *Node
	SuperClass  *Node
	Label       *Node

	// Import/export payload
	Source      *Node // specifier string literal
	Declaration *Node // exported declaration
	Imported    *Node
	Local       *Node
	Exported    *Node

	// Flags
	Computed bool // computed member / property key
	Async    bool
	Generator bool
	Pure     bool // call/new carries a __PURE__ annotation
}

// NewNode creates a new AST node
func NewNode(nodeType NodeType) *Node {
	return &Node{Type: nodeType}
}

// ForEachChild calls fn on every non-nil direct child of n
func (n *Node) ForEachChild(fn func(*Node)) {
	visit := func(c *Node) {
		if c != nil {
			fn(c)
		}
	}
	visitAll := func(cs []*Node) {
		for _, c := range cs {
			visit(c)
		}
	}
	visitAll(n.Body)
	visitAll(n.Params)
	visitAll(n.Declarations)
	visitAll(n.Specifiers)
	visitAll(n.Arguments)
	visitAll(n.Elements)
	visit(n.ID)
	visit(n.Init)
	visit(n.Test)
	visit(n.Update)
	visit(n.Consequent)
	visit(n.Alternate)
	visit(n.Block)
	visit(n.Handler)
	visit(n.Finalizer)
	visit(n.Discriminant)
	visit(n.Left)
	visit(n.Right)
	visit(n.Argument)
	visit(n.Callee)
	visit(n.Object)
	visit(n.Property)
	visit(n.Key)
	visit(n.Value)
	visit(n.Tag)
	visit(n.SuperClass)
	visit(n.Label)
	visit(n.Source)
	visit(n.Declaration)
	visit(n.Imported)
	visit(n.Local)
	visit(n.Exported)
}

// Walk traverses the AST depth-first. If the visitor returns false the
// subtree below the node is skipped.
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}
	if !visitor(n) {
		return
	}
	n.ForEachChild(func(c *Node) {
		c.Walk(visitor)
	})
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s) at %s", n.Type, n.Name, n.Location)
	}
	return fmt.Sprintf("%s at %s", n.Type, n.Location)
}

// IsFunction reports whether the node introduces a function body
func (n *Node) IsFunction() bool {
	switch n.Type {
	case NodeFunctionDeclaration, NodeFunctionExpression, NodeArrowFunction, NodeMethodDefinition:
		return true
	}
	return false
}

// StringValue returns the decoded value of a string literal, or "" when
// the node is not one
func (n *Node) StringValue() string {
	if n.Type != NodeLiteral || n.LitKind != LiteralString {
		return ""
	}
	raw := n.Raw
	if len(raw) >= 2 {
		switch raw[0] {
		case '\'', '"', '`':
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}
