package graph

import (
	"github.com/ludo-technologies/jsbundle/domain"
	"github.com/ludo-technologies/jsbundle/internal/parser"
)

// knownGlobals are ambient names whose reads never have side effects
var knownGlobals = map[string]bool{
	"undefined": true, "NaN": true, "Infinity": true, "globalThis": true,
	"Object": true, "Array": true, "String": true, "Number": true,
	"Boolean": true, "Symbol": true, "Math": true, "JSON": true,
	"Date": true, "RegExp": true, "Map": true, "Set": true,
	"WeakMap": true, "WeakSet": true, "Promise": true, "Reflect": true,
	"Error": true, "TypeError": true, "RangeError": true, "console": true,
}

// effectsAnalyser decides whether evaluating a node is observable.
// Dispatch is on the node tag; unknown constructs are effectful.
type effectsAnalyser struct {
	module *Module
	opts   domain.TreeshakeOptions

	// inTry is set inside a protected block when tryCatchDeoptimization
	// is on; value analysis is disabled there
	inTry bool
}

// hasEffects reports whether evaluating n may be observable
func (e *effectsAnalyser) hasEffects(n *parser.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type {
	case parser.NodeLiteral, parser.NodeTemplateLiteral:
		for _, sub := range n.Elements {
			if e.hasEffects(sub) {
				return true
			}
		}
		return false

	case parser.NodeThisExpression, parser.NodeEmptyStatement,
		parser.NodeBreakStatement, parser.NodeContinueStatement:
		return false

	case parser.NodeIdentifier:
		if _, ok := e.module.Arena.Lookup(e.module.ModuleScope, n.Name); ok {
			return false
		}
		if knownGlobals[n.Name] {
			return false
		}
		return e.opts.UnknownGlobalSideEffects

	case parser.NodeFunctionDeclaration, parser.NodeFunctionExpression,
		parser.NodeArrowFunction, parser.NodeMethodDefinition:
		// A function body only runs when called
		return false

	case parser.NodeClassDeclaration, parser.NodeClassExpression:
		if e.hasEffects(n.SuperClass) {
			return true
		}
		for _, member := range n.Body {
			if member.Type == parser.NodePropertyDefinition && e.hasEffects(member.Value) {
				return true
			}
		}
		return false

	case parser.NodeArrayExpression, parser.NodeObjectExpression, parser.NodeSequenceExpression:
		for _, el := range n.Elements {
			if e.hasEffects(el) {
				return true
			}
		}
		return false

	case parser.NodeProperty:
		if n.Computed && e.hasEffects(n.Key) {
			return true
		}
		return e.hasEffects(n.Value)

	case parser.NodeSpreadElement:
		return e.hasEffects(n.Argument)

	case parser.NodeUnaryExpression:
		if n.Operator == "delete" {
			return true
		}
		return e.hasEffects(n.Argument)

	case parser.NodeBinaryExpression, parser.NodeLogicalExpression:
		return e.hasEffects(n.Left) || e.hasEffects(n.Right)

	case parser.NodeConditionalExpression:
		return e.hasEffects(n.Test) || e.hasEffects(n.Consequent) || e.hasEffects(n.Alternate)

	case parser.NodeMemberExpression:
		if e.opts.PropertyReadSideEffects {
			return true
		}
		if n.Computed && e.hasEffects(n.Property) {
			return true
		}
		return e.hasEffects(n.Object)

	case parser.NodeAssignmentExpression, parser.NodeUpdateExpression:
		return true

	case parser.NodeCallExpression, parser.NodeNewExpression:
		if n.Pure && e.opts.Annotations && !(e.inTry && e.opts.TryCatchDeoptimization) {
			for _, arg := range n.Arguments {
				if e.hasEffects(arg) {
					return true
				}
			}
			return false
		}
		return true

	case parser.NodeImportExpression:
		// Dynamic imports trigger a load
		return true

	case parser.NodeAwaitExpression, parser.NodeYieldExpression,
		parser.NodeThrowStatement, parser.NodeDebuggerStatement:
		return true

	case parser.NodeExpressionStatement:
		return e.hasEffects(n.Argument)

	case parser.NodeVariableDeclaration:
		for _, d := range n.Declarations {
			if e.hasEffects(d.Init) {
				return true
			}
		}
		return false

	case parser.NodeVariableDeclarator:
		return e.hasEffects(n.Init)

	case parser.NodeBlockStatement:
		for _, stmt := range n.Body {
			if e.hasEffects(stmt) {
				return true
			}
		}
		return false

	case parser.NodeIfStatement:
		return e.hasEffects(n.Test) || e.hasEffects(n.Consequent) || e.hasEffects(n.Alternate)

	case parser.NodeForStatement:
		return e.hasEffects(n.Init) || e.hasEffects(n.Test) || e.hasEffects(n.Update) || e.hasEffects(n.Value)

	case parser.NodeForInStatement, parser.NodeForOfStatement:
		return e.hasEffects(n.Right) || e.hasEffects(n.Value)

	case parser.NodeWhileStatement, parser.NodeDoWhileStatement:
		return e.hasEffects(n.Test) || e.hasEffects(n.Value)

	case parser.NodeSwitchStatement:
		if e.hasEffects(n.Discriminant) {
			return true
		}
		for _, c := range n.Body {
			if e.hasEffects(c) {
				return true
			}
		}
		return false

	case parser.NodeSwitchCase:
		if e.hasEffects(n.Test) {
			return true
		}
		for _, stmt := range n.Body {
			if e.hasEffects(stmt) {
				return true
			}
		}
		return false

	case parser.NodeTryStatement:
		wasInTry := e.inTry
		if e.opts.TryCatchDeoptimization {
			e.inTry = true
		}
		blockEffects := e.hasEffects(n.Block)
		e.inTry = wasInTry
		return blockEffects || e.hasEffects(n.Handler) || e.hasEffects(n.Finalizer)

	case parser.NodeCatchClause:
		return e.hasEffects(n.Value)

	case parser.NodeLabeledStatement:
		return e.hasEffects(n.Value)

	case parser.NodeReturnStatement:
		return e.hasEffects(n.Argument)

	case parser.NodeImportDeclaration, parser.NodeExportNamedDeclaration,
		parser.NodeExportDefaultDeclaration, parser.NodeExportAllDeclaration:
		// Module-structure statements are handled by the includer itself
		return false
	}

	// Constructs the analyser does not model are assumed observable
	return true
}

// referencedNames collects the identifier names a subtree reads. Names
// in pure declaration position (declarator ids, parameter names,
// non-computed keys and properties) are skipped.
func referencedNames(n *parser.Node, out map[string]bool) {
	if n == nil {
		return
	}
	switch n.Type {
	case parser.NodeIdentifier:
		out[n.Name] = true

	case parser.NodeMemberExpression:
		referencedNames(n.Object, out)
		if n.Computed {
			referencedNames(n.Property, out)
		}

	case parser.NodeProperty:
		if n.Computed {
			referencedNames(n.Key, out)
		}
		referencedNames(n.Value, out)

	case parser.NodeVariableDeclarator:
		referencedNames(n.Init, out)

	case parser.NodeFunctionDeclaration, parser.NodeFunctionExpression,
		parser.NodeArrowFunction, parser.NodeMethodDefinition:
		// Parameter names bind locally, but default-value expressions
		// evaluate at call time and can read module-scope names
		for _, p := range n.Params {
			referencedNames(p, out)
		}
		referencedNames(n.Value, out)

	case parser.NodeClassDeclaration, parser.NodeClassExpression:
		referencedNames(n.SuperClass, out)
		for _, member := range n.Body {
			referencedNames(member.Value, out)
			if member.Computed {
				referencedNames(member.Key, out)
			}
		}

	case parser.NodeImportDeclaration, parser.NodeImportExpression, parser.NodeExportAllDeclaration:
		// No local references

	case parser.NodeExportNamedDeclaration:
		if n.Declaration != nil {
			referencedNames(n.Declaration, out)
		}
		if n.Source == nil {
			for _, spec := range n.Specifiers {
				if spec.Local != nil {
					out[spec.Local.Name] = true
				}
			}
		}

	case parser.NodeExportDefaultDeclaration:
		referencedNames(n.Declaration, out)

	case parser.NodeLabeledStatement:
		referencedNames(n.Value, out)

	case parser.NodeBreakStatement, parser.NodeContinueStatement:
		// Labels are not variable references

	default:
		n.ForEachChild(func(c *parser.Node) {
			referencedNames(c, out)
		})
	}
}
