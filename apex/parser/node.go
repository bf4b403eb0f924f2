package parser

import (
	"fmt"
	"strings"
)

type NodeKind int

const (
	KindError NodeKind = iota

	// Units
	KindCompilationUnit
	KindTriggerUnit
	KindTriggerCase
	KindAnonymousUnit

	// Type declarations
	KindClassDecl
	KindInterfaceDecl
	KindEnumDecl
	KindEnumConstant

	// Members
	KindFieldDecl
	KindMethodDecl
	KindConstructorDecl
	KindPropertyDecl
	KindPropertyAccessor
	KindInitializerBlock
	KindVariableDeclarator

	// Types and modifiers
	KindModifiers
	KindModifier
	KindAnnotation
	KindAnnotationElement
	KindAnnotationArray
	KindType
	KindTypeName
	KindTypeArguments
	KindArrayDims
	KindExtendsClause
	KindImplementsClause
	KindQualifiedName

	// Method components
	KindParameters
	KindParameter
	KindArguments

	// Statements
	KindBlock
	KindEmptyStmt
	KindExprStmt
	KindLocalVarDecl
	KindIfStmt
	KindWhileStmt
	KindDoStmt
	KindForStmt
	KindForInit
	KindForUpdate
	KindEnhancedForStmt
	KindSwitchStmt
	KindWhenClause
	KindWhenValue
	KindWhenType
	KindWhenElse
	KindReturnStmt
	KindThrowStmt
	KindBreakStmt
	KindContinueStmt
	KindTryStmt
	KindCatchClause
	KindFinallyClause
	KindInsertStmt
	KindUpdateStmt
	KindDeleteStmt
	KindUndeleteStmt
	KindUpsertStmt
	KindMergeStmt
	KindAccessLevel
	KindRunAsStmt

	// Expressions
	KindAssignExpr
	KindTernaryExpr
	KindCoalesceExpr
	KindBinaryExpr
	KindInstanceofExpr
	KindUnaryExpr
	KindPostfixExpr
	KindCastExpr
	KindCallExpr
	KindFieldAccess
	KindArrayAccess
	KindNewExpr
	KindArrayInit
	KindMapInit
	KindMapEntry
	KindParenExpr
	KindLiteral
	KindIdentifier
	KindThis
	KindSuper
	KindClassLiteral
	KindOperator

	// Queries
	KindSoqlLiteral
	KindQuery
	KindSubQuery
	KindSelectList
	KindSelectField
	KindFieldName
	KindSoqlFunction
	KindTypeOf
	KindTypeOfWhen
	KindTypeOfElse
	KindFromList
	KindFromEntry
	KindUsingScope
	KindWhereClause
	KindLogicalExpr
	KindNotExpr
	KindComparison
	KindValueList
	KindBoundExpr
	KindSignedNumber
	KindDateFormula
	KindWithClause
	KindDataCategoryFilter
	KindDataCategorySelection
	KindGroupByClause
	KindHavingClause
	KindOrderByClause
	KindOrderField
	KindLimitClause
	KindOffsetClause
	KindAllRows
	KindForClause
	KindUpdateClause
	KindAlias

	// Searches
	KindSoslLiteral
	KindSearchGroup
	KindReturningClause
	KindFieldSpec
)

var nodeKindNames = map[NodeKind]string{
	KindError:                 "Error",
	KindCompilationUnit:       "CompilationUnit",
	KindTriggerUnit:           "TriggerUnit",
	KindTriggerCase:           "TriggerCase",
	KindAnonymousUnit:         "AnonymousUnit",
	KindClassDecl:             "ClassDecl",
	KindInterfaceDecl:         "InterfaceDecl",
	KindEnumDecl:              "EnumDecl",
	KindEnumConstant:          "EnumConstant",
	KindFieldDecl:             "FieldDecl",
	KindMethodDecl:            "MethodDecl",
	KindConstructorDecl:       "ConstructorDecl",
	KindPropertyDecl:          "PropertyDecl",
	KindPropertyAccessor:      "PropertyAccessor",
	KindInitializerBlock:      "InitializerBlock",
	KindVariableDeclarator:    "VariableDeclarator",
	KindModifiers:             "Modifiers",
	KindModifier:              "Modifier",
	KindAnnotation:            "Annotation",
	KindAnnotationElement:     "AnnotationElement",
	KindAnnotationArray:       "AnnotationArray",
	KindType:                  "Type",
	KindTypeName:              "TypeName",
	KindTypeArguments:         "TypeArguments",
	KindArrayDims:             "ArrayDims",
	KindExtendsClause:         "ExtendsClause",
	KindImplementsClause:      "ImplementsClause",
	KindQualifiedName:         "QualifiedName",
	KindParameters:            "Parameters",
	KindParameter:             "Parameter",
	KindArguments:             "Arguments",
	KindBlock:                 "Block",
	KindEmptyStmt:             "EmptyStmt",
	KindExprStmt:              "ExprStmt",
	KindLocalVarDecl:          "LocalVarDecl",
	KindIfStmt:                "IfStmt",
	KindWhileStmt:             "WhileStmt",
	KindDoStmt:                "DoStmt",
	KindForStmt:               "ForStmt",
	KindForInit:               "ForInit",
	KindForUpdate:             "ForUpdate",
	KindEnhancedForStmt:       "EnhancedForStmt",
	KindSwitchStmt:            "SwitchStmt",
	KindWhenClause:            "WhenClause",
	KindWhenValue:             "WhenValue",
	KindWhenType:              "WhenType",
	KindWhenElse:              "WhenElse",
	KindReturnStmt:            "ReturnStmt",
	KindThrowStmt:             "ThrowStmt",
	KindBreakStmt:             "BreakStmt",
	KindContinueStmt:          "ContinueStmt",
	KindTryStmt:               "TryStmt",
	KindCatchClause:           "CatchClause",
	KindFinallyClause:         "FinallyClause",
	KindInsertStmt:            "InsertStmt",
	KindUpdateStmt:            "UpdateStmt",
	KindDeleteStmt:            "DeleteStmt",
	KindUndeleteStmt:          "UndeleteStmt",
	KindUpsertStmt:            "UpsertStmt",
	KindMergeStmt:             "MergeStmt",
	KindAccessLevel:           "AccessLevel",
	KindRunAsStmt:             "RunAsStmt",
	KindAssignExpr:            "AssignExpr",
	KindTernaryExpr:           "TernaryExpr",
	KindCoalesceExpr:          "CoalesceExpr",
	KindBinaryExpr:            "BinaryExpr",
	KindInstanceofExpr:        "InstanceofExpr",
	KindUnaryExpr:             "UnaryExpr",
	KindPostfixExpr:           "PostfixExpr",
	KindCastExpr:              "CastExpr",
	KindCallExpr:              "CallExpr",
	KindFieldAccess:           "FieldAccess",
	KindArrayAccess:           "ArrayAccess",
	KindNewExpr:               "NewExpr",
	KindArrayInit:             "ArrayInit",
	KindMapInit:               "MapInit",
	KindMapEntry:              "MapEntry",
	KindParenExpr:             "ParenExpr",
	KindLiteral:               "Literal",
	KindIdentifier:            "Identifier",
	KindThis:                  "This",
	KindSuper:                 "Super",
	KindClassLiteral:          "ClassLiteral",
	KindOperator:              "Operator",
	KindSoqlLiteral:           "SoqlLiteral",
	KindQuery:                 "Query",
	KindSubQuery:              "SubQuery",
	KindSelectList:            "SelectList",
	KindSelectField:           "SelectField",
	KindFieldName:             "FieldName",
	KindSoqlFunction:          "SoqlFunction",
	KindTypeOf:                "TypeOf",
	KindTypeOfWhen:            "TypeOfWhen",
	KindTypeOfElse:            "TypeOfElse",
	KindFromList:              "FromList",
	KindFromEntry:             "FromEntry",
	KindUsingScope:            "UsingScope",
	KindWhereClause:           "WhereClause",
	KindLogicalExpr:           "LogicalExpr",
	KindNotExpr:               "NotExpr",
	KindComparison:            "Comparison",
	KindValueList:             "ValueList",
	KindBoundExpr:             "BoundExpr",
	KindSignedNumber:          "SignedNumber",
	KindDateFormula:           "DateFormula",
	KindWithClause:            "WithClause",
	KindDataCategoryFilter:    "DataCategoryFilter",
	KindDataCategorySelection: "DataCategorySelection",
	KindGroupByClause:         "GroupByClause",
	KindHavingClause:          "HavingClause",
	KindOrderByClause:         "OrderByClause",
	KindOrderField:            "OrderField",
	KindLimitClause:           "LimitClause",
	KindOffsetClause:          "OffsetClause",
	KindAllRows:               "AllRows",
	KindForClause:             "ForClause",
	KindUpdateClause:          "UpdateClause",
	KindAlias:                 "Alias",
	KindSoslLiteral:           "SoslLiteral",
	KindSearchGroup:           "SearchGroup",
	KindReturningClause:       "ReturningClause",
	KindFieldSpec:             "FieldSpec",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Error struct {
	Message  string
	Expected []TokenKind
	Got      *Token
}

// Node is a concrete syntax tree node. Terminal nodes (identifiers,
// literals, operators, modifiers) carry their Token; interior nodes carry
// their children in source order. Span covers every token of the node.
type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

// HasErrors reports whether n or any descendant is an error node.
func (n *Node) HasErrors() bool {
	if n.IsError() {
		return true
	}
	for _, child := range n.Children {
		if child.HasErrors() {
			return true
		}
	}
	return false
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// Operands returns the children of an operator node without the operator
// terminals themselves.
func (n *Node) Operands() []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind != KindOperator {
			result = append(result, child)
		}
	}
	return result
}

// OperatorToken returns the first operator terminal among the children.
func (n *Node) OperatorToken() *Token {
	if op := n.FirstChildOfKind(KindOperator); op != nil {
		return op.Token
	}
	return nil
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Text returns the source text covered by n.
func (n *Node) Text(src []byte) string {
	start, end := n.Span.Start.Offset, n.Span.End.Offset
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return string(src[start:end])
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	var b strings.Builder
	n.writeIndent(&b, indent, showPositions)
	return b.String()
}

func (n *Node) writeIndent(b *strings.Builder, indent int, showPositions bool) {
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(n.Kind.String())
	if showPositions {
		fmt.Fprintf(b, " [%s-%s]", n.Span.Start, n.Span.End)
	}
	if n.Token != nil {
		b.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		b.WriteString(" ERROR: " + n.Error.Message)
	}
	b.WriteString("\n")
	for _, child := range n.Children {
		child.writeIndent(b, indent+1, showPositions)
	}
}
