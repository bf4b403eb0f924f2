package parser

import (
	"strings"
	"testing"
)

func TestNodeText(t *testing.T) {
	src := "public class Hello { public void func(){} }"
	node, _ := Parse(EntryCompilationUnit, src)
	method := findNode(node, KindMethodDecl)
	if got := method.Text([]byte(src)); got != "public void func(){}" {
		t.Errorf("Text = %q", got)
	}
	if got := method.Span.Start.Column; got != 21 {
		t.Errorf("Start.Column = %d, want 21", got)
	}
}

func TestNodeString(t *testing.T) {
	node, _ := Parse(EntryExpression, "a + 1")
	want := "BinaryExpr\n  Identifier a\n  Operator +\n  Literal 1\n"
	if got := node.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
	if !strings.Contains(node.StringWithPositions(), "BinaryExpr [1:0-1:5]") {
		t.Errorf("StringWithPositions() =\n%s", node.StringWithPositions())
	}
}

func TestNodeErrors(t *testing.T) {
	node, errs := Parse(EntryStatement, "if (x == 3); else { ; }")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if !node.HasErrors() {
		t.Fatalf("tree has no error node:\n%s", node)
	}
	errNode := findNode(node, KindError)
	if errNode.Error == nil || errNode.Error.Got == nil || errNode.Error.Got.Kind != TokenSemicolon {
		t.Errorf("error node = %+v", errNode.Error)
	}
}

func TestNodeChildrenOfKind(t *testing.T) {
	node, _ := Parse(EntryCompilationUnit, "public class A { Integer x; Integer y; void m() {} }")
	class := node.FirstChildOfKind(KindClassDecl)
	if got := len(class.ChildrenOfKind(KindFieldDecl)); got != 2 {
		t.Errorf("got %d fields, want 2", got)
	}
	if class.FirstChildOfKind(KindPropertyDecl) != nil {
		t.Error("unexpected property")
	}
	if got := class.FirstChildOfKind(KindModifiers).Children[0].TokenLiteral(); got != "public" {
		t.Errorf("modifier = %q", got)
	}
}
