package parser

import (
	"testing"
)

const helloClass = "public class Hello { public void func(){} }"

func TestWalkCountsMethods(t *testing.T) {
	node, errs := Parse(EntryCompilationUnit, helloClass)
	if len(errs) != 0 {
		t.Fatalf("got %d errors", len(errs))
	}

	var methods int
	l := NewKindListener().OnEnter(KindMethodDecl, func(*Node) { methods++ })
	Walk(node, l)
	if methods != 1 {
		t.Errorf("got %d methods, want 1", methods)
	}
}

func TestVisitorCountsMethods(t *testing.T) {
	node, errs := Parse(EntryCompilationUnit, helloClass)
	if len(errs) != 0 {
		t.Fatalf("got %d errors", len(errs))
	}

	var visited int
	v := &Visitor[int]{Combine: func(acc, child int) int { return acc + child }}
	v.Handle(KindMethodDecl, func(v *Visitor[int], n *Node) int {
		visited++
		return 1 + v.VisitChildren(n)
	})
	if got := v.Visit(node); got != 1 {
		t.Errorf("Visit = %d, want 1", got)
	}
	if visited != 1 {
		t.Errorf("handler ran %d times, want 1", visited)
	}
}

func TestWalkAndVisitorAgree(t *testing.T) {
	src := `public class Shapes {
		public Integer a() { return 1; }
		public Integer b() { return 2; }
		public class Inner { void c() {} }
	}`
	node, errs := Parse(EntryCompilationUnit, src)
	if len(errs) != 0 {
		t.Fatalf("got %d errors", len(errs))
	}

	var walked int
	Walk(node, NewKindListener().OnEnter(KindMethodDecl, func(*Node) { walked++ }))

	v := &Visitor[int]{Combine: func(acc, child int) int { return acc + child }}
	v.Handle(KindMethodDecl, func(v *Visitor[int], n *Node) int { return 1 + v.VisitChildren(n) })
	visited := v.Visit(node)

	if walked != 3 || visited != 3 {
		t.Errorf("walk counted %d, visitor counted %d, want 3", walked, visited)
	}
}

type recorder struct {
	events []string
}

func (r *recorder) Enter(n *Node) { r.events = append(r.events, "enter "+n.Kind.String()) }
func (r *recorder) Exit(n *Node)  { r.events = append(r.events, "exit "+n.Kind.String()) }

func TestWalkOrder(t *testing.T) {
	node, errs := Parse(EntryExpression, "a + b")
	if len(errs) != 0 {
		t.Fatalf("got %d errors", len(errs))
	}
	r := &recorder{}
	Walk(node, r)

	want := []string{
		"enter BinaryExpr",
		"enter Identifier", "exit Identifier",
		"enter Operator", "exit Operator",
		"enter Identifier", "exit Identifier",
		"exit BinaryExpr",
	}
	if len(r.events) != len(want) {
		t.Fatalf("got %v, want %v", r.events, want)
	}
	for i := range want {
		if r.events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, r.events[i], want[i])
		}
	}
}

func TestKindListenerExit(t *testing.T) {
	node, _ := Parse(EntryStatement, "if (a) { b(); } else { c(); }")
	var blocks []string
	Walk(node, NewKindListener().OnExit(KindBlock, func(n *Node) {
		blocks = append(blocks, n.Kind.String())
	}))
	if len(blocks) != 2 {
		t.Errorf("got %d block exits, want 2", len(blocks))
	}
}

func TestVisitorDefaults(t *testing.T) {
	node, _ := Parse(EntryExpression, "f(a, b)")

	t.Run("zero visitor", func(t *testing.T) {
		var v Visitor[int]
		if got := v.Visit(node); got != 0 {
			t.Errorf("Visit = %d, want 0", got)
		}
	})

	t.Run("default without combine", func(t *testing.T) {
		v := &Visitor[string]{Default: "none"}
		v.Handle(KindIdentifier, func(*Visitor[string], *Node) string { return "id" })
		if got := v.Visit(node); got != "none" {
			t.Errorf("Visit = %q, want %q", got, "none")
		}
	})

	t.Run("collect identifiers", func(t *testing.T) {
		v := &Visitor[[]string]{Combine: func(acc, child []string) []string { return append(acc, child...) }}
		v.Handle(KindIdentifier, func(_ *Visitor[[]string], n *Node) []string {
			return []string{n.TokenLiteral()}
		})
		got := v.Visit(node)
		want := []string{"f", "a", "b"}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("identifier %d = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("nil node", func(t *testing.T) {
		v := &Visitor[int]{Default: 7}
		if got := v.Visit(nil); got != 7 {
			t.Errorf("Visit(nil) = %d, want 7", got)
		}
	})
}
