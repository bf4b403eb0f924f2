package parser

// Listener receives paired callbacks during Walk. Enter is called before a
// node's children are walked and Exit after.
type Listener interface {
	Enter(n *Node)
	Exit(n *Node)
}

// Walk traverses the tree rooted at root depth-first, children in source
// order.
func Walk(root *Node, l Listener) {
	if root == nil {
		return
	}
	l.Enter(root)
	for _, child := range root.Children {
		Walk(child, l)
	}
	l.Exit(root)
}

// KindListener dispatches Walk callbacks by node kind. Kinds without a
// registered callback are passed over.
//
//	var methods int
//	l := parser.NewKindListener()
//	l.OnEnter(parser.KindMethodDecl, func(*parser.Node) { methods++ })
//	parser.Walk(root, l)
type KindListener struct {
	enter map[NodeKind]func(*Node)
	exit  map[NodeKind]func(*Node)
}

func NewKindListener() *KindListener {
	return &KindListener{
		enter: make(map[NodeKind]func(*Node)),
		exit:  make(map[NodeKind]func(*Node)),
	}
}

func (l *KindListener) OnEnter(kind NodeKind, fn func(*Node)) *KindListener {
	l.enter[kind] = fn
	return l
}

func (l *KindListener) OnExit(kind NodeKind, fn func(*Node)) *KindListener {
	l.exit[kind] = fn
	return l
}

func (l *KindListener) Enter(n *Node) {
	if fn := l.enter[n.Kind]; fn != nil {
		fn(n)
	}
}

func (l *KindListener) Exit(n *Node) {
	if fn := l.exit[n.Kind]; fn != nil {
		fn(n)
	}
}

// Visitor computes a value of type R for a tree. A handler registered for a
// kind decides the value of nodes of that kind; any other node visits its
// children and folds their values, starting from Default, with Combine.
//
// The zero Visitor returns the zero R for every node.
type Visitor[R any] struct {
	// Default is the value of a node with no handler and no children.
	Default R
	// Combine folds a child's value into the running result. A nil
	// Combine keeps the running result and discards child values.
	Combine  func(acc, child R) R
	handlers map[NodeKind]func(v *Visitor[R], n *Node) R
}

// Handle registers fn for nodes of kind. fn may call v.VisitChildren to
// keep descending.
func (v *Visitor[R]) Handle(kind NodeKind, fn func(v *Visitor[R], n *Node) R) *Visitor[R] {
	if v.handlers == nil {
		v.handlers = make(map[NodeKind]func(*Visitor[R], *Node) R)
	}
	v.handlers[kind] = fn
	return v
}

func (v *Visitor[R]) Visit(n *Node) R {
	if n == nil {
		return v.Default
	}
	if fn := v.handlers[n.Kind]; fn != nil {
		return fn(v, n)
	}
	return v.VisitChildren(n)
}

func (v *Visitor[R]) VisitChildren(n *Node) R {
	result := v.Default
	for _, child := range n.Children {
		value := v.Visit(child)
		if v.Combine != nil {
			result = v.Combine(result, value)
		}
	}
	return result
}
