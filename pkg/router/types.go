package router

// RouteNode is one route in the generated tree.
//
// The JSON shape matches the route objects emitted into the generated module,
// with Element holding the import reference instead of a component.
type RouteNode struct {
	// Index marks the default child route of the parent.
	Index bool `json:"index,omitempty"`

	// Path is the URL fragment this node contributes. Empty means absent.
	Path string `json:"path,omitempty"`

	// Element is the import reference of the component that renders this route.
	Element string `json:"element,omitempty"`

	// Children are nested routes in directory traversal order.
	Children []RouteNode `json:"children,omitempty"`

	// Source is the file the node was built from (layout or route file).
	Source string `json:"-"`
}

// NodeKind describes what a RouteNode contributes to the tree.
type NodeKind int

const (
	// KindEmpty nodes carry neither an element nor children and are never emitted.
	KindEmpty NodeKind = iota

	// KindLeaf nodes render an element and have no children.
	KindLeaf

	// KindLayout nodes render an element that wraps their children.
	KindLayout

	// KindGroup nodes only group children under a path.
	KindGroup
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindLayout:
		return "layout"
	case KindGroup:
		return "group"
	default:
		return "empty"
	}
}

// Kind reports the node's kind from its element and children.
func (n RouteNode) Kind() NodeKind {
	hasElement := n.Element != ""
	hasChildren := len(n.Children) > 0
	switch {
	case hasElement && hasChildren:
		return KindLayout
	case hasElement:
		return KindLeaf
	case hasChildren:
		return KindGroup
	default:
		return KindEmpty
	}
}

// Walk visits nodes depth-first in pre-order. Returning false from fn skips
// the node's children.
func Walk(routes []RouteNode, fn func(n RouteNode, depth int) bool) {
	walk(routes, 0, fn)
}

func walk(routes []RouteNode, depth int, fn func(n RouteNode, depth int) bool) {
	for _, n := range routes {
		if fn(n, depth) {
			walk(n.Children, depth+1, fn)
		}
	}
}

// CountRoutes returns the number of nodes in the tree.
func CountRoutes(routes []RouteNode) int {
	count := 0
	Walk(routes, func(RouteNode, int) bool {
		count++
		return true
	})
	return count
}
