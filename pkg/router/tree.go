package router

import (
	"path"
	"strings"
)

// node is a node in the radix tree the Router matches against.
type node struct {
	// segment is the path segment this node matches
	segment string

	// isParam indicates this is a parameter segment (:id)
	isParam bool

	// isCatchAll indicates this is a splat segment (*)
	isCatchAll bool

	// entry is the route rendered when matching ends here
	entry *entry

	// children are static segment children
	children []*node

	// paramChild is the dynamic parameter child (:id)
	paramChild *node

	// catchAllChild is the splat child (*)
	catchAllChild *node
}

// entry is a registered route and the element chain that renders it.
type entry struct {
	route    *RouteNode
	pattern  string
	elements []string

	// depth is the nesting level of route in the tree. A deeper route wins
	// over a shallower one registered at the same pattern (index over layout).
	depth int
}

func newNode(segment string) *node {
	return &node{
		segment: segment,
	}
}

// findChild finds a child node with an exact segment match.
func (n *node) findChild(segment string) *node {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

// addChild adds or retrieves a child node for the given segment.
func (n *node) addChild(segment string) *node {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := newNode(segment)
	n.children = append(n.children, child)
	return child
}

// addParamChild sets the parameter child node. Parameter names are per
// pattern, so an existing child is reused regardless of its name.
func (n *node) addParamChild() *node {
	if n.paramChild == nil {
		n.paramChild = newNode("")
		n.paramChild.isParam = true
	}
	return n.paramChild
}

func (n *node) addCatchAllChild() *node {
	if n.catchAllChild == nil {
		n.catchAllChild = newNode("")
		n.catchAllChild.isCatchAll = true
	}
	return n.catchAllChild
}

// insert registers e at its pattern.
func (n *node) insert(e *entry) {
	current := n
	for _, seg := range splitPath(e.pattern) {
		if strings.HasPrefix(seg, "*") {
			current = current.addCatchAllChild()
			break
		} else if strings.HasPrefix(seg, ":") {
			current = current.addParamChild()
		} else {
			current = current.addChild(seg)
		}
	}
	if current.entry == nil || e.depth > current.entry.depth {
		current.entry = e
	}
}

// match finds the node matching segments, recording parameter values in
// order. Names are read back from the matched entry's pattern, since
// parameter nodes are shared between patterns. Static children win over
// parameters, parameters over splats.
func (n *node) match(segments []string, values *[]string) (*node, bool) {
	if len(segments) == 0 {
		if n.entry != nil {
			return n, true
		}
		// A splat also matches an empty remainder.
		if n.catchAllChild != nil && n.catchAllChild.entry != nil {
			*values = append(*values, "")
			return n.catchAllChild, true
		}
		return nil, false
	}

	segment := segments[0]
	remaining := segments[1:]

	if child := n.findChild(segment); child != nil {
		if found, ok := child.match(remaining, values); ok {
			return found, true
		}
	}

	if n.paramChild != nil {
		*values = append(*values, segment)
		if found, ok := n.paramChild.match(remaining, values); ok {
			return found, true
		}
		// Backtrack on failure
		*values = (*values)[:len(*values)-1]
	}

	if n.catchAllChild != nil && n.catchAllChild.entry != nil {
		*values = append(*values, strings.Join(segments, "/"))
		return n.catchAllChild, true
	}

	return nil, false
}

// splitPath splits a path into segments.
func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// joinPath resolves a route's path against its parent's full path. Absolute
// paths replace the parent's; an empty path inherits it.
func joinPath(parent, p string) string {
	if p == "" {
		return parent
	}
	if strings.HasPrefix(p, "/") {
		return path.Clean(p)
	}
	return path.Clean(parent + "/" + p)
}

// paramNames lists the parameter names of a pattern in order.
func paramNames(pattern string) []string {
	var names []string
	for _, seg := range splitPath(pattern) {
		switch {
		case strings.HasPrefix(seg, ":"):
			names = append(names, seg[1:])
		case strings.HasPrefix(seg, "*"):
			names = append(names, "*")
		}
	}
	return names
}
