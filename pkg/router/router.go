package router

import "strings"

// Router matches URL paths against a route tree.
type Router struct {
	root    *node
	routes  []RouteNode
	entries []*entry
}

// MatchResult is the outcome of a successful Match.
type MatchResult struct {
	// Route is the matched route node.
	Route *RouteNode

	// Pattern is the full pattern the route is registered at.
	Pattern string

	// Elements are the element references that render the match, outermost
	// layout first and the matched route last.
	Elements []string

	// Params are the values of dynamic segments; a splat is stored under "*".
	Params map[string]string
}

// RouteInfo describes one registered route.
type RouteInfo struct {
	Pattern  string
	Index    bool
	Elements []string
	Source   string
}

// NewRouter validates routes and builds a router from them. An empty route
// list is rejected with ErrEmptyRoutes.
func NewRouter(routes []RouteNode) (*Router, error) {
	if len(routes) == 0 {
		return nil, ErrEmptyRoutes
	}
	if err := NewValidator(routes).Validate(); err != nil {
		return nil, err
	}

	r := &Router{
		root:   newNode(""),
		routes: routes,
	}
	r.register(r.routes, "/", nil, 0)
	return r, nil
}

// register inserts every element-bearing node with its layout chain.
func (r *Router) register(nodes []RouteNode, parent string, chain []string, depth int) {
	for i := range nodes {
		n := &nodes[i]
		full := joinPath(parent, n.Path)

		elements := chain
		if n.Element != "" {
			elements = append(append([]string(nil), chain...), n.Element)
			e := &entry{
				route:    n,
				pattern:  full,
				elements: elements,
				depth:    depth,
			}
			r.entries = append(r.entries, e)
			r.root.insert(e)
		}

		r.register(n.Children, full, elements, depth+1)
	}
}

// Match finds the route rendering path. The path is canonicalized first and
// parameter values are percent-decoded; paths rejected by CanonicalizePath
// and parameters smuggling an encoded slash do not match.
func (r *Router) Match(path string) (*MatchResult, bool) {
	canonical, err := CanonicalizePath(path)
	if err != nil {
		return nil, false
	}
	segments, err := decodeSegments(canonical)
	if err != nil {
		return nil, false
	}

	var values []string
	found, ok := r.root.match(segments, &values)
	if !ok {
		return nil, false
	}

	e := found.entry
	params := make(map[string]string, len(values))
	for i, name := range paramNames(e.pattern) {
		if i >= len(values) {
			break
		}
		if name != "*" && strings.Contains(values[i], "/") {
			return nil, false
		}
		params[name] = values[i]
	}

	return &MatchResult{
		Route:    e.route,
		Pattern:  e.pattern,
		Elements: append([]string(nil), e.elements...),
		Params:   params,
	}, true
}

// Routes returns the route tree the router was built from.
func (r *Router) Routes() []RouteNode {
	return r.routes
}

// Patterns lists registered routes in tree order.
func (r *Router) Patterns() []RouteInfo {
	out := make([]RouteInfo, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, RouteInfo{
			Pattern:  e.pattern,
			Index:    e.route.Index,
			Elements: append([]string(nil), e.elements...),
			Source:   e.route.Source,
		})
	}
	return out
}
