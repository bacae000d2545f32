package router

import (
	"encoding/json"
	"strconv"

	"github.com/vango-dev/routegen/pkg/jsast"
)

// GeneratedHeader marks generated files.
const GeneratedHeader = "Code generated by routegen. DO NOT EDIT."

// GeneratorOptions configures module generation.
type GeneratorOptions struct {
	// IdentPrefix prefixes the synthetic component identifiers (default "RouteComp").
	IdentPrefix string

	// ReactModule provides createElement (default "react").
	ReactModule string

	// RuntimeModule provides the route object type (default "react-router").
	RuntimeModule string

	// RouteType is the route object type name (default "RouteObject").
	RouteType string
}

func (o GeneratorOptions) withDefaults() GeneratorOptions {
	if o.IdentPrefix == "" {
		o.IdentPrefix = "RouteComp"
	}
	if o.ReactModule == "" {
		o.ReactModule = "react"
	}
	if o.RuntimeModule == "" {
		o.RuntimeModule = "react-router"
	}
	if o.RouteType == "" {
		o.RouteType = "RouteObject"
	}
	return o
}

// Generator turns route trees into importable modules.
// Output is a pure function of the tree: identifiers are allocated per call.
type Generator struct {
	opts GeneratorOptions
}

// NewGenerator creates a generator.
func NewGenerator(opts GeneratorOptions) *Generator {
	return &Generator{opts: opts.withDefaults()}
}

// Generate renders the module source for routes.
func (g *Generator) Generate(routes []RouteNode) []byte {
	return jsast.Render(g.Module(routes))
}

// Module builds the module syntax tree for routes.
func (g *Generator) Module(routes []RouteNode) *jsast.Module {
	alloc := newIdentAllocator(g.opts.IdentPrefix)
	array := g.routeArray(routes, alloc)

	m := &jsast.Module{Header: []string{GeneratedHeader}}
	for _, imp := range alloc.imports {
		m.Add(imp)
	}
	m.Add(
		jsast.ImportDefault{Name: "React", From: g.opts.ReactModule},
		jsast.ImportNamed{
			Specs: []jsast.ImportSpec{{Name: g.opts.RouteType, TypeOnly: true}},
			From:  g.opts.RuntimeModule,
		},
		jsast.Blank{},
		jsast.ConstDecl{Name: "routes", Type: g.opts.RouteType + "[]", Value: array},
		jsast.Blank{},
		jsast.ExportDefault{Value: jsast.Ident("routes")},
	)
	return m
}

// routeArray converts nodes depth-first, allocating identifiers in visit order.
func (g *Generator) routeArray(routes []RouteNode, alloc *identAllocator) jsast.Array {
	array := make(jsast.Array, 0, len(routes))
	for _, n := range routes {
		array = append(array, g.routeObject(n, alloc))
	}
	return array
}

func (g *Generator) routeObject(n RouteNode, alloc *identAllocator) jsast.Object {
	var obj jsast.Object
	if n.Index {
		obj = append(obj, jsast.Property{Key: "index", Value: jsast.Bool(true)})
	}
	if n.Path != "" {
		obj = append(obj, jsast.Property{Key: "path", Value: jsast.String(n.Path)})
	}
	if n.Element != "" {
		ident := alloc.ident(n.Element)
		obj = append(obj, jsast.Property{Key: "element", Value: jsast.Call{
			Callee: jsast.Member{Object: jsast.Ident("React"), Property: "createElement"},
			Args:   []jsast.Expr{jsast.Ident(ident)},
		}})
	}
	if len(n.Children) > 0 {
		obj = append(obj, jsast.Property{Key: "children", Value: g.routeArray(n.Children, alloc)})
	}
	return obj
}

// Manifest renders routes as indented JSON with elements as import references.
func (g *Generator) Manifest(routes []RouteNode) ([]byte, error) {
	if routes == nil {
		routes = []RouteNode{}
	}
	data, err := json.MarshalIndent(routes, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// identAllocator hands out one identifier per distinct element reference.
type identAllocator struct {
	prefix  string
	next    int
	byRef   map[string]string
	imports []jsast.ImportDefault
}

func newIdentAllocator(prefix string) *identAllocator {
	return &identAllocator{prefix: prefix, byRef: make(map[string]string)}
}

func (a *identAllocator) ident(ref string) string {
	if name, ok := a.byRef[ref]; ok {
		return name
	}
	name := a.prefix + strconv.Itoa(a.next)
	a.next++
	a.byRef[ref] = name
	a.imports = append(a.imports, jsast.ImportDefault{Name: name, From: ref})
	return name
}
