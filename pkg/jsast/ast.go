// Package jsast is a small syntax tree for the ES modules routegen emits.
//
// Modules are built as data (imports, declarations, expressions) and printed
// in one pass, so generated code never goes through string splicing:
//
//	m := &jsast.Module{}
//	m.Add(jsast.ImportDefault{Name: "Home", From: "./routes/index"})
//	m.Add(jsast.ConstDecl{
//	    Name:  "routes",
//	    Type:  "RouteObject[]",
//	    Value: jsast.Array{jsast.Call{Callee: jsast.Member{Object: jsast.Ident("React"), Property: "createElement"}, Args: []jsast.Expr{jsast.Ident("Home")}}},
//	})
//	m.Add(jsast.ExportDefault{Value: jsast.Ident("routes")})
//	src := jsast.Render(m)
package jsast

// Stmt is a top-level module statement.
type Stmt interface {
	stmt()
}

// Expr is an expression.
type Expr interface {
	expr()
}

// Module is an ES module: header comments followed by statements.
type Module struct {
	// Header lines are printed as line comments before the first statement.
	Header []string

	Body []Stmt
}

// Add appends statements to the module body.
func (m *Module) Add(stmts ...Stmt) {
	m.Body = append(m.Body, stmts...)
}

// Imports returns the module's import statements in order.
func (m *Module) Imports() []Stmt {
	var out []Stmt
	for _, s := range m.Body {
		switch s.(type) {
		case ImportDefault, ImportNamed:
			out = append(out, s)
		}
	}
	return out
}

// ImportDefault is `import Name from "From";`.
type ImportDefault struct {
	Name string
	From string
}

// ImportSpec is one binding of a named import.
type ImportSpec struct {
	Name string

	// TypeOnly marks a TypeScript `type` binding.
	TypeOnly bool
}

// ImportNamed is `import { a, type B } from "From";`.
type ImportNamed struct {
	Specs []ImportSpec
	From  string
}

// ConstDecl is `const Name: Type = Value;`. Type is optional.
type ConstDecl struct {
	Name  string
	Type  string
	Value Expr
}

// ExportDefault is `export default Value;`.
type ExportDefault struct {
	Value Expr
}

// Blank prints an empty line between statements.
type Blank struct{}

func (ImportDefault) stmt() {}
func (ImportNamed) stmt()   {}
func (ConstDecl) stmt()     {}
func (ExportDefault) stmt() {}
func (Blank) stmt()         {}

// Ident is an identifier reference.
type Ident string

// String is a string literal.
type String string

// Bool is a boolean literal.
type Bool bool

// Array is an array literal.
type Array []Expr

// Property is one key/value entry of an object literal.
type Property struct {
	Key   string
	Value Expr
}

// Object is an object literal whose properties print in order.
type Object []Property

// Member is `Object.Property`.
type Member struct {
	Object   Expr
	Property string
}

// Call is `Callee(Args...)`.
type Call struct {
	Callee Expr
	Args   []Expr
}

func (Ident) expr()  {}
func (String) expr() {}
func (Bool) expr()   {}
func (Array) expr()  {}
func (Object) expr() {}
func (Member) expr() {}
func (Call) expr()   {}
