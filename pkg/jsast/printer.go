package jsast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"
)

const indentUnit = "  "

// Render prints m to a byte slice.
func Render(m *Module) []byte {
	var buf bytes.Buffer
	p := &printer{buf: &buf}
	p.module(m)
	return buf.Bytes()
}

// Print writes the rendered module to w.
func Print(w io.Writer, m *Module) error {
	_, err := w.Write(Render(m))
	return err
}

type printer struct {
	buf    *bytes.Buffer
	indent int
}

func (p *printer) module(m *Module) {
	for _, line := range m.Header {
		p.buf.WriteString("// ")
		p.buf.WriteString(line)
		p.buf.WriteByte('\n')
	}
	if len(m.Header) > 0 && len(m.Body) > 0 {
		p.buf.WriteByte('\n')
	}
	for _, s := range m.Body {
		p.stmt(s)
	}
}

func (p *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case ImportDefault:
		fmt.Fprintf(p.buf, "import %s from %s;\n", s.Name, quote(s.From))
	case ImportNamed:
		names := make([]string, len(s.Specs))
		for i, spec := range s.Specs {
			if spec.TypeOnly {
				names[i] = "type " + spec.Name
			} else {
				names[i] = spec.Name
			}
		}
		fmt.Fprintf(p.buf, "import { %s } from %s;\n", strings.Join(names, ", "), quote(s.From))
	case ConstDecl:
		p.buf.WriteString("const ")
		p.buf.WriteString(s.Name)
		if s.Type != "" {
			p.buf.WriteString(": ")
			p.buf.WriteString(s.Type)
		}
		p.buf.WriteString(" = ")
		p.expr(s.Value)
		p.buf.WriteString(";\n")
	case ExportDefault:
		p.buf.WriteString("export default ")
		p.expr(s.Value)
		p.buf.WriteString(";\n")
	case Blank:
		p.buf.WriteByte('\n')
	default:
		panic(fmt.Sprintf("jsast: unknown statement %T", s))
	}
}

func (p *printer) expr(e Expr) {
	switch e := e.(type) {
	case Ident:
		p.buf.WriteString(string(e))
	case String:
		p.buf.WriteString(quote(string(e)))
	case Bool:
		if e {
			p.buf.WriteString("true")
		} else {
			p.buf.WriteString("false")
		}
	case Array:
		if len(e) == 0 {
			p.buf.WriteString("[]")
			return
		}
		p.buf.WriteString("[\n")
		p.indent++
		for i, el := range e {
			p.writeIndent()
			p.expr(el)
			if i < len(e)-1 {
				p.buf.WriteByte(',')
			}
			p.buf.WriteByte('\n')
		}
		p.indent--
		p.writeIndent()
		p.buf.WriteByte(']')
	case Object:
		if len(e) == 0 {
			p.buf.WriteString("{}")
			return
		}
		p.buf.WriteString("{\n")
		p.indent++
		for i, prop := range e {
			p.writeIndent()
			p.buf.WriteString(propertyKey(prop.Key))
			p.buf.WriteString(": ")
			p.expr(prop.Value)
			if i < len(e)-1 {
				p.buf.WriteByte(',')
			}
			p.buf.WriteByte('\n')
		}
		p.indent--
		p.writeIndent()
		p.buf.WriteByte('}')
	case Member:
		p.expr(e.Object)
		p.buf.WriteByte('.')
		p.buf.WriteString(e.Property)
	case Call:
		p.expr(e.Callee)
		p.buf.WriteByte('(')
		for i, arg := range e.Args {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.expr(arg)
		}
		p.buf.WriteByte(')')
	default:
		panic(fmt.Sprintf("jsast: unknown expression %T", e))
	}
}

func (p *printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString(indentUnit)
	}
}

// quote returns s as a double-quoted string literal. JSON string escaping is
// a subset of what ECMAScript accepts, including U+2028 and U+2029.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// propertyKey prints identifier-safe keys bare and quotes the rest.
func propertyKey(key string) string {
	if IsIdentifier(key) {
		return key
	}
	return quote(key)
}

// IsIdentifier reports whether s is a valid ECMAScript identifier name made of
// letters, digits, '_' and '$'.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
