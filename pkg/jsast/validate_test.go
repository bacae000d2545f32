package jsast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsRenderedModule(t *testing.T) {
	m := &Module{}
	m.Add(
		ImportDefault{Name: "React", From: "react"},
		ImportNamed{Specs: []ImportSpec{{Name: "RouteObject", TypeOnly: true}}, From: "react-router"},
		ConstDecl{Name: "routes", Type: "RouteObject[]", Value: Array{}},
		ExportDefault{Value: Ident("routes")},
	)

	assert.NoError(t, Validate(Render(m), "routes.tsx"))
	assert.NoError(t, Validate([]byte("export default [];\n"), "routes.js"))
}

func TestValidateReportsSyntaxErrors(t *testing.T) {
	err := Validate([]byte("const routes = [\n"), "routes.tsx")
	require.Error(t, err)

	var syntax *SyntaxError
	require.True(t, errors.As(err, &syntax))
	assert.Equal(t, "routes.tsx", syntax.File)
	assert.NotEmpty(t, syntax.Messages)
	assert.Contains(t, syntax.Messages[0], "routes.tsx:")
}

func TestValidateIgnoresExtension(t *testing.T) {
	typed := []byte("import { type RouteObject } from \"react-router\";\nconst routes: RouteObject[] = [];\nexport default routes;\n")

	for _, name := range []string{"a.tsx", "a.ts", "a.jsx", "a.js", "a"} {
		assert.NoError(t, Validate(typed, name), name)
	}
}
