package router

import (
	"fmt"
	"sort"
	"strings"
)

// Validator checks a route tree for conflicts the router runtime would reject
// or resolve ambiguously.
type Validator struct {
	routes []RouteNode
	errors []ValidationError
}

// ValidationError represents a route validation error.
type ValidationError struct {
	// Type is the error category
	Type ValidationErrorType

	// Message is the human-readable error message
	Message string

	// Files are the source files involved
	Files []string

	// Path is the full URL pattern involved
	Path string
}

func (e ValidationError) Error() string {
	if len(e.Files) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, strings.Join(e.Files, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ValidationErrorType categorizes validation errors.
type ValidationErrorType string

const (
	// ErrorDuplicateRoute indicates two routes resolve to the same URL pattern.
	// Example: users/[id].tsx and users/[uid]/index.tsx both resolve to /users/:id
	ErrorDuplicateRoute ValidationErrorType = "DUPLICATE_ROUTE"

	// ErrorMultipleIndex indicates more than one index route in a sibling group.
	ErrorMultipleIndex ValidationErrorType = "MULTIPLE_INDEX"

	// ErrorIndexChildren indicates an index route that has children.
	ErrorIndexChildren ValidationErrorType = "INDEX_WITH_CHILDREN"

	// ErrorEmptyNode indicates a node with neither an element nor children.
	ErrorEmptyNode ValidationErrorType = "EMPTY_NODE"

	// ErrorSplatNotLast indicates a splat segment followed by more segments.
	// Example: [...rest]/edit.tsx resolves to /*/edit
	ErrorSplatNotLast ValidationErrorType = "SPLAT_NOT_LAST"
)

// MultiValidationError wraps multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d route validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// NewValidator creates a new route validator.
func NewValidator(routes []RouteNode) *Validator {
	return &Validator{
		routes: routes,
	}
}

// Validate checks the tree. Returns nil if the routes are valid, or a
// MultiValidationError with every problem found.
func (v *Validator) Validate() error {
	v.errors = nil

	v.validateNodes(v.routes, "/")
	v.validateDuplicateRoutes()

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

// Errors returns the errors found by the last Validate call.
func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// validateNodes checks per-node and per-sibling-group rules.
func (v *Validator) validateNodes(nodes []RouteNode, parent string) {
	var indexes []RouteNode
	for _, n := range nodes {
		full := joinPath(parent, n.Path)

		if n.Index {
			indexes = append(indexes, n)
			if len(n.Children) > 0 {
				v.errors = append(v.errors, ValidationError{
					Type:    ErrorIndexChildren,
					Message: fmt.Sprintf("index route at %s cannot have children", full),
					Files:   sources(n),
					Path:    full,
				})
			}
		}

		if n.Kind() == KindEmpty {
			v.errors = append(v.errors, ValidationError{
				Type:    ErrorEmptyNode,
				Message: fmt.Sprintf("route %s has no element and no children", full),
				Files:   sources(n),
				Path:    full,
			})
		}

		if segs := splitPath(full); len(segs) > 1 {
			for _, seg := range segs[:len(segs)-1] {
				if strings.HasPrefix(seg, "*") {
					v.errors = append(v.errors, ValidationError{
						Type:    ErrorSplatNotLast,
						Message: fmt.Sprintf("splat segment must be last in %s", full),
						Files:   sources(n),
						Path:    full,
					})
					break
				}
			}
		}

		v.validateNodes(n.Children, full)
	}

	if len(indexes) > 1 {
		files := make([]string, 0, len(indexes))
		for _, n := range indexes {
			files = append(files, sources(n)...)
		}
		v.errors = append(v.errors, ValidationError{
			Type:    ErrorMultipleIndex,
			Message: fmt.Sprintf("%d index routes under %s", len(indexes), parent),
			Files:   files,
			Path:    parent,
		})
	}
}

// validateDuplicateRoutes checks for routes that render at the same URL
// pattern. Layouts share their path with their index child, so only leaves
// are compared. Parameter names are ignored: /users/:id and /users/:uid
// conflict.
func (v *Validator) validateDuplicateRoutes() {
	byPattern := make(map[string][]string)
	display := make(map[string]string)
	forEachLeaf(v.routes, "/", func(n RouteNode, full string) {
		key := patternKey(full)
		byPattern[key] = append(byPattern[key], n.Source)
		if _, ok := display[key]; !ok {
			display[key] = full
		}
	})

	keys := make([]string, 0, len(byPattern))
	for k := range byPattern {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		files := byPattern[key]
		if len(files) <= 1 {
			continue
		}
		v.errors = append(v.errors, ValidationError{
			Type:    ErrorDuplicateRoute,
			Message: fmt.Sprintf("%d routes resolve to %s", len(files), display[key]),
			Files:   nonEmpty(files),
			Path:    display[key],
		})
	}
}

// forEachLeaf calls fn with every element-bearing node without children and
// its full path.
func forEachLeaf(nodes []RouteNode, parent string, fn func(n RouteNode, full string)) {
	for _, n := range nodes {
		full := joinPath(parent, n.Path)
		if n.Kind() == KindLeaf {
			fn(n, full)
			continue
		}
		forEachLeaf(n.Children, full, fn)
	}
}

// patternKey normalizes parameter names out of a full path.
func patternKey(full string) string {
	segs := splitPath(full)
	for i, seg := range segs {
		switch {
		case strings.HasPrefix(seg, ":"):
			segs[i] = ":"
		case strings.HasPrefix(seg, "*"):
			segs[i] = "*"
		}
	}
	return "/" + strings.Join(segs, "/")
}

func sources(n RouteNode) []string {
	if n.Source == "" {
		return nil
	}
	return []string{n.Source}
}

func nonEmpty(files []string) []string {
	out := files[:0:0]
	for _, f := range files {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
