// Package errors provides structured, actionable error messages for routegen.
//
// # Error Categories
//
// Errors are organized into categories:
//   - config: configuration file and value errors
//   - scan: route directory traversal errors
//   - generate: module generation and validation errors
//   - output: write and publish errors
//   - routes: route list errors raised when loading a generated list
//   - watch: file watcher errors
//   - cli: command line usage errors
//
// # Error Codes
//
// Each error has a unique code (e.g., "E150") that maps to a short message,
// a detailed explanation and, where one exists, a suggested fix.
//
// # Usage
//
//	err := errors.New(errors.CodeRootMissing).
//	    WithDetail("src/routes does not exist").
//	    Wrap(cause)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E121: Route root not found
//	//
//	//   src/routes does not exist
//	//
//	//   Hint: Create the directory or set "root" in routegen.json
//
// FromError maps the sentinel errors of pkg/router and pkg/jsast onto their
// codes, so callers can wrap any failure without inspecting it first.
package errors
