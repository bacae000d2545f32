package jsast

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// SyntaxError reports parse failures for a rendered module.
type SyntaxError struct {
	File     string
	Messages []string
}

func (e *SyntaxError) Error() string {
	if len(e.Messages) == 1 {
		return e.Messages[0]
	}
	return fmt.Sprintf("%d syntax errors in %s:\n  %s", len(e.Messages), e.File, strings.Join(e.Messages, "\n  "))
}

// Validate parses src with esbuild as TSX. Modules printed by this package
// carry type annotations whatever file they are written to, so filename only
// labels the error messages.
func Validate(src []byte, filename string) error {
	result := api.Transform(string(src), api.TransformOptions{
		Loader:     api.LoaderTSX,
		Format:     api.FormatESModule,
		Sourcefile: filename,
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors))
	for _, m := range result.Errors {
		if m.Location != nil {
			msgs = append(msgs, fmt.Sprintf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, m.Text))
			continue
		}
		msgs = append(msgs, m.Text)
	}
	return &SyntaxError{File: filename, Messages: msgs}
}
