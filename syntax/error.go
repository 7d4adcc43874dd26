package syntax

import "fmt"

// ParseError reports that a source file could not be parsed into a usable
// tree. It is scoped to one file: the engine converts it into a single issue
// and keeps analyzing the rest of the project.
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}
