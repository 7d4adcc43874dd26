package lint

import (
	"github.com/boundlint/boundlint/issue"
	"github.com/boundlint/boundlint/project"
)

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithParser replaces the default Elixir parser, e.g. with a stub in tests.
func WithParser(parser Parser) Option {
	return func(e *Engine) {
		e.parser = parser
	}
}

// WithFileSystem replaces the default local filesystem. Placement checks
// probe existence through it, so tests can substitute an in-memory tree.
func WithFileSystem(fs project.FileSystem) Option {
	return func(e *Engine) {
		e.fs = fs
	}
}

// WithBaseline suppresses findings accepted in the baseline.
func WithBaseline(baseline *issue.Baseline) Option {
	return func(e *Engine) {
		e.baseline = baseline
	}
}

// WithWorkers sets the number of concurrent per-file workers.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}
