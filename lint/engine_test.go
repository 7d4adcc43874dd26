package lint

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/boundlint/boundlint/config"
	"github.com/boundlint/boundlint/issue"
	"github.com/boundlint/boundlint/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeParser serves pre-built trees per path, standing in for the Elixir
// parser so engine tests exercise the driver alone.
type fakeParser struct {
	trees  map[string]*syntax.Tree
	broken map[string]error
}

func (p *fakeParser) Parse(path string, _ []byte) (*syntax.Tree, error) {
	if err, ok := p.broken[path]; ok {
		return nil, err
	}
	tree, ok := p.trees[path]
	if !ok {
		return &syntax.Tree{Path: path, Root: &syntax.Block{}}, nil
	}
	return tree, nil
}

func newTestEngine(t *testing.T, parser *fakeParser, files map[string]string, options ...Option) *Engine {
	options = append([]Option{
		WithParser(parser),
		WithFileSystem(newFakeFS(files)),
		WithWorkers(4),
	}, options...)
	engine, err := New(nil, options...)
	require.NoError(t, err)
	return engine
}

func TestEngine_Run(t *testing.T) {
	domainPath := "lib/my_app/accounts/domain/entities/user.ex"
	appPath := "lib/my_app/accounts/application.ex"
	cleanPath := "lib/my_app/accounts/domain/entities/token.ex"

	parser := &fakeParser{trees: map[string]*syntax.Tree{
		domainPath: tree(domainPath,
			mod("MyApp.Accounts.Domain.Entities.User",
				call(7, "Repo.insert", &syntax.Ident{Name: "changeset"}))),
		appPath: tree(appPath,
			mod("MyApp.Accounts.Application",
				useBoundary(2,
					aliasRef("MyApp.Accounts.Domain"),
					aliasRef("MyApp.Accounts.Infrastructure")))),
		cleanPath: tree(cleanPath,
			mod("MyApp.Accounts.Domain", useBoundary(2))),
	}}
	files := map[string]string{domainPath: "", appPath: "", cleanPath: ""}
	engine := newTestEngine(t, parser, files)

	report, err := engine.Run(context.Background(), []string{domainPath, appPath, cleanPath})
	require.NoError(t, err)
	require.Len(t, report.Issues, 2)
	assert.Equal(t, 3, report.Files)

	// Sorted by file path: application.ex before domain/entities/user.ex.
	forbidden := report.Issues[0]
	assert.Equal(t, config.RuleBoundaryForbiddenDep, forbidden.RuleID)
	assert.Equal(t, appPath, forbidden.File)
	assert.Equal(t, "MyApp.Accounts.Infrastructure", forbidden.Trigger)

	leakage := report.Issues[1]
	assert.Equal(t, config.RuleDomainNoPersistence, leakage.RuleID)
	assert.Equal(t, domainPath, leakage.File)
	assert.Equal(t, "Repo.insert", leakage.Trigger)
	assert.Equal(t, 7, leakage.Line)

	assert.False(t, report.Clean())
	assert.Equal(t, 2, report.ExitStatus())
}

func TestEngine_Deterministic(t *testing.T) {
	trees := map[string]*syntax.Tree{}
	files := map[string]string{}
	var paths []string
	for _, name := range []string{"alpha", "bravo", "charlie", "delta", "echo"} {
		path := "lib/my_app/" + name + "/domain/entity.ex"
		trees[path] = tree(path,
			mod("MyApp."+name+".Domain.Entity",
				call(3, "Repo.insert"),
				call(4, "File.read", &syntax.Literal{Text: `"x"`})))
		files[path] = ""
		paths = append(paths, path)
	}
	parser := &fakeParser{trees: trees}

	first, err := newTestEngine(t, parser, files).Run(context.Background(), paths)
	require.NoError(t, err)
	second, err := newTestEngine(t, parser, files).Run(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, first.Issues, second.Issues)
	assert.Len(t, first.Issues, 10)
}

func TestEngine_ParseErrorIsolated(t *testing.T) {
	goodPath := "lib/my_app/accounts/domain/user.ex"
	badPath := "lib/my_app/billing/invoice.ex"

	parser := &fakeParser{
		trees: map[string]*syntax.Tree{
			goodPath: tree(goodPath,
				mod("MyApp.Accounts.Domain.User", call(5, "Repo.insert"))),
		},
		broken: map[string]error{
			badPath: &syntax.ParseError{Path: badPath, Line: 3, Message: "syntax error"},
		},
	}
	files := map[string]string{goodPath: "", badPath: ""}
	engine := newTestEngine(t, parser, files)

	report, err := engine.Run(context.Background(), []string{badPath, goodPath})
	require.NoError(t, err)
	require.Len(t, report.Issues, 2)

	assert.Equal(t, config.RuleDomainNoPersistence, report.Issues[0].RuleID)
	assert.Equal(t, goodPath, report.Issues[0].File)

	parseIssue := report.Issues[1]
	assert.Equal(t, config.RuleParseError, parseIssue.RuleID)
	assert.Equal(t, badPath, parseIssue.File)
	assert.Equal(t, 3, parseIssue.Line)
}

func TestEngine_UnreadableFile(t *testing.T) {
	path := "lib/my_app/missing.ex"
	engine := newTestEngine(t, &fakeParser{}, nil)

	report, err := engine.Run(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, config.RuleParseError, report.Issues[0].RuleID)
	assert.Contains(t, report.Issues[0].Message, "cannot read file")
}

func TestEngine_PlacementRunsWithoutTree(t *testing.T) {
	// A file that fails to parse still gets path-only checks.
	path := "lib/my_app/accounts/user_policy.ex"
	parser := &fakeParser{broken: map[string]error{
		path: &syntax.ParseError{Path: path, Line: 1, Message: "syntax error"},
	}}
	engine := newTestEngine(t, parser, map[string]string{path: ""})

	report, err := engine.Run(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, report.Issues, 2)
	assert.Equal(t, config.RuleParseError, report.Issues[0].RuleID)
	assert.Equal(t, config.RulePolicyPlacement, report.Issues[1].RuleID)
}

func TestEngine_BaselineSuppression(t *testing.T) {
	path := "lib/my_app/accounts/domain/user.ex"
	parser := &fakeParser{trees: map[string]*syntax.Tree{
		path: tree(path, mod("MyApp.Accounts.Domain.User", call(5, "Repo.insert"))),
	}}
	files := map[string]string{path: ""}

	report, err := newTestEngine(t, parser, files).Run(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)

	baselinePath := filepath.Join(t.TempDir(), "baseline.toml")
	require.NoError(t, issue.WriteBaseline(baselinePath, report.Issues))
	baseline, err := issue.LoadBaseline(baselinePath)
	require.NoError(t, err)

	frozen, err := newTestEngine(t, parser, files, WithBaseline(baseline)).
		Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Empty(t, frozen.Issues)
	assert.Equal(t, 0, frozen.ExitStatus())
}

func TestEngine_ConfigurationErrors(t *testing.T) {
	t.Run("unknown check id", func(t *testing.T) {
		cfg := config.Default()
		cfg.Checks["no-such-check"] = config.Check{Severity: "error"}
		_, err := New(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no-such-check")
	})

	t.Run("malformed layer pattern", func(t *testing.T) {
		cfg := config.Default()
		cfg.Layers.Domain.Patterns = []string{`[broken`}
		_, err := New(cfg)
		require.Error(t, err)
	})

	t.Run("out of range threshold", func(t *testing.T) {
		cfg := config.Default()
		check := cfg.Checks[config.RuleWithChainComplexity]
		zero := 0
		check.Threshold = &zero
		cfg.Checks[config.RuleWithChainComplexity] = check
		_, err := New(cfg)
		require.Error(t, err)
	})
}

func TestEngine_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	engine := newTestEngine(t, &fakeParser{}, nil)
	_, err := engine.Run(ctx, []string{"lib/a.ex", "lib/b.ex"})
	assert.ErrorIs(t, err, context.Canceled)
}
