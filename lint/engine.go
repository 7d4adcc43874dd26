package lint

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/boundlint/boundlint/config"
	"github.com/boundlint/boundlint/issue"
	"github.com/boundlint/boundlint/project"
	"github.com/boundlint/boundlint/syntax"
	"github.com/boundlint/boundlint/syntax/elixir"
)

// Parser turns source text into a syntax tree. The boundlint engine treats
// parsing as a supplied capability; syntax/elixir provides the default.
type Parser interface {
	Parse(path string, src []byte) (*syntax.Tree, error)
}

// Engine runs the full analysis: per-file classification, extraction and
// rule visitation in parallel, then the cross-module boundary validation
// once all files are in. Configuration errors surface at construction;
// per-file errors never abort a run.
type Engine struct {
	cfg        *config.Config
	classifier *Classifier
	catalog    *catalog
	validator  *boundaryValidator
	parseRule  rule

	parser   Parser
	fs       project.FileSystem
	baseline *issue.Baseline
	workers  int
}

// New builds an engine for the given configuration, nil meaning defaults.
func New(cfg *config.Config, options ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	classifier, err := NewClassifier(cfg.Layers)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	e := &Engine{
		cfg:        cfg,
		classifier: classifier,
		parser:     elixir.NewParser(),
		fs:         project.New(),
		workers:    runtime.NumCPU(),
	}
	for _, option := range options {
		option(e)
	}

	e.catalog, err = buildCatalog(cfg, classifier, e.fs)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	forbidden, err := newRule(config.RuleBoundaryForbiddenDep, issue.CategoryDesign, cfg.Checks[config.RuleBoundaryForbiddenDep])
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	missing, err := newRule(config.RuleBoundaryMissingDep, issue.CategoryDesign, cfg.Checks[config.RuleBoundaryMissingDep])
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	e.validator = &boundaryValidator{forbidden: forbidden, missing: missing}
	e.parseRule, err = newRule(config.RuleParseError, issue.CategoryWarning, cfg.Checks[config.RuleParseError])
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return e, nil
}

// Report is the outcome of one run: the ordered issue list and the file
// count analyzed.
type Report struct {
	Issues []issue.Issue
	Files  int
}

// Clean reports whether the run produced no issues.
func (r *Report) Clean() bool { return len(r.Issues) == 0 }

// ExitStatus aggregates the per-rule configured exit statuses: the maximum
// across all reported issues, 0 when clean.
func (r *Report) ExitStatus() int { return issue.MaxExitStatus(r.Issues) }

// Run analyzes the given files. Per-file work runs on independent workers;
// the issue list is collected index-addressed and sorted afterwards, so the
// output order is deterministic regardless of scheduling. The boundary
// validator runs strictly after every file's results are available.
func (e *Engine) Run(ctx context.Context, files []string) (*Report, error) {
	units := make([]*SourceUnit, len(files))
	perFile := make([][]issue.Issue, len(files))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				units[i], perFile[i] = e.analyzeFile(files[i])
			}
		}()
	}
feed:
	for i := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var issues []issue.Issue
	for _, fileIssues := range perFile {
		issues = append(issues, fileIssues...)
	}
	issues = append(issues, e.validator.Validate(units)...)
	for _, check := range e.catalog.projectChecks {
		issues = append(issues, check.CheckProject(units)...)
	}

	if e.baseline != nil {
		issues = e.baseline.Filter(issues)
	}
	issue.Sort(issues)
	return &Report{Issues: issues, Files: len(files)}, nil
}

// analyzeFile builds the source unit for one file and runs every applicable
// per-file check. A file that cannot be read or parsed yields a single
// parse-error issue and an empty unit; placement checks still apply since
// they only need the path.
func (e *Engine) analyzeFile(path string) (*SourceUnit, []issue.Issue) {
	unit := &SourceUnit{Path: path}
	var issues []issue.Issue

	src, err := e.fs.ReadFile(path)
	if err != nil {
		issues = append(issues, e.parseIssue(unit, 0, fmt.Sprintf("cannot read file: %v", err)))
		return unit, append(issues, e.runFileChecks(unit)...)
	}
	tree, err := e.parser.Parse(path, src)
	if err != nil {
		line := 0
		var parseErr *syntax.ParseError
		if errors.As(err, &parseErr) {
			line = parseErr.Line
		}
		issues = append(issues, e.parseIssue(unit, line, fmt.Sprintf("cannot parse file: %v", err)))
		return unit, append(issues, e.runFileChecks(unit)...)
	}

	unit.Tree = tree
	if module := syntax.RootModule(tree); module != nil {
		unit.Module = ModuleRef(module.Name)
	}
	unit.Layer = e.classifier.Classify(path, unit.ModuleName())
	unit.Decl = e.declarationFor(unit)

	issues = append(issues, e.runChecks(unit)...)
	issues = append(issues, e.runFileChecks(unit)...)
	return unit, issues
}

// declarationFor picks the boundary declaration belonging to the unit's
// root module, falling back to the first one the file carries.
func (e *Engine) declarationFor(unit *SourceUnit) *Declaration {
	decls := ExtractDeclarations(unit.Tree)
	if len(decls) == 0 {
		return nil
	}
	for _, decl := range decls {
		if decl.Module.Equal(unit.Module) {
			return decl
		}
	}
	return decls[0]
}

// runChecks drives one tree walk shared by all applicable visitors.
func (e *Engine) runChecks(unit *SourceUnit) []issue.Issue {
	var applicable []Check
	for _, check := range e.catalog.checks {
		if check.Applicable(unit) {
			applicable = append(applicable, check)
		}
	}
	if len(applicable) == 0 {
		return nil
	}
	var issues []issue.Issue
	syntax.Walk(unit.Tree.Root, func(n syntax.Node) bool {
		for _, check := range applicable {
			issues = append(issues, check.Visit(n, unit)...)
		}
		return true
	})
	return issues
}

func (e *Engine) runFileChecks(unit *SourceUnit) []issue.Issue {
	var issues []issue.Issue
	for _, check := range e.catalog.fileChecks {
		issues = append(issues, check.CheckFile(unit)...)
	}
	return issues
}

func (e *Engine) parseIssue(unit *SourceUnit, line int, message string) issue.Issue {
	return e.parseRule.newIssue(unit, line, "", message)
}
