package lint

import (
	"fmt"

	"github.com/boundlint/boundlint/config"
	"github.com/boundlint/boundlint/issue"
	"github.com/boundlint/boundlint/syntax"
)

// The delegation-bypass family: application-layer modules and context
// facades orchestrate, they do not reach for persistence or infrastructure
// directly and they do not grow orchestration chains past the point where a
// dedicated use case is due.

// infraAliasCheck flags application and context modules aliasing or
// importing a module that classifies as infrastructure.
type infraAliasCheck struct {
	rule
	classifier *Classifier
	contexts   *contextMatcher
}

func newInfraAliasCheck(cfg config.Check, classifier *Classifier, contexts *contextMatcher) (*infraAliasCheck, error) {
	meta, err := newRule(config.RuleApplicationNoInfraAlias, issue.CategoryDesign, cfg)
	if err != nil {
		return nil, err
	}
	return &infraAliasCheck{rule: meta, classifier: classifier, contexts: contexts}, nil
}

func (c *infraAliasCheck) Applicable(u *SourceUnit) bool {
	if u.Tree == nil || c.excluded(u) {
		return false
	}
	return u.Layer == LayerApplication || c.contexts.Match(u)
}

func (c *infraAliasCheck) Visit(n syntax.Node, u *SourceUnit) []issue.Issue {
	directive, ok := n.(*syntax.Directive)
	if !ok || (directive.Kind != "alias" && directive.Kind != "import") {
		return nil
	}
	var issues []issue.Issue
	for _, ref := range directive.Aliases() {
		if c.classifier.Classify("", ref.Name()) != LayerInfrastructure {
			continue
		}
		issues = append(issues, c.newIssue(u, directive.Pos(), ref.Name(),
			fmt.Sprintf("%s reaches into infrastructure module %s; depend on the domain and let callers wire infrastructure",
				u.ModuleName(), ref.Name())))
	}
	return issues
}

// withChainCheck flags `with` chains whose clause count reaches the
// configured threshold: orchestration of that size belongs in a use case.
type withChainCheck struct {
	rule
	threshold int
	contexts  *contextMatcher
}

func newWithChainCheck(cfg config.Check, contexts *contextMatcher) (*withChainCheck, error) {
	meta, err := newRule(config.RuleWithChainComplexity, issue.CategoryWarning, cfg)
	if err != nil {
		return nil, err
	}
	threshold := 3
	if cfg.Threshold != nil {
		threshold = *cfg.Threshold
	}
	return &withChainCheck{rule: meta, threshold: threshold, contexts: contexts}, nil
}

func (c *withChainCheck) Applicable(u *SourceUnit) bool {
	if u.Tree == nil || c.excluded(u) {
		return false
	}
	return u.Layer == LayerApplication || c.contexts.Match(u)
}

func (c *withChainCheck) Visit(n syntax.Node, u *SourceUnit) []issue.Issue {
	call, ok := n.(*syntax.Call)
	if !ok || call.Name != "with" || len(call.Receiver) != 0 {
		return nil
	}
	clauses := 0
	for _, arg := range call.Args {
		// Keyword tail entries (do:/else:) are not clauses.
		if _, isPair := arg.(*syntax.Pair); isPair {
			continue
		}
		clauses++
	}
	if clauses < c.threshold {
		return nil
	}
	return []issue.Issue{c.newIssue(u, call.Pos(), "with",
		fmt.Sprintf("with-chain of %d clauses (threshold %d) in %s; extract a use case that owns this orchestration",
			clauses, c.threshold, u.ModuleName()))}
}
