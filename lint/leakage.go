package lint

import (
	"fmt"

	"github.com/boundlint/boundlint/config"
	"github.com/boundlint/boundlint/issue"
	"github.com/boundlint/boundlint/syntax"
)

// capabilityCheck is the layer-leakage family: a layer that must stay free
// of some capability (persistence, HTTP, crypto, clock, environment, file
// I/O) is scanned for qualified calls reaching it. One instantiation per
// capability class.
type capabilityCheck struct {
	rule
	layer     Layer
	modules   []string
	functions []string
	remedy    string
	// contexts widens applicability to context facade modules; nil for the
	// domain-layer rules.
	contexts *contextMatcher
}

func newCapabilityCheck(id string, layer Layer, cfg config.Check, remedy string, contexts *contextMatcher) (*capabilityCheck, error) {
	meta, err := newRule(id, issue.CategoryDesign, cfg)
	if err != nil {
		return nil, err
	}
	return &capabilityCheck{
		rule:      meta,
		layer:     layer,
		modules:   cfg.Modules,
		functions: cfg.Functions,
		remedy:    remedy,
		contexts:  contexts,
	}, nil
}

func (c *capabilityCheck) Applicable(u *SourceUnit) bool {
	if u.Tree == nil || c.excluded(u) {
		return false
	}
	if u.Layer == c.layer {
		return true
	}
	return c.contexts != nil && c.contexts.Match(u)
}

func (c *capabilityCheck) Visit(n syntax.Node, u *SourceUnit) []issue.Issue {
	call, ok := n.(*syntax.Call)
	if !ok || len(call.Receiver) == 0 {
		return nil
	}
	qualified := call.Qualified()
	if _, ok := matchFunction(qualified, c.functions); ok {
		return c.flag(u, call, qualified)
	}
	if _, ok := matchModule(call.ReceiverName(), c.modules); ok {
		return c.flag(u, call, qualified)
	}
	return nil
}

func (c *capabilityCheck) flag(u *SourceUnit, call *syntax.Call, qualified string) []issue.Issue {
	subject := fmt.Sprintf("%s layer", c.layer)
	if u.Layer != c.layer {
		subject = fmt.Sprintf("context module %s", u.ModuleName())
	}
	message := fmt.Sprintf("%s must not call %s; %s", subject, qualified, c.remedy)
	return []issue.Issue{c.newIssue(u, call.Pos(), qualified, message)}
}
