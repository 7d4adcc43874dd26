package lint

import (
	"fmt"

	"github.com/boundlint/boundlint/config"
	"github.com/boundlint/boundlint/issue"
	"github.com/boundlint/boundlint/syntax"
)

// broadcastInTransactionCheck flags notification broadcasts issued inside a
// database transaction closure: subscribers would observe state the
// transaction may still roll back. The violation is defined by nesting, not
// co-occurrence, so this check runs a scoped two-phase visit: locate the
// transaction construction, isolate its closure body, and walk only that
// subtree for broadcast calls. The same broadcast as a sibling after the
// transaction is legal.
type broadcastInTransactionCheck struct {
	rule
	transactions []string
	modules      []string
	prefixes     []string
}

func newBroadcastInTransactionCheck(cfg config.Check) (*broadcastInTransactionCheck, error) {
	meta, err := newRule(config.RuleBroadcastInTransaction, issue.CategoryDesign, cfg)
	if err != nil {
		return nil, err
	}
	return &broadcastInTransactionCheck{
		rule:         meta,
		transactions: cfg.Functions,
		modules:      cfg.Modules,
		prefixes:     cfg.BroadcastPrefixes,
	}, nil
}

func (c *broadcastInTransactionCheck) Applicable(u *SourceUnit) bool {
	return u.Tree != nil && !c.excluded(u)
}

func (c *broadcastInTransactionCheck) Visit(n syntax.Node, u *SourceUnit) []issue.Issue {
	call, ok := n.(*syntax.Call)
	if !ok {
		return nil
	}
	if _, ok := matchFunction(call.Qualified(), c.transactions); !ok {
		return nil
	}
	var issues []issue.Issue
	for _, scope := range transactionScopes(call) {
		syntax.Walk(scope, func(inner syntax.Node) bool {
			if hit, ok := inner.(*syntax.Call); ok && c.isBroadcast(hit) {
				issues = append(issues, c.newIssue(u, hit.Pos(), hit.Qualified(),
					fmt.Sprintf("%s is sent inside %s; broadcast after the transaction commits",
						hit.Qualified(), call.Qualified())))
			}
			return true
		})
	}
	return issues
}

// transactionScopes collects the syntax subtrees forming the transaction
// boundary: anonymous-function arguments and a trailing do-block.
func transactionScopes(call *syntax.Call) []syntax.Node {
	var scopes []syntax.Node
	for _, arg := range call.Args {
		if fn, ok := arg.(*syntax.Fn); ok && fn.Body != nil {
			scopes = append(scopes, fn.Body)
		}
	}
	if call.Do != nil {
		scopes = append(scopes, call.Do)
	}
	return scopes
}

func (c *broadcastInTransactionCheck) isBroadcast(call *syntax.Call) bool {
	if !hasPrefix(call.Name, c.prefixes) {
		return false
	}
	if len(call.Receiver) == 0 {
		// Local broadcast_* helpers count: they wrap the pubsub call.
		return true
	}
	_, ok := matchModule(call.ReceiverName(), c.modules)
	return ok
}

func hasPrefix(name string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && len(name) >= len(prefix) && name[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
