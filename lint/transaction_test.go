package lint

import (
	"testing"

	"github.com/boundlint/boundlint/config"
	"github.com/boundlint/boundlint/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransactionCheck(t *testing.T) *broadcastInTransactionCheck {
	check, err := newBroadcastInTransactionCheck(config.Default().Checks[config.RuleBroadcastInTransaction])
	require.NoError(t, err)
	return check
}

func TestBroadcastInTransaction_InsideClosure(t *testing.T) {
	check := newTransactionCheck(t)

	transaction := call(5, "Repo.transaction", fn(
		call(6, "Repo.insert", &syntax.Ident{Name: "changeset"}),
		call(7, "Phoenix.PubSub.broadcast", &syntax.Ident{Name: "topic"}),
	))
	unit := unitFor("lib/my_app/accounts/accounts.ex", tree("lib/my_app/accounts/accounts.ex",
		mod("MyApp.Accounts", transaction)))

	issues := runCheck(check, unit)
	require.Len(t, issues, 1)
	assert.Equal(t, config.RuleBroadcastInTransaction, issues[0].RuleID)
	assert.Equal(t, "Phoenix.PubSub.broadcast", issues[0].Trigger)
	assert.Equal(t, 7, issues[0].Line)
	assert.Contains(t, issues[0].Message, "inside Repo.transaction")
}

func TestBroadcastInTransaction_SiblingAfterCommit(t *testing.T) {
	check := newTransactionCheck(t)

	// The same broadcast as a sibling after the transaction call is the
	// recommended shape, not a violation.
	unit := unitFor("lib/my_app/accounts/accounts.ex", tree("lib/my_app/accounts/accounts.ex",
		mod("MyApp.Accounts",
			call(5, "Repo.transaction", fn(
				call(6, "Repo.insert", &syntax.Ident{Name: "changeset"}))),
			call(8, "Phoenix.PubSub.broadcast", &syntax.Ident{Name: "topic"}))))

	assert.Empty(t, runCheck(check, unit))
}

func TestBroadcastInTransaction_DoBlockScope(t *testing.T) {
	check := newTransactionCheck(t)

	// Repo.transaction with a trailing do-block instead of an anonymous
	// function is the same boundary.
	transaction := &syntax.Call{
		Line:     4,
		Receiver: []string{"Repo"},
		Name:     "transaction",
		Do: &syntax.Block{Nodes: []syntax.Node{
			localCall(5, "broadcast_user_registered", &syntax.Ident{Name: "user"}),
		}},
	}
	unit := unitFor("lib/my_app/accounts/accounts.ex", tree("lib/my_app/accounts/accounts.ex",
		mod("MyApp.Accounts", transaction)))

	issues := runCheck(check, unit)
	require.Len(t, issues, 1)
	assert.Equal(t, "broadcast_user_registered", issues[0].Trigger)
}

func TestBroadcastInTransaction_LocalHelperPrefix(t *testing.T) {
	check := newTransactionCheck(t)

	// Local broadcast_* helpers wrap the pubsub call and count; other local
	// calls inside the closure do not.
	unit := unitFor("lib/my_app/accounts/accounts.ex", tree("lib/my_app/accounts/accounts.ex",
		mod("MyApp.Accounts",
			call(5, "Repo.transaction", fn(
				localCall(6, "audit", &syntax.Ident{Name: "user"}),
				localCall(7, "broadcast_change", &syntax.Ident{Name: "user"}))))))

	issues := runCheck(check, unit)
	require.Len(t, issues, 1)
	assert.Equal(t, "broadcast_change", issues[0].Trigger)
}

func TestBroadcastInTransaction_UnrecognizedReceiver(t *testing.T) {
	check := newTransactionCheck(t)

	// A broadcast-prefixed call on an unconfigured receiver is some other
	// module's business.
	unit := unitFor("lib/my_app/accounts/accounts.ex", tree("lib/my_app/accounts/accounts.ex",
		mod("MyApp.Accounts",
			call(5, "Repo.transaction", fn(
				call(6, "Logger.broadcast_level", &syntax.Ident{Name: "level"}))))))

	assert.Empty(t, runCheck(check, unit))
}

func TestBroadcastInTransaction_NestedBlocks(t *testing.T) {
	check := newTransactionCheck(t)

	// The scoped walk descends through nesting inside the closure.
	unit := unitFor("lib/my_app/accounts/accounts.ex", tree("lib/my_app/accounts/accounts.ex",
		mod("MyApp.Accounts",
			call(5, "Repo.transaction", fn(
				localCall(6, "if", &syntax.Ident{Name: "ok?"},
					&syntax.Pair{Key: "do", Value: call(7, "MyAppWeb.Endpoint.broadcast", &syntax.Ident{Name: "topic"})}))))))

	issues := runCheck(check, unit)
	require.Len(t, issues, 1)
	assert.Equal(t, "MyAppWeb.Endpoint.broadcast", issues[0].Trigger)
}
