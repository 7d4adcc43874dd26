package lint

import (
	"testing"

	"github.com/boundlint/boundlint/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDeclarations(t *testing.T) {
	testCases := []struct {
		description string
		tree        *syntax.Tree
		expect      []*Declaration
	}{
		{
			description: "empty deps list",
			tree: tree("lib/a.ex",
				mod("MyApp.Accounts.Domain", useBoundary(2)),
			),
			expect: []*Declaration{
				{Module: ModuleRef{"MyApp", "Accounts", "Domain"}, Deps: []ModuleRef{}, Line: 2},
			},
		},
		{
			description: "bare module references",
			tree: tree("lib/a.ex",
				mod("MyApp.Accounts.Application",
					useBoundary(3, aliasRef("MyApp.Accounts.Domain"))),
			),
			expect: []*Declaration{
				{
					Module: ModuleRef{"MyApp", "Accounts", "Application"},
					Deps:   []ModuleRef{{"MyApp", "Accounts", "Domain"}},
					Line:   3,
				},
			},
		},
		{
			description: "tuple-wrapped entry with options",
			tree: tree("lib/a.ex",
				mod("MyApp.Billing.Infrastructure",
					useBoundary(2,
						aliasRef("MyApp.Billing.Domain"),
						&syntax.Tuple{Items: []syntax.Node{
							aliasRef("MyApp.Billing.Application"),
							&syntax.Pair{Key: "runtime", Value: &syntax.Atom{Name: "false"}},
						}})),
			),
			expect: []*Declaration{
				{
					Module: ModuleRef{"MyApp", "Billing", "Infrastructure"},
					Deps: []ModuleRef{
						{"MyApp", "Billing", "Domain"},
						{"MyApp", "Billing", "Application"},
					},
					Line: 2,
				},
			},
		},
		{
			description: "malformed entry discarded, good entries kept",
			tree: tree("lib/a.ex",
				mod("MyApp.Accounts.Infrastructure",
					useBoundary(4,
						aliasRef("MyApp.Accounts.Domain"),
						&syntax.Literal{Text: "unquote(deps())"},
						aliasRef("MyApp.Accounts.Application"))),
			),
			expect: []*Declaration{
				{
					Module: ModuleRef{"MyApp", "Accounts", "Infrastructure"},
					Deps: []ModuleRef{
						{"MyApp", "Accounts", "Domain"},
						{"MyApp", "Accounts", "Application"},
					},
					Line: 4,
				},
			},
		},
		{
			description: "deps value is not a literal list",
			tree: tree("lib/a.ex",
				mod("MyApp.Accounts.Domain",
					&syntax.Directive{Line: 2, Kind: "use", Args: []syntax.Node{
						aliasRef("Boundary"),
						&syntax.Pair{Key: "deps", Value: &syntax.Literal{Text: "@deps"}},
					}}),
			),
			expect: nil,
		},
		{
			description: "use Boundary without deps keyword",
			tree: tree("lib/a.ex",
				mod("MyApp.Accounts.Domain",
					&syntax.Directive{Line: 2, Kind: "use", Args: []syntax.Node{
						aliasRef("Boundary"),
						&syntax.Pair{Key: "exports", Value: &syntax.List{}},
					}}),
			),
			expect: []*Declaration{
				{Module: ModuleRef{"MyApp", "Accounts", "Domain"}, Deps: []ModuleRef{}, Line: 2},
			},
		},
		{
			description: "unrelated use directive",
			tree: tree("lib/a.ex",
				mod("MyApp.Accounts.Domain",
					&syntax.Directive{Line: 2, Kind: "use", Args: []syntax.Node{aliasRef("Ecto.Schema")}}),
			),
			expect: nil,
		},
		{
			description: "no module",
			tree:        tree("lib/a.ex", localCall(1, "import_config")),
			expect:      nil,
		},
		{
			description: "nested modules own their declarations",
			tree: tree("lib/a.ex",
				mod("MyApp.Accounts",
					useBoundary(2, aliasRef("MyApp.Billing")),
					mod("MyApp.Accounts.Token", useBoundary(5))),
			),
			expect: []*Declaration{
				{Module: ModuleRef{"MyApp", "Accounts"}, Deps: []ModuleRef{{"MyApp", "Billing"}}, Line: 2},
				{Module: ModuleRef{"MyApp", "Accounts", "Token"}, Deps: []ModuleRef{}, Line: 5},
			},
		},
	}

	for _, testCase := range testCases {
		actual := ExtractDeclarations(testCase.tree)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestExtractDeclarations_OuterDeclNotTakenFromNestedModule(t *testing.T) {
	// The directive lives only in the nested module; the outer module has no
	// declaration of its own.
	parsed := tree("lib/a.ex",
		mod("MyApp.Accounts",
			mod("MyApp.Accounts.Token", useBoundary(3))),
	)
	decls := ExtractDeclarations(parsed)
	require.Len(t, decls, 1)
	assert.Equal(t, "MyApp.Accounts.Token", decls[0].Module.String())
}
