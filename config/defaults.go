package config

// Rule ids, one per catalog check plus the engine-emitted diagnostics.
const (
	RuleDomainNoPersistence = "domain-no-persistence"
	RuleDomainNoHTTP        = "domain-no-http"
	RuleDomainNoCrypto      = "domain-no-crypto"
	RuleDomainNoClock       = "domain-no-clock"
	RuleDomainNoEnv         = "domain-no-env"
	RuleDomainNoFileIO      = "domain-no-file-io"

	RuleUsecaseNoRawPersistence = "usecase-no-raw-persistence"
	RuleApplicationNoInfraAlias = "application-no-infra-alias"
	RuleApplicationNoMulti      = "application-no-multi"
	RuleWithChainComplexity     = "with-chain-complexity"

	RuleCrossContextPolicy  = "cross-context-policy"
	RuleCrossContextSchema  = "cross-context-schema"
	RuleCrossContextQueries = "cross-context-queries"

	RulePolicyPlacement     = "policy-placement"
	RuleRepositoryPlacement = "repository-placement"
	RuleServicePlacement    = "service-placement"
	RuleNotifierPlacement   = "notifier-placement"
	RuleUsecasePlacement    = "usecase-placement"
	RuleMissingQueries      = "missing-queries"

	RuleBroadcastInTransaction = "broadcast-in-transaction"

	RuleParseError           = "parse-error"
	RuleBoundaryForbiddenDep = "boundary-forbidden-dep"
	RuleBoundaryMissingDep   = "boundary-missing-dep"
)

func intPtr(v int) *int { return &v }

// Default returns the built-in configuration. Callers override selectively
// via Apply; nothing here is mandatory to repeat in a project config.
func Default() *Config {
	return &Config{
		SourceRoots: []string{"lib"},
		SkipDirs:    []string{"deps", "_build", "assets", "priv", "node_modules"},
		Layers: LayerPatterns{
			// Interface is matched first: presentation-layer files often
			// contain narrower substrings (a LiveView under lib/app_web
			// mentioning "domain") and must not fall through to them.
			Interface: PatternGroup{
				Patterns: []string{
					`_web/`,
					`_web\.ex$`,
					`(^|\.)Mix\.Tasks\.`,
					`/controllers/`,
					`/live/`,
					`/components/`,
				},
			},
			Domain: PatternGroup{
				Patterns: []string{
					`/domain/`,
					`\.Domain(\.|\s|$)`,
				},
			},
			Application: PatternGroup{
				Patterns: []string{
					`/application/`,
					`/use_cases/`,
					`\.Application(\.|\s|$)`,
				},
				// The OTP lifecycle module MyApp.Application at
				// lib/my_app/application.ex is runtime plumbing, not the
				// application layer. The path may be project-relative or
				// absolute, so lib/ is anchored on a component boundary.
				Excludes: []string{
					`\.Application ([^ ]*/)?lib/[^/]+/application\.ex$`,
				},
			},
			Infrastructure: PatternGroup{
				Patterns: []string{
					`/infrastructure/`,
					`\.Infrastructure(\.|\s|$)`,
				},
			},
		},
		// A context facade sits directly under lib/<app>/. Well-known
		// boilerplate modules at that depth are not contexts.
		Contexts: PatternGroup{
			Patterns: []string{
				`(^| |/)lib/[^/]+/[^/]+\.ex$`,
			},
			Excludes: []string{
				`\.(Application|Repo|Mailer|Telemetry|Release) `,
			},
		},
		SchemaContexts: map[string]string{},
		Checks: map[string]Check{
			RuleDomainNoPersistence: {
				Severity:   "error",
				ExitStatus: intPtr(2),
				Modules:    []string{"Repo", "Ecto.Multi", "Ecto.Query", "Ecto.Adapters.SQL"},
			},
			RuleDomainNoHTTP: {
				Severity:   "error",
				ExitStatus: intPtr(2),
				Modules:    []string{"HTTPoison", "HTTPotion", "Tesla", "Finch", "Req", ":httpc", ":hackney"},
			},
			RuleDomainNoCrypto: {
				Severity:   "error",
				ExitStatus: intPtr(2),
				Modules:    []string{":crypto", "Bcrypt", "Argon2", "Pbkdf2", "Comeonin", "Plug.Crypto"},
			},
			RuleDomainNoClock: {
				Severity:   "error",
				ExitStatus: intPtr(2),
				Functions: []string{
					"DateTime.utc_now", "DateTime.now", "NaiveDateTime.utc_now",
					"Date.utc_today", "Time.utc_now",
					"System.system_time", "System.os_time", "System.monotonic_time",
					":os.timestamp", ":erlang.now",
				},
			},
			RuleDomainNoEnv: {
				Severity:   "error",
				ExitStatus: intPtr(2),
				Functions: []string{
					"System.get_env", "System.fetch_env", "System.fetch_env!",
					"Application.get_env", "Application.fetch_env",
					"Application.fetch_env!", "Application.compile_env",
				},
			},
			RuleDomainNoFileIO: {
				Severity:   "error",
				ExitStatus: intPtr(2),
				Modules:    []string{"File", "IO"},
			},
			RuleUsecaseNoRawPersistence: {
				Severity:   "error",
				ExitStatus: intPtr(2),
				Modules:    []string{"Repo", "Ecto.Adapters.SQL"},
			},
			RuleApplicationNoInfraAlias: {
				Severity:   "error",
				ExitStatus: intPtr(2),
			},
			RuleApplicationNoMulti: {
				Severity:   "error",
				ExitStatus: intPtr(2),
				Functions:  []string{"Ecto.Multi.new", "Multi.new"},
			},
			RuleWithChainComplexity: {
				Severity:   "warning",
				ExitStatus: intPtr(1),
				Threshold:  intPtr(3),
			},
			RuleCrossContextPolicy: {
				Severity:   "error",
				ExitStatus: intPtr(2),
				Suffixes:   []string{"Policy"},
			},
			RuleCrossContextSchema: {
				Severity:   "error",
				ExitStatus: intPtr(2),
			},
			RuleCrossContextQueries: {
				Severity:   "error",
				ExitStatus: intPtr(2),
				Suffixes:   []string{"Queries", "Query"},
			},
			RulePolicyPlacement: {
				Severity:   "warning",
				ExitStatus: intPtr(1),
				Dir:        "domain/policies",
			},
			RuleRepositoryPlacement: {
				Severity:   "warning",
				ExitStatus: intPtr(1),
				Dir:        "infrastructure/repositories",
			},
			RuleServicePlacement: {
				Severity:   "warning",
				ExitStatus: intPtr(1),
				Dir:        "domain/services",
			},
			RuleNotifierPlacement: {
				Severity:   "warning",
				ExitStatus: intPtr(1),
				Dir:        "infrastructure/notifiers",
				// Historical exception carried over from the linted
				// codebase; phx.gen.auth owns this file.
				Exceptions: []string{"user_notifier.ex"},
			},
			RuleUsecasePlacement: {
				Severity:   "warning",
				ExitStatus: intPtr(1),
				Dir:        "application/use_cases",
			},
			RuleMissingQueries: {
				Severity:   "warning",
				ExitStatus: intPtr(1),
			},
			RuleBroadcastInTransaction: {
				Severity:          "error",
				ExitStatus:        intPtr(2),
				Functions:         []string{"Repo.transaction"},
				Modules:           []string{"Phoenix.PubSub", "Endpoint"},
				BroadcastPrefixes: []string{"broadcast"},
			},
			RuleParseError: {
				Severity:   "error",
				ExitStatus: intPtr(2),
			},
			RuleBoundaryForbiddenDep: {
				Severity:   "error",
				ExitStatus: intPtr(2),
			},
			RuleBoundaryMissingDep: {
				Severity:   "warning",
				ExitStatus: intPtr(1),
			},
		},
	}
}
