package lint

import (
	"fmt"

	"github.com/boundlint/boundlint/config"
	"github.com/boundlint/boundlint/project"
)

// catalog holds the instantiated rule set for one engine.
type catalog struct {
	checks        []Check
	fileChecks    []FileCheck
	projectChecks []ProjectCheck
}

// buildCatalog instantiates every enabled check from its configuration.
// Unknown check ids in the configuration are operator errors: they usually
// mean a typo silently disabling the rule the operator meant to tune.
func buildCatalog(cfg *config.Config, classifier *Classifier, fs project.FileSystem) (*catalog, error) {
	known := config.Default().Checks
	for id := range cfg.Checks {
		if _, ok := known[id]; !ok {
			return nil, fmt.Errorf("unknown check id %q", id)
		}
	}

	contexts, err := newContextMatcher(cfg.Contexts)
	if err != nil {
		return nil, err
	}

	cat := &catalog{}
	add := func(check Check, err error, id string) error {
		if err != nil {
			return err
		}
		if cfg.Checks[id].IsEnabled() {
			cat.checks = append(cat.checks, check)
		}
		return nil
	}

	// Layer-leakage family: the domain stays pure.
	leakage := []struct {
		id      string
		layer   Layer
		remedy  string
		facades bool
	}{
		{id: config.RuleDomainNoPersistence, layer: LayerDomain, remedy: "delegate persistence to an infrastructure repository"},
		{id: config.RuleDomainNoHTTP, layer: LayerDomain, remedy: "move outbound calls behind an infrastructure client"},
		{id: config.RuleDomainNoCrypto, layer: LayerDomain, remedy: "hash and encrypt in infrastructure, pass results in"},
		{id: config.RuleDomainNoClock, layer: LayerDomain, remedy: "receive the current time as a parameter"},
		{id: config.RuleDomainNoEnv, layer: LayerDomain, remedy: "inject configuration through function arguments"},
		{id: config.RuleDomainNoFileIO, layer: LayerDomain, remedy: "read and write files in infrastructure, pass content in"},
		// Delegation-bypass members that share the capability shape; these
		// also inspect context facade modules.
		{id: config.RuleUsecaseNoRawPersistence, layer: LayerApplication, remedy: "delegate to a repository module", facades: true},
		{id: config.RuleApplicationNoMulti, layer: LayerApplication, remedy: "build the transaction inside a repository or use case helper", facades: true},
	}
	for _, spec := range leakage {
		matcher := contexts
		if !spec.facades {
			matcher = nil
		}
		check, err := newCapabilityCheck(spec.id, spec.layer, cfg.Checks[spec.id], spec.remedy, matcher)
		if err := add(check, err, spec.id); err != nil {
			return nil, err
		}
	}

	infraAlias, err := newInfraAliasCheck(cfg.Checks[config.RuleApplicationNoInfraAlias], classifier, contexts)
	if err := add(infraAlias, err, config.RuleApplicationNoInfraAlias); err != nil {
		return nil, err
	}
	withChain, err := newWithChainCheck(cfg.Checks[config.RuleWithChainComplexity], contexts)
	if err := add(withChain, err, config.RuleWithChainComplexity); err != nil {
		return nil, err
	}

	// Boundary-crossing family.
	for _, id := range []string{config.RuleCrossContextPolicy, config.RuleCrossContextQueries} {
		check, err := newCrossContextCheck(id, cfg.Checks[id])
		if err := add(check, err, id); err != nil {
			return nil, err
		}
	}
	schema, err := newSchemaAccessCheck(cfg.Checks[config.RuleCrossContextSchema], cfg.SchemaContexts)
	if err := add(schema, err, config.RuleCrossContextSchema); err != nil {
		return nil, err
	}

	broadcast, err := newBroadcastInTransactionCheck(cfg.Checks[config.RuleBroadcastInTransaction])
	if err := add(broadcast, err, config.RuleBroadcastInTransaction); err != nil {
		return nil, err
	}

	// Structural-placement family.
	placements := []struct {
		id       string
		suffix   string
		contains string
	}{
		{id: config.RulePolicyPlacement, suffix: "_policy.ex"},
		{id: config.RuleRepositoryPlacement, suffix: "_repository.ex"},
		{id: config.RuleServicePlacement, suffix: "_service.ex"},
		{id: config.RuleNotifierPlacement, suffix: "_notifier.ex"},
		{id: config.RuleUsecasePlacement, contains: "use_cases"},
	}
	for _, spec := range placements {
		check, err := newPlacementCheck(spec.id, spec.suffix, spec.contains, cfg.Checks[spec.id], fs)
		if err != nil {
			return nil, err
		}
		if cfg.Checks[spec.id].IsEnabled() {
			cat.fileChecks = append(cat.fileChecks, check)
		}
	}

	missingQueries, err := newMissingQueriesCheck(cfg.Checks[config.RuleMissingQueries], fs)
	if err != nil {
		return nil, err
	}
	if cfg.Checks[config.RuleMissingQueries].IsEnabled() {
		cat.projectChecks = append(cat.projectChecks, missingQueries)
	}

	return cat, nil
}
