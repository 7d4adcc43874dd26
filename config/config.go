// Package config holds the engine configuration: layer-detection patterns,
// per-check options, and the schema ownership table. Defaults are built in;
// a yaml document overrides selectively. Validation happens once, at engine
// construction, and aggregates every problem so operators see the full list.
package config

import (
	"fmt"
	"os"
	"regexp"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/boundlint/boundlint/issue"
)

// Config is the complete engine configuration.
type Config struct {
	// SourceRoots are project-relative directories scanned for sources.
	SourceRoots []string `yaml:"source_roots"`
	// SkipDirs are directory names excluded from enumeration.
	SkipDirs []string `yaml:"skip_dirs"`
	// Layers holds the ordered layer-detection pattern groups.
	Layers LayerPatterns `yaml:"layers"`
	// Contexts recognizes context facade modules: files that match no layer
	// pattern but front a context's public API (lib/my_app/accounts.ex).
	// The delegation-bypass checks inspect these alongside the application
	// layer.
	Contexts PatternGroup `yaml:"contexts"`
	// Checks holds per-check options keyed by rule id.
	Checks map[string]Check `yaml:"checks"`
	// SchemaContexts maps a schema module short name to the context that
	// owns it, e.g. "User" -> "Accounts". Injected, not hard-coded, so a
	// project can extend it without code changes.
	SchemaContexts map[string]string `yaml:"schema_contexts"`
}

// LayerPatterns carries one pattern group per layer. Evaluation order is
// fixed by the classifier (Interface, Domain, Application, Infrastructure);
// only the patterns themselves are configurable.
type LayerPatterns struct {
	Interface      PatternGroup `yaml:"interface"`
	Domain         PatternGroup `yaml:"domain"`
	Application    PatternGroup `yaml:"application"`
	Infrastructure PatternGroup `yaml:"infrastructure"`
}

// PatternGroup is a set of regular expressions matched against the
// concatenation of module name and file path ("Name path"). A subject that
// matches any exclude never matches the group.
type PatternGroup struct {
	Patterns []string `yaml:"patterns"`
	Excludes []string `yaml:"excludes"`
}

// Check carries the options one rule recognizes. Pointer fields distinguish
// "not set" from an explicit zero so overrides merge selectively.
type Check struct {
	Enabled    *bool  `yaml:"enabled"`
	Severity   string `yaml:"severity"`
	ExitStatus *int   `yaml:"exit_status"`
	// Modules are capability module names the rule recognizes as triggers.
	Modules []string `yaml:"modules"`
	// Functions are qualified capability calls, e.g. "DateTime.utc_now".
	Functions []string `yaml:"functions"`
	// Suffixes are module-name suffixes identifying internal submodules.
	Suffixes []string `yaml:"suffixes"`
	// Excludes are module-name substrings exempt from the rule.
	Excludes []string `yaml:"excludes"`
	// Exceptions are base filenames exempt from the rule.
	Exceptions []string `yaml:"exceptions"`
	// Dir is the canonical subdirectory for placement rules.
	Dir string `yaml:"dir"`
	// Threshold is the numeric limit for counting rules.
	Threshold *int `yaml:"threshold"`
	// BroadcastPrefixes are local function-name prefixes treated as
	// notification sends by the transaction-ordering rule.
	BroadcastPrefixes []string `yaml:"broadcast_prefixes"`
}

// IsEnabled reports whether the check runs; absence means enabled.
func (c Check) IsEnabled() bool { return c.Enabled == nil || *c.Enabled }

// ParsedSeverity maps the configured severity string onto the issue enum.
func (c Check) ParsedSeverity() (issue.Severity, error) {
	switch c.Severity {
	case "info":
		return issue.SeverityInfo, nil
	case "warning":
		return issue.SeverityWarning, nil
	case "error":
		return issue.SeverityError, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", c.Severity)
	}
}

// Load returns the defaults overridden by the yaml document at path. An
// empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := cfg.Apply(data); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Apply overrides the receiver with the settings present in the yaml
// document; settings absent from the document keep their current value.
func (c *Config) Apply(data []byte) error {
	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return err
	}
	if len(override.SourceRoots) > 0 {
		c.SourceRoots = override.SourceRoots
	}
	if len(override.SkipDirs) > 0 {
		c.SkipDirs = override.SkipDirs
	}
	c.Layers.Interface.merge(override.Layers.Interface)
	c.Layers.Domain.merge(override.Layers.Domain)
	c.Layers.Application.merge(override.Layers.Application)
	c.Layers.Infrastructure.merge(override.Layers.Infrastructure)
	c.Contexts.merge(override.Contexts)
	for id, check := range override.Checks {
		base := c.Checks[id]
		base.merge(check)
		if c.Checks == nil {
			c.Checks = map[string]Check{}
		}
		c.Checks[id] = base
	}
	for name, context := range override.SchemaContexts {
		if c.SchemaContexts == nil {
			c.SchemaContexts = map[string]string{}
		}
		c.SchemaContexts[name] = context
	}
	return nil
}

func (g *PatternGroup) merge(o PatternGroup) {
	if len(o.Patterns) > 0 {
		g.Patterns = o.Patterns
	}
	if len(o.Excludes) > 0 {
		g.Excludes = o.Excludes
	}
}

func (c *Check) merge(o Check) {
	if o.Enabled != nil {
		c.Enabled = o.Enabled
	}
	if o.Severity != "" {
		c.Severity = o.Severity
	}
	if o.ExitStatus != nil {
		c.ExitStatus = o.ExitStatus
	}
	if len(o.Modules) > 0 {
		c.Modules = o.Modules
	}
	if len(o.Functions) > 0 {
		c.Functions = o.Functions
	}
	if len(o.Suffixes) > 0 {
		c.Suffixes = o.Suffixes
	}
	if len(o.Excludes) > 0 {
		c.Excludes = o.Excludes
	}
	if len(o.Exceptions) > 0 {
		c.Exceptions = o.Exceptions
	}
	if o.Dir != "" {
		c.Dir = o.Dir
	}
	if o.Threshold != nil {
		c.Threshold = o.Threshold
	}
	if len(o.BroadcastPrefixes) > 0 {
		c.BroadcastPrefixes = o.BroadcastPrefixes
	}
}

// Validate checks the configuration for operator errors: malformed regular
// expressions, out-of-range thresholds and exit statuses, unknown severity
// names. All problems are aggregated into a single error.
func (c *Config) Validate() error {
	var err error
	groups := map[string]PatternGroup{
		"layers.interface":      c.Layers.Interface,
		"layers.domain":         c.Layers.Domain,
		"layers.application":    c.Layers.Application,
		"layers.infrastructure": c.Layers.Infrastructure,
		"contexts":              c.Contexts,
	}
	for name, group := range groups {
		for _, pattern := range append(append([]string{}, group.Patterns...), group.Excludes...) {
			if _, compileErr := regexp.Compile(pattern); compileErr != nil {
				err = multierr.Append(err, fmt.Errorf("%s: pattern %q: %w", name, pattern, compileErr))
			}
		}
	}
	for id, check := range c.Checks {
		if check.Severity != "" {
			if _, sevErr := check.ParsedSeverity(); sevErr != nil {
				err = multierr.Append(err, fmt.Errorf("checks.%s: %w", id, sevErr))
			}
		}
		if check.ExitStatus != nil && (*check.ExitStatus < 0 || *check.ExitStatus > 125) {
			err = multierr.Append(err, fmt.Errorf("checks.%s: exit_status %d out of range 0..125", id, *check.ExitStatus))
		}
		if check.Threshold != nil && *check.Threshold < 1 {
			err = multierr.Append(err, fmt.Errorf("checks.%s: threshold %d must be >= 1", id, *check.Threshold))
		}
	}
	return err
}
