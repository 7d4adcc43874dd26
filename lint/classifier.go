package lint

import (
	"fmt"
	"regexp"

	"github.com/boundlint/boundlint/config"
)

// Classifier maps a module's file path and declared name onto a Layer using
// ordered pattern groups. Interface patterns are evaluated first, then
// Domain, Application, Infrastructure: first match wins, no match yields
// LayerUnknown. The order is part of the contract: presentation files often
// contain narrower substrings and must be claimed before the inner layers
// get a chance to match.
type Classifier struct {
	groups []patternGroup
}

type patternGroup struct {
	layer    Layer
	patterns []*regexp.Regexp
	excludes []*regexp.Regexp
}

// NewClassifier compiles the configured pattern groups. Compilation errors
// are operator errors and fail construction.
func NewClassifier(cfg config.LayerPatterns) (*Classifier, error) {
	ordered := []struct {
		layer Layer
		group config.PatternGroup
	}{
		{LayerInterface, cfg.Interface},
		{LayerDomain, cfg.Domain},
		{LayerApplication, cfg.Application},
		{LayerInfrastructure, cfg.Infrastructure},
	}
	c := &Classifier{}
	for _, entry := range ordered {
		group := patternGroup{layer: entry.layer}
		for _, pattern := range entry.group.Patterns {
			compiled, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("layer %s: pattern %q: %w", entry.layer, pattern, err)
			}
			group.patterns = append(group.patterns, compiled)
		}
		for _, pattern := range entry.group.Excludes {
			compiled, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("layer %s: exclude %q: %w", entry.layer, pattern, err)
			}
			group.excludes = append(group.excludes, compiled)
		}
		c.groups = append(c.groups, group)
	}
	return c, nil
}

// Classify returns the layer for the given path and module name. The subject
// matched against is "ModuleName path" so patterns can target either part.
// Classification is pure and total.
func (c *Classifier) Classify(path, moduleName string) Layer {
	subject := moduleName + " " + path
	for _, group := range c.groups {
		if group.excludedFrom(subject) {
			continue
		}
		for _, pattern := range group.patterns {
			if pattern.MatchString(subject) {
				return group.layer
			}
		}
	}
	return LayerUnknown
}

func (g patternGroup) excludedFrom(subject string) bool {
	for _, pattern := range g.excludes {
		if pattern.MatchString(subject) {
			return true
		}
	}
	return false
}
