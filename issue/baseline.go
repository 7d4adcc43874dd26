package issue

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

// Baseline holds accepted findings loaded from a baseline TOML file.
// Findings present in the baseline are suppressed, so only new regressions
// are reported. A missing file loads as an empty baseline that matches
// nothing, which lets projects without a baseline pass unchanged.
type Baseline struct {
	Rules map[string]BaselineRule `toml:"rules"`

	// byID is an O(1) index keyed by rule id then fingerprint.
	byID map[string]map[string]bool
}

// BaselineRule holds the accepted findings for one rule id.
type BaselineRule struct {
	Entries []BaselineEntry `toml:"entries"`
}

// BaselineEntry is one accepted finding. ID is the stable fingerprint;
// Message is retained only for human readability of the file.
type BaselineEntry struct {
	ID      string `toml:"id"`
	Message string `toml:"message"`
}

// LoadBaseline reads and parses a baseline TOML file. An empty path or a
// missing file yields an empty baseline.
func LoadBaseline(path string) (*Baseline, error) {
	if path == "" {
		return emptyBaseline(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return emptyBaseline(), nil
		}
		return nil, fmt.Errorf("reading baseline: %w", err)
	}
	var b Baseline
	if err := toml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing baseline %s: %w", path, err)
	}
	b.buildIndex()
	return &b, nil
}

func emptyBaseline() *Baseline {
	return &Baseline{Rules: map[string]BaselineRule{}, byID: map[string]map[string]bool{}}
}

func (b *Baseline) buildIndex() {
	b.byID = make(map[string]map[string]bool, len(b.Rules))
	for rule, entries := range b.Rules {
		ids := make(map[string]bool, len(entries.Entries))
		for _, entry := range entries.Entries {
			if entry.ID != "" {
				ids[entry.ID] = true
			}
		}
		b.byID[rule] = ids
	}
}

// Contains reports whether the issue is an accepted finding.
func (b *Baseline) Contains(is Issue) bool {
	if b == nil || len(b.byID) == 0 {
		return false
	}
	return b.byID[is.RuleID][is.Fingerprint()]
}

// Filter returns the issues not suppressed by the baseline, preserving order.
func (b *Baseline) Filter(issues []Issue) []Issue {
	if b == nil || len(b.byID) == 0 {
		return issues
	}
	out := make([]Issue, 0, len(issues))
	for _, is := range issues {
		if !b.Contains(is) {
			out = append(out, is)
		}
	}
	return out
}

// WriteBaseline renders the given issues as a baseline TOML file with
// deterministic ordering.
func WriteBaseline(path string, issues []Issue) error {
	rules := map[string]BaselineRule{}
	for _, is := range issues {
		rule := rules[is.RuleID]
		rule.Entries = append(rule.Entries, BaselineEntry{ID: is.Fingerprint(), Message: is.Message})
		rules[is.RuleID] = rule
	}
	for id, rule := range rules {
		sort.Slice(rule.Entries, func(a, b int) bool {
			if rule.Entries[a].ID != rule.Entries[b].ID {
				return rule.Entries[a].ID < rule.Entries[b].ID
			}
			return rule.Entries[a].Message < rule.Entries[b].Message
		})
		rules[id] = rule
	}

	var buf bytes.Buffer
	buf.WriteString("# boundlint baseline: accepted findings, suppressed on subsequent runs.\n")
	buf.WriteString("# Regenerate with `boundlint --write-baseline`.\n\n")
	if err := toml.NewEncoder(&buf).Encode(Baseline{Rules: rules}); err != nil {
		return fmt.Errorf("encoding baseline: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing baseline %s: %w", path, err)
	}
	return nil
}
