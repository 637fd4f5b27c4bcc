// Package categorize maps fetched transactions to local budget
// categories using user-maintained YAML rules. Rules are applied when a
// transaction is first mapped; already-persisted records are never
// rewritten by a rule change.
package categorize

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule assigns a local category to transactions matching a merchant
// substring or an aggregator category ID.
type Rule struct {
	Category    string   `yaml:"category"`
	Merchants   []string `yaml:"merchants"`
	CategoryIDs []string `yaml:"category_ids"`
}

// RulesConfig represents the complete category rules configuration.
type RulesConfig struct {
	Rules []Rule `yaml:"rules"`
}

// Mapper maps transactions to local budget categories.
type Mapper struct {
	merchantRules []merchantRule
	idToCategory  map[string]string
}

type merchantRule struct {
	substring string
	category  string
}

// NewMapper creates a new Mapper from a YAML configuration file.
func NewMapper(configPath string) (*Mapper, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var config RulesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return newMapper(config), nil
}

// NewEmptyMapper creates a Mapper with no rules. Every lookup returns
// the empty category.
func NewEmptyMapper() *Mapper {
	return newMapper(RulesConfig{})
}

// NewMapperFromConfig creates a Mapper from an in-memory configuration.
func NewMapperFromConfig(config RulesConfig) *Mapper {
	return newMapper(config)
}

func newMapper(config RulesConfig) *Mapper {
	mapper := &Mapper{
		idToCategory: make(map[string]string),
	}

	for _, rule := range config.Rules {
		for _, merchant := range rule.Merchants {
			mapper.merchantRules = append(mapper.merchantRules, merchantRule{
				substring: strings.ToLower(merchant),
				category:  rule.Category,
			})
		}
		for _, id := range rule.CategoryIDs {
			mapper.idToCategory[id] = rule.Category
		}
	}

	return mapper
}

// Categorize returns the local category for a transaction, or the empty
// string when no rule matches. Category-ID rules win over merchant
// rules; merchant rules match case-insensitively against the merchant
// name first, then the transaction name.
func (m *Mapper) Categorize(merchantName, name, categoryID string) string {
	if category, ok := m.idToCategory[categoryID]; ok {
		return category
	}

	haystacks := []string{strings.ToLower(merchantName), strings.ToLower(name)}
	for _, rule := range m.merchantRules {
		for _, haystack := range haystacks {
			if haystack != "" && strings.Contains(haystack, rule.substring) {
				return rule.category
			}
		}
	}

	return ""
}

// HasRules reports whether any rule is loaded.
func (m *Mapper) HasRules() bool {
	return len(m.merchantRules) > 0 || len(m.idToCategory) > 0
}
