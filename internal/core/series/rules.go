package series

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// NoSchedule is the occurrence type of a series that never projects
const NoSchedule = "No Schedule"

// Freq is how often a rule repeats
type Freq string

const (
	FreqNone    Freq = "none"
	FreqDaily   Freq = "daily"
	FreqWeekly  Freq = "weekly"
	FreqMonthly Freq = "monthly"
	FreqYearly  Freq = "yearly"
)

// Rule describes one occurrence type
type Rule struct {
	Type     string `yaml:"type"`
	Freq     Freq   `yaml:"freq"`
	Interval int    `yaml:"interval"`
	ByDay    bool   `yaml:"by_day"`
	ByWeek   bool   `yaml:"by_week"`
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// RuleTable resolves occurrence types to rules; lookups ignore case
type RuleTable struct {
	byType map[string]Rule
}

func key(t string) string { return strings.ToLower(strings.TrimSpace(t)) }

// Lookup returns the rule for an occurrence type
func (rt *RuleTable) Lookup(typ string) (Rule, bool) {
	if rt == nil {
		return Rule{}, false
	}
	r, ok := rt.byType[key(typ)]
	return r, ok
}

// Types lists the known occurrence types, sorted
func (rt *RuleTable) Types() []string {
	out := make([]string, 0, len(rt.byType))
	for _, r := range rt.byType {
		out = append(out, r.Type)
	}
	sort.Strings(out)
	return out
}

// Len is the number of rules
func (rt *RuleTable) Len() int { return len(rt.byType) }

// DefaultRules is the compiled in table
func DefaultRules() *RuleTable {
	rt, err := ParseRules(defaultRules)
	if err != nil {
		panic("series: embedded rules: " + err.Error())
	}
	return rt
}

// LoadRules reads a YAML rule table
func LoadRules(r io.Reader) (*RuleTable, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseRules(b)
}

// LoadRuleFile reads a rule table from path; an empty path is the default table
func LoadRuleFile(path string) (*RuleTable, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rt, err := LoadRules(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rt, nil
}

// ParseRules decodes and validates a YAML rule table
func ParseRules(b []byte) (*RuleTable, error) {
	var rf ruleFile
	if err := yaml.Unmarshal(b, &rf); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if len(rf.Rules) == 0 {
		return nil, fmt.Errorf("no rules")
	}
	rt := &RuleTable{byType: make(map[string]Rule, len(rf.Rules))}
	for i, r := range rf.Rules {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		k := key(r.Type)
		if _, dup := rt.byType[k]; dup {
			return nil, fmt.Errorf("rule %d: duplicate type %q", i, r.Type)
		}
		if r.Interval == 0 {
			r.Interval = 1
		}
		rt.byType[k] = r
	}
	return rt, nil
}

func (r Rule) validate() error {
	if key(r.Type) == "" {
		return fmt.Errorf("missing type")
	}
	switch r.Freq {
	case FreqNone, FreqDaily, FreqWeekly, FreqMonthly, FreqYearly:
	default:
		return fmt.Errorf("%s: unknown freq %q", r.Type, r.Freq)
	}
	if r.Interval < 0 {
		return fmt.Errorf("%s: negative interval", r.Type)
	}
	if r.ByWeek && !r.ByDay {
		return fmt.Errorf("%s: by_week needs by_day", r.Type)
	}
	if r.ByWeek && r.Freq != FreqMonthly {
		return fmt.Errorf("%s: by_week only applies to monthly rules", r.Type)
	}
	return nil
}
