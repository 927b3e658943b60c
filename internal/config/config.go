// Package config loads highlighting configuration: the static rule set
// with its application order, and the selection-highlight options. TOML,
// YAML, and JSON rule files are supported.
package config

import (
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/hilite/internal/highlight/rules"
	"github.com/dshills/hilite/internal/highlight/selscan"
)

// Config is the loaded configuration surface.
type Config struct {
	// Rules maps rule ID to rule.
	Rules map[string]rules.Rule

	// Order is the explicit rule application order.
	Order []string

	// Selection holds the selection-highlight options with defaults
	// applied.
	Selection selscan.Config
}

// RuleSet builds the ordered rule set.
func (c *Config) RuleSet() *rules.RuleSet {
	return rules.Load(c.Rules, c.Order)
}

// Default returns an empty rule set with default selection options.
func Default() *Config {
	return &Config{
		Rules:     make(map[string]rules.Rule),
		Selection: selscan.DefaultConfig(),
	}
}

// ruleSpec is the file form of one rule.
type ruleSpec struct {
	Pattern string   `yaml:"pattern" toml:"pattern"`
	Regex   bool     `yaml:"regex" toml:"regex"`
	Class   string   `yaml:"class" toml:"class"`
	Modes   []string `yaml:"modes" toml:"modes"`
	Color   string   `yaml:"color" toml:"color"`
}

// selectionSpec is the file form of the selection options. Pointers
// distinguish absent fields from explicit zero values.
type selectionSpec struct {
	HighlightWordAroundCursor *bool  `yaml:"highlightWordAroundCursor" toml:"highlightWordAroundCursor"`
	HighlightSelectedText     *bool  `yaml:"highlightSelectedText" toml:"highlightSelectedText"`
	MinSelectionLength        *int   `yaml:"minSelectionLength" toml:"minSelectionLength"`
	MaxMatches                *int   `yaml:"maxMatches" toml:"maxMatches"`
	IgnoredWords              string `yaml:"ignoredWords" toml:"ignoredWords"`
	HighlightDelay            *int   `yaml:"highlightDelay" toml:"highlightDelay"`
}

// fileSpec is the full rule file shape.
type fileSpec struct {
	Rules     map[string]ruleSpec `yaml:"rules" toml:"rules"`
	Order     []string            `yaml:"order" toml:"order"`
	Selection selectionSpec       `yaml:"selection" toml:"selection"`
}

// Load reads and parses a rule file, dispatching on extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var spec fileSpec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &spec); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
	case ".json":
		spec = parseJSON(data)
	default:
		return nil, &ParseError{Path: path, Err: ErrUnsupportedFormat}
	}

	return fromSpec(spec), nil
}

// parseJSON extracts the file spec from JSON. Unknown fields are ignored
// and malformed sections yield their zero values, matching the fail-soft
// loading contract.
func parseJSON(data []byte) fileSpec {
	var spec fileSpec
	root := gjson.ParseBytes(data)

	if rs := root.Get("rules"); rs.IsObject() {
		spec.Rules = make(map[string]ruleSpec)
		rs.ForEach(func(id, v gjson.Result) bool {
			r := ruleSpec{
				Pattern: v.Get("pattern").String(),
				Regex:   v.Get("regex").Bool(),
				Class:   v.Get("class").String(),
				Color:   v.Get("color").String(),
			}
			for _, m := range v.Get("modes").Array() {
				r.Modes = append(r.Modes, m.String())
			}
			spec.Rules[id.String()] = r
			return true
		})
	}

	for _, id := range root.Get("order").Array() {
		spec.Order = append(spec.Order, id.String())
	}

	sel := root.Get("selection")
	if sel.IsObject() {
		if v := sel.Get("highlightWordAroundCursor"); v.Exists() {
			spec.Selection.HighlightWordAroundCursor = boolPtr(v.Bool())
		}
		if v := sel.Get("highlightSelectedText"); v.Exists() {
			spec.Selection.HighlightSelectedText = boolPtr(v.Bool())
		}
		if v := sel.Get("minSelectionLength"); v.Exists() {
			spec.Selection.MinSelectionLength = intPtr(int(v.Int()))
		}
		if v := sel.Get("maxMatches"); v.Exists() {
			spec.Selection.MaxMatches = intPtr(int(v.Int()))
		}
		spec.Selection.IgnoredWords = sel.Get("ignoredWords").String()
		if v := sel.Get("highlightDelay"); v.Exists() {
			spec.Selection.HighlightDelay = intPtr(int(v.Int()))
		}
	}

	return spec
}

// fromSpec applies defaults and converts the file form to the runtime
// form.
func fromSpec(spec fileSpec) *Config {
	cfg := Default()

	for id, r := range spec.Rules {
		cfg.Rules[id] = rules.Rule{
			ID:      id,
			Pattern: r.Pattern,
			Regex:   r.Regex,
			Class:   r.Class,
			Modes:   rules.ParseMarkModes(r.Modes),
			Color:   r.Color,
		}
	}
	cfg.Order = spec.Order

	sel := &cfg.Selection
	if spec.Selection.HighlightWordAroundCursor != nil {
		sel.WordAroundCursor = *spec.Selection.HighlightWordAroundCursor
	}
	if spec.Selection.HighlightSelectedText != nil {
		sel.SelectedText = *spec.Selection.HighlightSelectedText
	}
	if spec.Selection.MinSelectionLength != nil {
		sel.MinLength = *spec.Selection.MinSelectionLength
	}
	if spec.Selection.MaxMatches != nil {
		sel.MaxMatches = *spec.Selection.MaxMatches
	}
	if spec.Selection.IgnoredWords != "" {
		sel.IgnoredWords = selscan.ParseIgnoredWords(spec.Selection.IgnoredWords)
	}
	if spec.Selection.HighlightDelay != nil {
		sel.Delay = *spec.Selection.HighlightDelay
	}

	return cfg
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }
