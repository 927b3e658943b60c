package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/hilite/internal/highlight/rules"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "rules.yaml", `
rules:
  todo:
    pattern: "TODO"
    class: "todo"
    modes: ["match", "line"]
    color: "#FF8800"
  heading:
    pattern: '^#+ '
    regex: true
    class: "heading"
order:
  - heading
  - todo
selection:
  highlightWordAroundCursor: false
  minSelectionLength: 5
  ignoredWords: "the, and"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.Rules) != 2 {
		t.Fatalf("rule count = %d, want 2", len(cfg.Rules))
	}
	todo := cfg.Rules["todo"]
	if todo.ID != "todo" || todo.Pattern != "TODO" || todo.Regex {
		t.Errorf("todo rule = %+v", todo)
	}
	if todo.Modes != rules.ModeMatch|rules.ModeLine {
		t.Errorf("todo modes = %v, want match|line", todo.Modes)
	}
	if heading := cfg.Rules["heading"]; !heading.Regex {
		t.Error("heading rule should be regex")
	}
	if len(cfg.Order) != 2 || cfg.Order[0] != "heading" {
		t.Errorf("order = %v, want [heading todo]", cfg.Order)
	}

	sel := cfg.Selection
	if sel.WordAroundCursor {
		t.Error("explicit false should override the default")
	}
	if !sel.SelectedText {
		t.Error("absent field should keep the default")
	}
	if sel.MinLength != 5 {
		t.Errorf("MinLength = %d, want 5", sel.MinLength)
	}
	if _, ok := sel.IgnoredWords["and"]; !ok {
		t.Error("ignored words should be parsed into the lookup set")
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "rules.toml", `
order = ["todo"]

[rules.todo]
pattern = "TODO"
class = "todo"
modes = ["match"]

[selection]
maxMatches = 25
highlightDelay = 150
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Rules["todo"].Class != "todo" {
		t.Errorf("rule = %+v", cfg.Rules["todo"])
	}
	if cfg.Selection.MaxMatches != 25 {
		t.Errorf("MaxMatches = %d, want 25", cfg.Selection.MaxMatches)
	}
	if cfg.Selection.Delay != 150 {
		t.Errorf("Delay = %d, want 150", cfg.Selection.Delay)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "rules.json", `{
  "rules": {
    "todo": {"pattern": "TODO", "class": "todo", "modes": ["match", "group"]}
  },
  "order": ["todo"],
  "selection": {"highlightSelectedText": false, "minSelectionLength": 0}
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Rules["todo"].Modes != rules.ModeMatch|rules.ModeGroup {
		t.Errorf("modes = %v, want match|group", cfg.Rules["todo"].Modes)
	}
	if cfg.Selection.SelectedText {
		t.Error("explicit false should override the default")
	}
	if cfg.Selection.MinLength != 0 {
		t.Errorf("MinLength = %d, want explicit 0", cfg.Selection.MinLength)
	}
}

func TestLoadJSONIgnoresGarbageSections(t *testing.T) {
	path := writeFile(t, "rules.json", `{"rules": "not an object", "selection": [1, 2]}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Rules) != 0 {
		t.Errorf("malformed rules section should yield no rules, got %+v", cfg.Rules)
	}
	if !cfg.Selection.WordAroundCursor {
		t.Error("malformed selection section should keep defaults")
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "rules.ini", "[rules]")

	_, err := Load(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}

	var perr *ParseError
	if !errors.As(err, &perr) || perr.Path != path {
		t.Errorf("err should be a ParseError carrying the path, got %v", err)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeFile(t, "rules.yaml", "rules: [\n")

	_, err := Load(path)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("err = %v, want *ParseError", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if len(cfg.Rules) != 0 {
		t.Errorf("default rules = %d, want 0", len(cfg.Rules))
	}
	sel := cfg.Selection
	if !sel.WordAroundCursor || !sel.SelectedText || sel.MinLength != 3 || sel.MaxMatches != 100 {
		t.Errorf("default selection = %+v", sel)
	}
}

func TestRuleSet(t *testing.T) {
	cfg := Default()
	cfg.Rules["a"] = rules.Rule{ID: "a", Pattern: "x", Class: "a"}
	cfg.Rules["b"] = rules.Rule{ID: "b", Pattern: "y", Class: "b"}
	cfg.Order = []string{"b"}

	rs := cfg.RuleSet()
	if rs.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", rs.Len())
	}
	if order := rs.Order(); order[0] != "b" {
		t.Errorf("order = %v, want b first", order)
	}
}
