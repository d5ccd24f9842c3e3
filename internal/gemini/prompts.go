package gemini

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsYAML []byte

const (
	promptRoadmap        = "roadmap"
	promptPhaseSummary   = "phase_summary"
	promptInterests      = "interests"
	promptSearch         = "search"
	promptAssessment     = "assessment"
	promptDailyChallenge = "daily_challenge"
	promptSimulation     = "simulation"
	promptTrivia         = "trivia"
	promptNews           = "news"
	promptChat           = "chat"
)

type promptDef struct {
	System string `yaml:"system"`
	Text   string `yaml:"text"`
}

type promptSet struct {
	system map[string]string
	tmpl   map[string]*template.Template
}

var promptFuncs = template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
}

var prompts = mustLoadPrompts(promptsYAML)

func loadPrompts(data []byte) (*promptSet, error) {
	var defs map[string]promptDef
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse prompts: %w", err)
	}

	set := &promptSet{
		system: make(map[string]string, len(defs)),
		tmpl:   make(map[string]*template.Template, len(defs)),
	}
	for name, def := range defs {
		if strings.TrimSpace(def.Text) == "" {
			return nil, fmt.Errorf("prompt %q has no text", name)
		}
		t, err := template.New(name).Funcs(promptFuncs).Option("missingkey=error").Parse(def.Text)
		if err != nil {
			return nil, fmt.Errorf("prompt %q: %w", name, err)
		}
		set.tmpl[name] = t
		set.system[name] = strings.TrimSpace(def.System)
	}
	return set, nil
}

func mustLoadPrompts(data []byte) *promptSet {
	set, err := loadPrompts(data)
	if err != nil {
		panic(err)
	}
	return set
}

func (s *promptSet) render(name string, data any) (string, error) {
	t, ok := s.tmpl[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %q: %w", name, err)
	}
	return strings.TrimSpace(b.String()), nil
}
