package analysis

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultWindowSize is the number of characters inspected on each side of a mention
const DefaultWindowSize = 100

// Lexicon is the keyword configuration used by the sentiment classifier.
// It is injected into the Engine so tests can substitute minimal fixtures.
type Lexicon struct {
	Positive   []string            `yaml:"positive"`
	Negative   []string            `yaml:"negative"`
	WindowSize int                 `yaml:"window_size"`
	Presets    map[string][]string `yaml:"competitor_presets"`
}

// DefaultLexicon returns the built-in keyword sets
func DefaultLexicon() Lexicon {
	return Lexicon{
		Positive: []string{
			"best", "top", "excellent", "recommended", "recommend", "trusted",
			"reliable", "great", "leading", "popular", "favorite", "outstanding",
			"highly rated", "top-rated", "secure", "innovative", "standout",
		},
		Negative: []string{
			"avoid", "poor", "worst", "scam", "unreliable", "bad", "fraud",
			"fake", "complaints", "terrible", "overpriced", "lawsuit", "risky",
			"unsafe", "buggy", "disappointing",
		},
		WindowSize: DefaultWindowSize,
		Presets: map[string][]string{
			"dating":  {"Tinder", "Bumble", "Hinge", "OkCupid", "Match"},
			"banking": {"Chase", "Bank of America", "Wells Fargo", "Citi", "Capital One"},
			"crm":     {"Salesforce", "HubSpot", "Zoho", "Pipedrive"},
		},
	}
}

// ParseLexicon decodes a YAML lexicon. Empty sections fall back to the defaults.
func ParseLexicon(data []byte) (Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("failed to parse lexicon: %w", err)
	}
	return lex.withDefaults(), nil
}

// LoadLexicon reads a YAML lexicon from disk. An empty path returns DefaultLexicon.
func LoadLexicon(path string) (Lexicon, error) {
	if path == "" {
		return DefaultLexicon(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("failed to read lexicon %s: %w", path, err)
	}
	return ParseLexicon(data)
}

// CompetitorPreset returns the preset competitors for an industry, if any
func (l Lexicon) CompetitorPreset(industry string) []string {
	names := l.Presets[strings.ToLower(strings.TrimSpace(industry))]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

func (l Lexicon) withDefaults() Lexicon {
	def := DefaultLexicon()
	if len(l.Positive) == 0 {
		l.Positive = def.Positive
	}
	if len(l.Negative) == 0 {
		l.Negative = def.Negative
	}
	if l.WindowSize <= 0 {
		l.WindowSize = def.WindowSize
	}
	if len(l.Presets) == 0 {
		l.Presets = def.Presets
	} else {
		presets := make(map[string][]string, len(l.Presets))
		for industry, names := range l.Presets {
			presets[strings.ToLower(industry)] = names
		}
		l.Presets = presets
	}
	return l
}
