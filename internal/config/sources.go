package config

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"NewsRelay/internal/domain"
)

const (
	ScannerSelector = "selector"
	ScannerFeed     = "feed"

	ExtractorParagraphs  = "paragraphs"
	ExtractorReadability = "readability"
)

//go:embed sources.yaml
var defaultSourcesYAML []byte

// SourceConfig describes a single news site and its link selector.
type SourceConfig struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	Selector  string `yaml:"selector"`
	Scanner   string `yaml:"scanner"`
	Extractor string `yaml:"extractor"`
}

// Domain converts the config entry into the pipeline's source type.
func (s SourceConfig) Domain() domain.Source {
	scanner := s.Scanner
	if scanner == "" {
		scanner = ScannerSelector
	}
	extractor := s.Extractor
	if extractor == "" {
		extractor = ExtractorParagraphs
	}
	return domain.Source{
		Name:      s.Name,
		URL:       s.URL,
		Selector:  s.Selector,
		Scanner:   scanner,
		Extractor: extractor,
	}
}

// ResolveSources picks the source table: sourcesFile, then inline sources,
// then the embedded defaults. The result is validated.
func (c Config) ResolveSources() ([]SourceConfig, error) {
	var (
		sources []SourceConfig
		err     error
	)

	switch {
	case c.SourcesFile != "":
		sources, err = LoadSources(c.SourcesFile)
	case len(c.Sources) > 0:
		sources = c.Sources
	default:
		sources, err = parseSources(defaultSourcesYAML)
	}
	if err != nil {
		return nil, err
	}

	if err := ValidateSources(sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// LoadSources reads a YAML list of sources from disk.
func LoadSources(path string) ([]SourceConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources %s: %w", path, err)
	}
	sources, err := parseSources(raw)
	if err != nil {
		return nil, fmt.Errorf("sources %s: %w", path, err)
	}
	return sources, nil
}

func parseSources(raw []byte) ([]SourceConfig, error) {
	var sources []SourceConfig
	if err := yaml.Unmarshal(raw, &sources); err != nil {
		return nil, fmt.Errorf("parse sources: %w", err)
	}
	return sources, nil
}

// ValidateSources rejects entries the pipeline cannot scan.
func ValidateSources(sources []SourceConfig) error {
	if len(sources) == 0 {
		return fmt.Errorf("no sources configured")
	}

	seen := make(map[string]struct{}, len(sources))
	for i, s := range sources {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("source %q: duplicate name", name)
		}
		seen[name] = struct{}{}

		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", name, u.Scheme)
		}

		switch s.Scanner {
		case "", ScannerSelector:
			if strings.TrimSpace(s.Selector) == "" {
				return fmt.Errorf("source %q: selector is required", name)
			}
		case ScannerFeed:
		default:
			return fmt.Errorf("source %q: unknown scanner %q (valid: %s, %s)", name, s.Scanner, ScannerSelector, ScannerFeed)
		}

		switch s.Extractor {
		case "", ExtractorParagraphs, ExtractorReadability:
		default:
			return fmt.Errorf("source %q: unknown extractor %q (valid: %s, %s)", name, s.Extractor, ExtractorParagraphs, ExtractorReadability)
		}
	}
	return nil
}

// SelectSources filters sources by name, preserving configured order.
// An empty names list selects everything.
func SelectSources(sources []SourceConfig, names []string) ([]SourceConfig, error) {
	if len(names) == 0 {
		return sources, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.TrimSpace(n)] = true
	}

	var out []SourceConfig
	for _, s := range sources {
		if wanted[s.Name] {
			out = append(out, s)
			delete(wanted, s.Name)
		}
	}

	if len(wanted) > 0 {
		unknown := make([]string, 0, len(wanted))
		for n := range wanted {
			unknown = append(unknown, n)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown sources: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

// DomainSources converts a config slice into pipeline sources.
func DomainSources(sources []SourceConfig) []domain.Source {
	out := make([]domain.Source, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.Domain())
	}
	return out
}
