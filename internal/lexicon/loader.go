package lexicon

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/pscheid92/sentilog/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed data/base.yaml
var defaultBaseYAML []byte

//go:embed data/override.yaml
var defaultOverrideYAML []byte

type tableFile struct {
	Words Table `yaml:"words"`
}

// Default builds the lexicon from the embedded base and override tables.
func Default() (*Lexicon, error) {
	return Load("", "")
}

// Load reads the base and override tables from YAML files and merges them.
// An empty path selects the corresponding embedded default table.
func Load(basePath, overridePath string) (*Lexicon, error) {
	base, err := loadOrDefault(basePath, "embedded base", defaultBaseYAML)
	if err != nil {
		return nil, err
	}
	override, err := loadOrDefault(overridePath, "embedded override", defaultOverrideYAML)
	if err != nil {
		return nil, err
	}
	return New(base, override)
}

// LoadFile reads a single YAML table of the form:
//
//	words:
//	  good: 1
//	  awful: -2
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ConfigError{Source: path, Reason: "cannot read file", Err: err}
	}
	return parseTable(path, data)
}

func loadOrDefault(path, name string, embedded []byte) (Table, error) {
	if path == "" {
		return parseTable(name, embedded)
	}
	return LoadFile(path)
}

func parseTable(source string, data []byte) (Table, error) {
	var f tableFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, &domain.ConfigError{Source: source, Reason: "malformed YAML", Err: err}
	}
	if f.Words == nil {
		return nil, &domain.ConfigError{Source: source, Reason: fmt.Sprintf("missing %q mapping", "words")}
	}
	return f.Words, nil
}
