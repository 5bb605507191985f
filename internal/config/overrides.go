package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Override is one pair of the override table.
type Override struct {
	Source     string `yaml:"source"`
	Target     string `yaml:"target"`
	MapperName string `yaml:"mapper_name,omitempty"`
}

// UnmarshalYAML accepts entity/dto as aliases of source/target.
func (o *Override) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Source     string `yaml:"source"`
		Target     string `yaml:"target"`
		Entity     string `yaml:"entity"`
		DTO        string `yaml:"dto"`
		MapperName string `yaml:"mapper_name"`
	}

	if err := node.Decode(&raw); err != nil {
		return err
	}

	o.Source = firstNonEmpty(raw.Source, raw.Entity)
	o.Target = firstNonEmpty(raw.Target, raw.DTO)
	o.MapperName = strings.TrimSpace(raw.MapperName)

	if o.Source == "" || o.Target == "" {
		return fmt.Errorf("line %d: mapper entry requires source and target", node.Line)
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}

	return ""
}

// File is the on-disk layout of the override file.
type File struct {
	Mappers []Override `yaml:"mappers"`
}

// Overrides is the ordered override table of one run.
type Overrides struct {
	entries []Override
}

// NewOverrides creates a table from entries; later duplicates of a pair are dropped.
func NewOverrides(entries ...Override) *Overrides {
	o := &Overrides{}
	for _, e := range entries {
		o.Add(e)
	}

	return o
}

// Load reads an override file. An empty path or a missing file yields an
// empty table.
func Load(path string) (*Overrides, error) {
	if path == "" {
		return NewOverrides(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewOverrides(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read override file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses override YAML.
func Parse(data []byte) (*Overrides, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse override YAML: %w", err)
	}

	return NewOverrides(f.Mappers...), nil
}

// Add appends an override unless its pair is already present.
func (o *Overrides) Add(ov Override) bool {
	if o.IsMapped(ov.Source, ov.Target) {
		return false
	}

	o.entries = append(o.entries, ov)

	return true
}

// Lookup returns the override of a pair.
func (o *Overrides) Lookup(source, target string) (Override, bool) {
	for _, e := range o.entries {
		if e.Source == source && e.Target == target {
			return e, true
		}
	}

	return Override{}, false
}

// IsMapped reports whether the pair is in the table.
func (o *Overrides) IsMapped(source, target string) bool {
	_, ok := o.Lookup(source, target)

	return ok
}

// MapperName returns the explicit mapper name of a pair, or "".
func (o *Overrides) MapperName(source, target string) string {
	ov, _ := o.Lookup(source, target)

	return ov.MapperName
}

// Pairs returns the overrides in order.
func (o *Overrides) Pairs() []Override {
	return append([]Override(nil), o.entries...)
}

// Len returns the number of overrides.
func (o *Overrides) Len() int {
	return len(o.entries)
}

// Canonicalize rewrites every source and target through fn, typically to
// turn short type names into full identifiers. Entries fn cannot resolve
// are kept as written. Pairs that become duplicates are dropped.
func (o *Overrides) Canonicalize(fn func(string) (string, bool)) {
	entries := o.entries
	o.entries = nil

	for _, e := range entries {
		if s, ok := fn(e.Source); ok {
			e.Source = s
		}

		if t, ok := fn(e.Target); ok {
			e.Target = t
		}

		o.Add(e)
	}
}
