// Package yaml loads search engine profiles from YAML documents.
// The default table is embedded; a user file may replace individual engines
// or the shared denylist without a rebuild.
package yaml

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/sitefind"
	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var defaultProfiles []byte

// document is the on-disk schema.
type document struct {
	Match   string                                            `yaml:"match"`
	Shared  []string                                          `yaml:"shared"`
	Engines map[sitefind.SearchEngine]*sitefind.EngineProfile `yaml:"engines"`
}

// Decode reads a profiles document from r. Engine names are validated and
// the result is checked with Profiles.Validate.
func Decode(r io.Reader) (*sitefind.Profiles, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, sitefind.Errorf(sitefind.EINVALID, "decoding profiles: %v", err)
	}

	profiles := &sitefind.Profiles{
		Match:   doc.Match,
		Shared:  doc.Shared,
		Engines: make(map[sitefind.SearchEngine]*sitefind.EngineProfile, len(doc.Engines)),
	}
	for name, profile := range doc.Engines {
		engine, err := sitefind.ParseEngine(string(name))
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, sitefind.Errorf(sitefind.EINVALID, "engine %s: empty profile", engine)
		}
		profile.Engine = engine
		profiles.Engines[engine] = profile
	}

	if err := profiles.Validate(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// DefaultProfiles returns a fresh copy of the embedded profiles.
func DefaultProfiles() (*sitefind.Profiles, error) {
	return Decode(bytes.NewReader(defaultProfiles))
}

// LoadFile decodes the file at path and merges it over the defaults:
// engines present in the file replace the default engine profile, and a
// non-empty shared list or match mode replaces the default one.
func LoadFile(path string) (*sitefind.Profiles, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening profiles: %w", err)
	}
	defer f.Close()

	override, err := Decode(f)
	if err != nil {
		return nil, err
	}
	base, err := DefaultProfiles()
	if err != nil {
		return nil, err
	}
	return Merge(base, override), nil
}

// Merge applies override on top of base and returns base.
func Merge(base, override *sitefind.Profiles) *sitefind.Profiles {
	if override == nil {
		return base
	}
	if override.Match != "" {
		base.Match = override.Match
	}
	if len(override.Shared) > 0 {
		base.Shared = override.Shared
	}
	for engine, profile := range override.Engines {
		base.Engines[engine] = profile
	}
	return base
}
