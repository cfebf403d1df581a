// Package curatorconfig loads the project config file described in
// spec.md §4.J / §6: one of .curatorconfig.json, .curatorrc.json, or
// .curatorrc, holding user exclusions, include overrides, and custom
// concept groups.
package curatorconfig

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/codecurator/semindex/internal/curatorerrors"
	"github.com/codecurator/semindex/internal/groups"
)

// candidateNames is the lookup order spec.md §4.I and §6 specify.
var candidateNames = []string{".curatorconfig.json", ".curatorrc.json", ".curatorrc"}

// Config is spec.md §6's config file schema. Exclude/Include are globs
// in internal/discovery's own glob dialect; Load does not merge them
// with discovery.DefaultExclusions itself — callers pass Config.Exclude
// straight into discovery.Options.Exclude, which does that merge, so
// the default exclusion list is defined in exactly one place.
type Config struct {
	Exclude      []string             `json:"exclude,omitempty"`
	Include      []string             `json:"include,omitempty"`
	CustomGroups map[string]GroupSpec `json:"customGroups,omitempty"`
}

// GroupSpec accepts both customGroups shapes spec.md §6 allows: a bare
// array of terms, or an object with optional description/emoji plus
// terms.
type GroupSpec struct {
	Description string   `json:"description,omitempty"`
	Emoji       string   `json:"emoji,omitempty"`
	Terms       []string `json:"terms"`
}

func (g *GroupSpec) UnmarshalJSON(data []byte) error {
	var asSlice []string
	if err := json.Unmarshal(data, &asSlice); err == nil {
		g.Terms = asSlice
		return nil
	}

	type alias GroupSpec
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*g = GroupSpec(a)
	return nil
}

// Groups converts CustomGroups into the shape internal/groups.Registry
// expects, attaching each spec's name.
func (c Config) Groups() map[string]groups.Group {
	out := make(map[string]groups.Group, len(c.CustomGroups))
	for name, spec := range c.CustomGroups {
		out[name] = groups.Group{
			Name:        name,
			Description: spec.Description,
			Emoji:       spec.Emoji,
			Terms:       spec.Terms,
		}
	}
	return out
}

var schema = mustResolvedSchema()

func mustResolvedSchema() *jsonschema.Resolved {
	s, err := jsonschema.For[Config](nil)
	if err != nil {
		// The schema is derived from this package's own fixed Config
		// type, not user input, so a failure here is a programming
		// error, not a runtime condition to recover from.
		panic("curatorconfig: failed building schema: " + err.Error())
	}
	resolved, err := s.Resolve(nil)
	if err != nil {
		panic("curatorconfig: failed resolving schema: " + err.Error())
	}
	return resolved
}

// Load reads the first candidate config file present under root,
// validates it against Config's JSON Schema, and returns it. A missing
// file is not an error — it returns zero-value defaults. Per spec.md
// §7.1, an unreadable or invalid file falls back to defaults and emits
// a warning rather than failing the caller's operation.
func Load(root string) Config {
	for _, name := range candidateNames {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			log.Printf("warning: %v", curatorerrors.NewConfigError(path, err))
			return Config{}
		}

		cfg, err := parse(path, data)
		if err != nil {
			log.Printf("warning: %v", err)
			return Config{}
		}
		return cfg
	}
	return Config{}
}

func parse(path string, data []byte) (Config, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, curatorerrors.NewConfigError(path, err)
	}
	if err := schema.Validate(raw); err != nil {
		return Config{}, curatorerrors.NewConfigError(path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, curatorerrors.NewConfigError(path, err)
	}
	return cfg, nil
}
