package genesis

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/roach88/changeset/internal/storage"
)

// ErrUnknownStorage is returned by Apply when the fixture names a storage
// that was not passed in.
var ErrUnknownStorage = errors.New("fixture names an unknown storage")

// Config is a parsed fixture: raw JSON values keyed by pallet, then by
// storage name.
type Config struct {
	Pallets map[string]map[string]json.RawMessage `json:"pallets"`
}

type yamlConfig struct {
	Pallets map[string]map[string]any `yaml:"pallets"`
}

// LoadYAML reads and parses a YAML fixture file.
func LoadYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML parses a YAML fixture. Unknown top-level fields are rejected.
func ParseYAML(data []byte) (*Config, error) {
	var raw yamlConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg := &Config{Pallets: make(map[string]map[string]json.RawMessage, len(raw.Pallets))}
	for pallet, storages := range raw.Pallets {
		cfg.Pallets[pallet] = make(map[string]json.RawMessage, len(storages))
		for name, v := range storages {
			norm, err := normalize(v)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", pallet, name, err)
			}
			encoded, err := json.Marshal(norm)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", pallet, name, err)
			}
			cfg.Pallets[pallet][name] = encoded
		}
	}
	return cfg, nil
}

// normalize turns YAML's map[any]any into map[string]any so the value can
// be written as JSON. Scalar keys such as integers become their decimal
// text, which is how the storage codec reads map keys.
func normalize(v any) (any, error) {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			switch k.(type) {
			case string, int, int64, uint64, bool, float64:
			default:
				return nil, fmt.Errorf("unsupported map key %v (%T)", k, k)
			}
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(k)] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return v, nil
	}
}

// entry is one storage value of a fixture, keyed as written.
type entry struct {
	name storage.Name
	raw  json.RawMessage
}

// entries lists the fixture's values ordered by storage name.
func (c *Config) entries() []entry {
	var out []entry
	for pallet, storages := range c.Pallets {
		for name, raw := range storages {
			out = append(out, entry{name: storage.NewName(pallet, name), raw: raw})
		}
	}
	slices.SortFunc(out, func(a, b entry) int {
		return cmp.Or(cmp.Compare(a.name.Pallet, b.name.Pallet), cmp.Compare(a.name.Storage, b.name.Storage))
	})
	return out
}

// Storages returns the "pallet/storage" names in the fixture, sorted.
func (c *Config) Storages() []string {
	entries := c.entries()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name.String()
	}
	return names
}

// Apply seeds every storage named in the fixture. Each named storage must
// be among storages; storages the fixture does not mention are left alone.
func (c *Config) Apply(ctx context.Context, storages ...storage.Seeder) error {
	byName := make(map[storage.Name]storage.Seeder, len(storages))
	for _, s := range storages {
		byName[s.Name()] = s
	}

	entries := c.entries()
	var unknown []string
	for _, e := range entries {
		if _, ok := byName[e.name]; !ok {
			unknown = append(unknown, e.name.String())
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownStorage, strings.Join(unknown, ", "))
	}

	for _, e := range entries {
		if err := byName[e.name].Seed(ctx, e.raw); err != nil {
			return fmt.Errorf("failed to seed %s: %w", e.name, err)
		}
	}
	return nil
}
