package linking

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ManifestFiles are the file names looked up in a bundle root, in order.
var ManifestFiles = []string{"agent-stuff.yaml", "agent-stuff.yml", "agent-stuff.toml"}

// ErrInvalidManifest wraps manifest validation failures.
var ErrInvalidManifest = errors.New("invalid manifest")

// Entry maps one file or directory of the bundle to its install location.
type Entry struct {
	Name        string `yaml:"name" toml:"name" json:"name"`
	Description string `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	// Source is relative to the bundle root.
	Source string `yaml:"source" toml:"source" json:"source"`
	// Target is absolute or starts with "~/".
	Target string `yaml:"target" toml:"target" json:"target"`
}

// Manifest lists everything a bundle can install.
type Manifest struct {
	Entries []Entry `yaml:"entries" toml:"entries" json:"entries"`
}

// DefaultManifest is used when a bundle root has no manifest file.
func DefaultManifest() Manifest {
	return Manifest{Entries: []Entry{
		{
			Name:        "ghostty",
			Description: "Ghostty terminal config",
			Source:      "ghostty/config",
			Target:      "~/.config/ghostty/config",
		},
		{
			Name:        "pi-settings",
			Description: "pi agent settings",
			Source:      "pi/settings.json",
			Target:      "~/.pi/agent/settings.json",
		},
		{
			Name:        "pi-extensions",
			Description: "pi extensions (footer, questions, hooks)",
			Source:      "pi/extensions",
			Target:      "~/.pi/agent/extensions",
		},
		{
			Name:        "claude-settings",
			Description: "Claude agent settings and hooks",
			Source:      "claude/settings.json",
			Target:      "~/.claude/settings.json",
		},
	}}
}

// LoadManifest reads the manifest from root. It returns the path it read,
// or "" when the default manifest was used.
func LoadManifest(root string) (Manifest, string, error) {
	for _, name := range ManifestFiles {
		path := filepath.Join(root, name)

		data, err := os.ReadFile(path) //nolint:gosec // G304: fixed name under the bundle root
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return Manifest{}, "", fmt.Errorf("read manifest: %w", err)
		}

		var m Manifest
		if strings.HasSuffix(name, ".toml") {
			err = toml.Unmarshal(data, &m)
		} else {
			err = yaml.Unmarshal(data, &m)
		}

		if err != nil {
			return Manifest{}, path, fmt.Errorf("%w: parse %s: %w", ErrInvalidManifest, name, err)
		}

		if err := m.Validate(); err != nil {
			return Manifest{}, path, err
		}

		return m, path, nil
	}

	return DefaultManifest(), "", nil
}

// Validate checks that entries are named uniquely and stay inside the
// bundle.
func (m Manifest) Validate() error {
	if len(m.Entries) == 0 {
		return fmt.Errorf("%w: no entries", ErrInvalidManifest)
	}

	seen := make(map[string]bool, len(m.Entries))

	for i, e := range m.Entries {
		switch {
		case e.Name == "":
			return fmt.Errorf("%w: entry %d has no name", ErrInvalidManifest, i+1)
		case seen[e.Name]:
			return fmt.Errorf("%w: duplicate entry %q", ErrInvalidManifest, e.Name)
		case e.Source == "" || e.Target == "":
			return fmt.Errorf("%w: entry %q needs source and target", ErrInvalidManifest, e.Name)
		case filepath.IsAbs(e.Source) || !filepath.IsLocal(e.Source):
			return fmt.Errorf("%w: entry %q source must stay inside the bundle", ErrInvalidManifest, e.Name)
		case !filepath.IsAbs(e.Target) && e.Target != "~" && !strings.HasPrefix(e.Target, "~/"):
			return fmt.Errorf("%w: entry %q target must be absolute or start with ~/", ErrInvalidManifest, e.Name)
		}

		seen[e.Name] = true
	}

	return nil
}

// Select returns the entries whose names are listed, in manifest order.
func (m Manifest) Select(names []string) []Entry {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	out := make([]Entry, 0, len(names))

	for _, e := range m.Entries {
		if want[e.Name] {
			out = append(out, e)
		}
	}

	return out
}
