package segment

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultAsmPath is used when the manifest does not name the assembly tree.
const DefaultAsmPath = AsmDir

// Manifest is the segment list exported by the splitter.
type Manifest struct {
	Options  ManifestOptions `yaml:"options" json:"options" jsonschema:"title=Options,description=Splitter options relevant to the build"`
	Segments []ManifestEntry `yaml:"segments" json:"segments" jsonschema:"title=Segments,description=Linker entries in link order"`
}

// ManifestOptions mirrors the splitter options the build needs.
type ManifestOptions struct {
	AsmPath string `yaml:"asm_path,omitempty" json:"asm_path,omitempty" jsonschema:"title=Assembly Path,description=Directory the splitter writes assembly into"`
}

// ManifestEntry is the serialized form of an Entry.
type ManifestEntry struct {
	Type   string   `yaml:"type" json:"type" jsonschema:"title=Type,description=Segment type such as asm or cpp"`
	Src    []string `yaml:"src,omitempty" json:"src,omitempty" jsonschema:"title=Sources,description=Source paths relative to the project root"`
	Object string   `yaml:"object,omitempty" json:"object,omitempty" jsonschema:"title=Object,description=Object path expected by the linker script"`
}

// Entries converts the manifest into build entries.
func (m *Manifest) Entries() []Entry {
	entries := make([]Entry, 0, len(m.Segments))
	for _, s := range m.Segments {
		entries = append(entries, NewEntry(s.Type, s.Src, s.Object))
	}
	return entries
}

// AsmPath returns the assembly tree named by the manifest or the default.
func (m *Manifest) AsmPath() string {
	if m.Options.AsmPath == "" {
		return DefaultAsmPath
	}
	return m.Options.AsmPath
}

// ParseManifest decodes a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads and decodes the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read segment manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode segment manifest %s: %w", path, err)
	}
	slog.Debug("Loaded segment manifest", "path", path, "segments", len(m.Segments))
	return m, nil
}
