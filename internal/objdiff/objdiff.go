// Package objdiff produces the objdiff project file that pairs every
// original object with the object built from hand-written source.
package objdiff

import (
	"encoding/json"
	"fmt"
	"os"
)

// File is the project file objdiff looks for in the project root.
const File = "objdiff.json"

// SchemaURL is written as "$schema" so editors can validate the file.
const SchemaURL = "https://raw.githubusercontent.com/encounter/objdiff/main/config.schema.json"

// WatchPatterns makes objdiff rebuild when any of these change.
var WatchPatterns = []string{
	"src/**/*.c",
	"src/**/*.cp",
	"src/**/*.cpp",
	"src/**/*.cxx",
	"src/**/*.h",
	"src/**/*.hp",
	"src/**/*.hpp",
	"src/**/*.hxx",
	"src/**/*.s",
	"src/**/*.S",
	"src/**/*.asm",
	"src/**/*.inc",
	"src/**/*.py",
	"src/**/*.yml",
	"src/**/*.txt",
	"src/**/*.json",
}

// Category is a progress group shown by objdiff.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Categories maps category ids to display names.
var Categories = []Category{
	{ID: "P2", Name: "Engine"},
	{ID: "splice", Name: "Splice"},
	{ID: "ps2t", Name: "Tooling"},
	{ID: "sce", Name: "Libs"},
	{ID: "data", Name: "Data"},
}

// Unit correlates one original object with its decompiled counterpart.
type Unit struct {
	Name       string   `json:"name"`
	TargetPath string   `json:"target_path"`
	Metadata   Metadata `json:"metadata"`
	// BasePath is empty when no hand-written source exists yet.
	BasePath string `json:"base_path,omitempty"`
}

// Metadata holds per-unit progress information.
type Metadata struct {
	ProgressCategories []string `json:"progress_categories"`
}

// Config is the objdiff.json document.
type Config struct {
	Schema             string     `json:"$schema"`
	CustomMake         string     `json:"custom_make"`
	CustomArgs         []string   `json:"custom_args"`
	BuildTarget        bool       `json:"build_target"`
	BuildBase          bool       `json:"build_base"`
	WatchPatterns      []string   `json:"watch_patterns"`
	Units              []Unit     `json:"units"`
	ProgressCategories []Category `json:"progress_categories"`
}

// NewConfig wraps units in the fixed project settings.
func NewConfig(units []Unit) *Config {
	if units == nil {
		units = []Unit{}
	}
	return &Config{
		Schema:             SchemaURL,
		CustomMake:         "ninja",
		CustomArgs:         []string{},
		BuildTarget:        false,
		BuildBase:          true,
		WatchPatterns:      WatchPatterns,
		Units:              units,
		ProgressCategories: Categories,
	}
}

// Write stores the document as indented JSON.
func (c *Config) Write(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Load reads a previously written document.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &c, nil
}
