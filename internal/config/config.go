package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mmo/mmopack/pkg/release"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConfigFileName is looked up in the base directory when --config is not given.
const ConfigFileName = "mmopack.yaml"

type BuildSection struct {
	Command       string `yaml:"command,omitempty"`
	Project       string `yaml:"project,omitempty"`
	Configuration string `yaml:"configuration,omitempty"`
	Skip          *bool  `yaml:"skip,omitempty"`
	Timeout       string `yaml:"timeout,omitempty"`
}

type VersionSection struct {
	File      string  `yaml:"file,omitempty"`
	BuildFile *string `yaml:"build_file,omitempty"`
	Prefix    string  `yaml:"prefix,omitempty"`
}

type OutputSection struct {
	Dir         string `yaml:"dir,omitempty"`
	Name        string `yaml:"name,omitempty"`
	Compression *int   `yaml:"compression,omitempty"`
}

// ProjectConfig is the on-disk form of mmopack.yaml. Absent fields keep
// their defaults; a present files or walks list replaces the default list.
type ProjectConfig struct {
	Build     BuildSection          `yaml:"build,omitempty"`
	Version   VersionSection        `yaml:"version,omitempty"`
	Files     []release.FileMapping `yaml:"files,omitempty"`
	Walks     []release.WalkMapping `yaml:"walks,omitempty"`
	Output    OutputSection         `yaml:"output,omitempty"`
	Checksum  *bool                 `yaml:"checksum,omitempty"`
	Variables map[string]string     `yaml:"variables,omitempty"`
}

// Load reads mmopack.yaml from baseDir.
func Load(baseDir string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(baseDir, ConfigFileName))
}

// LoadFile reads a project config from path. Unknown keys are rejected.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %v: %w", path, err, release.ErrInvalidConfig)
	}
	return &cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *ProjectConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Apply overlays the non-empty fields of pc onto cfg.
func Apply(cfg release.Config, pc *ProjectConfig) (release.Config, error) {
	if pc == nil {
		return cfg, nil
	}

	if pc.Build.Command != "" {
		cfg.Build.Command = pc.Build.Command
	}
	if pc.Build.Project != "" {
		cfg.Build.Project = pc.Build.Project
	}
	if pc.Build.Configuration != "" {
		cfg.Build.Configuration = pc.Build.Configuration
	}
	if pc.Build.Skip != nil {
		cfg.Build.Skip = *pc.Build.Skip
	}
	if pc.Build.Timeout != "" {
		d, err := time.ParseDuration(pc.Build.Timeout)
		if err != nil {
			return cfg, fmt.Errorf("invalid build timeout %q in %s: %w", pc.Build.Timeout, ConfigFileName, release.ErrInvalidConfig)
		}
		cfg.Build.Timeout = d
	}

	if pc.Version.File != "" {
		cfg.Version.File = pc.Version.File
	}
	if pc.Version.BuildFile != nil {
		cfg.Version.BuildFile = *pc.Version.BuildFile
	}
	if pc.Version.Prefix != "" {
		cfg.Version.Prefix = pc.Version.Prefix
	}

	if pc.Files != nil {
		cfg.Files = append([]release.FileMapping(nil), pc.Files...)
	}
	if pc.Walks != nil {
		cfg.Walks = append([]release.WalkMapping(nil), pc.Walks...)
	}

	if pc.Output.Dir != "" {
		cfg.Output.Dir = pc.Output.Dir
	}
	if pc.Output.Name != "" {
		cfg.Output.NameTemplate = pc.Output.Name
	}
	if pc.Output.Compression != nil {
		cfg.Output.Compression = *pc.Output.Compression
	}
	if pc.Checksum != nil {
		cfg.Checksum = *pc.Checksum
	}
	if len(pc.Variables) > 0 {
		vars := make(map[string]string, len(cfg.Variables)+len(pc.Variables))
		for k, v := range cfg.Variables {
			vars[k] = v
		}
		for k, v := range pc.Variables {
			vars[k] = v
		}
		cfg.Variables = vars
	}

	return cfg, nil
}

// FromConfig returns the project config that reproduces cfg, used to write
// a starter mmopack.yaml.
func FromConfig(cfg release.Config) *ProjectConfig {
	pc := &ProjectConfig{
		Build: BuildSection{
			Command:       cfg.Build.Command,
			Project:       cfg.Build.Project,
			Configuration: cfg.Build.Configuration,
		},
		Version: VersionSection{
			File:      cfg.Version.File,
			BuildFile: &cfg.Version.BuildFile,
			Prefix:    cfg.Version.Prefix,
		},
		Files:  cfg.Files,
		Walks:  cfg.Walks,
		Output: OutputSection{Dir: cfg.Output.Dir, Name: cfg.Output.NameTemplate},
	}
	if cfg.Output.Compression != release.DefaultCompressionLevel {
		pc.Output.Compression = &cfg.Output.Compression
	}
	if cfg.Build.Timeout > 0 {
		pc.Build.Timeout = cfg.Build.Timeout.String()
	}
	if cfg.Checksum {
		pc.Checksum = &cfg.Checksum
	}
	if len(cfg.Variables) > 0 {
		pc.Variables = cfg.Variables
	}
	return pc
}
