package release

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
)

// VersionPattern matches a rendered version string.
var VersionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(_\d+)?$`)

// Version identifies a release. Build is nil when no build-number file exists.
type Version struct {
	Major    int
	Minor    int
	Revision int
	Build    *int
}

// String renders the version as M.N.R or M.N.R_B.
func (v Version) String() string {
	s := strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Revision)
	if v.Build != nil {
		s += "_" + strconv.Itoa(*v.Build)
	}
	return s
}

// Validate checks that every component is non-negative and the rendered
// string matches VersionPattern.
func (v Version) Validate() error {
	if v.Major < 0 || v.Minor < 0 || v.Revision < 0 || (v.Build != nil && *v.Build < 0) {
		return fmt.Errorf("negative version component in %s: %w", v.String(), ErrVersionParse)
	}
	if !VersionPattern.MatchString(v.String()) {
		return fmt.Errorf("version %q does not match %s: %w", v.String(), VersionPattern, ErrVersionParse)
	}
	return nil
}

// ManifestEntry pairs a source file on disk with its name inside the archive.
type ManifestEntry struct {
	// SourcePath is the absolute or base-relative path read from disk
	SourcePath string

	// ArchivePath is the forward-slash name stored in the archive
	ArchivePath string

	Size    int64
	ModTime time.Time
	Mode    fs.FileMode
}

// Manifest is the ordered list of entries written to one archive.
type Manifest struct {
	Entries []ManifestEntry
}

// ArchivePaths returns the archive names in manifest order.
func (m Manifest) ArchivePaths() []string {
	paths := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		paths[i] = e.ArchivePath
	}
	return paths
}

// TotalSize sums the uncompressed size of every entry.
func (m Manifest) TotalSize() int64 {
	var total int64
	for _, e := range m.Entries {
		total += e.Size
	}
	return total
}

// FileMapping copies a single source file to an explicit archive name.
type FileMapping struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// WalkMapping adds every file under Dir, stored relative to Root.
// Root defaults to the parent of Dir.
type WalkMapping struct {
	Dir  string `yaml:"dir"`
	Root string `yaml:"root,omitempty"`
}

// BuildConfig controls the external build trigger.
type BuildConfig struct {
	// Command is split and expanded like a shell word list; no shell is spawned
	Command string `yaml:"command"`

	// Project is exposed to Command as $MMOPACK_PROJECT
	Project string `yaml:"project"`

	// Configuration is exposed to Command as $MMOPACK_CONFIGURATION
	Configuration string `yaml:"configuration"`

	// Skip packages whatever is already on disk
	Skip bool `yaml:"skip,omitempty"`

	// Timeout aborts the build when exceeded. Zero means no limit.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// VersionConfig locates the version constants.
type VersionConfig struct {
	File      string `yaml:"file"`
	BuildFile string `yaml:"build_file,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
}

// OutputConfig controls where the archive is written and how it is named.
type OutputConfig struct {
	// Dir defaults to the base directory
	Dir string `yaml:"dir,omitempty"`

	// NameTemplate is a text/template rendered with .Version
	NameTemplate string `yaml:"name"`

	// Compression is the DEFLATE level: -1 for the default, 0 (store) to 9
	Compression int `yaml:"compression"`
}

// Config is the explicit description of one release run.
// Relative paths are resolved against BaseDir.
type Config struct {
	BaseDir   string
	Build     BuildConfig
	Version   VersionConfig
	Files     []FileMapping
	Walks     []WalkMapping
	Output    OutputConfig
	Checksum  bool
	Variables map[string]string
	Force     bool
	Verbose   bool
}

// DefaultConfig returns the layout of the MMO source tree rooted at baseDir.
func DefaultConfig(baseDir string) Config {
	return Config{
		BaseDir: baseDir,
		Build: BuildConfig{
			Command:       DefaultBuildCommand,
			Project:       "mmo.sln",
			Configuration: DefaultBuildConfiguration,
		},
		Version: VersionConfig{
			File:      "client/version.hpp",
			BuildFile: "client/buildversion.hpp",
			Prefix:    DefaultVersionPrefix,
		},
		Files: []FileMapping{
			{Source: "release/client.exe", Target: "client.exe"},
			{Source: "readme.txt", Target: "readme.txt"},
			{Source: "license.txt", Target: "license.txt"},
			{Source: "mmd.txt", Target: "mmd.txt"},
			{Source: "client/bin/config.json", Target: "config.json"},
			{Source: "client/bin/server/server.exe", Target: "server/server.exe"},
		},
		Walks: []WalkMapping{
			{Dir: "client/bin/cards", Root: "client/bin"},
			{Dir: "client/bin/resources", Root: "client/bin"},
		},
		Output: OutputConfig{
			NameTemplate: DefaultNameTemplate,
			Compression:  DefaultCompressionLevel,
		},
	}
}

// Resolve joins a config-relative path with BaseDir. Absolute paths are returned unchanged.
func (c Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, filepath.FromSlash(p))
}

// WalkRoot returns the directory archive paths for w are relative to.
func (c Config) WalkRoot(w WalkMapping) string {
	if w.Root != "" {
		return c.Resolve(w.Root)
	}
	return filepath.Dir(c.Resolve(w.Dir))
}

// ArchivePath renders the destination path of the archive for version.
func (c Config) ArchivePath(v Version) (string, error) {
	name, err := RenderArchiveName(c.Output.NameTemplate, v)
	if err != nil {
		return "", err
	}
	dir := c.BaseDir
	if c.Output.Dir != "" {
		dir = c.Resolve(c.Output.Dir)
	}
	return filepath.Join(dir, name), nil
}

// Validate checks if the Config has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c Config) Validate() error {
	var errs []error

	if c.BaseDir == "" {
		errs = append(errs, fmt.Errorf("base directory is required: %w", ErrInvalidConfig))
	}
	if c.Version.File == "" {
		errs = append(errs, fmt.Errorf("version file is required: %w", ErrInvalidConfig))
	}
	if len(c.Files) == 0 && len(c.Walks) == 0 {
		errs = append(errs, fmt.Errorf("manifest is empty: %w", ErrInvalidConfig))
	}
	if !c.Build.Skip && strings.TrimSpace(c.Build.Command) == "" {
		errs = append(errs, fmt.Errorf("build command is required unless the build is skipped: %w", ErrInvalidConfig))
	}
	if c.Build.Timeout < 0 {
		errs = append(errs, fmt.Errorf("build timeout cannot be negative: %w", ErrInvalidConfig))
	}
	if c.Output.Compression < DefaultCompressionLevel || c.Output.Compression > 9 {
		errs = append(errs, fmt.Errorf("compression level %d is outside -1..9: %w", c.Output.Compression, ErrInvalidConfig))
	}
	if _, err := RenderArchiveName(c.Output.NameTemplate, Version{}); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[string]string, len(c.Files))
	for _, f := range c.Files {
		if f.Source == "" {
			errs = append(errs, fmt.Errorf("file mapping for %q has no source: %w", f.Target, ErrInvalidConfig))
			continue
		}
		target, err := CleanArchivePath(f.Target)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if prev, dup := seen[target]; dup {
			errs = append(errs, fmt.Errorf("archive path %q used by both %s and %s: %w", target, prev, f.Source, ErrInvalidConfig))
			continue
		}
		seen[target] = f.Source
	}

	for _, w := range c.Walks {
		if w.Dir == "" {
			errs = append(errs, fmt.Errorf("walk mapping has no directory: %w", ErrInvalidConfig))
			continue
		}
		rel, err := filepath.Rel(c.WalkRoot(w), c.Resolve(w.Dir))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			errs = append(errs, fmt.Errorf("walk directory %s is not under root %s: %w", w.Dir, w.Root, ErrInvalidConfig))
		}
	}

	return errors.Join(errs...)
}

// CleanArchivePath normalizes an archive name to forward slashes and rejects
// names that are empty, absolute, or escape the archive root.
func CleanArchivePath(p string) (string, error) {
	p = strings.ReplaceAll(p, `\`, "/")
	if p == "" {
		return "", fmt.Errorf("archive path is empty: %w", ErrInvalidConfig)
	}
	if strings.HasPrefix(p, "/") || filepath.VolumeName(p) != "" {
		return "", fmt.Errorf("archive path %q must be relative: %w", p, ErrInvalidConfig)
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("archive path %q escapes the archive root: %w", p, ErrInvalidConfig)
	}
	return cleaned, nil
}

// RenderArchiveName executes the output name template for v.
func RenderArchiveName(nameTemplate string, v Version) (string, error) {
	if strings.TrimSpace(nameTemplate) == "" {
		return "", fmt.Errorf("output name template is empty: %w", ErrInvalidConfig)
	}
	tmpl, err := template.New("archive").Option("missingkey=error").Parse(nameTemplate)
	if err != nil {
		return "", fmt.Errorf("invalid output name template %q: %v: %w", nameTemplate, err, ErrInvalidConfig)
	}
	data := struct {
		Version  string
		Major    int
		Minor    int
		Revision int
	}{v.String(), v.Major, v.Minor, v.Revision}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render output name %q: %v: %w", nameTemplate, err, ErrInvalidConfig)
	}
	name := buf.String()
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("output name %q must be a plain file name: %w", name, ErrInvalidConfig)
	}
	return name, nil
}

// ArchiveInfo describes a finished archive.
type ArchiveInfo struct {
	Path      string
	ReleaseID uuid.UUID
	Entries   int
	Size      int64
}

// Plan is the dry-run view of a release: what would be written and where.
type Plan struct {
	Version     Version
	ArchivePath string
	Manifest    Manifest
	Exists      bool
}

// Result summarizes a completed packaging run.
type Result struct {
	Version      Version
	ArchivePath  string
	ChecksumPath string
	ReleaseID    uuid.UUID
	Entries      int
	Size         int64
	Duration     time.Duration
}
