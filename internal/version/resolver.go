package version

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strconv"

	"github.com/mmo/mmopack/internal/files/filesystem"
	"github.com/mmo/mmopack/pkg/release"
)

// Constant name suffixes appended to the configured prefix.
const (
	NameMajor    = "MAJOR"
	NameMinor    = "MINOR"
	NameRevision = "REVISION"
	NameBuild    = "BUILD"
)

// Resolver reads version constants through a filesystem provider.
// Resolver is safe for concurrent use when the provider is.
type Resolver struct {
	fsProvider filesystem.FileSystemProvider
}

// NewResolver creates a Resolver backed by the OS filesystem.
func NewResolver() *Resolver {
	return &Resolver{fsProvider: filesystem.NewOSFileSystem()}
}

// NewResolverWithFS creates a Resolver with a custom filesystem provider.
// Panics if fsProvider is nil.
func NewResolverWithFS(fsProvider filesystem.FileSystemProvider) *Resolver {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Resolver{fsProvider: fsProvider}
}

// Resolve extracts MAJOR, MINOR and REVISION from cfg.Version.File and, when
// cfg.Version.BuildFile exists, BUILD from it.
func (r *Resolver) Resolve(cfg release.Config) (release.Version, error) {
	prefix := cfg.Version.Prefix
	if prefix == "" {
		prefix = release.DefaultVersionPrefix
	}

	versionPath := cfg.Resolve(cfg.Version.File)
	content, err := r.readRequired(versionPath)
	if err != nil {
		return release.Version{}, err
	}

	var v release.Version
	targets := []struct {
		name string
		dst  *int
	}{
		{NameMajor, &v.Major},
		{NameMinor, &v.Minor},
		{NameRevision, &v.Revision},
	}
	for _, t := range targets {
		value, err := Lookup(content, prefix+t.name, versionPath)
		if err != nil {
			return release.Version{}, err
		}
		*t.dst = value
	}

	if cfg.Version.BuildFile != "" {
		buildPath := cfg.Resolve(cfg.Version.BuildFile)
		buildContent, present, err := r.readOptional(buildPath)
		if err != nil {
			return release.Version{}, err
		}
		if present {
			build, err := Lookup(buildContent, prefix+NameBuild, buildPath)
			if err != nil {
				return release.Version{}, err
			}
			v.Build = &build
		}
	}

	if err := v.Validate(); err != nil {
		return release.Version{}, err
	}
	return v, nil
}

func (r *Resolver) readRequired(path string) (string, error) {
	data, err := r.fsProvider.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &release.MissingFileError{Path: path, Kind: "file"}
		}
		return "", fmt.Errorf("failed to read version file %s: %w", path, err)
	}
	return string(data), nil
}

func (r *Resolver) readOptional(path string) (string, bool, error) {
	info, err := r.fsProvider.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to stat build version file %s: %w", path, err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("build version path %s is a directory: %w", path, release.ErrInvalidConfig)
	}
	data, err := r.fsProvider.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to read build version file %s: %w", path, err)
	}
	return string(data), true, nil
}

// Lookup returns the integer value of the first "#define name <integer>" line
// in content. file is used for error reporting only.
func Lookup(content, name, file string) (int, error) {
	m := definePattern(name, `(\d+)\b`).FindStringSubmatch(content)
	if m == nil {
		if bad := definePattern(name, `(\S+)`).FindStringSubmatch(content); bad != nil {
			return 0, &release.VersionParseError{File: file, Name: name, Reason: fmt.Sprintf("value %q is not an integer", bad[1])}
		}
		return 0, &release.VersionParseError{File: file, Name: name, Reason: "definition not found"}
	}

	value, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, &release.VersionParseError{File: file, Name: name, Reason: fmt.Sprintf("value %s is out of range", m[1])}
	}
	return value, nil
}

// definePattern matches a #define of name at the start of a line followed by value.
func definePattern(name, value string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*#[ \t]*define[ \t]+` + regexp.QuoteMeta(name) + `[ \t]+` + value)
}

var _ release.VersionResolver = (*Resolver)(nil)
