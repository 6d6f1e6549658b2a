package params

import (
	"bytes"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/mmo/mmopack/internal/files/filesystem"
	"github.com/mmo/mmopack/pkg/release"
)

// ParseEnvFile parses .env formatted content. Quoting, comments, "export"
// prefixes and ${VAR} references within the file follow godotenv.
func ParseEnvFile(content []byte) (map[string]string, error) {
	vars, err := godotenv.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, release.ErrInvalidConfig)
	}
	return vars, nil
}

// LoadEnvFiles reads each path through fsProvider and merges the results.
// Later files override earlier ones.
func LoadEnvFiles(fsProvider filesystem.FileSystemProvider, paths []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, p := range paths {
		content, err := fsProvider.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", p, err)
		}
		vars, err := ParseEnvFile(content)
		if err != nil {
			return nil, fmt.Errorf("env file %s: %w", p, err)
		}
		for k, v := range vars {
			result[k] = v
		}
	}
	return result, nil
}
