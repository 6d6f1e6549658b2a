package params

import (
	"fmt"
	"strings"

	"github.com/mmo/mmopack/pkg/release"
)

// ParseKeyValuePairs converts a slice of "key=value" strings into a map.
//
// Example:
//
//	vars, err := ParseKeyValuePairs([]string{"MMO_PLATFORM=x64", "SIGN=1"})
//	// Returns: map[string]string{"MMO_PLATFORM": "x64", "SIGN": "1"}
func ParseKeyValuePairs(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("variable %q is not in key=value format (example: --var MMO_PLATFORM=x64): %w", pair, release.ErrInvalidConfig)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("variable has empty key: %q: %w", pair, release.ErrInvalidConfig)
		}
		result[key] = value
	}

	return result, nil
}

// Merge overlays each layer onto the previous one; later layers win.
func Merge(layers ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			result[k] = v
		}
	}
	return result
}
