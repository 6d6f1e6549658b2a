package archive

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mmo/mmopack/pkg/release"
)

// commentPrefix starts the ZIP comment written by Writer.
const commentPrefix = "mmopack release"

var releaseNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/mmo/mmopack/releases"))

// ReleaseID derives the identity of a release from its version and the
// ordered archive names and sizes of its entries.
func ReleaseID(v release.Version, m release.Manifest) uuid.UUID {
	var b strings.Builder
	b.WriteString(v.String())
	b.WriteByte('\n')
	for _, e := range m.Entries {
		fmt.Fprintf(&b, "%s\t%d\n", e.ArchivePath, e.Size)
	}
	return uuid.NewSHA1(releaseNamespace, []byte(b.String()))
}

// Comment renders the ZIP comment for a release.
func Comment(id uuid.UUID, v release.Version) string {
	return fmt.Sprintf("%s %s id %s", commentPrefix, v.String(), id)
}

// ParseComment extracts the version string and release identity from a
// comment written by Comment. ok is false for archives written by other tools.
func ParseComment(comment string) (version string, id uuid.UUID, ok bool) {
	fields := strings.Fields(strings.TrimPrefix(comment, commentPrefix))
	if !strings.HasPrefix(comment, commentPrefix) || len(fields) != 3 || fields[1] != "id" {
		return "", uuid.Nil, false
	}
	if !release.VersionPattern.MatchString(fields[0]) {
		return "", uuid.Nil, false
	}
	id, err := uuid.Parse(fields[2])
	if err != nil {
		return "", uuid.Nil, false
	}
	return fields[0], id, true
}
