package filesystem_test

import (
	"fmt"

	"github.com/mmo/mmopack/internal/files/filesystem"
)

// Example_memoryFileSystem builds a release tree in memory, the way the
// manifest and version tests do.
func Example_memoryFileSystem() {
	mfs := filesystem.NewMemoryFileSystem("/mmo")
	mfs.AddFile("client/version.hpp", "#define MMO_VERSION_MAJOR 0\n")
	mfs.AddFile("client/bin/resources/js/mmo.js", "var mmo;")

	dir, _ := mfs.Open("client/bin/resources")
	_ = dir.Walk(func(f filesystem.File, err error) error {
		if err == nil && !f.Info().IsDir() {
			fmt.Println(f.RelativePath())
		}
		return nil
	})
	// Output:
	// js/mmo.js
}
