package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/mmo/mmopack/internal/cli"
	"github.com/mmo/mmopack/pkg/release"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(release.ExitPanic)
		}
	}()

	if os.Getenv("MMOPACK_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(release.ExitCodeForError(err))
	}
}
