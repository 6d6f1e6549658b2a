// Package build triggers the external build that produces the release
// binaries.
//
// The build command is a single string from configuration, split and
// expanded the way a POSIX shell would split a simple command (quotes,
// backslashes, $VAR and ${VAR}) without spawning a shell. Variables resolve
// from the configured variables, then MMOPACK_PROJECT and
// MMOPACK_CONFIGURATION, then the process environment. The same values are
// exported to the build process.
//
// The exit status is always checked: a non-zero status, a launch failure or
// a timeout is reported as a *release.BuildError.
package build
