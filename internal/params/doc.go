// Package params collects the variables available to the build command.
//
// Variables come from three places, lowest priority first:
//   - the variables block of mmopack.yaml
//   - env files named with --env-file, in order
//   - --var KEY=VALUE flags
//
// The build trigger expands $NAME in the build command from these variables
// before falling back to the process environment.
//
// # Thread Safety
//
// All functions are safe for concurrent use.
package params
