// Package services wires the release pipeline together: build, version
// resolution, manifest collection, archive assembly and the optional
// checksum sidecar.
package services
