// Package filesystem provides filesystem abstraction interfaces and implementations.
//
// The release pipeline reads version headers, stats manifest sources and
// walks resource trees through FileSystemProvider, so every step except the
// final archive write can run against an in-memory tree in tests.
//
// Implementations:
//   - OSFileSystem: Production implementation using the OS filesystem
//   - MemoryFileSystem: In-memory implementation for testing
package filesystem
