// Package checksum computes SHA-256 digests of release archives and reads and
// writes the sha256sum-format sidecar published next to each archive.
//
// # Example Usage
//
//	calc := checksum.New()
//	path, sum, err := checksum.WriteSidecar(calc, "mmo-0.1.9.zip")
//	// mmo-0.1.9.zip.sha256 now holds "<sum>  mmo-0.1.9.zip"
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
