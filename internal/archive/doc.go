// Package archive writes and reads release archives.
//
// Archives are standard ZIP files compressed with DEFLATE. Each archive
// carries a comment line naming its version and a release identity, a
// UUIDv5 derived from the version and the ordered entry list, so two
// archives built from the same tree can be recognized as the same release.
//
// Writer.Write never leaves a partial archive at the destination: the ZIP
// stream goes to a hidden temporary file in the destination directory,
// which is synced and then renamed into place.
package archive
