// Package version resolves the release version from C preprocessor headers.
//
// The version constants file carries lines of the form
//
//	#define MMO_VERSION_MAJOR 0
//	#define MMO_VERSION_MINOR 1
//	#define MMO_VERSION_REVISION 9
//
// and an optional generated build file carries
//
//	#define MMO_VERSION_BUILD 42
//
// Lines may appear in any order; other content is ignored. The first
// definition of a name wins. The resolved version renders as 0.1.9, or
// 0.1.9_42 when the build file exists.
package version
