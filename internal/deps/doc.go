// Package deps reports whether the external executables medialib shells out
// to are installed.
//
// The daemon logs missing binaries at startup and the CLI status command
// renders the same list, so both paths share CheckBinaries and CheckFFmpeg.
package deps
