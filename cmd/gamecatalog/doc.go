// Package main hosts the gamecatalog CLI.
//
// The Cobra command tree opens the catalog directly for listing and editing
// games, and `serve` starts the loopback HTTP bridge used by the UI. Keep the
// catalog rules in the internal packages; commands here only parse flags and
// render output.
package main
