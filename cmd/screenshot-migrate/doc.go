// Package main hosts screenshot-migrate, the batch tool that rewrites legacy
// screenshot files (PNG, JPEG, GIF, BMP, TIFF) as WebP and repoints their
// catalog rows.
//
// Running it without a subcommand prints the report, asks for confirmation,
// migrates, and verifies. The report, run, and verify subcommands expose each
// step on its own. A run takes the catalog lock, so stop `gamecatalog serve`
// first.
package main
