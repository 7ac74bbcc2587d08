// Package textutil provides text processing helpers for turning user-supplied
// record fields into filesystem names and display strings.
//
// The primary use cases are:
//   - Normalizing record titles into bounded, filesystem-safe name fragments
//   - Shortening external links for compact display
package textutil
