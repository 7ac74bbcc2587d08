// Package preflight provides readiness checks for the filesystem paths the
// catalog depends on.
//
// These checks run in two contexts:
//   - The screenshot migration tool calls RunAll before rewriting any file and
//     refuses to start when a check fails.
//   - The "gamecatalog serve" command logs the results at startup.
package preflight
