// Package migration rewrites legacy screenshots into the canonical format.
//
// A Migrator works directly on the catalog database file and the screenshots
// directory, outside the collection coordinator. It reports what is on disk,
// converts every raster screenshot that is not yet WebP (renaming it to the
// canonical {id}_{title}.webp form), and verifies the result. Each record is
// migrated in its own transaction; a failure on one record is collected and
// the run moves on.
//
// Run takes the same lock file as the catalog server and refuses to start
// while the server holds it.
package migration
