// Package catalog persists game records in SQLite.
//
// The Store owns the database connection, schema initialization, record CRUD,
// and status statistics. It never touches screenshot files: the collection
// coordinator resolves asset paths and hands them to the store, and the read
// path inlines stored screenshots through an injected Inliner.
//
// Schema changes bump the version in schema.go. Databases created before the
// version table existed are adopted in place because every statement in
// schema.sql is idempotent.
package catalog
