// Package assets owns the screenshot directory. It turns uploaded payloads
// into canonical files named after their record, removes superseded files,
// and inlines stored files back into data URIs for the read path.
//
// Failures never propagate as errors: every operation reports a tagged result
// and logs the underlying cause.
package assets
