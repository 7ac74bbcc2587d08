// Package imaging normalizes uploaded screenshot payloads into the canonical
// on-disk form: lossy WebP with a bounded width. Vector (SVG) payloads are
// passed through untouched, and any decode or encode failure degrades to the
// original payload instead of failing the caller.
package imaging
