package yamusic

import "errors"

// Error conditions surfaced by the client.
//
// Per-record problems (a row whose embedded literal fails to decode, a
// row missing an expected node) are not errors at all: the row is
// skipped and extraction continues. The sentinels below cover the
// conditions a caller must be able to distinguish.
var (
	// ErrNotFound reports that a single-result search matched nothing.
	// This is a result state, not a failure: callers distinguish "no
	// match" from an actual error with errors.Is.
	ErrNotFound = errors.New("no matching result")

	// ErrUnknownKind reports a search kind outside tracks, albums and
	// artists. It is raised before any request is made.
	ErrUnknownKind = errors.New("unknown search kind")

	// ErrNoStorageDir reports a download-URL resolution attempt on a
	// track whose storage locator is not known. The locator arrives
	// with track rows on detail pages; a track built from a bare
	// search reference may not have one yet.
	ErrNoStorageDir = errors.New("track has no storage dir")
)
