package notion

import "errors"

// Workspace API errors.
// These errors are returned when RPC calls against the Notion v3 API fail.
//
// Design decision: We define specific error types rather than wrapping all
// errors generically. This allows callers to handle different failure modes
// appropriately (e.g., report a bad token as a configuration problem, but
// surface an import failure with the page that caused it).
var (
	// ErrMissingToken is returned when a client is constructed without a
	// token_v2 session token. The token usually comes from the NOTION_TOKEN
	// environment variable.
	ErrMissingToken = errors.New("missing token_v2 session token")

	// ErrUnauthorized is returned when the API rejects the session token.
	// The token may have expired or been revoked.
	ErrUnauthorized = errors.New("workspace rejected the session token")

	// ErrInvalidPageURL is returned when a page URL does not end in a
	// 32-character block ID and therefore cannot be resolved.
	ErrInvalidPageURL = errors.New("page URL does not contain a block ID")

	// ErrPageNotFound is returned when the API has no accessible record for
	// a block ID. The page may have been deleted or the token's user may
	// lack access to it.
	ErrPageNotFound = errors.New("page not found or not accessible")

	// ErrImportFailed is returned when the server-side import task reports
	// failure. The wrapped message carries the task error when one is given.
	ErrImportFailed = errors.New("content import failed")

	// ErrImportTimeout is returned when the import task does not reach a
	// terminal state within the import timeout.
	ErrImportTimeout = errors.New("content import timed out")
)
