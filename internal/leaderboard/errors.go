package leaderboard

import "errors"

var (
	// ErrUpdateInProgress is returned by FetchTop when a reconstruction of
	// the same engine's views is in flight. Transient; callers may retry.
	ErrUpdateInProgress = errors.New("leaderboard update in progress")

	// ErrDocumentStream is returned when streaming entries out of the log
	// fails mid-reconstruction. The cache may be left empty; the next
	// FetchTop retries because the log stays authoritative.
	ErrDocumentStream = errors.New("leaderboard entry stream failed")
)
