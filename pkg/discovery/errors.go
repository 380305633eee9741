package discovery

import "errors"

var (
	// ErrScanFailed means the radio could not start a scan. Without a scan
	// there are no targets, so this is fatal to the session.
	ErrScanFailed = errors.New("badge scan failed")

	// ErrNoBadgesDetected means the scan completed but no registered badge
	// was reachable.
	ErrNoBadgesDetected = errors.New("no registered badges detected")
)
