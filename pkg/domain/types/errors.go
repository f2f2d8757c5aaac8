package types

import "github.com/m-mizutani/goerr/v2"

// Error tags for classifying upstream failures. Handlers map these to
// HTTP status codes.
var (
	// TagNotFound marks errors where the requested release or repository
	// does not exist upstream
	TagNotFound = goerr.NewTag("not_found")

	// TagUpstream marks transport or API failures talking to GitHub
	TagUpstream = goerr.NewTag("upstream")
)
