package api

// API limits and constants.
const (
	// codeRateLimited is the error code for requests rejected by the limiter.
	codeRateLimited = "RATE_LIMITED"

	// maxListItems bounds the comma lists accepted in filter parameters.
	maxListItems = 64
)

// Cache-Control header values.
const (
	CacheNoStore = "no-cache"
)
