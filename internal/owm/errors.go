package owm

import "errors"

// Classified failures. Callers distinguish these with errors.Is to choose
// between retry messaging and "try a different search".
var (
	// ErrMissingAPIKey means no API key is configured. Fatal to any
	// fetch; never worth an automatic retry.
	ErrMissingAPIKey = errors.New("weather API key is not configured")

	// ErrNetwork covers connectivity failures reaching the provider.
	ErrNetwork = errors.New("unable to connect to weather service")

	// ErrTimeout means the provider did not answer within the request
	// deadline.
	ErrTimeout = errors.New("weather request timed out")

	// ErrNotFound is a 404-class provider response: the place does not
	// resolve.
	ErrNotFound = errors.New("location not found")

	// ErrProvider covers any other non-2xx provider response.
	ErrProvider = errors.New("weather provider error")
)
