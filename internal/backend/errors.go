package backend

import (
	"errors"
	"fmt"
)

// ErrUnreachable classifies timeouts, refused connections and other transport
// failures. The UI shows these as a generic connectivity message.
var ErrUnreachable = errors.New("backend unreachable")

// ErrNotSupported means the active profile has no endpoint for the operation.
var ErrNotSupported = errors.New("operation not supported by backend profile")

// APIError is a non-2xx response. Detail carries the message extracted from
// the {detail: ...} payload, or "HTTP {status}" when the body was unusable.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %s (status %d)", e.Detail, e.Status)
}

// AsAPIError unwraps err into an *APIError if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
