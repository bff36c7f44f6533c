package upstream

import (
	"errors"
	"fmt"
)

// NetworkError is returned for transport failures and non-2xx answers
// of the geo-query service
type NetworkError struct {
	Op         string // "query", "delete", "insert", "delete-random", "count"
	StatusCode int    // 0 when no response was received
	Message    string // message sent by the service, if any
	Err        error  // underlying transport or decode error, if any
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("geo service %s failed with status %d: %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("geo service %s failed with status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("geo service %s failed: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("geo service %s failed", e.Op)
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the geo service
// The delete endpoint answers 404 for ids it does not hold.
func IsNotFound(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr) && netErr.StatusCode == 404
}
