package device

import (
	"errors"
	"fmt"
)

// ErrBadResponse marks a body that is not the JSON shape the endpoint promises.
var ErrBadResponse = errors.New("unexpected device response")

// HTTPError is returned for any non-2xx device response.
type HTTPError struct {
	Path   string
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("device %s: http status %d", e.Path, e.Status)
}

// ActionError is returned when the device answers {"success": false}.
type ActionError struct {
	Path    string
	Message string
}

func (e *ActionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("device %s: action failed", e.Path)
	}
	return fmt.Sprintf("device %s: %s", e.Path, e.Message)
}

// NetworkError wraps a transport failure: the request never got an HTTP answer.
type NetworkError struct {
	Path string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("device %s: %v", e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err is a transport failure worth retrying.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// Message returns the device-supplied reason for a failed action, or "".
func Message(err error) string {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return ""
}
