package kalshi

import "fmt"

// TransportError wraps a network-level failure (DNS, connection, timeout).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response, carrying status and the response body.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("request failed: %s - %s", e.Status, e.Body)
}

// DecodeError is malformed JSON from a 2xx response. A successful plain-text
// response is not a DecodeError.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
