package compliance

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError reports that the request never produced an HTTP response,
// or that the response body could not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-success HTTP status. Body holds a short prefix of
// the response for diagnostics only; it is never parsed.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("compliance service returned %s", e.Status)
	}
	return fmt.Sprintf("compliance service returned %s (%s)", e.Status, e.Body)
}

// DataError reports a success status whose body is not a usable chunk list.
type DataError struct {
	Reason string
	Err    error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *DataError) Unwrap() error { return e.Err }

// Kind groups errors into the categories the UI reports on.
type Kind string

const (
	KindNone      Kind = ""
	KindTransport Kind = "transport"
	KindStatus    Kind = "status"
	KindData      Kind = "data"
	KindUnknown   Kind = "unknown"
)

// Classify returns the category of err.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	var transport *TransportError
	var status *StatusError
	var data *DataError
	switch {
	case errors.As(err, &status):
		return KindStatus
	case errors.As(err, &data):
		return KindData
	case errors.As(err, &transport):
		return KindTransport
	default:
		return KindUnknown
	}
}

// UserMessage renders err as a short message suitable for the status line.
func UserMessage(err error) string {
	var status *StatusError
	switch Classify(err) {
	case KindStatus:
		errors.As(err, &status)
		return fmt.Sprintf("Failed to upload file (%d %s).", status.StatusCode, http.StatusText(status.StatusCode))
	case KindData:
		var data *DataError
		errors.As(err, &data)
		return fmt.Sprintf("The service response could not be used: %s.", data.Reason)
	case KindNone:
		return ""
	default:
		return "An error occurred while uploading the file."
	}
}
