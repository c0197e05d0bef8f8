package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable reports a transport failure or an elapsed deadline.
	// For registerLoan and returnBook the remote side may still have applied
	// the mutation.
	ErrUnreachable = errors.New("gateway: upstream unreachable")
	// ErrMalformedResponse reports a reply that is not a usable SOAP envelope.
	ErrMalformedResponse = errors.New("gateway: malformed response")
	// ErrUnknownMethod reports a method outside the supported set.
	ErrUnknownMethod = errors.New("gateway: unknown method")
	// ErrNotFound is matched by NotFoundError.
	ErrNotFound = errors.New("gateway: not found")
	// ErrMissingParameter reports an empty required argument; no request is sent.
	ErrMissingParameter = errors.New("gateway: missing parameter")
)

// RemoteFaultError is returned for non-success HTTP statuses and SOAP faults.
type RemoteFaultError struct {
	Status int
	Body   string
}

func (e *RemoteFaultError) Error() string {
	return fmt.Sprintf("gateway: remote fault (status %d): %s", e.Status, e.Body)
}

// BusinessError carries the opaque text returned in place of a structured
// payload. The text may describe a failure or a success; it is not classified.
type BusinessError struct {
	Method Method
	Text   string
}

func (e *BusinessError) Error() string {
	return e.Text
}

// NotFoundError reports a lookup that produced no record. Detail holds the
// upstream text when there was one.
type NotFoundError struct {
	Key    string
	Detail string
}

func (e *NotFoundError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("gateway: %s not found", e.Key)
	}
	return fmt.Sprintf("gateway: %s not found: %s", e.Key, e.Detail)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
