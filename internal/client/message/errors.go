package message

import (
	"errors"
	"fmt"
)

// Sentinel kinds for fetch failures. A *FetchError unwraps to exactly one.
var (
	ErrNetwork = errors.New("network failure")
	ErrStatus  = errors.New("unexpected status")
	ErrDecode  = errors.New("malformed JSON body")

	ErrInvalidPageURL = errors.New("invalid page url")

	errEmptyBody = errors.New("empty body")
)

// Kind classifies a fetch failure for logs and metrics. The user-visible text
// never depends on it.
type Kind string

// Fetch failure kinds.
const (
	KindNetwork Kind = "network"
	KindStatus  Kind = "status"
	KindDecode  Kind = "decode"
)

func (k Kind) sentinel() error {
	switch k {
	case KindStatus:
		return ErrStatus
	case KindDecode:
		return ErrDecode
	default:
		return ErrNetwork
	}
}

// FetchError describes a failed message fetch.
type FetchError struct {
	Kind   Kind
	Path   string
	Status int // HTTP status for KindStatus, zero otherwise
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Kind == KindStatus:
		return fmt.Sprintf("GET %s: %s %d", e.Path, e.Kind.sentinel(), e.Status)
	case e.Err != nil:
		return fmt.Sprintf("GET %s: %s: %v", e.Path, e.Kind.sentinel(), e.Err)
	default:
		return fmt.Sprintf("GET %s: %s", e.Path, e.Kind.sentinel())
	}
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// KindOf returns the kind of a fetch failure, or "" if err is not one.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
