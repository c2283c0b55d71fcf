package page

import "errors"

// Sentinel kinds for page errors.
var (
	ErrParse           = errors.New("page parse failed")
	ErrElementNotFound = errors.New("element not found")
)
