package service

import "errors"

// ErrNotStarted is returned when a greeting is requested before Start or after Stop.
var ErrNotStarted = errors.New("service not started")
