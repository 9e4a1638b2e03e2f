package contract

import "errors"

var (
	ErrModelInvoke       = errors.New("model invoke failed")
	ErrValidation        = errors.New("validation failed")
	ErrRemoteUnavailable = errors.New("remote agent unavailable")
	ErrRemoteTimeout     = errors.New("remote agent timed out")
	ErrRemoteMalformed   = errors.New("remote agent response malformed")
	ErrCancelUnsupported = errors.New("cancel is not supported")
)
