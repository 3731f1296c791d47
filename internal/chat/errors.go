package chat

import "errors"

// ErrCredentialNotFound indicates no API credential is available from
// any backing store. The call aborts before any network I/O.
var ErrCredentialNotFound = errors.New("no API credential available")

// ErrEmptyPrompt indicates the caller supplied nothing to send.
var ErrEmptyPrompt = errors.New("prompt cannot be empty")

// ErrNoModel indicates no model was given and no default is configured.
var ErrNoModel = errors.New("model cannot be empty")
