package tutor

import "errors"

var (
	// ErrUpstream signals a transport or auth failure from the model provider.
	ErrUpstream = errors.New("model provider call failed")

	// ErrMalformedReply signals a completion that is not parseable JSON or is
	// missing required fields.
	ErrMalformedReply = errors.New("malformed model reply")
)
