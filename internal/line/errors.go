package line

import "errors"

var (
	// ErrMissingSignature indicates a configured secret but no signature header.
	ErrMissingSignature = errors.New("missing x-line-signature header")
	// ErrInvalidSignature indicates the signature does not match the body digest.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrMalformedPayload indicates the webhook body is not valid JSON.
	ErrMalformedPayload = errors.New("malformed webhook payload")
	// ErrImageFetchFailed indicates the content API returned a non-success status.
	ErrImageFetchFailed = errors.New("image fetch failed")
)
