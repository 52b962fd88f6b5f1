package schema

import "errors"

var (
	// ErrInvalidRequest indicates a malformed request payload.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotEligible indicates the user holds no qualifying role grant.
	ErrNotEligible = errors.New("no qualifying role grant")
	// ErrUnauthorized indicates a choice was answered by someone other than the requester.
	ErrUnauthorized = errors.New("choice belongs to another user")
	// ErrUpstreamUnavailable indicates the platform failed to supply data or deliver a reply.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrUnknownPersona indicates a chosen role id matches no configured persona.
	ErrUnknownPersona = errors.New("unknown persona")
	// ErrInvalidToken indicates a correlation token could not be decoded.
	ErrInvalidToken = errors.New("invalid correlation token")
)
