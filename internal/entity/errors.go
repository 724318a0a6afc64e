package entity

import "errors"

var (
	// ErrNotFound: a referenced profile id does not exist.
	ErrNotFound = errors.New("profile not found")
	// ErrSelfReference: an action targets the acting profile itself.
	ErrSelfReference = errors.New("action targets own profile")
	// ErrBlocked: a connection request was attempted after the target passed
	// on the requester.
	ErrBlocked = errors.New("request blocked: target passed on requester")
	// ErrNotPending: accept or reject without a matching pending request.
	ErrNotPending = errors.New("no pending request between profiles")
)
