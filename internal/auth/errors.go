// Package auth bridges externally-issued bearer tokens to local
// profiles.  It verifies token signatures against the identity
// provider's published key set and narrows the dynamic claim payload
// into a fixed Claims structure at the boundary.
package auth

import "errors"

// ErrAuthenticationFailed is the single error surfaced to callers for
// any verification failure.  The underlying cause (bad signature,
// unknown key, malformed claims, provider unreachable) is logged
// server-side and deliberately not exposed to the client.
var ErrAuthenticationFailed = errors.New("authentication failed")

// ErrKeyNotFound is returned by the key cache when the provider's key
// set has no key matching the requested key-id.  The verifier collapses
// it into ErrAuthenticationFailed.
var ErrKeyNotFound = errors.New("signing key not found")
