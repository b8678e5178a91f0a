package auth

import "github.com/rturenne/catalog-reservation/internal/model"

// Principal is the authenticated identity attached to a request: the
// verified claims plus the reconciled local profile.  It is built once
// per request by the authentication middleware and treated as
// immutable afterwards, so repeated authorization checks within a
// request observe the same profile row.
type Principal struct {
	SubjectID string
	Claims    *Claims
	Profile   model.Profile
}

// IsAdmin reports whether the principal's profile carries the
// administrator flag.
func (p *Principal) IsAdmin() bool { return p.Profile.IsAdmin }
