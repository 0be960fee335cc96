package auth

import (
	"slices"

	"github.com/google/uuid"
)

// ClaimsBundle is the set of identity and role assertions embedded in a token.
// It is built once per authentication and never mutated afterwards.
type ClaimsBundle struct {
	subject string
	tokenID string
	roles   []string
}

// NewClaimsBundle builds a claims bundle for subject with a fresh token id.
// Roles keep the order they were given in, duplicates and empty names are dropped.
func NewClaimsBundle(subject string, roles []string) ClaimsBundle {
	unique := make([]string, 0, len(roles))
	for _, role := range roles {
		if role == "" || slices.Contains(unique, role) {
			continue
		}
		unique = append(unique, role)
	}

	return ClaimsBundle{
		subject: subject,
		tokenID: uuid.NewString(),
		roles:   unique,
	}
}

// Subject returns the subject name
func (b ClaimsBundle) Subject() string {
	return b.subject
}

// TokenID returns the unique token id (jti)
func (b ClaimsBundle) TokenID() string {
	return b.tokenID
}

// Roles returns a copy of the role names
func (b ClaimsBundle) Roles() []string {
	return slices.Clone(b.roles)
}
