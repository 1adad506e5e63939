package auth

import (
	"strings"

	"github.com/bidagri/bidagri-backend/pkg/enums"
)

// Identity is the resolved caller: who they are and what role their
// credential asserts.
type Identity struct {
	UID   string
	Email string
	Role  enums.ActorRole
}

// AuthorizationPolicy decides whether an identity holds administrative
// authority. Policies compose so the email allow-list can be swapped for a
// real role-management system later.
type AuthorizationPolicy interface {
	IsAdmin(identity Identity) bool
}

// RoleClaimPolicy grants admin based on the credential's role claim.
type RoleClaimPolicy struct{}

// IsAdmin implements AuthorizationPolicy.
func (RoleClaimPolicy) IsAdmin(identity Identity) bool {
	return identity.Role == enums.ActorRoleAdmin
}

// EmailAllowlistPolicy grants admin to a static set of administrator emails.
type EmailAllowlistPolicy struct {
	emails map[string]struct{}
}

// NewEmailAllowlistPolicy builds the policy from the configured addresses.
func NewEmailAllowlistPolicy(emails []string) *EmailAllowlistPolicy {
	set := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		if trimmed := strings.ToLower(strings.TrimSpace(email)); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return &EmailAllowlistPolicy{emails: set}
}

// IsAdmin implements AuthorizationPolicy.
func (p *EmailAllowlistPolicy) IsAdmin(identity Identity) bool {
	if p == nil || len(p.emails) == 0 {
		return false
	}
	_, ok := p.emails[strings.ToLower(strings.TrimSpace(identity.Email))]
	return ok
}

// AnyOfPolicy grants admin when any composed policy does.
type AnyOfPolicy []AuthorizationPolicy

// IsAdmin implements AuthorizationPolicy.
func (p AnyOfPolicy) IsAdmin(identity Identity) bool {
	for _, policy := range p {
		if policy != nil && policy.IsAdmin(identity) {
			return true
		}
	}
	return false
}

// DefaultAdminPolicy composes the role claim with the email allow-list.
func DefaultAdminPolicy(allowedEmails []string) AuthorizationPolicy {
	return AnyOfPolicy{RoleClaimPolicy{}, NewEmailAllowlistPolicy(allowedEmails)}
}
