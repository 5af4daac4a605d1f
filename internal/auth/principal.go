package auth

// Role is the caller's role as supplied by the external identity provider.
// The service never derives roles itself; it consumes a (principal, role)
// pair per request.
type Role string

const (
	RoleVisitor         Role = "visitor"
	RoleCommunityMember Role = "community_member"
	RoleVerifiedSpeaker Role = "verified_speaker"
	RoleExpert          Role = "expert"
	RoleAdmin           Role = "admin"
)

// ParseRole validates a role string coming off the wire.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleVisitor, RoleCommunityMember, RoleVerifiedSpeaker, RoleExpert, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Principal identifies the caller of an operation. A zero ID means the
// caller is anonymous.
type Principal struct {
	ID   string
	Role Role
}

// Anonymous is the principal for unauthenticated requests.
func Anonymous() Principal {
	return Principal{Role: RoleVisitor}
}

func (p Principal) Authenticated() bool {
	return p.ID != ""
}

// Expert reports whether the principal holds expert or admin privileges.
func (p Principal) Expert() bool {
	return p.Role == RoleExpert || p.Role == RoleAdmin
}
