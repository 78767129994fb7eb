package models

// PrincipalKind discriminates the two identity tables.
type PrincipalKind string

const (
	PrincipalUser  PrincipalKind = "user"
	PrincipalAdmin PrincipalKind = "admin"
)

// Principal is the authenticated identity carried through token claims,
// middleware locals and service calls. It replaces boolean-driven table and
// column selection with a tagged union.
type Principal struct {
	Kind PrincipalKind
	ID   uint
}

// IsAdmin reports whether the principal resolved against the admins table.
// It exists only for the wire edges (JWT claim, refresh_tokens row).
func (p Principal) IsAdmin() bool {
	return p.Kind == PrincipalAdmin
}

// NewPrincipal builds a Principal from the wire-level isAdmin flag.
func NewPrincipal(id uint, isAdmin bool) Principal {
	if isAdmin {
		return Principal{Kind: PrincipalAdmin, ID: id}
	}
	return Principal{Kind: PrincipalUser, ID: id}
}
