package auth

import (
	"errors"
	"strconv"

	"advicehub/internal/model"
)

// Guard failures. Handlers translate ErrUnauthenticated into 401 and
// ErrForbidden into 403.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Principal is the per-request security context the access filter populates
// after a token validates: who the caller is and which roles the token
// carried. It is never shared across requests.
type Principal struct {
	UserID uint64
	Roles  []string
}

// HasRole reports whether the principal carries the given role.
func (p Principal) HasRole(r model.Role) bool {
	return model.HasRole(p.Roles, r)
}

// Requirement describes what an operation demands of the caller. Public
// operations accept anyone, AnyAuthenticated accepts any valid principal,
// and RequireRoles accepts principals carrying at least one listed role.
// Ownership rules ("the author or an admin") need the target record and are
// checked with CheckOwnerOr at the call site instead.
type Requirement struct {
	public bool
	roles  []model.Role
}

// Public accepts every request, token or not.
func Public() Requirement { return Requirement{public: true} }

// AnyAuthenticated accepts any request with a valid principal.
func AnyAuthenticated() Requirement { return Requirement{} }

// RequireRoles accepts principals holding at least one of the given roles.
func RequireRoles(roles ...model.Role) Requirement { return Requirement{roles: roles} }

// Check evaluates the requirement against a principal. p is nil when the
// request carried no valid token.
func (r Requirement) Check(p *Principal) error {
	if r.public {
		return nil
	}
	if p == nil {
		return ErrUnauthenticated
	}
	if len(r.roles) == 0 {
		return nil
	}
	for _, want := range r.roles {
		if p.HasRole(want) {
			return nil
		}
	}
	return ErrForbidden
}

// CheckOwnerOr passes when the principal is the record's author or carries
// the fallback role. Used for edit/delete on advice items.
func CheckOwnerOr(p *Principal, authorID uint64, fallback model.Role) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if p.UserID == authorID || p.HasRole(fallback) {
		return nil
	}
	return ErrForbidden
}

func strconvID(id uint64) string { return strconv.FormatUint(id, 10) }

func parseID(s string) (uint64, error) { return strconv.ParseUint(s, 10, 64) }
