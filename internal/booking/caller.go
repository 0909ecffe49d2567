package booking

import (
	"strings"

	"homecare-app-server/internal/models"
)

// Caller is the authenticated principal an operation runs for.
type Caller struct {
	ID    string
	Name  string
	roles map[models.Role]bool
}

// NewCaller builds a Caller from token claims. ids holds every identifier
// claim in token order; see CurrentUserID.
func NewCaller(ids []string, name string, roles []string) Caller {
	c := Caller{
		ID:    CurrentUserID(ids),
		Name:  name,
		roles: make(map[models.Role]bool, len(roles)),
	}
	for _, r := range roles {
		c.roles[models.Role(r)] = true
	}
	return c
}

// CurrentUserID picks the caller id from the identifier claims. When several
// are present the last one wins. An empty result means the caller is unknown.
func CurrentUserID(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return strings.TrimSpace(ids[len(ids)-1])
}

// Authenticated reports whether the caller id could be resolved.
func (c Caller) Authenticated() bool { return c.ID != "" }

func (c Caller) Has(role models.Role) bool { return c.roles[role] }

// HasAny reports whether the caller holds at least one of roles.
func (c Caller) HasAny(roles ...models.Role) bool {
	for _, r := range roles {
		if c.roles[r] {
			return true
		}
	}
	return false
}

func (c Caller) IsAdmin() bool     { return c.Has(models.RoleAdmin) }
func (c Caller) IsPersonnel() bool { return c.Has(models.RolePersonnel) }
func (c Caller) IsPatient() bool   { return c.Has(models.RolePatient) }

// Roles returns the caller roles in a stable order.
func (c Caller) Roles() []models.Role {
	var out []models.Role
	for _, r := range models.AllRoles {
		if c.roles[r] {
			out = append(out, r)
		}
	}
	return out
}
