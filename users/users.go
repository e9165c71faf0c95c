package users

import (
	"fmt"
	"strings"
	"time"
)

// RoleType is a platform role. Every identity holds exactly one.
type RoleType string

const (
	RoleUser   RoleType = "user"   // Client of the firm
	RoleLawyer RoleType = "lawyer" // Lawyer publishing forms and using paid features
	RoleAdmin  RoleType = "admin"  // Platform operator
)

var validRoles = map[RoleType]struct{}{
	RoleUser:   {},
	RoleLawyer: {},
	RoleAdmin:  {},
}

// ParseRole returns RoleUser for an empty value and an error for anything unknown.
func ParseRole(s string) (RoleType, error) {
	if s == "" {
		return RoleUser, nil
	}
	role := RoleType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := validRoles[role]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

func (r RoleType) String() string {
	return string(r)
}

// In reports whether r is one of roles.
func (r RoleType) In(roles ...RoleType) bool {
	for _, candidate := range roles {
		if candidate == r {
			return true
		}
	}
	return false
}

type User struct {
	ID          string    `json:"id"`                  // Internal identifier
	ProviderID  string    `json:"-"`                   // Subject issued by the identity provider, unique
	Email       string    `json:"email"`               // Email reported by the provider
	Name        string    `json:"name"`                // Display name reported by the provider
	Role        RoleType  `json:"role"`                // Assigned at creation, never changed by login
	Picture     string    `json:"picture,omitempty"`   // Avatar URL
	CreatedAt   time.Time `json:"created_at"`          // First login
	UpdatedAt   time.Time `json:"updated_at"`          // Last profile refresh
	LastLoginAt time.Time `json:"last_login,omitzero"` // Last successful login
}

// RefreshProfile copies the provider-owned fields of p onto u. Role is left alone.
func (u *User) RefreshProfile(p *User, now time.Time) {
	u.Email = p.Email
	u.Name = p.Name
	u.Picture = p.Picture
	u.UpdatedAt = now
	u.LastLoginAt = now
}
