package access

import (
	"context"

	"github.com/lexora/lexora-server/auth"
	"github.com/lexora/lexora-server/users"
)

// RoleTable maps each feature to the roles allowed to use it.
type RoleTable map[Feature][]users.RoleType

// DefaultRoleTable opens the AI analyzer to clients and lawyers and keeps
// every other dashboard feature for lawyers.
func DefaultRoleTable() RoleTable {
	table := make(RoleTable, len(AllFeatures()))
	for _, f := range AllFeatures() {
		table[f] = []users.RoleType{users.RoleLawyer}
	}
	table[FeatureAIAnalyzer] = []users.RoleType{users.RoleUser, users.RoleLawyer}
	table[FeatureProfile] = []users.RoleType{users.RoleUser, users.RoleLawyer}
	return table
}

// RoleGated allows a feature when the identity's role is listed for it.
// Admins are always allowed.
func RoleGated(table RoleTable) Policy {
	return PolicyFunc(func(_ context.Context, identity auth.Identity, feature Feature) Decision {
		if identity.Role == users.RoleAdmin {
			return allow()
		}
		roles, ok := table[feature]
		if !ok {
			return deny(ReasonUnknownFeature)
		}
		if identity.Role.In(roles...) {
			return allow()
		}
		return deny(ReasonRoleRestricted)
	})
}
