package access

import (
	"context"
	"fmt"

	"github.com/lexora/lexora-server/auth"
	"github.com/lexora/lexora-server/internal/config"
)

// Denial reasons.
const (
	ReasonUnknownFeature       = "unknown_feature"
	ReasonRoleRestricted       = "role_restricted"
	ReasonSubscriptionRequired = "subscription_required"
	ReasonVerificationRequired = "verification_required"
	ReasonPlanUnavailable      = "plan_unavailable"
)

// Decision is the outcome of a feature check. RequiredTier is set when an
// upgrade would grant access.
type Decision struct {
	Allowed      bool   `json:"allowed"`
	Reason       string `json:"reason,omitempty"`
	RequiredTier string `json:"requiredTier,omitempty"`
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Policy decides whether an identity may use a feature.
type Policy interface {
	Check(ctx context.Context, identity auth.Identity, feature Feature) Decision
}

// PolicyFunc adapts a plain function to Policy.
type PolicyFunc func(ctx context.Context, identity auth.Identity, feature Feature) Decision

func (f PolicyFunc) Check(ctx context.Context, identity auth.Identity, feature Feature) Decision {
	return f(ctx, identity, feature)
}

// New returns the named policy. plans is only consulted by the
// subscription-gated policy and may be nil for the others.
func New(name string, plans PlanRepo) (Policy, error) {
	switch name {
	case "", config.FeaturePolicyAllowAll:
		return AllowAll(), nil
	case config.FeaturePolicyRoleGated:
		return RoleGated(DefaultRoleTable()), nil
	case config.FeaturePolicySubscriptionGated:
		if plans == nil {
			return nil, fmt.Errorf("[access New] %s policy needs a plan repository", name)
		}
		return SubscriptionGated(plans), nil
	default:
		return nil, fmt.Errorf("[access New] unknown feature policy %q", name)
	}
}

// AllowAll grants every feature to every authenticated identity.
func AllowAll() Policy {
	return PolicyFunc(func(context.Context, auth.Identity, Feature) Decision {
		return allow()
	})
}
