package access

import (
	"context"
	"errors"

	"github.com/lexora/lexora-server/auth"
	apperrors "github.com/lexora/lexora-server/internal/errors"
	"github.com/lexora/lexora-server/users"
	"github.com/rs/zerolog/log"
)

// Subscription statuses that grant paid features.
const (
	SubscriptionActive   = "active"
	SubscriptionTrialing = "trialing"

	TierProfessional = "professional"
	TierPremium      = "premium"
)

// LawyerPlan is a lawyer's subscription and verification state.
type LawyerPlan struct {
	UserID             string
	SubscriptionTier   string
	SubscriptionStatus string
	IsVerified         bool
	PlanRestrictions   map[string]bool // feature -> allowed; absent means allowed
}

// Active reports whether the subscription currently grants paid features.
func (p *LawyerPlan) Active() bool {
	return p.SubscriptionStatus == SubscriptionActive || p.SubscriptionStatus == SubscriptionTrialing
}

// Restricted reports whether the plan explicitly switches feature off.
func (p *LawyerPlan) Restricted(feature Feature) bool {
	allowed, ok := p.PlanRestrictions[string(feature)]
	return ok && !allowed
}

// PlanRepo loads lawyer plans. GetPlan returns an error matching
// errors.ErrNotFound when the user has no plan.
type PlanRepo interface {
	GetPlan(ctx context.Context, userID string) (*LawyerPlan, error)
}

// SubscriptionGated checks lawyers against their plan. Admins and clients are
// not subscription holders and are always allowed.
func SubscriptionGated(plans PlanRepo) Policy {
	return PolicyFunc(func(ctx context.Context, identity auth.Identity, feature Feature) Decision {
		if !Known(feature) {
			return deny(ReasonUnknownFeature)
		}
		if identity.Role != users.RoleLawyer {
			return allow()
		}
		if _, ok := baseFeatures[feature]; ok {
			return allow()
		}

		plan, err := plans.GetPlan(ctx, identity.ID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return Decision{Reason: ReasonSubscriptionRequired, RequiredTier: TierProfessional}
		}
		if err != nil {
			log.Err(err).Str("user_id", identity.ID).Msg("[SubscriptionGated] failed to load lawyer plan")
			return deny(ReasonPlanUnavailable)
		}

		if _, ok := verifiedFeatures[feature]; ok && !plan.IsVerified {
			return deny(ReasonVerificationRequired)
		}
		if !plan.Active() {
			return Decision{Reason: ReasonSubscriptionRequired, RequiredTier: TierProfessional}
		}
		if plan.Restricted(feature) {
			return Decision{Reason: ReasonSubscriptionRequired, RequiredTier: TierPremium}
		}
		return allow()
	})
}

// Message renders a denial for display.
func Message(d Decision) string {
	switch d.Reason {
	case "":
		return ""
	case ReasonVerificationRequired:
		return "This feature requires account verification. Please verify your account to continue."
	case ReasonSubscriptionRequired:
		tier := "Professional"
		if d.RequiredTier == TierPremium {
			tier = "Premium"
		}
		return "This feature requires a " + tier + " subscription. Upgrade to unlock."
	default:
		return "Access denied"
	}
}
