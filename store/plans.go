package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lexora/lexora-server/access"
	apperrors "github.com/lexora/lexora-server/internal/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlanStore implements access.PlanRepo and the subscription maintenance commands.
type PlanStore struct {
	db *gorm.DB
}

var _ access.PlanRepo = (*PlanStore)(nil)

// PlanRecord is one lawyer's stored plan as reported by an audit.
type PlanRecord struct {
	Email               string
	Name                string
	Plan                *access.LawyerPlan
	RawRestrictions     string
	InvalidRestrictions bool // RawRestrictions is not a JSON object
}

func parseRestrictions(raw string) (map[string]bool, error) {
	restrictions := map[string]bool{}
	if raw == "" {
		return restrictions, nil
	}
	if err := json.Unmarshal([]byte(raw), &restrictions); err != nil {
		return nil, err
	}
	return restrictions, nil
}

func (m *lawyerModel) toPlan(restrictions map[string]bool) *access.LawyerPlan {
	return &access.LawyerPlan{
		UserID:             m.UserID,
		SubscriptionTier:   m.SubscriptionTier,
		SubscriptionStatus: m.SubscriptionStatus,
		IsVerified:         m.IsVerified,
		PlanRestrictions:   restrictions,
	}
}

// GetPlan fails on unreadable restrictions rather than granting access.
func (s *PlanStore) GetPlan(ctx context.Context, userID string) (*access.LawyerPlan, error) {
	var m lawyerModel
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&m).Error
	if isNotFound(err) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[PlanStore GetPlan] %s: %w", userID, err)
	}

	restrictions, err := parseRestrictions(m.PlanRestrictions)
	if err != nil {
		return nil, fmt.Errorf("[PlanStore GetPlan] %s restrictions: %w", userID, err)
	}
	return m.toPlan(restrictions), nil
}

// SavePlan inserts or replaces a lawyer plan.
func (s *PlanStore) SavePlan(ctx context.Context, plan *access.LawyerPlan) error {
	raw, err := json.Marshal(plan.PlanRestrictions)
	if err != nil {
		return fmt.Errorf("[PlanStore SavePlan] encode restrictions: %w", err)
	}
	if plan.PlanRestrictions == nil {
		raw = []byte("{}")
	}

	m := lawyerModel{
		UserID:             plan.UserID,
		SubscriptionTier:   plan.SubscriptionTier,
		SubscriptionStatus: plan.SubscriptionStatus,
		IsVerified:         plan.IsVerified,
		PlanRestrictions:   string(raw),
		UpdatedAt:          time.Now(),
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, UpdateAll: true}).
		Create(&m).Error
	if err != nil {
		return fmt.Errorf("[PlanStore SavePlan] %s: %w", plan.UserID, err)
	}
	return nil
}

// ListPlans returns every lawyer plan with the owner's email and name.
func (s *PlanStore) ListPlans(ctx context.Context) ([]PlanRecord, error) {
	type planRow struct {
		lawyerModel
		Email string
		Name  string
	}

	var rows []planRow
	err := s.db.WithContext(ctx).
		Model(&lawyerModel{}).
		Select("lawyers.*, users.email AS email, users.name AS name").
		Joins("LEFT JOIN users ON users.id = lawyers.user_id").
		Order("lawyers.user_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("[PlanStore ListPlans] %w", err)
	}

	records := make([]PlanRecord, 0, len(rows))
	for i := range rows {
		restrictions, err := parseRestrictions(rows[i].PlanRestrictions)
		records = append(records, PlanRecord{
			Email:               rows[i].Email,
			Name:                rows[i].Name,
			Plan:                rows[i].toPlan(restrictions),
			RawRestrictions:     rows[i].PlanRestrictions,
			InvalidRestrictions: err != nil,
		})
	}
	return records, nil
}

// GrantAll lifts every plan restriction and marks every lawyer verified.
// It returns the number of lawyer rows changed.
func (s *PlanStore) GrantAll(ctx context.Context) (int64, error) {
	restrictions := make(map[string]bool, len(access.AllFeatures()))
	for _, feature := range access.AllFeatures() {
		restrictions[string(feature)] = true
	}
	raw, err := json.Marshal(restrictions)
	if err != nil {
		return 0, fmt.Errorf("[PlanStore GrantAll] encode restrictions: %w", err)
	}

	result := s.db.WithContext(ctx).
		Model(&lawyerModel{}).
		Where("1 = 1").
		Updates(map[string]any{
			"plan_restrictions":   string(raw),
			"is_verified":         true,
			"verification_status": "approved",
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("[PlanStore GrantAll] %w", result.Error)
	}
	return result.RowsAffected, nil
}
