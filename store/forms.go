package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lexora/lexora-server/forms"
	apperrors "github.com/lexora/lexora-server/internal/errors"
	"gorm.io/gorm"
)

// FormStore implements forms.Repo.
type FormStore struct {
	db *gorm.DB
}

var _ forms.Repo = (*FormStore)(nil)

func toFormModel(f *forms.Form) *formModel {
	return &formModel{
		ID:              f.ID,
		Title:           f.Title,
		Slug:            f.Slug,
		Description:     f.Description,
		CategoryID:      f.CategoryID,
		PracticeArea:    f.PracticeArea,
		FileURL:         f.FileURL,
		Price:           f.Price,
		IsFree:          f.IsFree,
		CreatedBy:       f.CreatedBy,
		CreatedByType:   f.CreatedByType,
		Status:          string(f.Status),
		ApprovedBy:      f.ApprovedBy,
		RejectionReason: f.RejectionReason,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

func (r *formRow) toForm() forms.Form {
	return forms.Form{
		ID:              r.ID,
		Title:           r.Title,
		Slug:            r.Slug,
		Description:     r.Description,
		CategoryID:      r.CategoryID,
		CategoryName:    r.CategoryName,
		PracticeArea:    r.PracticeArea,
		FileURL:         r.FileURL,
		Price:           r.Price,
		IsFree:          r.IsFree,
		CreatedBy:       r.CreatedBy,
		CreatedByType:   r.CreatedByType,
		Status:          forms.Status(r.Status),
		ApprovedBy:      r.ApprovedBy,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func (s *FormStore) ListCategories(ctx context.Context) ([]forms.Category, error) {
	var models []categoryModel
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("[FormStore ListCategories] %w", err)
	}

	categories := make([]forms.Category, 0, len(models))
	for _, m := range models {
		categories = append(categories, forms.Category{
			ID:           m.ID,
			Name:         m.Name,
			DisplayOrder: m.DisplayOrder,
			IsActive:     m.IsActive,
		})
	}
	return categories, nil
}

func applyFilter(q *gorm.DB, filter forms.Filter) *gorm.DB {
	if filter.Status != "" {
		q = q.Where("legal_forms.status = ?", string(filter.Status))
	}
	if filter.CategoryID != nil {
		q = q.Where("legal_forms.category_id = ?", *filter.CategoryID)
	}
	if filter.PracticeArea != "" {
		q = q.Where("legal_forms.practice_area = ?", filter.PracticeArea)
	}
	if filter.IsFree != nil {
		q = q.Where("legal_forms.is_free = ?", *filter.IsFree)
	}
	if filter.CreatedBy != "" {
		q = q.Where("legal_forms.created_by = ?", filter.CreatedBy)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		q = q.Where("(LOWER(legal_forms.title) LIKE ? ESCAPE '!' OR LOWER(legal_forms.description) LIKE ? ESCAPE '!')", like, like)
	}
	return q
}

// likeEscaper makes search text match literally. '!' is the escape character
// because backslash handling differs between sqlite, postgres and mysql.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func (s *FormStore) withCategory(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&formModel{}).
		Select("legal_forms.*, form_categories.name AS category_name").
		Joins("LEFT JOIN form_categories ON form_categories.id = legal_forms.category_id")
}

func (s *FormStore) List(ctx context.Context, filter forms.Filter, page forms.Page) ([]forms.Form, error) {
	var rows []formRow
	err := applyFilter(s.withCategory(ctx), filter).
		Order("legal_forms.created_at DESC, legal_forms.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("[FormStore List] %w", err)
	}

	formList := make([]forms.Form, 0, len(rows))
	for i := range rows {
		formList = append(formList, rows[i].toForm())
	}
	return formList, nil
}

func (s *FormStore) Count(ctx context.Context, filter forms.Filter) (int64, error) {
	var total int64
	err := applyFilter(s.db.WithContext(ctx).Model(&formModel{}), filter).Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("[FormStore Count] %w", err)
	}
	return total, nil
}

func (s *FormStore) Get(ctx context.Context, id int64) (*forms.Form, error) {
	var row formRow
	err := s.withCategory(ctx).Where("legal_forms.id = ?", id).Take(&row).Error
	if isNotFound(err) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[FormStore Get] form %d: %w", id, err)
	}
	form := row.toForm()
	return &form, nil
}

func (s *FormStore) Create(ctx context.Context, form *forms.Form) error {
	m := toFormModel(form)
	err := s.db.WithContext(ctx).Create(m).Error
	if isDuplicate(err) {
		return apperrors.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("[FormStore Create] %w", err)
	}
	form.ID = m.ID
	return nil
}

func (s *FormStore) Save(ctx context.Context, form *forms.Form) error {
	result := s.db.WithContext(ctx).
		Model(&formModel{}).
		Where("id = ?", form.ID).
		Select("title", "description", "category_id", "practice_area", "file_url", "price", "is_free",
			"status", "approved_by", "rejection_reason", "updated_at").
		Updates(toFormModel(form))
	if result.Error != nil {
		return fmt.Errorf("[FormStore Save] form %d: %w", form.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *FormStore) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("form_id = ?", id).Delete(&downloadModel{}).Error; err != nil {
			return fmt.Errorf("[FormStore Delete] downloads of form %d: %w", id, err)
		}
		result := tx.Delete(&formModel{}, id)
		if result.Error != nil {
			return fmt.Errorf("[FormStore Delete] form %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

func (s *FormStore) RecordDownload(ctx context.Context, userID string, formID int64) error {
	err := s.db.WithContext(ctx).Create(&downloadModel{
		UserID:    userID,
		FormID:    formID,
		CreatedAt: time.Now(),
	}).Error
	if err != nil {
		return fmt.Errorf("[FormStore RecordDownload] %w", err)
	}
	return nil
}

func (s *FormStore) CountDownloads(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&downloadModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("[FormStore CountDownloads] %w", err)
	}
	return total, nil
}

// AddCategory stores an extra form category.
func (s *FormStore) AddCategory(ctx context.Context, category *forms.Category) error {
	m := categoryModel{Name: category.Name, DisplayOrder: category.DisplayOrder, IsActive: category.IsActive}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("[FormStore AddCategory] %w", err)
	}
	category.ID = m.ID
	return nil
}
