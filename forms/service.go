package forms

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/lexora/lexora-server/internal/errors"
	"github.com/lexora/lexora-server/users"
	"github.com/rs/zerolog/log"
)

// Service implements the marketplace rules on top of a Repo.
type Service struct {
	repo    Repo
	files   FileStore
	nowTime func() time.Time
}

func NewService(repo Repo, files FileStore) *Service {
	return &Service{repo: repo, files: files, nowTime: time.Now}
}

// Download is a resolved form file ready to stream.
type Download struct {
	Path     string
	FileName string
}

func accessDenied() error {
	return apperrors.Authorization("ACCESS_DENIED", "Access denied")
}

// Categories never fails; storage errors degrade to DefaultCategories.
func (s *Service) Categories(ctx context.Context) []Category {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("[forms Categories] serving default categories")
		return DefaultCategories()
	}
	return categories
}

func (s *Service) list(ctx context.Context, filter Filter, page Page, degradedMessage string) *ListResult {
	total, err := s.repo.Count(ctx, filter)
	if err == nil {
		var forms []Form
		forms, err = s.repo.List(ctx, filter, page)
		if err == nil {
			return &ListResult{Forms: forms, Pagination: NewPagination(page, total)}
		}
	}

	log.Warn().Err(err).Msg("[forms list] serving empty page")
	return &ListResult{
		Forms:      []Form{},
		Pagination: NewPagination(page, 0),
		Error:      degradedMessage,
	}
}

// ListPublic lists approved forms, newest first.
func (s *Service) ListPublic(ctx context.Context, filter Filter, page Page) *ListResult {
	filter.Status = StatusApproved
	filter.CreatedBy = ""
	return s.list(ctx, filter, page, "Database connection issue - please try again later")
}

// ListMine lists the actor's own forms in any status.
func (s *Service) ListMine(ctx context.Context, actor Actor, page Page) *ListResult {
	return s.list(ctx, Filter{CreatedBy: actor.ID}, page, "Unable to fetch forms")
}

// ListAll lists forms in the given status, or every status when empty.
func (s *Service) ListAll(ctx context.Context, status Status, page Page) *ListResult {
	return s.list(ctx, Filter{Status: status}, page, "Unable to fetch forms at the moment")
}

func (s *Service) Get(ctx context.Context, id int64) (*Form, error) {
	form, err := s.repo.Get(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NotFound("Form not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch form", err)
	}
	return form, nil
}

// Create stores a submission. Admin submissions are approved immediately.
func (s *Service) Create(ctx context.Context, actor Actor, input CreateInput) (*Form, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" || input.CategoryID == 0 {
		return nil, apperrors.Validation("Title and category are required")
	}
	if input.Price < 0 {
		return nil, apperrors.Validation("Price cannot be negative")
	}

	now := s.nowTime()
	form := &Form{
		Title:         input.Title,
		Slug:          UniqueSlug(input.Title, now),
		Description:   input.Description,
		CategoryID:    input.CategoryID,
		PracticeArea:  input.PracticeArea,
		FileURL:       input.FileURL,
		Price:         input.Price,
		IsFree:        input.IsFree,
		CreatedBy:     actor.ID,
		CreatedByType: CreatorAdmin,
		Status:        StatusApproved,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if form.PracticeArea == "" {
		form.PracticeArea = DefaultPracticeArea
	}
	if form.IsFree {
		form.Price = 0
	}
	if actor.Role == users.RoleLawyer {
		form.CreatedByType = CreatorLawyer
	}
	if !actor.IsAdmin() {
		form.Status = StatusPending
	}

	if err := s.repo.Create(ctx, form); err != nil {
		return nil, apperrors.Internal("Failed to create form", err)
	}
	return form, nil
}

// ownedForm loads a form the actor may change: their own, or any for admins.
func (s *Service) ownedForm(ctx context.Context, actor Actor, id int64) (*Form, error) {
	form, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if form.CreatedBy != actor.ID && !actor.IsAdmin() {
		return nil, accessDenied()
	}
	return form, nil
}

// Update applies a partial update. Any non-admin edit sends the form back
// to moderation.
func (s *Service) Update(ctx context.Context, actor Actor, id int64, update Update) (*Form, error) {
	form, err := s.ownedForm(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, apperrors.Validation("Title cannot be empty")
		}
		form.Title = title
	}
	if update.Description != nil {
		form.Description = *update.Description
	}
	if update.CategoryID != nil {
		if *update.CategoryID == 0 {
			return nil, apperrors.Validation("Category cannot be empty")
		}
		form.CategoryID = *update.CategoryID
	}
	if update.PracticeArea != nil {
		form.PracticeArea = *update.PracticeArea
		if form.PracticeArea == "" {
			form.PracticeArea = DefaultPracticeArea
		}
	}
	if update.Price != nil {
		if *update.Price < 0 {
			return nil, apperrors.Validation("Price cannot be negative")
		}
		form.Price = *update.Price
	}
	if update.IsFree != nil {
		form.IsFree = *update.IsFree
	}
	if form.IsFree {
		form.Price = 0
	}

	previousFile := form.FileURL
	if update.FileURL != nil {
		form.FileURL = *update.FileURL
	}

	form.Status = StatusPending
	if actor.IsAdmin() {
		form.Status = StatusApproved
	}
	form.UpdatedAt = s.nowTime()

	if err := s.repo.Save(ctx, form); err != nil {
		return nil, apperrors.Internal("Failed to update form", err)
	}
	if previousFile != "" && previousFile != form.FileURL {
		s.removeFile(previousFile)
	}
	return form, nil
}

func (s *Service) Delete(ctx context.Context, actor Actor, id int64) error {
	form, err := s.ownedForm(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Internal("Failed to delete form", err)
	}
	if form.FileURL != "" {
		s.removeFile(form.FileURL)
	}
	return nil
}

func (s *Service) removeFile(fileURL string) {
	if s.files == nil {
		return
	}
	if err := s.files.Remove(fileURL); err != nil {
		log.Warn().Err(err).Str("file_url", fileURL).Msg("[forms removeFile] failed to remove form file")
	}
}

func (s *Service) Approve(ctx context.Context, admin Actor, id int64) (*Form, error) {
	form, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	form.Status = StatusApproved
	form.ApprovedBy = admin.ID
	form.RejectionReason = ""
	form.UpdatedAt = s.nowTime()

	if err := s.repo.Save(ctx, form); err != nil {
		return nil, apperrors.Internal("Failed to approve form", err)
	}
	return form, nil
}

func (s *Service) Reject(ctx context.Context, admin Actor, id int64, reason string) (*Form, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.Validation("Rejection reason is required")
	}
	form, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	form.Status = StatusRejected
	form.ApprovedBy = admin.ID
	form.RejectionReason = reason
	form.UpdatedAt = s.nowTime()

	if err := s.repo.Save(ctx, form); err != nil {
		return nil, apperrors.Internal("Failed to reject form", err)
	}
	return form, nil
}

// Download resolves the file of an approved form, or of the actor's own form
// in any status. actor is nil for anonymous callers. Authenticated downloads
// are recorded.
func (s *Service) Download(ctx context.Context, actor *Actor, id int64) (*Download, error) {
	form, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ownForm := actor != nil && actor.ID == form.CreatedBy
	if form.Status != StatusApproved && !ownForm {
		return nil, apperrors.NotFound("Form not found")
	}
	if form.FileURL == "" {
		return nil, apperrors.NotFound("No file available for this form")
	}
	if s.files == nil {
		return nil, apperrors.NotFound("File not found on server")
	}
	localPath, err := s.files.Resolve(form.FileURL)
	if err != nil {
		return nil, apperrors.NotFound("File not found on server")
	}

	if actor != nil {
		if err := s.repo.RecordDownload(ctx, actor.ID, form.ID); err != nil {
			log.Warn().Err(err).Int64("form_id", form.ID).Msg("[forms Download] failed to record download")
		}
	}
	return &Download{Path: localPath, FileName: DownloadFileName(form.Title, localPath)}, nil
}

// Stats never fails; each count degrades to zero on its own.
func (s *Service) Stats(ctx context.Context) Stats {
	count := func(name string, fn func() (int64, error)) int64 {
		n, err := fn()
		if err != nil {
			log.Warn().Err(err).Str("count", name).Msg("[forms Stats] count degraded to zero")
			return 0
		}
		return n
	}

	return Stats{
		TotalForms: count("total", func() (int64, error) {
			return s.repo.Count(ctx, Filter{})
		}),
		ApprovedForms: count("approved", func() (int64, error) {
			return s.repo.Count(ctx, Filter{Status: StatusApproved})
		}),
		PendingForms: count("pending", func() (int64, error) {
			return s.repo.Count(ctx, Filter{Status: StatusPending})
		}),
		TotalDownloads: count("downloads", func() (int64, error) {
			return s.repo.CountDownloads(ctx)
		}),
	}
}
