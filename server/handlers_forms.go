package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/lexora/lexora-server/auth"
	"github.com/lexora/lexora-server/forms"
	apperrors "github.com/lexora/lexora-server/internal/errors"
	"github.com/lexora/lexora-server/internal/utils"
	"github.com/rs/zerolog/log"
)

const formFileField = "file"

func actorFrom(identity *auth.Identity) forms.Actor {
	return forms.Actor{ID: identity.ID, Role: identity.Role}
}

// requestActor must only be used behind RequireAuth.
func requestActor(r *http.Request) forms.Actor {
	identity, _ := IdentityFromContext(r.Context())
	return actorFrom(identity)
}

func pageFromQuery(r *http.Request) forms.Page {
	return forms.ParsePage(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))
}

// formPayload is the JSON or multipart body of a create or update. Multipart
// values arrive as strings, so every field is kept as text until applied.
type formPayload struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	CategoryID   *string `json:"category_id"`
	PracticeArea *string `json:"practice_area"`
	Price        *string `json:"price"`
	IsFree       *string `json:"is_free"`
	FileURL      *string `json:"-"`
}

// UnmarshalJSON accepts numbers and booleans as well as strings.
func (p *formPayload) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	text := func(key string) *string {
		value, ok := raw[key]
		if !ok || string(value) == "null" {
			return nil
		}
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			return &s
		}
		return utils.Ptr(string(value))
	}
	p.Title = text("title")
	p.Description = text("description")
	p.CategoryID = text("category_id")
	p.PracticeArea = text("practice_area")
	p.Price = text("price")
	p.IsFree = text("is_free")
	return nil
}

func (p formPayload) toUpdate() (forms.Update, error) {
	update := forms.Update{
		Title:        p.Title,
		Description:  p.Description,
		PracticeArea: p.PracticeArea,
		FileURL:      p.FileURL,
	}
	if p.CategoryID != nil {
		id, err := strconv.ParseInt(strings.TrimSpace(*p.CategoryID), 10, 64)
		if err != nil {
			return forms.Update{}, apperrors.Validation("Invalid category")
		}
		update.CategoryID = &id
	}
	if p.Price != nil && strings.TrimSpace(*p.Price) != "" {
		price, err := strconv.ParseFloat(strings.TrimSpace(*p.Price), 64)
		if err != nil {
			return forms.Update{}, apperrors.Validation("Invalid price")
		}
		update.Price = &price
	}
	if p.IsFree != nil {
		isFree := parseBool(*p.IsFree)
		update.IsFree = &isFree
	}
	return update, nil
}

func (p formPayload) toCreateInput() (forms.CreateInput, error) {
	update, err := p.toUpdate()
	if err != nil {
		return forms.CreateInput{}, err
	}
	return forms.CreateInput{
		Title:        utils.Value(update.Title),
		Description:  utils.Value(update.Description),
		CategoryID:   utils.Value(update.CategoryID),
		PracticeArea: utils.Value(update.PracticeArea),
		Price:        utils.Value(update.Price),
		IsFree:       utils.Value(update.IsFree),
		FileURL:      utils.Value(update.FileURL),
	}, nil
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

// readFormPayload reads a JSON or multipart body. A multipart file part is
// stored and its URL placed in the payload.
func (s *Server) readFormPayload(w http.ResponseWriter, r *http.Request) (formPayload, error) {
	var payload formPayload

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := decodeJSON(w, r, &payload); err != nil {
			return payload, err
		}
		return payload, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.GetMaxUploadBytes())
	if err := r.ParseMultipartForm(s.config.GetMaxUploadBytes()); err != nil {
		return payload, apperrors.Validation("Invalid upload or file too large")
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	field := func(name string) *string {
		if values, ok := r.MultipartForm.Value[name]; ok && len(values) > 0 {
			return utils.Ptr(values[0])
		}
		return nil
	}
	payload.Title = field("title")
	payload.Description = field("description")
	payload.CategoryID = field("category_id")
	payload.PracticeArea = field("practice_area")
	payload.Price = field("price")
	payload.IsFree = field("is_free")

	file, header, err := r.FormFile(formFileField)
	if err == http.ErrMissingFile {
		return payload, nil
	}
	if err != nil {
		return payload, apperrors.Validation("Invalid file upload")
	}
	defer file.Close()

	if s.files == nil {
		return payload, apperrors.Internal("File uploads are not available", apperrors.ErrNotConfigured)
	}
	fileURL, err := s.files.Save(header.Filename, file)
	if err != nil {
		return payload, apperrors.Internal("Failed to store file", err)
	}
	payload.FileURL = &fileURL
	return payload, nil
}

// discardUpload removes a stored file whose form was never saved.
func (s *Server) discardUpload(payload formPayload) {
	if payload.FileURL == nil || s.files == nil {
		return
	}
	if err := s.files.Remove(*payload.FileURL); err != nil {
		log.Warn().Err(err).Str("file_url", *payload.FileURL).Msg("[discardUpload] failed to remove orphaned upload")
	}
}

func (s *Server) FormCategoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.forms.Categories(r.Context()))
	}
}

// ListFormsHandler lists approved forms.
func (s *Server) ListFormsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter := forms.Filter{
			PracticeArea: query.Get("practice_area"),
			Search:       strings.TrimSpace(query.Get("search")),
		}
		if category := query.Get("category"); category != "" {
			if id, err := strconv.ParseInt(category, 10, 64); err == nil {
				filter.CategoryID = &id
			}
		}
		if isFree := query.Get("is_free"); isFree != "" {
			filter.IsFree = utils.Ptr(parseBool(isFree))
		}

		writeJSON(w, http.StatusOK, s.forms.ListPublic(r.Context(), filter, pageFromQuery(r)))
	}
}

func (s *Server) GetFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		form, err := s.forms.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, form)
	}
}

// DownloadFormHandler streams the form file as an attachment.
func (s *Server) DownloadFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}

		var actor *forms.Actor
		if identity, ok := IdentityFromContext(r.Context()); ok {
			actor = utils.Ptr(actorFrom(identity))
		}

		download, err := s.forms.Download(r.Context(), actor, id)
		if err != nil {
			writeError(w, err)
			return
		}

		s.metrics.FormDownloaded()
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": download.FileName}))
		http.ServeFile(w, r, download.Path)
	}
}

type createFormResponse struct {
	Message string `json:"message"`
	FormID  int64  `json:"formId"`
}

func (s *Server) CreateFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := s.readFormPayload(w, r)
		if err != nil {
			writeError(w, err)
			return
		}
		input, err := payload.toCreateInput()
		if err != nil {
			s.discardUpload(payload)
			writeError(w, err)
			return
		}

		form, err := s.forms.Create(r.Context(), requestActor(r), input)
		if err != nil {
			s.discardUpload(payload)
			writeError(w, err)
			return
		}

		s.metrics.FormCreated()
		writeJSON(w, http.StatusCreated, createFormResponse{Message: "Form created successfully", FormID: form.ID})
	}
}

func (s *Server) MyFormsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.forms.ListMine(r.Context(), requestActor(r), pageFromQuery(r)))
	}
}

func (s *Server) UpdateFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		payload, err := s.readFormPayload(w, r)
		if err != nil {
			writeError(w, err)
			return
		}
		update, err := payload.toUpdate()
		if err != nil {
			s.discardUpload(payload)
			writeError(w, err)
			return
		}

		if _, err := s.forms.Update(r.Context(), requestActor(r), id, update); err != nil {
			s.discardUpload(payload)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Form updated successfully"})
	}
}

func (s *Server) DeleteFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.forms.Delete(r.Context(), requestActor(r), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Form deleted successfully"})
	}
}

// AdminListFormsHandler lists forms in any status.
func (s *Server) AdminListFormsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, ok := forms.ParseStatus(r.URL.Query().Get("status"))
		if !ok {
			writeError(w, apperrors.Validation("Invalid status"))
			return
		}
		writeJSON(w, http.StatusOK, s.forms.ListAll(r.Context(), status, pageFromQuery(r)))
	}
}

func (s *Server) FormStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.forms.Stats(r.Context()))
	}
}

func (s *Server) ApproveFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if _, err := s.forms.Approve(r.Context(), requestActor(r), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Form approved successfully"})
	}
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) RejectFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var req rejectRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		if _, err := s.forms.Reject(r.Context(), requestActor(r), id, req.Reason); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Form rejected successfully"})
	}
}
