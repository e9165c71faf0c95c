package server

import (
	"io"
	"net/http"

	"github.com/lexora/lexora-server/ai"
	apperrors "github.com/lexora/lexora-server/internal/errors"
)

const (
	documentField    = "document"
	maxDocumentBytes = 10 << 20
)

type summaryResponse struct {
	Summary string `json:"summary"`
}

// SummarizeDocumentHandler reads a multipart "document" upload and returns
// its summary. The upload is never written to disk.
func (s *Server) SummarizeDocumentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBytes+(1<<20))
		if err := r.ParseMultipartForm(maxDocumentBytes); err != nil {
			writeError(w, apperrors.Validation("No document uploaded or file too large"))
			return
		}
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()

		file, header, err := r.FormFile(documentField)
		if err != nil {
			writeError(w, apperrors.Validation("No document uploaded"))
			return
		}
		defer file.Close()

		if header.Size > maxDocumentBytes {
			writeError(w, apperrors.Validation("File too large. Maximum size is 10MB."))
			return
		}
		docType, err := ai.DocumentTypeFromName(header.Filename)
		if err != nil {
			writeError(w, err)
			return
		}
		data, err := io.ReadAll(io.LimitReader(file, maxDocumentBytes+1))
		if err != nil {
			writeError(w, apperrors.Validation("Failed to read document"))
			return
		}

		summary, err := s.ai.SummarizeDocument(r.Context(), docType, data)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summaryResponse{Summary: summary})
	}
}

type contractRequest struct {
	Text string `json:"text"`
}

type analysisResponse struct {
	Analysis string `json:"analysis"`
}

func (s *Server) AnalyzeContractHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contractRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		analysis, err := s.ai.AnalyzeContract(r.Context(), req.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, analysisResponse{Analysis: analysis})
	}
}

type documentChatRequest struct {
	Message      string `json:"message"`
	DocumentText string `json:"documentText"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (s *Server) DocumentChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req documentChatRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		response, err := s.ai.DocumentChat(r.Context(), req.Message, req.DocumentText)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, chatResponse{Response: response})
	}
}

type chatbotRequest struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

// ChatbotHandler is public.
func (s *Server) ChatbotHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatbotRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		response, err := s.ai.Chat(r.Context(), req.Message, req.Context)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, chatResponse{Response: response})
	}
}
