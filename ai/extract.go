package ai

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	apperrors "github.com/lexora/lexora-server/internal/errors"
)

// DocumentType is the declared format of an uploaded document.
type DocumentType string

const (
	DocumentPDF  DocumentType = "pdf"
	DocumentDOCX DocumentType = "docx"
	DocumentTXT  DocumentType = "txt"
)

const (
	// MaxPromptChars bounds the document text forwarded to the model.
	MaxPromptChars = 8000

	minDocumentChars = 10
)

var (
	errUnsupportedType = apperrors.Validation("Invalid file type. Only PDF, DOCX, and TXT files are allowed.")
	errTooShort        = apperrors.Validation("Document appears to be empty or too short to analyze.")
	errImageOnlyPDF    = apperrors.Validation("PDF appears to be empty or contains only images. Please use a text-based PDF.")
)

// DocumentTypeFromName maps a file name's extension onto a DocumentType.
func DocumentTypeFromName(name string) (DocumentType, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".pdf":
		return DocumentPDF, nil
	case ".docx":
		return DocumentDOCX, nil
	case ".txt":
		return DocumentTXT, nil
	}
	return "", errUnsupportedType
}

// ExtractText returns the plain text of data. Documents with fewer than ten
// characters of text are rejected.
func ExtractText(docType DocumentType, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch docType {
	case DocumentPDF:
		text, err = extractPDF(data)
	case DocumentDOCX:
		text, err = extractDOCX(data)
	case DocumentTXT:
		text = strings.ToValidUTF8(string(data), "�")
	default:
		return "", errUnsupportedType
	}
	if err != nil {
		return "", err
	}

	if len([]rune(strings.TrimSpace(text))) < minDocumentChars {
		return "", errTooShort
	}
	return text, nil
}

func extractPDF(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.Validation(fmt.Sprintf("Failed to read PDF: %v. Try converting to TXT or DOCX format.", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperrors.Validation(fmt.Sprintf("Failed to read PDF: %v. Try converting to TXT or DOCX format.", err))
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", apperrors.Validation(fmt.Sprintf("Failed to read PDF: %v. Try converting to TXT or DOCX format.", err))
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("[ai extractPDF] read text: %w", err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return "", errImageOnlyPDF
	}
	return string(raw), nil
}

// extractDOCX reads the text runs of word/document.xml, one line per paragraph.
func extractDOCX(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperrors.Validation("Failed to read DOCX: not a valid Word document")
	}

	var document *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			document = f
			break
		}
	}
	if document == nil {
		return "", apperrors.Validation("Failed to read DOCX: word/document.xml is missing")
	}

	rc, err := document.Open()
	if err != nil {
		return "", fmt.Errorf("[ai extractDOCX] open document.xml: %w", err)
	}
	defer rc.Close()

	var (
		out    strings.Builder
		inText bool
	)
	decoder := xml.NewDecoder(rc)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", apperrors.Validation("Failed to read DOCX: malformed document.xml")
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				out.WriteByte('\t')
			case "br", "cr":
				out.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		}
	}
	return out.String(), nil
}

// Truncate cuts text to at most MaxPromptChars characters.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxPromptChars {
		return text
	}
	return string(runes[:MaxPromptChars])
}
